// Licensed to Elasticsearch B.V. under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Elasticsearch B.V. licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package server

import (
	"net"
	"net/http"

	"github.com/elastic/beats/v7/libbeat/logp"
	"github.com/santhosh-tekuri/jsonschema"

	"github.com/theSinner/mfe-sentry/capture"
	"github.com/theSinner/mfe-sentry/decoder"
	"github.com/theSinner/mfe-sentry/utility"
	"github.com/theSinner/mfe-sentry/validation"
)

// signalHandler binds one platform signal path to the dispatcher.
type signalHandler struct {
	dispatcher   *capture.Dispatcher
	rl           *rlCache
	maxEventSize int
	logger       *logp.Logger
}

// A filtered drop and a forwarded event both answer 202: dispatch
// outcome is deliberately not revealed to the page that produced the
// error.
func (h *signalHandler) handle(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema,
	dispatch func(raw map[string]interface{})) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if limiter := h.rl.getRateLimiter(clientIP(r)); limiter != nil && !limiter.Allow() {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	body := http.MaxBytesReader(w, r.Body, int64(h.maxEventSize))
	defer body.Close()
	raw, err := decoder.DecodeJSONData(body)
	if err != nil {
		h.logger.Debugf("rejecting signal: %v", err)
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if _, err := validation.ValidateObject(raw, schema); err != nil {
		h.logger.Debugf("rejecting signal: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dispatch(raw)
	w.WriteHeader(http.StatusAccepted)
}

func (h *signalHandler) onError(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, cachedOnErrorSchema, func(raw map[string]interface{}) {
		h.dispatcher.HandleError(r.Context(), capture.ErrorSignal{
			Message:  raw["message"],
			Filename: utility.ProbeString(raw, "filename"),
			Lineno:   raw["lineno"],
			Colno:    raw["colno"],
			Error:    raw["error"],
		})
	})
}

func (h *signalHandler) onRejection(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, cachedOnRejectionSchema, func(raw map[string]interface{}) {
		h.dispatcher.HandleRejection(r.Context(), capture.RejectionSignal{
			Reason: raw["reason"],
			Detail: utility.ProbeMap(raw, "detail"),
		})
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
