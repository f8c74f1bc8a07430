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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/beats/v7/libbeat/logp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theSinner/mfe-sentry/capture"
	"github.com/theSinner/mfe-sentry/publish"
	"github.com/theSinner/mfe-sentry/stacktrace"
)

func newTestHandler(t *testing.T, rateLimit int) (*signalHandler, *publish.Recorder) {
	t.Helper()
	recorder := &publish.Recorder{}
	hub := capture.NewHub(recorder.Report, false, 3, "http://example.com/")
	dispatcher := capture.NewDispatcher(hub, stacktrace.ChromeAndGecko, nil, "", 0)

	rl, err := newRlCache(10, rateLimit)
	require.NoError(t, err)
	return &signalHandler{
		dispatcher:   dispatcher,
		rl:           rl,
		maxEventSize: 10 * 1024,
		logger:       logp.NewLogger("handler_test"),
	}, recorder
}

func postSignal(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:4711"
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestOnErrorAccepted(t *testing.T) {
	h, recorder := newTestHandler(t, 0)
	w := postSignal(h.onError, `{
		"message": "Uncaught TypeError: x is not a function",
		"filename": "http://example.com/app.js",
		"lineno": 10,
		"colno": 5
	}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	events := recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "TypeError", events[0].Event.Exception.Type)
}

func TestOnErrorWithErrorObject(t *testing.T) {
	h, recorder := newTestHandler(t, 0)
	w := postSignal(h.onError, `{
		"filename": "http://example.com/app.js",
		"error": {
			"name": "RangeError",
			"message": "out of range",
			"stack": "    at f (http://example.com/app.js:3:7)"
		}
	}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	events := recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "RangeError", events[0].Event.Exception.Type)
	require.Len(t, events[0].Event.Exception.Stacktrace, 1)
}

func TestOnErrorRejectsInvalidPayload(t *testing.T) {
	h, recorder := newTestHandler(t, 0)

	w := postSignal(h.onError, `{invalid json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// neither message nor error present
	w = postSignal(h.onError, `{"filename": "app.js"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, recorder.Events())
}

func TestOnErrorMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.onError(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestOnErrorRateLimited(t *testing.T) {
	h, _ := newTestHandler(t, 1)

	payload := `{"message": "boom", "filename": "http://example.com/app.js"}`
	var rejected bool
	// burst is limit*3; the next request past the burst must answer 429
	for i := 0; i < burstMultiplier+1; i++ {
		if postSignal(h.onError, payload).Code == http.StatusTooManyRequests {
			rejected = true
		}
	}
	assert.True(t, rejected)
}

func TestOnRejectionAccepted(t *testing.T) {
	h, recorder := newTestHandler(t, 0)
	w := postSignal(h.onRejection, `{
		"reason": {
			"name": "TypeError",
			"message": "boom",
			"stack": "    at f (http://example.com/app.js:10:5)"
		}
	}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	events := recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "onunhandledrejection", events[0].Event.Mechanism.Type)
}

func TestOnRejectionDroppedStillAccepted(t *testing.T) {
	h, recorder := newTestHandler(t, 0)
	// a primitive reason resolves no source URL and is dropped, but the
	// response must not reveal that
	w := postSignal(h.onRejection, `{"reason": "oops"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, recorder.Events())
}

func TestOnRejectionRejectsMissingReason(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	w := postSignal(h.onRejection, `{"type": "unhandledrejection"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOnErrorPayloadTooLarge(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	h.maxEventSize = 16
	w := postSignal(h.onError, `{"message": "a very long message well past the size limit"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.0.2.1:4711"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.RemoteAddr = "192.0.2.1"
	assert.Equal(t, "192.0.2.1", clientIP(req))
}
