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

// Package capture wires global error and rejection signals to the
// classification and filtering pipeline and forwards accepted events to
// the reporting sink.
package capture

import (
	"github.com/elastic/beats/v7/libbeat/common"

	"github.com/theSinner/mfe-sentry/publish"
)

// Hub is the process-wide reporting context, constructed once at
// application bootstrap and passed explicitly to every capture call.
// The setters are expected to be called only during bootstrap or by
// trusted application code; handlers read through the accessors and
// never mutate.
type Hub struct {
	reporter publish.Reporter

	// attachStacktrace and normalizeDepth mirror the bound client's
	// configuration.
	attachStacktrace bool
	normalizeDepth   int

	// documentLocation is the last-known app entry-point identifier,
	// used as the frame filename of last resort.
	documentLocation string

	user  common.MapStr
	tags  map[string]string
	extra common.MapStr
}

// NewHub constructs the reporting context. reporter may be nil until
// BindReporter is called; capture calls without a bound reporter drop
// silently.
func NewHub(reporter publish.Reporter, attachStacktrace bool, normalizeDepth int, documentLocation string) *Hub {
	return &Hub{
		reporter:         reporter,
		attachStacktrace: attachStacktrace,
		normalizeDepth:   normalizeDepth,
		documentLocation: documentLocation,
	}
}

// BindReporter binds the reporting sink. Bootstrap-time only.
func (h *Hub) BindReporter(reporter publish.Reporter) {
	h.reporter = reporter
}

// SetUser records the current user context. Bootstrap-time only.
func (h *Hub) SetUser(user common.MapStr) {
	h.user = user
}

// SetTag records a session-wide tag. Bootstrap-time only.
func (h *Hub) SetTag(key, value string) {
	if h.tags == nil {
		h.tags = make(map[string]string)
	}
	h.tags[key] = value
}

// SetExtra records a session-wide extra value. Bootstrap-time only.
func (h *Hub) SetExtra(key string, value interface{}) {
	if h.extra == nil {
		h.extra = common.MapStr{}
	}
	h.extra[key] = value
}

// Reporter returns the bound sink, or nil.
func (h *Hub) Reporter() publish.Reporter { return h.reporter }

// AttachStacktrace reports whether message-only events get synthetic
// stacks.
func (h *Hub) AttachStacktrace() bool { return h.attachStacktrace }

// NormalizeDepth returns the serialization depth bound; zero or less
// means unlimited.
func (h *Hub) NormalizeDepth() int { return h.normalizeDepth }

// DocumentLocation returns the last-known app entry-point identifier.
func (h *Hub) DocumentLocation() string { return h.documentLocation }

// User returns the current user context.
func (h *Hub) User() common.MapStr { return h.user }

// Tags returns the session-wide tags.
func (h *Hub) Tags() map[string]string { return h.tags }

// Extra returns the session-wide extra values.
func (h *Hub) Extra() common.MapStr { return h.extra }
