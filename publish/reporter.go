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

// Package publish is the boundary to the external reporting sink. How
// events are transmitted, batched or retried is the sink's concern, not
// this system's.
package publish

import (
	"context"
	"sync"

	"github.com/elastic/beats/v7/libbeat/logp"

	"github.com/theSinner/mfe-sentry/model"
)

// Hint carries the original raw value alongside the canonical event.
type Hint struct {
	OriginalException interface{}
}

// PendingEvent is one canonical event handed to the sink; ownership of
// the event transfers with the call.
type PendingEvent struct {
	Event *model.Event
	Hint  Hint
}

// Reporter forwards a canonical event to the reporting sink. It is
// fire-and-forget from the caller's perspective; implementations must
// not block.
type Reporter func(ctx context.Context, req PendingEvent) error

// NewLogReporter returns a Reporter that writes each event document to
// the log, for running the intake server without a configured sink.
func NewLogReporter(logger *logp.Logger) Reporter {
	return func(_ context.Context, req PendingEvent) error {
		logger.Infow("captured event", "event", req.Event.Fields())
		return nil
	}
}

// Recorder is a Reporter that retains forwarded events, for tests and
// local debugging.
type Recorder struct {
	mu     sync.Mutex
	events []PendingEvent
}

// Report implements Reporter.
func (r *Recorder) Report(_ context.Context, req PendingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, req)
	return nil
}

// Events returns a snapshot of everything forwarded so far.
func (r *Recorder) Events() []PendingEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PendingEvent, len(r.events))
	copy(out, r.events)
	return out
}
