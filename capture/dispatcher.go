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

package capture

import (
	"context"
	"strings"
	"time"

	"github.com/elastic/beats/v7/libbeat/logp"
	"github.com/gofrs/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/theSinner/mfe-sentry/eventbuilder"
	"github.com/theSinner/mfe-sentry/filter"
	logs "github.com/theSinner/mfe-sentry/log"
	"github.com/theSinner/mfe-sentry/model"
	"github.com/theSinner/mfe-sentry/publish"
	"github.com/theSinner/mfe-sentry/stacktrace"
	"github.com/theSinner/mfe-sentry/utility"
)

const (
	// OwnRequestKey marks an error as originating from this system's own
	// outbound reporting traffic. The reporting-sink boundary sets it on
	// the errors it constructs; the dispatcher only checks for presence.
	OwnRequestKey = "__mfe_own_request__"

	mechanismOnError              = "onerror"
	mechanismOnUnhandledRejection = "onunhandledrejection"
)

// OwnRequestError marks Go errors constructed by the reporting
// transport, serving the same purpose as OwnRequestKey on decoded
// values.
type OwnRequestError interface {
	OwnRequest() bool
}

// ErrorSignal is a platform uncaught-error notification: the legacy
// onerror tuple plus the optional raw error value.
type ErrorSignal struct {
	Message  interface{}
	Filename string
	Lineno   interface{}
	Colno    interface{}
	Error    interface{}
}

// RejectionSignal is a platform unhandled-rejection notification. Some
// intermediaries re-wrap the native signal as a generic custom event
// carrying the reason under detail.
type RejectionSignal struct {
	Reason interface{}
	Detail map[string]interface{}

	// StopPropagation, when non-nil, suppresses duplicate handling by
	// other listeners. One-shot side effect, not a cancellation token.
	StopPropagation func()
}

// Dispatcher is the terminal handler for global error and rejection
// signals. Handlers run to completion on the calling goroutine, never
// block, and never propagate internal failures.
type Dispatcher struct {
	hub          *Hub
	parser       stacktrace.Parser
	urlFilter    *filter.URLFilter
	appEntryFile string
	dedupe       *gocache.Cache
	logger       *logp.Logger
}

// NewDispatcher wires the pipeline. appEntryFile, when non-empty,
// restricts rejection capture to URLs referencing the application entry
// file. dedupeTTL of zero disables duplicate suppression.
func NewDispatcher(hub *Hub, parser stacktrace.Parser, urlFilter *filter.URLFilter, appEntryFile string, dedupeTTL time.Duration) *Dispatcher {
	d := &Dispatcher{
		hub:          hub,
		parser:       parser,
		urlFilter:    urlFilter,
		appEntryFile: appEntryFile,
		logger:       logp.NewLogger(logs.Capture),
	}
	if dedupeTTL > 0 {
		d.dedupe = gocache.New(dedupeTTL, 2*dedupeTTL)
	}
	return d
}

// HandleRejection processes an unhandled-rejection signal.
func (d *Dispatcher) HandleRejection(ctx context.Context, signal RejectionSignal) {
	reason := unwrapReason(signal)
	if isOwnRequest(reason) {
		d.logger.Debug("rejection originated from own reporting traffic, already handled")
		return
	}

	var event *model.Event
	if isPrimitive(reason) {
		event = eventbuilder.EventFromRejectedPrimitive(reason)
	} else {
		event = eventbuilder.EventFromValue(reason, eventbuilder.Options{
			Parser:           d.parser,
			AttachStacktrace: d.hub.AttachStacktrace(),
			NormalizeDepth:   d.hub.NormalizeDepth(),
			Rejection:        true,
		})
	}
	event.Level = model.SeverityError

	url := sourceURL(event)
	if url == "" {
		d.logger.Debug("dropping rejection: no source url resolvable")
		return
	}
	if d.appEntryFile != "" && !strings.Contains(url, d.appEntryFile) {
		d.logger.Debugf("dropping rejection: url %q does not reference app entry file", url)
		return
	}
	if d.urlFilter != nil && d.urlFilter.Custom != nil && !d.urlFilter.Custom(event, url) {
		d.logger.Debug("dropping rejection: custom filter rejected")
		return
	}
	if signal.StopPropagation != nil {
		signal.StopPropagation()
	}

	event.StampMechanism(mechanismOnUnhandledRejection, false)
	d.forward(ctx, event, reason)
}

// HandleError processes an uncaught-error signal.
func (d *Dispatcher) HandleError(ctx context.Context, signal ErrorSignal) {
	// The pre-filter runs against the raw, not-yet-classified value.
	if isOwnRequest(signal.Error) {
		d.logger.Debug("error originated from own reporting traffic, already handled")
		return
	}
	if d.urlFilter != nil && !d.urlFilter.ShouldCapture(signal.Error, signal.Filename) {
		d.logger.Debugf("dropping error: url %q filtered", signal.Filename)
		return
	}

	var event *model.Event
	if signal.Error == nil {
		if message, ok := signal.Message.(string); ok {
			event = eventbuilder.EventFromIncompleteOnError(
				message, signal.Filename, signal.Lineno, signal.Colno,
				d.hub.DocumentLocation())
		} else {
			event = d.classifyAndEnhance(signal.Message, signal)
		}
	} else {
		event = d.classifyAndEnhance(signal.Error, signal)
	}
	event.Level = model.SeverityError
	event.StampMechanism(mechanismOnError, false)

	original := signal.Error
	if original == nil {
		original = signal.Message
	}
	d.forward(ctx, event, original)
}

func (d *Dispatcher) classifyAndEnhance(value interface{}, signal ErrorSignal) *model.Event {
	event := eventbuilder.EventFromValue(value, eventbuilder.Options{
		Parser:           d.parser,
		AttachStacktrace: d.hub.AttachStacktrace(),
		NormalizeDepth:   d.hub.NormalizeDepth(),
	})
	return eventbuilder.EnsureFirstFrame(
		event, signal.Filename, signal.Lineno, signal.Colno,
		d.hub.DocumentLocation())
}

// forward stamps identity and scope onto the event, suppresses
// duplicates within the dedupe window, and hands it to the sink. The
// original raw value rides along as hint context.
func (d *Dispatcher) forward(ctx context.Context, event *model.Event, original interface{}) {
	reporter := d.hub.Reporter()
	if reporter == nil {
		d.logger.Debug("dropping event: no reporter bound")
		return
	}
	if d.dedupe != nil {
		key := event.GroupingKey()
		if _, seen := d.dedupe.Get(key); seen {
			d.logger.Debugf("dropping event: duplicate within dedupe window (%s)", key)
			return
		}
		d.dedupe.SetDefault(key, struct{}{})
	}

	if id, err := uuid.NewV4(); err == nil {
		event.ID = id.String()
	}
	event.Timestamp = time.Now()
	d.applyScope(event)

	if err := reporter(ctx, publish.PendingEvent{
		Event: event,
		Hint:  publish.Hint{OriginalException: original},
	}); err != nil {
		d.logger.Debugf("reporter rejected event: %v", err)
	}
}

// applyScope merges the hub's user, tags and extras into the event;
// values set by the producer path win.
func (d *Dispatcher) applyScope(event *model.Event) {
	if user := d.hub.User(); len(user) > 0 && event.User == nil {
		event.User = user
	}
	for k, v := range d.hub.Tags() {
		if _, ok := event.Tags[k]; !ok {
			event.SetTag(k, v)
		}
	}
	for k, v := range d.hub.Extra() {
		if _, ok := event.Extra[k]; !ok {
			event.SetExtra(k, v)
		}
	}
}

// unwrapReason digs the rejection reason out of the known wrapper
// shapes: the reason field first, then detail.reason. Each lookup is
// independently fallible and collapses to nil.
func unwrapReason(signal RejectionSignal) interface{} {
	if signal.Reason != nil {
		return signal.Reason
	}
	if signal.Detail != nil {
		if reason, ok := signal.Detail["reason"]; ok {
			return reason
		}
	}
	return nil
}

func isOwnRequest(value interface{}) bool {
	switch v := value.(type) {
	case map[string]interface{}:
		return utility.ProbeBool(v, OwnRequestKey)
	case OwnRequestError:
		return v.OwnRequest()
	default:
		return false
	}
}

func isPrimitive(value interface{}) bool {
	switch value.(type) {
	case map[string]interface{}:
		return false
	case error:
		return false
	default:
		return true
	}
}

// sourceURL resolves the event's attributable source URL from its
// exception frames; every failure inside the lookup yields "".
func sourceURL(event *model.Event) string {
	if event == nil || event.Exception == nil {
		return ""
	}
	return event.Exception.Stacktrace.SourceURL()
}
