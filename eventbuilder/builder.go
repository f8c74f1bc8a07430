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

// Package eventbuilder normalizes weakly typed runtime error values —
// decoded browser signals and native Go errors — into canonical model
// events.
package eventbuilder

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/theSinner/mfe-sentry/model"
	"github.com/theSinner/mfe-sentry/stacktrace"
	"github.com/theSinner/mfe-sentry/utility"
)

const serializedKey = "__serialized__"

// Options configures a single classification.
type Options struct {
	// Parser is the injected stack-parser primitive.
	Parser stacktrace.Parser

	// AttachStacktrace attaches a synthetic stacktrace to message-only
	// events when a synthetic throwable is available.
	AttachStacktrace bool

	// NormalizeDepth bounds serialization of captured plain objects;
	// zero or less means unlimited.
	NormalizeDepth int

	// Rejection marks an unhandled-rejection context, which changes the
	// fallback exception type for non-Error values.
	Rejection bool

	// SyntheticException optionally supplies a throwable generated at
	// the capture site purely for stack context.
	SyntheticException interface{}
}

// EventFromValue dispatches over the closed input categories, first
// match wins. It never fails: anything unrecognized degrades to a
// string event.
func EventFromValue(value interface{}, opts Options) *model.Event {
	switch categorize(value) {
	case categoryErrorEvent:
		raw := value.(map[string]interface{})
		return eventFromError(utility.ProbeMap(raw, "error"), opts)
	case categoryDOMError:
		return eventFromDOM(value.(map[string]interface{}), "DOMError", opts)
	case categoryDOMException:
		return eventFromDOM(value.(map[string]interface{}), "DOMException", opts)
	case categoryError:
		return eventFromError(value, opts)
	case categoryEvent, categoryObject:
		return eventFromObject(value.(map[string]interface{}), opts)
	default:
		return eventFromString(utility.Stringify(value), opts)
	}
}

// EventFromRejectedPrimitive handles a bare primitive rejection reason,
// bypassing full classification.
func EventFromRejectedPrimitive(reason interface{}) *model.Event {
	value := fmt.Sprintf("Non-Error promise rejection captured with value: %s",
		utility.Stringify(reason))
	return &model.Event{
		Exception: model.NewException("UnhandledRejection", value, nil),
		Mechanism: &model.Mechanism{Synthetic: true},
	}
}

func eventFromDOM(raw map[string]interface{}, fallbackName string, opts Options) *model.Event {
	// A DOM exception that carries its own stack is as good as a native
	// throwable.
	if utility.ProbeString(raw, "stacktrace", "stack") != "" {
		return eventFromError(raw, opts)
	}
	name := utility.ProbeString(raw, "name")
	if name == "" {
		name = fallbackName
	}
	message := utility.ProbeString(raw, "message")
	if message != "" {
		message = name + ": " + message
	} else {
		message = name
	}
	event := eventFromString(message, opts)
	if code := utility.ProbeInt(raw, "code"); code != nil {
		event.SetTag("DOMException.code", strconv.Itoa(*code))
	}
	return event
}

func eventFromError(value interface{}, opts Options) *model.Event {
	if err, ok := value.(error); ok {
		return eventFromGoError(err)
	}
	raw, ok := value.(map[string]interface{})
	if !ok {
		return eventFromString(utility.Stringify(value), opts)
	}
	// Frames are extracted before any further property access; see
	// stacktrace.FramesFromValue.
	frames := stacktrace.FramesFromValue(opts.Parser, raw)
	if len(frames) == 0 {
		frames = nil
	}
	return &model.Event{
		Exception: model.NewException(
			utility.ProbeString(raw, "name"), extractMessage(raw), frames),
	}
}

// extractMessage reads the throwable's message, honoring a known
// double-wrapping quirk where the message itself is an object carrying a
// nested error.message string.
func extractMessage(raw map[string]interface{}) string {
	if message := utility.ProbeString(raw, "message"); message != "" {
		return message
	}
	if wrapped := utility.ProbeMap(raw, "message"); wrapped != nil {
		if nested := utility.ProbeMap(wrapped, "error"); nested != nil {
			return utility.ProbeString(nested, "message")
		}
	}
	return ""
}

func eventFromGoError(err error) *model.Event {
	frames := stacktrace.FramesFromError(err)
	if len(frames) == 0 {
		frames = nil
	}
	return &model.Event{
		Exception: model.NewException(errorTypeName(err), err.Error(), frames),
	}
}

func errorTypeName(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "Error"
	}
	return t.Name()
}

func eventFromObject(raw map[string]interface{}, opts Options) *model.Event {
	var typ string
	if isEventShaped(raw) {
		// Constructor names do not survive serialization; probe an
		// explicit constructor field, then the event type.
		typ = utility.ProbeString(raw, "constructor", "type")
		if typ == "" {
			typ = "Event"
		}
	} else if opts.Rejection {
		typ = "UnhandledRejection"
	} else {
		typ = "Error"
	}

	exception := model.NewException(typ, keysMessage(raw, opts.Rejection), nil)
	if opts.SyntheticException != nil {
		if frames := stacktrace.FramesFromValue(opts.Parser, opts.SyntheticException); len(frames) > 0 {
			exception.Stacktrace = frames
		}
	}
	event := &model.Event{
		Exception: exception,
		Mechanism: &model.Mechanism{Synthetic: true},
	}
	event.SetExtra(serializedKey, utility.Normalize(raw, opts.NormalizeDepth))
	return event
}

// keysMessage enumerates the object's own keys in sorted order, so
// similar-shaped objects group together.
func keysMessage(raw map[string]interface{}, rejection bool) string {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	noun := "exception"
	if rejection {
		noun = "promise rejection"
	}
	return fmt.Sprintf("Non-Error %s captured with keys: %s", noun, strings.Join(keys, ", "))
}

func eventFromString(message string, opts Options) *model.Event {
	event := &model.Event{
		Message:   message,
		Mechanism: &model.Mechanism{Synthetic: true},
	}
	if opts.AttachStacktrace && opts.SyntheticException != nil {
		event.Stacktrace = stacktrace.FramesFromValue(opts.Parser, opts.SyntheticException)
	}
	return event
}
