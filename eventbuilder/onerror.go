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

package eventbuilder

import (
	"regexp"

	"github.com/theSinner/mfe-sentry/model"
	"github.com/theSinner/mfe-sentry/utility"
)

// Matches an optional "Uncaught"/"exception:" prefix and an optional
// built-in error class name ahead of the bare message text.
var onErrorMessageRegexp = regexp.MustCompile(
	`^(?:[Uu]ncaught (?:exception: )?)?(?:((?:Eval|Internal|Range|Reference|Syntax|Type|URI|)Error): )?(.*)$`)

// EventFromIncompleteOnError builds an event from a legacy onerror
// signal that carries no error object, deriving {type, value} from the
// bare message and attaching the positional frame.
func EventFromIncompleteOnError(message interface{}, url string, line, column interface{}, documentLocation string) *model.Event {
	text := utility.Stringify(message)
	typ := "Error"
	if groups := onErrorMessageRegexp.FindStringSubmatch(text); groups != nil {
		if groups[1] != "" {
			typ = groups[1]
		}
		text = groups[2]
	}
	event := &model.Event{
		Exception: model.NewException(typ, text, nil),
	}
	return EnsureFirstFrame(event, url, line, column, documentLocation)
}

// EnsureFirstFrame backfills a single synthetic frame for events that
// carry no stack, creating every intermediate structure with empty
// defaults. It is idempotent: a non-empty frame list is left untouched.
func EnsureFirstFrame(event *model.Event, url string, line, column interface{}, documentLocation string) *model.Event {
	if event.Exception == nil {
		event.Exception = &model.Exception{}
	}
	exception := event.Exception
	if exception.Stacktrace == nil {
		exception.Stacktrace = model.Stacktrace{}
	}
	if len(exception.Stacktrace) > 0 {
		return event
	}
	filename := documentLocation
	if url != "" {
		filename = url
	}
	exception.Stacktrace = append(exception.Stacktrace, &model.StacktraceFrame{
		Filename: filename,
		Function: "?",
		Lineno:   utility.CoerceInt(line),
		Colno:    utility.CoerceInt(column),
		InApp:    true,
	})
	return event
}
