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
	"github.com/theSinner/mfe-sentry/utility"
)

// The input space is a closed set of categories, matched in a fixed
// priority order. There is deliberately no "else assume Error" catch-all
// beyond the final primitive fallback.
type category int

const (
	categoryErrorEvent category = iota
	categoryDOMError
	categoryDOMException
	categoryError
	categoryEvent
	categoryObject
	categoryPrimitive
)

func categorize(value interface{}) category {
	raw, ok := value.(map[string]interface{})
	if !ok {
		if _, isGoError := value.(error); isGoError {
			return categoryError
		}
		return categoryPrimitive
	}
	switch {
	case isErrorEventShaped(raw):
		return categoryErrorEvent
	case isDOMErrorShaped(raw):
		return categoryDOMError
	case isDOMExceptionShaped(raw):
		return categoryDOMException
	case isErrorShaped(raw):
		return categoryError
	case isEventShaped(raw):
		return categoryEvent
	default:
		return categoryObject
	}
}

// isErrorEventShaped reports an ErrorEvent-style wrapper carrying a
// nested real error. A wrapper without a nested error falls through to
// the later categories.
func isErrorEventShaped(raw map[string]interface{}) bool {
	nested := utility.ProbeMap(raw, "error")
	return nested != nil && isErrorShaped(nested)
}

// Constructor identities do not survive serialization, so the DOM
// variants are recognized by their wire marks: the DOMException numeric
// code, or the explicit class name.
func isDOMExceptionShaped(raw map[string]interface{}) bool {
	if utility.ProbeString(raw, "name") == "DOMException" {
		return true
	}
	_, hasName := raw["name"]
	_, hasMessage := raw["message"]
	return utility.ProbeInt(raw, "code") != nil && (hasName || hasMessage)
}

func isDOMErrorShaped(raw map[string]interface{}) bool {
	return utility.ProbeString(raw, "name") == "DOMError"
}

// isErrorShaped reports a native throwable: trace text, or both a name
// and a message.
func isErrorShaped(raw map[string]interface{}) bool {
	if utility.ProbeString(raw, "stacktrace", "stack") != "" {
		return true
	}
	return utility.ProbeString(raw, "name") != "" && hasMessage(raw)
}

func hasMessage(raw map[string]interface{}) bool {
	if utility.ProbeString(raw, "message") != "" {
		return true
	}
	return utility.ProbeMap(raw, "message") != nil
}

// isEventShaped reports a built-in event-like object: a type plus a
// dispatch target.
func isEventShaped(raw map[string]interface{}) bool {
	if utility.ProbeString(raw, "type") == "" {
		return false
	}
	for _, key := range []string{"target", "currentTarget", "detail"} {
		if _, ok := raw[key]; ok {
			return true
		}
	}
	return false
}
