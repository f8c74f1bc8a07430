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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theSinner/mfe-sentry/stacktrace"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected category
	}{
		{
			name: "error event wrapper",
			value: map[string]interface{}{
				"message": "Script error.",
				"error":   map[string]interface{}{"name": "TypeError", "message": "boom"},
			},
			expected: categoryErrorEvent,
		},
		{
			name: "wrapper without real error",
			value: map[string]interface{}{
				"message": "Script error.",
				"error":   map[string]interface{}{},
			},
			expected: categoryObject,
		},
		{
			name:     "dom error",
			value:    map[string]interface{}{"name": "DOMError", "message": "bad"},
			expected: categoryDOMError,
		},
		{
			name:     "dom exception by name",
			value:    map[string]interface{}{"name": "DOMException", "message": "denied"},
			expected: categoryDOMException,
		},
		{
			name:     "dom exception by code",
			value:    map[string]interface{}{"code": float64(12), "message": "denied"},
			expected: categoryDOMException,
		},
		{
			name:     "error by stack",
			value:    map[string]interface{}{"stack": "at foo (app.js:1:1)"},
			expected: categoryError,
		},
		{
			name:     "error by name and message",
			value:    map[string]interface{}{"name": "TypeError", "message": "boom"},
			expected: categoryError,
		},
		{
			name: "event shaped",
			value: map[string]interface{}{
				"type":   "click",
				"target": map[string]interface{}{},
			},
			expected: categoryEvent,
		},
		{
			name:     "plain object",
			value:    map[string]interface{}{"foo": 1, "bar": 2},
			expected: categoryObject,
		},
		{
			name:     "go error",
			value:    errors.New("boom"),
			expected: categoryError,
		},
		{
			name:     "primitive",
			value:    "boom",
			expected: categoryPrimitive,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, categorize(tc.value))
		})
	}
}

func TestEventFromErrorShaped(t *testing.T) {
	event := EventFromValue(map[string]interface{}{
		"name":    "TypeError",
		"message": "boom",
	}, Options{Parser: stacktrace.ChromeAndGecko})

	require.NotNil(t, event.Exception)
	assert.Equal(t, "TypeError", event.Exception.Type)
	assert.Equal(t, "boom", event.Exception.Value)
	assert.Nil(t, event.Exception.Stacktrace)
	assert.Nil(t, event.Mechanism)
}

func TestEventFromErrorWithStack(t *testing.T) {
	event := EventFromValue(map[string]interface{}{
		"name":    "TypeError",
		"message": "boom",
		"stack": "TypeError: boom\n" +
			"    at f (http://example.com/app.js:10:5)",
	}, Options{Parser: stacktrace.ChromeAndGecko})

	require.NotNil(t, event.Exception)
	require.Len(t, event.Exception.Stacktrace, 1)
	assert.Equal(t, "http://example.com/app.js", event.Exception.Stacktrace[0].Filename)
}

func TestEventFromErrorEventWrapper(t *testing.T) {
	event := EventFromValue(map[string]interface{}{
		"message": "Uncaught TypeError: boom",
		"error": map[string]interface{}{
			"name":    "TypeError",
			"message": "boom",
		},
	}, Options{})

	require.NotNil(t, event.Exception)
	assert.Equal(t, "TypeError", event.Exception.Type)
	assert.Equal(t, "boom", event.Exception.Value)
}

func TestEventFromWrappedMessage(t *testing.T) {
	event := EventFromValue(map[string]interface{}{
		"name": "TypeError",
		"message": map[string]interface{}{
			"error": map[string]interface{}{"message": "nested boom"},
		},
	}, Options{})

	require.NotNil(t, event.Exception)
	assert.Equal(t, "nested boom", event.Exception.Value)
}

func TestEventFromDOMException(t *testing.T) {
	event := EventFromValue(map[string]interface{}{
		"name":    "QuotaExceededError",
		"message": "The quota has been exceeded.",
		"code":    float64(22),
	}, Options{})

	assert.Equal(t, "QuotaExceededError: The quota has been exceeded.", event.Message)
	assert.Equal(t, "22", event.Tags["DOMException.code"])
	require.NotNil(t, event.Mechanism)
	assert.True(t, event.Mechanism.Synthetic)
}

func TestEventFromDOMExceptionWithStack(t *testing.T) {
	// a stack-carrying DOM exception is treated as a real throwable
	event := EventFromValue(map[string]interface{}{
		"name":    "DOMException",
		"message": "denied",
		"stack":   "at f (http://example.com/app.js:1:1)",
	}, Options{Parser: stacktrace.ChromeAndGecko})

	require.NotNil(t, event.Exception)
	assert.Equal(t, "DOMException", event.Exception.Type)
	assert.Equal(t, "denied", event.Exception.Value)
	assert.Len(t, event.Exception.Stacktrace, 1)
}

func TestEventFromDOMErrorNameOnly(t *testing.T) {
	event := EventFromValue(map[string]interface{}{"name": "DOMError"}, Options{})
	assert.Equal(t, "DOMError", event.Message)
}

func TestEventFromGoError(t *testing.T) {
	err := errors.New("boom")
	event := EventFromValue(err, Options{})

	require.NotNil(t, event.Exception)
	assert.Equal(t, "boom", event.Exception.Value)
	assert.NotEmpty(t, event.Exception.Stacktrace)
}

func TestEventFromPlainObject(t *testing.T) {
	raw := map[string]interface{}{
		"foo": map[string]interface{}{"deep": map[string]interface{}{"deeper": 1}},
		"bar": "baz",
	}
	event := EventFromValue(raw, Options{NormalizeDepth: 2})

	require.NotNil(t, event.Exception)
	assert.Equal(t, "Error", event.Exception.Type)
	assert.Equal(t, "Non-Error exception captured with keys: bar, foo", event.Exception.Value)
	require.NotNil(t, event.Mechanism)
	assert.True(t, event.Mechanism.Synthetic)

	serialized, ok := event.Extra[serializedKey].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "baz", serialized["bar"])
	assert.Equal(t, "[object]", serialized["foo"].(map[string]interface{})["deep"])
}

func TestEventFromPlainObjectRejection(t *testing.T) {
	event := EventFromValue(map[string]interface{}{"foo": 1}, Options{Rejection: true})

	require.NotNil(t, event.Exception)
	assert.Equal(t, "UnhandledRejection", event.Exception.Type)
	assert.Equal(t, "Non-Error promise rejection captured with keys: foo", event.Exception.Value)
}

func TestEventFromEventShaped(t *testing.T) {
	event := EventFromValue(map[string]interface{}{
		"type":   "error",
		"target": map[string]interface{}{"tagName": "IMG"},
	}, Options{})

	require.NotNil(t, event.Exception)
	assert.Equal(t, "error", event.Exception.Type)

	event = EventFromValue(map[string]interface{}{
		"constructor": "ProgressEvent",
		"type":        "error",
		"target":      map[string]interface{}{},
	}, Options{})
	assert.Equal(t, "ProgressEvent", event.Exception.Type)
}

func TestEventFromPrimitive(t *testing.T) {
	event := EventFromValue("boom", Options{})
	assert.Equal(t, "boom", event.Message)
	assert.Nil(t, event.Exception)
	require.NotNil(t, event.Mechanism)
	assert.True(t, event.Mechanism.Synthetic)
	assert.Nil(t, event.Stacktrace)
}

func TestEventFromPrimitiveAttachStacktrace(t *testing.T) {
	synthetic := map[string]interface{}{
		"stack": "    at capture (http://example.com/sdk.js:1:1)",
	}
	event := EventFromValue("boom", Options{
		Parser:             stacktrace.ChromeAndGecko,
		AttachStacktrace:   true,
		SyntheticException: synthetic,
	})
	assert.Equal(t, "boom", event.Message)
	require.Len(t, event.Stacktrace, 1)
	assert.Equal(t, "http://example.com/sdk.js", event.Stacktrace[0].Filename)
}

func TestEventFromRejectedPrimitive(t *testing.T) {
	tests := []struct {
		name     string
		reason   interface{}
		expected string
	}{
		{name: "string", reason: "oops", expected: "Non-Error promise rejection captured with value: oops"},
		{name: "null", reason: nil, expected: "Non-Error promise rejection captured with value: null"},
		{name: "bool", reason: true, expected: "Non-Error promise rejection captured with value: true"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			event := EventFromRejectedPrimitive(tc.reason)
			require.NotNil(t, event.Exception)
			assert.Equal(t, "UnhandledRejection", event.Exception.Type)
			assert.Equal(t, tc.expected, event.Exception.Value)
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string { return "deadline exceeded" }

func TestErrorTypeName(t *testing.T) {
	assert.Equal(t, "timeoutError", errorTypeName(timeoutError{}))
	assert.Equal(t, "timeoutError", errorTypeName(&timeoutError{}))
}
