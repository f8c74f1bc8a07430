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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theSinner/mfe-sentry/model"
)

func TestEventFromIncompleteOnError(t *testing.T) {
	tests := []struct {
		name     string
		message  interface{}
		typ      string
		value    string
	}{
		{
			name:    "uncaught with class",
			message: "Uncaught TypeError: x is not a function",
			typ:     "TypeError",
			value:   "x is not a function",
		},
		{
			name:    "uncaught exception prefix",
			message: "uncaught exception: ReferenceError: y is not defined",
			typ:     "ReferenceError",
			value:   "y is not defined",
		},
		{
			name:    "bare message",
			message: "Script error.",
			typ:     "Error",
			value:   "Script error.",
		},
		{
			name:    "non string message",
			message: float64(42),
			typ:     "Error",
			value:   "42",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			event := EventFromIncompleteOnError(tc.message, "http://example.com/app.js", float64(10), float64(5), "")
			require.NotNil(t, event.Exception)
			assert.Equal(t, tc.typ, event.Exception.Type)
			assert.Equal(t, tc.value, event.Exception.Value)

			require.Len(t, event.Exception.Stacktrace, 1)
			frame := event.Exception.Stacktrace[0]
			assert.Equal(t, "http://example.com/app.js", frame.Filename)
			assert.Equal(t, "?", frame.Function)
			require.NotNil(t, frame.Lineno)
			assert.Equal(t, 10, *frame.Lineno)
			require.NotNil(t, frame.Colno)
			assert.Equal(t, 5, *frame.Colno)
			assert.True(t, frame.InApp)
		})
	}
}

func TestEnsureFirstFrame(t *testing.T) {
	t.Run("creates missing structures", func(t *testing.T) {
		event := EnsureFirstFrame(&model.Event{}, "", nil, nil, "http://example.com/")
		require.NotNil(t, event.Exception)
		require.Len(t, event.Exception.Stacktrace, 1)
		frame := event.Exception.Stacktrace[0]
		// document location is the fallback when the signal has no URL
		assert.Equal(t, "http://example.com/", frame.Filename)
		assert.Nil(t, frame.Lineno)
		assert.Nil(t, frame.Colno)
	})

	t.Run("idempotent on populated stack", func(t *testing.T) {
		existing := &model.StacktraceFrame{Filename: "real.js"}
		event := &model.Event{
			Exception: model.NewException("TypeError", "boom", model.Stacktrace{existing}),
		}
		EnsureFirstFrame(event, "http://example.com/other.js", float64(1), float64(1), "")
		require.Len(t, event.Exception.Stacktrace, 1)
		assert.Same(t, existing, event.Exception.Stacktrace[0])
	})

	t.Run("url wins over document location", func(t *testing.T) {
		event := EnsureFirstFrame(&model.Event{}, "http://example.com/app.js", nil, nil, "http://example.com/")
		assert.Equal(t, "http://example.com/app.js", event.Exception.Stacktrace[0].Filename)
	})
}
