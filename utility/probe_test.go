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

package utility

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeString(t *testing.T) {
	raw := map[string]interface{}{
		"stack":   "trace",
		"message": 42,
		"empty":   "",
	}
	assert.Equal(t, "trace", ProbeString(raw, "stacktrace", "stack"))
	assert.Equal(t, "", ProbeString(raw, "message"))
	assert.Equal(t, "", ProbeString(raw, "empty"))
	assert.Equal(t, "", ProbeString(nil, "stack"))
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected *int
	}{
		{name: "json number", input: json.Number("10"), expected: intPtr(10)},
		{name: "integral float", input: float64(5), expected: intPtr(5)},
		{name: "fractional float", input: 5.5, expected: nil},
		{name: "decimal string", input: "12", expected: intPtr(12)},
		{name: "garbage string", input: "ten", expected: nil},
		{name: "nil", input: nil, expected: nil},
		{name: "bool", input: true, expected: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CoerceInt(tc.input)
			if tc.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.expected, *got)
		})
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "null", Stringify(nil))
	assert.Equal(t, "oops", Stringify("oops"))
	assert.Equal(t, "42", Stringify(json.Number("42")))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "1.5", Stringify(1.5))
}

func TestNormalizeDepthBound(t *testing.T) {
	value := map[string]interface{}{
		"a": map[string]interface{}{
			"b": map[string]interface{}{
				"c": "deep",
			},
			"l": []interface{}{1, 2},
		},
	}

	// unlimited
	assert.Equal(t, value, Normalize(value, 0))

	bounded := Normalize(value, 2).(map[string]interface{})
	a := bounded["a"].(map[string]interface{})
	assert.Equal(t, "[object]", a["b"])
	assert.Equal(t, "[array]", a["l"])

	scalar := Normalize("x", 1)
	assert.Equal(t, "x", scalar)
}

func intPtr(n int) *int { return &n }
