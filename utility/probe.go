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

// Package utility provides best-effort accessors over decoded JSON
// values. Lookups never fail: a missing key, a wrong type or an
// unparseable number collapses to the zero value for the accessor. The
// fallback is scoped to the single lookup, so programmer errors elsewhere
// are not swallowed.
package utility

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/elastic/beats/v7/libbeat/common"
)

// ProbeMap returns base[key] as an object, or nil.
func ProbeMap(base map[string]interface{}, key string) map[string]interface{} {
	if base == nil {
		return nil
	}
	if v, ok := base[key].(map[string]interface{}); ok {
		return v
	}
	if v, ok := base[key].(common.MapStr); ok {
		return map[string]interface{}(v)
	}
	return nil
}

// ProbeString returns base[key] if it holds a non-empty string, trying
// each key in order, or "".
func ProbeString(base map[string]interface{}, keys ...string) string {
	if base == nil {
		return ""
	}
	for _, key := range keys {
		if v, ok := base[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// ProbeInt returns base[key] coerced to an integer. Decoded JSON carries
// numbers as json.Number or float64 depending on the decoder; legacy
// onerror signals additionally report positions as decimal strings.
func ProbeInt(base map[string]interface{}, key string) *int {
	if base == nil {
		return nil
	}
	return CoerceInt(base[key])
}

// CoerceInt converts a decoded scalar to an integer, returning nil when
// the value is absent, non-numeric, or not integral.
func CoerceInt(val interface{}) *int {
	switch v := val.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			n := int(i)
			return &n
		}
	case float64:
		if v == math.Trunc(v) {
			n := int(v)
			return &n
		}
	case int:
		n := v
		return &n
	case int64:
		n := int(v)
		return &n
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return &i
		}
	}
	return nil
}

// ProbeBool reports whether base[key] holds a true boolean.
func ProbeBool(base map[string]interface{}, key string) bool {
	if base == nil {
		return false
	}
	v, ok := base[key].(bool)
	return ok && v
}

// Stringify renders an arbitrary decoded value the way a browser would
// coerce it to a string.
func Stringify(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
