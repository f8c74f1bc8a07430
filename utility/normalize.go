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

const (
	objectPlaceholder = "[object]"
	arrayPlaceholder  = "[array]"
)

// Normalize returns a depth-bounded copy of a decoded JSON value.
// Objects and arrays nested deeper than depth are replaced by a
// placeholder string. A depth of zero or less means unlimited.
func Normalize(val interface{}, depth int) interface{} {
	if depth <= 0 {
		return val
	}
	return normalize(val, depth)
}

func normalize(val interface{}, remaining int) interface{} {
	switch v := val.(type) {
	case map[string]interface{}:
		if remaining <= 0 {
			return objectPlaceholder
		}
		out := make(map[string]interface{}, len(v))
		for k, nested := range v {
			out[k] = normalize(nested, remaining-1)
		}
		return out
	case []interface{}:
		if remaining <= 0 {
			return arrayPlaceholder
		}
		out := make([]interface{}, len(v))
		for i, nested := range v {
			out[i] = normalize(nested, remaining-1)
		}
		return out
	default:
		return val
	}
}
