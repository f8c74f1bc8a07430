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

package decoder

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigFastest

// NewJSONDecoder returns a decoder where numbers are unmarshaled as a
// json.Number instead of a float64 into an interface{}, preserving
// integer positions (lineno, colno, code) exactly.
func NewJSONDecoder(r io.Reader) *jsoniter.Decoder {
	d := json.NewDecoder(r)
	d.UseNumber()
	return d
}

// DecodeJSONData decodes a single JSON document from r into a generic
// map.
func DecodeJSONData(r io.Reader) (map[string]interface{}, error) {
	v := make(map[string]interface{})
	if err := NewJSONDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
