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

package model

import (
	"github.com/elastic/beats/v7/libbeat/common"
)

// UnrecoverableErrorValue replaces the value of an exception that would
// otherwise carry neither a type nor a value.
const UnrecoverableErrorValue = "Unrecoverable error caught"

// Exception is one normalized throwable. A nil Stacktrace means no
// stacktrace key is emitted at all, as opposed to an empty frame list.
type Exception struct {
	Type       string
	Value      string
	Stacktrace Stacktrace
}

// NewException builds an Exception, enforcing that it is never fully
// empty.
func NewException(typ, value string, st Stacktrace) *Exception {
	if typ == "" && value == "" {
		value = UnrecoverableErrorValue
	}
	return &Exception{Type: typ, Value: value, Stacktrace: st}
}

func (e *Exception) fields() common.MapStr {
	var fields mapStr
	fields.maybeSetString("type", e.Type)
	fields.maybeSetString("value", e.Value)
	if frames := e.Stacktrace.transform(); frames != nil {
		fields.set("stacktrace", common.MapStr{"frames": frames})
	}
	return common.MapStr(fields)
}
