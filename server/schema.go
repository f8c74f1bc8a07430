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

package server

import (
	"github.com/theSinner/mfe-sentry/validation"
)

// Wire shapes of the two platform signals. The nested error and reason
// values stay deliberately unconstrained: classification, not
// validation, decides what they are.
const (
	onErrorSchema = `{
  "$id": "signals/onerror",
  "type": "object",
  "properties": {
    "filename": {"type": "string"},
    "lineno": {"type": ["integer", "string", "null"]},
    "colno": {"type": ["integer", "string", "null"]},
    "error": {"type": ["object", "null"]}
  },
  "anyOf": [
    {"required": ["message"]},
    {"required": ["error"]}
  ]
}`

	onRejectionSchema = `{
  "$id": "signals/onunhandledrejection",
  "type": "object",
  "properties": {
    "detail": {"type": "object"}
  },
  "anyOf": [
    {"required": ["reason"]},
    {"required": ["detail"]}
  ]
}`
)

var (
	cachedOnErrorSchema     = validation.CreateSchema(onErrorSchema, "signals/onerror")
	cachedOnRejectionSchema = validation.CreateSchema(onRejectionSchema, "signals/onunhandledrejection")
)
