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

// Package stacktrace turns raw trace text carried by an error signal
// into ordered model frames. The actual line parsing is delegated to a
// Parser primitive, which callers may replace.
package stacktrace

import (
	"github.com/theSinner/mfe-sentry/model"
)

// Parser parses raw trace text into frames ordered with the most recent
// call last, discarding the first framesToPop parsed frames. A Parser
// may fail with any error, or panic; callers go through Parse, which
// absorbs both.
type Parser func(text string, framesToPop int) ([]*model.StacktraceFrame, error)

// Parse runs the parser primitive, degrading any internal failure to an
// empty frame sequence.
func Parse(parser Parser, text string, framesToPop int) (frames model.Stacktrace) {
	if parser == nil || text == "" {
		return nil
	}
	defer func() {
		if recover() != nil {
			frames = nil
		}
	}()
	parsed, err := parser(text, framesToPop)
	if err != nil {
		return nil
	}
	return parsed
}
