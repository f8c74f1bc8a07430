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

package stacktrace

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"

	"github.com/theSinner/mfe-sentry/model"
	"github.com/theSinner/mfe-sentry/utility"
)

// Certain minified builds wrap the original error and inject one wrapper
// frame on top; their message carries a recognizable signature.
var minifiedFrameworkRegexp = regexp.MustCompile(`Minified React error #\d+;`)

const framesToPopKey = "framesToPop"

// FramesFromValue extracts frames from a throwable-shaped decoded value.
// It never fails; any internal error yields an empty sequence.
//
// The trace text is read before any other property: on some platforms
// inspecting other properties first invalidates the trace. `stacktrace`
// takes precedence over `stack`.
func FramesFromValue(parser Parser, value interface{}) model.Stacktrace {
	raw, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	text := utility.ProbeString(raw, "stacktrace", "stack")
	return Parse(parser, text, popSize(raw))
}

// popSize honors an explicit numeric override, then the minified
// framework signature (exactly one injected wrapper frame), then zero.
func popSize(raw map[string]interface{}) int {
	if n := utility.ProbeInt(raw, framesToPopKey); n != nil {
		return *n
	}
	if minifiedFrameworkRegexp.MatchString(utility.ProbeString(raw, "message")) {
		return 1
	}
	return 0
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FramesFromError extracts frames from a Go error captured explicitly,
// using the pkg/errors stack trace when the error records one. Frames
// are returned with the most recent call last.
func FramesFromError(err error) model.Stacktrace {
	var tracer stackTracer
	if !errors.As(err, &tracer) {
		return nil
	}
	trace := tracer.StackTrace()
	frames := make(model.Stacktrace, 0, len(trace))
	for i := len(trace) - 1; i >= 0; i-- {
		frame := trace[i]
		lineno := utility.CoerceInt(fmt.Sprintf("%d", frame))
		frames = append(frames, &model.StacktraceFrame{
			Filename: fmt.Sprintf("%s", frame),
			Function: fmt.Sprintf("%n", frame),
			Lineno:   lineno,
			InApp:    true,
		})
	}
	return frames
}
