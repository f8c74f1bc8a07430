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
	"regexp"
	"strconv"
	"strings"

	"github.com/theSinner/mfe-sentry/model"
)

var (
	chromeWithFunc = regexp.MustCompile(`^\s*at (.+?) \((.+?)\)\s*$`)
	chromeNoFunc   = regexp.MustCompile(`^\s*at (.+?)\s*$`)
	geckoLine      = regexp.MustCompile(`^\s*(.*?)@(.+?)\s*$`)
	locLineCol     = regexp.MustCompile(`^(.*?):(\d+):(\d+)$`)
	locLine        = regexp.MustCompile(`^(.*?):(\d+)$`)
)

// ChromeAndGecko is the bundled Parser primitive. It understands the
// Chrome/V8 `at func (url:line:col)` and Gecko `func@url:line:col` line
// formats; unrecognized lines (including the leading message line) are
// skipped. Parsed frames arrive most recent call first; the first
// framesToPop of them are discarded and the remainder reversed into call
// order.
func ChromeAndGecko(text string, framesToPop int) ([]*model.StacktraceFrame, error) {
	var parsed []*model.StacktraceFrame
	for _, line := range strings.Split(text, "\n") {
		if frame := parseChromeLine(line); frame != nil {
			parsed = append(parsed, frame)
			continue
		}
		if frame := parseGeckoLine(line); frame != nil {
			parsed = append(parsed, frame)
		}
	}
	if framesToPop > len(parsed) {
		framesToPop = len(parsed)
	}
	parsed = parsed[framesToPop:]
	frames := make([]*model.StacktraceFrame, len(parsed))
	for i, frame := range parsed {
		frames[len(parsed)-1-i] = frame
	}
	return frames, nil
}

func parseChromeLine(line string) *model.StacktraceFrame {
	if m := chromeWithFunc.FindStringSubmatch(line); m != nil {
		return newFrame(m[1], m[2])
	}
	if m := chromeNoFunc.FindStringSubmatch(line); m != nil {
		if strings.Contains(m[1], "(") {
			return nil
		}
		return newFrame("", m[1])
	}
	return nil
}

func parseGeckoLine(line string) *model.StacktraceFrame {
	m := geckoLine.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return newFrame(m[1], m[2])
}

func newFrame(function, location string) *model.StacktraceFrame {
	filename, lineno, colno := parseLocation(location)
	if function == "" {
		function = "?"
	}
	return &model.StacktraceFrame{
		Filename: filename,
		Function: function,
		Lineno:   lineno,
		Colno:    colno,
		InApp:    true,
	}
}

func parseLocation(location string) (string, *int, *int) {
	var lineno, colno *int
	filename := location
	if m := locLineCol.FindStringSubmatch(location); m != nil {
		filename = m[1]
		lineno = atoiPtr(m[2])
		colno = atoiPtr(m[3])
	} else if m := locLine.FindStringSubmatch(location); m != nil {
		filename = m[1]
		lineno = atoiPtr(m[2])
	}
	switch filename {
	case "native", "[native code]":
		filename = model.NativeFilename
	case "<anonymous>", "":
		filename = model.AnonymousFilename
	}
	return filename, lineno, colno
}

// the surrounding regexp guarantees digits
func atoiPtr(s string) *int {
	n, _ := strconv.Atoi(s)
	return &n
}
