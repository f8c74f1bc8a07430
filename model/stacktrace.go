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

const (
	// AnonymousFilename is the filename reported for frames originating
	// from dynamically evaluated code.
	AnonymousFilename = "<anonymous>"

	// NativeFilename is the filename reported for frames originating
	// from browser-native code.
	NativeFilename = "[native code]"
)

// Stacktrace holds frames in call order: the outermost caller first,
// the most recent call last.
type Stacktrace []*StacktraceFrame

// StacktraceFrame describes a single frame of a parsed stack trace.
// Frames are immutable once produced.
type StacktraceFrame struct {
	Filename string
	Function string
	Lineno   *int
	Colno    *int
	InApp    bool
}

// SourceURL returns the filename of the last valid frame: scanning from
// the most recent call backwards, the first frame whose filename is
// neither the anonymous-code nor the native-code marker. It returns an
// empty string when no such frame exists.
func (st Stacktrace) SourceURL() string {
	for i := len(st) - 1; i >= 0; i-- {
		frame := st[i]
		if frame == nil {
			continue
		}
		switch frame.Filename {
		case "", AnonymousFilename, NativeFilename:
			continue
		}
		return frame.Filename
	}
	return ""
}

func (st Stacktrace) transform() []common.MapStr {
	if len(st) == 0 {
		return nil
	}
	frames := make([]common.MapStr, len(st))
	for i, frame := range st {
		frames[i] = frame.transform()
	}
	return frames
}

func (f *StacktraceFrame) transform() common.MapStr {
	var fields mapStr
	fields.maybeSetString("filename", f.Filename)
	fields.maybeSetString("function", f.Function)
	fields.maybeSetIntptr("lineno", f.Lineno)
	fields.maybeSetIntptr("colno", f.Colno)
	fields.set("in_app", f.InApp)
	return common.MapStr(fields)
}
