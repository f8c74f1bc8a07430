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
	"crypto/md5"
	"encoding/hex"
	"hash"
	"io"
	"time"

	"github.com/elastic/beats/v7/libbeat/common"
)

// Severity is the level assigned to a captured event.
type Severity string

const (
	SeverityDebug   Severity = "debug"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// Mechanism describes which signal source captured an event and whether
// the error was handled by application code.
type Mechanism struct {
	Type      string
	Handled   bool
	Synthetic bool
}

// Event is the canonical error record forwarded to the reporting sink.
//
// Exactly one of Exception and Message is meaningful for any single
// producer path.
type Event struct {
	ID        string
	Timestamp time.Time

	Exception *Exception
	Message   string

	// Stacktrace optionally carries synthetic frames attached to a
	// message-only event.
	Stacktrace Stacktrace

	Level     Severity
	Mechanism *Mechanism
	Tags      map[string]string
	Extra     common.MapStr
	User      common.MapStr
}

// StampMechanism records which signal source captured the event,
// preserving a synthetic marker set by the producer path.
func (e *Event) StampMechanism(typ string, handled bool) {
	if e.Mechanism == nil {
		e.Mechanism = &Mechanism{}
	}
	e.Mechanism.Type = typ
	e.Mechanism.Handled = handled
}

// SetTag sets a single tag on the event, allocating the tag map on first
// use.
func (e *Event) SetTag(key, value string) {
	if e.Tags == nil {
		e.Tags = make(map[string]string)
	}
	e.Tags[key] = value
}

// SetExtra attaches an additional context value to the event.
func (e *Event) SetExtra(key string, value interface{}) {
	if e.Extra == nil {
		e.Extra = common.MapStr{}
	}
	e.Extra[key] = value
}

// Fields renders the event as the document handed to the reporting sink.
func (e *Event) Fields() common.MapStr {
	var fields mapStr
	fields.maybeSetString("id", e.ID)
	if !e.Timestamp.IsZero() {
		fields.set("timestamp", e.Timestamp.UnixNano()/int64(time.Microsecond))
	}
	fields.maybeSetString("level", string(e.Level))
	if e.Exception != nil {
		fields.set("exception", common.MapStr{
			"values": []common.MapStr{e.Exception.fields()},
		})
	}
	fields.maybeSetString("message", e.Message)
	if frames := e.Stacktrace.transform(); frames != nil {
		fields.set("stacktrace", common.MapStr{"frames": frames})
	}
	if e.Mechanism != nil {
		fields.set("mechanism", common.MapStr{
			"type":      e.Mechanism.Type,
			"handled":   e.Mechanism.Handled,
			"synthetic": e.Mechanism.Synthetic,
		})
	}
	if len(e.Tags) > 0 {
		tags := common.MapStr{}
		for k, v := range e.Tags {
			tags[k] = v
		}
		fields.set("tags", tags)
	}
	fields.maybeSetMapStr("extra", e.Extra)
	fields.maybeSetMapStr("user", e.User)
	return common.MapStr(fields)
}

type groupingKey struct {
	hash  hash.Hash
	empty bool
}

func newGroupingKey() *groupingKey {
	return &groupingKey{hash: md5.New(), empty: true}
}

func (k *groupingKey) add(s string) bool {
	if s == "" {
		return false
	}
	io.WriteString(k.hash, s)
	k.empty = false
	return true
}

func (k *groupingKey) addEither(strs ...string) {
	for _, s := range strs {
		if k.add(s) {
			break
		}
	}
}

func (k *groupingKey) String() string {
	return hex.EncodeToString(k.hash.Sum(nil))
}

// GroupingKey computes a value for deduplicating events: events with the
// same grouping key can be collapsed together.
func (e *Event) GroupingKey() string {
	k := newGroupingKey()
	if e.Exception != nil {
		k.add(e.Exception.Type)
		for _, frame := range e.Exception.Stacktrace {
			if frame == nil {
				continue
			}
			k.addEither(frame.Filename)
			k.add(frame.Function)
		}
		if k.empty {
			k.add(e.Exception.Value)
		}
	}
	if k.empty {
		k.add(e.Message)
	}
	return k.String()
}
