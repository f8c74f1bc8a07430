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

// Package filter decides capture eligibility of a canonical event from
// its best-known source URL.
package filter

import (
	"strings"

	"github.com/ryanuber/go-glob"
)

// CustomFilter is an application-supplied predicate; when configured its
// result is authoritative for events no deny/allow rule decided. The
// onerror pre-filter invokes it with the raw, not-yet-classified error
// value, so the event argument is either a *model.Event or the raw
// value.
type CustomFilter func(event interface{}, url string) bool

// Matcher matches one allow/deny list entry against a URL. A literal
// entry matches by substring containment; an entry containing a glob
// wildcard matches the whole URL with glob semantics.
type Matcher struct {
	entry   string
	pattern bool
}

// NewMatcher compiles a single list entry.
func NewMatcher(entry string) Matcher {
	return Matcher{entry: entry, pattern: strings.Contains(entry, glob.GLOB)}
}

// NewMatchers compiles a list of entries. Empty entries are dropped: an
// empty list means no restriction.
func NewMatchers(entries []string) []Matcher {
	matchers := make([]Matcher, 0, len(entries))
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		matchers = append(matchers, NewMatcher(entry))
	}
	return matchers
}

// Match reports whether the URL matches this entry.
func (m Matcher) Match(url string) bool {
	if m.pattern {
		return glob.Glob(m.entry, url)
	}
	return strings.Contains(url, m.entry)
}

func matchAny(matchers []Matcher, url string) bool {
	for _, m := range matchers {
		if m.Match(url) {
			return true
		}
	}
	return false
}

// URLFilter applies deny and allow URL lists plus an optional custom
// predicate.
type URLFilter struct {
	Allow  []Matcher
	Deny   []Matcher
	Custom CustomFilter
}

// New builds a URLFilter from raw list entries.
func New(allowURLs, denyURLs []string, custom CustomFilter) *URLFilter {
	return &URLFilter{
		Allow:  NewMatchers(allowURLs),
		Deny:   NewMatchers(denyURLs),
		Custom: custom,
	}
}

// ShouldCapture decides capture eligibility; the first applicable rule
// decides:
//
//  1. a deny match rejects;
//  2. a non-empty allow list that does not match still accepts — the
//     permissive miss preserves events whose origin cannot be pinned
//     down;
//  3. a configured custom filter is authoritative;
//  4. default accept.
func (f *URLFilter) ShouldCapture(event interface{}, url string) bool {
	if len(f.Deny) > 0 && matchAny(f.Deny, url) {
		return false
	}
	if len(f.Allow) > 0 && !matchAny(f.Allow, url) {
		return true
	}
	if f.Custom != nil {
		return f.Custom(event, url)
	}
	return true
}
