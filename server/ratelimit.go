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
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const burstMultiplier = 3

// rlCache holds one rate limiter per client IP in a fixed-size lru
// cache. When the cache is full, the evicted limiter is reused for the
// new key, so flooding from many unique IPs cannot mint fresh limiters
// with full allowance.
type rlCache struct {
	cache *simplelru.LRU
	limit int

	mu             sync.Mutex // guards limiter in cache
	evictedLimiter *rate.Limiter
}

func newRlCache(size, rateLimit int) (*rlCache, error) {
	if size <= 0 || rateLimit < 0 {
		return nil, errors.New("rate limiter cache: size must be positive and limit not negative")
	}
	rlc := rlCache{limit: rateLimit}

	onEvicted := func(_ interface{}, value interface{}) {
		rlc.evictedLimiter = *value.(**rate.Limiter)
	}
	c, err := simplelru.NewLRU(size, simplelru.EvictCallback(onEvicted))
	if err != nil {
		return nil, err
	}
	rlc.cache = c
	return &rlc, nil
}

// getRateLimiter returns the limiter for key, or nil when rate limiting
// is disabled.
func (rlc *rlCache) getRateLimiter(key string) *rate.Limiter {
	if rlc.cache == nil || rlc.limit == 0 {
		return nil
	}

	rlc.mu.Lock()
	defer rlc.mu.Unlock()

	if l, ok := rlc.cache.Get(key); ok {
		return *l.(**rate.Limiter)
	}

	var limiter *rate.Limiter
	if evicted := rlc.cache.Add(key, &limiter); evicted {
		limiter = rlc.evictedLimiter
	} else {
		limiter = rate.NewLimiter(rate.Limit(rlc.limit), rlc.limit*burstMultiplier)
	}
	return limiter
}
