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

// Package config holds the intake server configuration, nested under
// the key `mfe-sentry` in the configuration file.
package config

import (
	"time"

	"github.com/pkg/errors"

	ucfg "github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
)

const (
	// DefaultPort of the intake server.
	DefaultPort = "8210"

	defaultEventRateLimit   = 300
	defaultEventRateLRUSize = 1000
	defaultDedupeTTL        = 2 * time.Minute
	defaultNormalizeDepth   = 3
	defaultMaxEventSize     = 300 * 1024
)

// EventRate holds per-client intake rate limiting settings.
type EventRate struct {
	// Limit is the sustained events per second allowed per client IP.
	Limit int `config:"limit"`

	// LRUSize bounds the number of client IPs tracked concurrently.
	LRUSize int `config:"lru_size"`
}

// Config holds all configuration for the intake server and the capture
// pipeline.
type Config struct {
	Host            string        `config:"host"`
	ReadTimeout     time.Duration `config:"read_timeout"`
	WriteTimeout    time.Duration `config:"write_timeout"`
	ShutdownTimeout time.Duration `config:"shutdown_timeout"`
	MaxEventSize    int           `config:"max_event_size"`

	AllowURLs []string `config:"allow_urls"`
	DenyURLs  []string `config:"deny_urls"`

	// AppEntryFile restricts rejection capture to source URLs that
	// reference the application entry file; empty disables the check.
	AppEntryFile string `config:"app_entry_file"`

	// DocumentLocation is the frame filename of last resort for
	// positional frames whose signal carries no URL.
	DocumentLocation string `config:"document_location"`

	AttachStacktrace bool `config:"attach_stacktrace"`

	// NormalizeDepth bounds serialization of captured plain objects;
	// zero or less means unlimited.
	NormalizeDepth int `config:"normalize_depth"`

	// DedupeTTL is the window within which events with an identical
	// grouping key are suppressed; zero disables suppression.
	DedupeTTL time.Duration `config:"dedupe_ttl"`

	EventRate EventRate `config:"event_rate"`
}

// DefaultConfig returns the configuration used when no overrides are
// given.
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost:" + DefaultPort,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxEventSize:    defaultMaxEventSize,
		NormalizeDepth:  defaultNormalizeDepth,
		DedupeTTL:       defaultDedupeTTL,
		EventRate: EventRate{
			Limit:   defaultEventRateLimit,
			LRUSize: defaultEventRateLRUSize,
		},
	}
}

// NewConfig unpacks the given configuration on top of the defaults and
// validates it.
func NewConfig(raw *ucfg.Config) (*Config, error) {
	c := DefaultConfig()
	if raw != nil {
		if err := raw.Unpack(c); err != nil {
			return nil, errors.Wrap(err, "error unpacking config")
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads a YAML configuration file and unpacks its `mfe-sentry`
// section on top of the defaults. An empty path yields the defaults.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return NewConfig(nil)
	}
	raw, err := yaml.NewConfigWithFile(path, ucfg.PathSep("."))
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file %s", path)
	}
	if !raw.HasField("mfe-sentry") {
		return NewConfig(nil)
	}
	section, err := raw.Child("mfe-sentry", -1)
	if err != nil {
		return nil, errors.Wrap(err, "error reading `mfe-sentry` section")
	}
	return NewConfig(section)
}

func (c *Config) validate() error {
	if c.Host == "" {
		return errors.New("`host` must not be empty")
	}
	if c.MaxEventSize <= 0 {
		return errors.New("`max_event_size` must be positive")
	}
	if c.EventRate.Limit < 0 {
		return errors.New("`event_rate.limit` must not be negative")
	}
	if c.EventRate.LRUSize <= 0 {
		return errors.New("`event_rate.lru_size` must be positive")
	}
	if c.DedupeTTL < 0 {
		return errors.New("`dedupe_ttl` must not be negative")
	}
	return nil
}
