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

// Package server exposes the two platform signals over HTTP for the
// browser shim.
package server

import (
	"context"
	"net"
	"net/http"

	"github.com/elastic/beats/v7/libbeat/logp"
	"github.com/pkg/errors"

	"github.com/theSinner/mfe-sentry/capture"
	"github.com/theSinner/mfe-sentry/config"
	logs "github.com/theSinner/mfe-sentry/log"
)

const (
	// OnErrorPath receives uncaught-error signals.
	OnErrorPath = "/intake/v1/onerror"

	// OnRejectionPath receives unhandled-rejection signals.
	OnRejectionPath = "/intake/v1/onunhandledrejection"
)

// Server is the intake HTTP server.
type Server struct {
	srv    *http.Server
	logger *logp.Logger
	cfg    *config.Config
}

// New builds the intake server around an already wired dispatcher.
func New(cfg *config.Config, dispatcher *capture.Dispatcher) (*Server, error) {
	logger := logp.NewLogger(logs.Server)

	rl, err := newRlCache(cfg.EventRate.LRUSize, cfg.EventRate.Limit)
	if err != nil {
		return nil, errors.Wrap(err, "error setting up rate limiting")
	}
	handler := &signalHandler{
		dispatcher:   dispatcher,
		rl:           rl,
		maxEventSize: cfg.MaxEventSize,
		logger:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(OnErrorPath, handler.onError)
	mux.HandleFunc(OnRejectionPath, handler.onRejection)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"publish_ready":true}` + "\n"))
	})

	return &Server{
		srv: &http.Server{
			Addr:         cfg.Host,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
		cfg:    cfg,
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errc := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", s.srv.Addr)
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down intake server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "error shutting down intake server")
	}
	return nil
}
