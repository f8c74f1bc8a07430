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

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/elastic/beats/v7/libbeat/logp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/theSinner/mfe-sentry/capture"
	"github.com/theSinner/mfe-sentry/config"
	"github.com/theSinner/mfe-sentry/filter"
	logs "github.com/theSinner/mfe-sentry/log"
	"github.com/theSinner/mfe-sentry/publish"
	"github.com/theSinner/mfe-sentry/server"
	"github.com/theSinner/mfe-sentry/stacktrace"
)

var (
	configPath string
	hostFlag   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the intake server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logp.DevelopmentSetup(); err != nil {
			return err
		}
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		if hostFlag != "" {
			cfg.Host = hostFlag
		}

		reporter := publish.NewLogReporter(logp.NewLogger(logs.Capture))
		hub := capture.NewHub(reporter, cfg.AttachStacktrace, cfg.NormalizeDepth, cfg.DocumentLocation)
		urlFilter := filter.New(cfg.AllowURLs, cfg.DenyURLs, nil)
		dispatcher := capture.NewDispatcher(
			hub, stacktrace.ChromeAndGecko, urlFilter, cfg.AppEntryFile, cfg.DedupeTTL)

		srv, err := server.New(cfg, dispatcher)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	flags := pflag.NewFlagSet("run", pflag.ExitOnError)
	flags.StringVarP(&configPath, "config", "c", "", "path to the configuration file")
	flags.StringVar(&hostFlag, "host", "", "listen address, overrides the configured host")
	runCmd.Flags().AddFlagSet(flags)

	// running without a subcommand is identical to `run`
	RootCmd.Flags().AddFlagSet(flags)
}
