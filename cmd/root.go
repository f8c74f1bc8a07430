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

// Package cmd holds the mfe-sentry command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// Name of the binary.
const Name = "mfe-sentry"

// RootCmd for running mfe-sentry. Running `mfe-sentry` without a
// subcommand is identical to `mfe-sentry run`.
var RootCmd = &cobra.Command{
	Use:   Name,
	Short: "mfe-sentry normalizes browser error signals into canonical events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCmd.RunE(cmd, args)
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(versionCmd)
}
