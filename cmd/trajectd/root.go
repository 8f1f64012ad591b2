// Copyright 2026 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"rivaas.dev/traject/config"
	"rivaas.dev/traject/logging"
)

type cli struct {
	configPath string
	settings   config.Settings
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "trajectd",
		Short:         "Serve models published by traject",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (yaml, toml or json)")

	root.AddCommand(c.serveCmd(), c.routesCmd())
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	opts := []config.Option{}
	if c.configPath != "" {
		opts = append(opts, config.WithFile(c.configPath))
	}
	opts = append(opts, config.WithEnv(config.DefaultEnvPrefix))

	settings, err := config.Load(cmd.Context(), opts...)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	c.settings = settings

	level, err := logging.ParseLevel(settings.Log.Level)
	if err != nil {
		return err
	}
	logger, err := logging.New(
		logging.WithHandlerType(logging.HandlerType(settings.Log.Format)),
		logging.WithOutput(cmd.ErrOrStderr()),
		logging.WithLevel(level),
		logging.WithServiceName("trajectd"),
	)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	c.logger = logger.Logger()
	return nil
}
