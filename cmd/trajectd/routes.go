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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rivaas.dev/traject"
	"rivaas.dev/traject/internal/demo"
)

func (c *cli) routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the paths of the demo site",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := demo.New(demo.NewStore(), traject.WithLogger(c.logger))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "APP\tPATH\tMODEL\tPARAMETERS")
			for _, r := range app.Routes() {
				model := r.Model
				if r.Mount {
					model = "mount " + model
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.App, r.Path, model, strings.Join(r.Parameters, ","))
			}
			return tw.Flush()
		},
	}
}
