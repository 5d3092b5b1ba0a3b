// Copyright 2025 walteh LLC
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
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/textswap/cmd/textswap/commands"
	"github.com/walteh/textswap/cmd/textswap/opts"
)

func main() {
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "textswap",
		Short: "Rule-based find and replace across editable fields",
		Long: `textswap applies an ordered list of literal find/replace rules to the
editable fields of a target: the active tab of a browser, HTML documents on
disk, the clipboard or standard input.

Rules are read from a flat key-value store (numPairs, findText1,
replaceWithText1, maxOccurrences1, ...) in JSON, YAML or HCL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging()
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return loadRootOpts(cmd, rootOpts)
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewRulesCmd(rootOpts),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
