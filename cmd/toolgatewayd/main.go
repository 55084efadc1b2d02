// Copyright 2025 Tom Barlow
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

// Command toolgatewayd is the tool gateway's single CLI and serving entry
// point: it loads configuration, connects the configured remote MCP
// servers, and either serves search_tools/execute_tool/execute_workflow
// over stdio as MCP tools, or runs one of them once and prints the
// result.
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		printCLIError(err)
		os.Exit(1)
	}
}

// printCLIError prints a friendly message and suggestion for errors that
// implement gwerrors.UserVisibleError, falling back to the raw error
// chain for everything else.
func printCLIError(err error) {
	var visible gwerrors.UserVisibleError
	if !stderrors.As(err, &visible) || !visible.IsUserVisible() {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Fprintln(os.Stderr, visible.UserMessage())
	if suggestion := visible.Suggestion(); suggestion != "" {
		fmt.Fprintf(os.Stderr, "suggestion: %s\n", suggestion)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "toolgatewayd",
		Short:         "toolgatewayd exposes a tool catalog and workflow engine over MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	cmd.AddCommand(
		newServeCommand(&configPath),
		newSearchToolsCommand(&configPath),
		newExecuteToolCommand(&configPath),
		newExecuteWorkflowCommand(&configPath),
	)
	return cmd
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve search_tools, execute_tool, and execute_workflow as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stack, _, gw, teardown, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer teardown()
			defer func() { _ = stack.Shutdown(context.Background()) }()

			return newMCPServer(gw, stack.telemetry.Logger).Run()
		},
	}
}

func newSearchToolsCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search-tools <query>",
		Short: "Search the tool catalog once and print the JSON result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stack, _, gw, teardown, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer teardown()
			defer func() { _ = stack.Shutdown(context.Background()) }()

			result := gw.SearchTools(ctx, args[0])
			return printJSON(result)
		},
	}
	return cmd
}

func newExecuteToolCommand(configPath *string) *cobra.Command {
	var argsJSON string
	cmd := &cobra.Command{
		Use:   "execute-tool <tool-name>",
		Short: "Run a single registered tool once and print the JSON result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			ctx := cmd.Context()
			stack, _, gw, teardown, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer teardown()
			defer func() { _ = stack.Shutdown(context.Background()) }()

			var toolArgs map[string]any
			if argsJSON != "" {
				if err := json.Unmarshal([]byte(argsJSON), &toolArgs); err != nil {
					return fmt.Errorf("parsing --args: %w", err)
				}
			}

			out, err := gw.ExecuteTool(ctx, cmdArgs[0], toolArgs)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&argsJSON, "args", "", "JSON object of tool arguments")
	return cmd
}

func newExecuteWorkflowCommand(configPath *string) *cobra.Command {
	var programPath string
	cmd := &cobra.Command{
		Use:   "execute-workflow",
		Short: "Run a workflow program once and print the JSON result",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stack, _, gw, teardown, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer teardown()
			defer func() { _ = stack.Shutdown(context.Background()) }()

			if programPath == "" {
				return fmt.Errorf("--program is required")
			}
			data, err := os.ReadFile(programPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", programPath, err)
			}

			out, err := gw.ExecuteWorkflow(ctx, string(data))
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&programPath, "program", "", "path to a workflow program source file")
	return cmd
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
