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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/toolgateway/gateway/pkg/gateway"
	"github.com/toolgateway/gateway/pkg/telemetry"
)

// mcpServer exposes a Gateway's three operations as MCP tools over stdio,
// so a planner talks to toolgatewayd the same way it talks to any other
// MCP tool server.
type mcpServer struct {
	gw        *gateway.Gateway
	mcpServer *server.MCPServer
	logger    telemetry.Logger
}

func newMCPServer(gw *gateway.Gateway, logger telemetry.Logger) *mcpServer {
	s := &mcpServer{
		gw:        gw,
		mcpServer: server.NewMCPServer("toolgatewayd", version),
		logger:    logger,
	}
	s.registerTools()
	return s
}

func (s *mcpServer) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "search_tools",
		Description: "Search the registered tool catalog and return up to 5 scored matches, each with an import_path usable in a workflow program.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text search query",
				},
			},
			Required: []string{"query"},
		},
	}, s.handleSearchTools)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "execute_tool",
		Description: "Invoke a single registered tool directly, bypassing the workflow engine.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tool_name": map[string]interface{}{
					"type":        "string",
					"description": "Registered tool name, as returned by search_tools",
				},
				"arguments": map[string]interface{}{
					"type":        "object",
					"description": "Arguments matching the tool's input schema",
				},
			},
			Required: []string{"tool_name"},
		},
	}, s.handleExecuteTool)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "execute_workflow",
		Description: "Parse and run a workflow program, returning its root value and recording provenance to the audit sink.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"program": map[string]interface{}{
					"type":        "string",
					"description": "Workflow program source",
				},
			},
			Required: []string{"program"},
		},
	}, s.handleExecuteWorkflow)
}

func (s *mcpServer) handleSearchTools(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return errorResult("missing or invalid 'query' argument"), nil
	}
	result := s.gw.SearchTools(ctx, query)
	return jsonResult(result)
}

func (s *mcpServer) handleExecuteTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	toolName, err := request.RequireString("tool_name")
	if err != nil {
		return errorResult("missing or invalid 'tool_name' argument"), nil
	}

	var args map[string]any
	if raw := request.GetArguments(); raw != nil {
		if m, ok := raw["arguments"].(map[string]interface{}); ok {
			args = m
		}
	}

	out, err := s.gw.ExecuteTool(ctx, toolName, args)
	if err != nil {
		s.logger.Warn("execute_tool failed", slog.String("tool", toolName), slog.String("error", err.Error()))
		return errorResult(err.Error()), nil
	}
	return jsonResult(out)
}

func (s *mcpServer) handleExecuteWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	program, err := request.RequireString("program")
	if err != nil {
		return errorResult("missing or invalid 'program' argument"), nil
	}

	out, err := s.gw.ExecuteWorkflow(ctx, program)
	if err != nil {
		s.logger.Warn("execute_workflow failed", slog.String("error", err.Error()))
		return errorResult(err.Error()), nil
	}
	return jsonResult(out)
}

// Run serves the MCP tools over stdio until the client disconnects.
func (s *mcpServer) Run() error {
	s.logger.Info("starting toolgatewayd MCP server", slog.String("version", version))
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func errorResult(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(data))}}, nil
}
