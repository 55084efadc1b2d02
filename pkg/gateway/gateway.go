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

// Package gateway implements the three external operations a planner
// drives: search_tools, execute_tool, and execute_workflow. It is the
// thin outermost layer; all domain logic lives in pkg/tools and
// pkg/workflow.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
	"github.com/toolgateway/gateway/pkg/provenance/strategy"
	"github.com/toolgateway/gateway/pkg/telemetry"
	"github.com/toolgateway/gateway/pkg/tools"
	"github.com/toolgateway/gateway/pkg/workflow"
)

// Reserved identifier segments for import_path. The namespace and bucket
// are fixed; server_or_local varies per tool (spec.md §6, Open Question:
// the override priority between a local function and a same-named remote
// tool is resolved elsewhere by DuplicateTool at registration time, so by
// the time a descriptor is built the name is already unambiguous).
const (
	reservedNamespace = "toolgateway"
	toolBucket        = "tools"
	localToken        = "local"

	// maxSearchResults bounds search_tools per spec.md §4: "up to 5
	// scored tool descriptors".
	maxSearchResults = 5
)

// Gateway wires the tool registry and workflow engine behind the three
// operations a caller is allowed to invoke.
type Gateway struct {
	manager    *tools.Manager
	engine     *workflow.Engine
	audit      AuditSink
	telemetry  telemetry.Telemetry
	capability workflow.Capability
	strategy   strategy.Strategy
	timeout    time.Duration
}

// Options configures a Gateway. Every field is optional.
type Options struct {
	// Audit receives the serialized result of each successful workflow
	// run. Defaults to a fresh MemorySink.
	Audit AuditSink

	// Telemetry carries the logger/tracer/metrics surface. Defaults to
	// telemetry.NoOp().
	Telemetry telemetry.Telemetry

	// Capability answers elicit() calls made by workflow programs. A
	// program that elicits without one configured fails the run.
	Capability workflow.Capability

	// Strategy selects how call origins propagate during workflow
	// evaluation. Defaults to strategy.Transparent{}.
	Strategy strategy.Strategy

	// Timeout bounds every execute_workflow call. Defaults to
	// workflow.DefaultTimeout.
	Timeout time.Duration
}

// New builds a Gateway over manager.
func New(manager *tools.Manager, opts Options) *Gateway {
	audit := opts.Audit
	if audit == nil {
		audit = NewMemorySink()
	}
	return &Gateway{
		manager:    manager,
		engine:     workflow.NewEngine(manager),
		audit:      audit,
		telemetry:  opts.Telemetry.WithDefaults(),
		capability: opts.Capability,
		strategy:   opts.Strategy,
		timeout:    opts.Timeout,
	}
}

// ToolDescriptor is one entry in a search_tools response.
type ToolDescriptor struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	InputSchema  map[string]any `json:"inputSchema"`
	OutputSchema map[string]any `json:"outputSchema,omitempty"`
	ImportPath   string         `json:"import_path"`
}

// SearchResult is the search_tools response envelope.
type SearchResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// SearchTools ranks the registered tool set against query and returns up
// to maxSearchResults descriptors, each carrying an import_path a
// planner may re-emit verbatim in a workflow program's import section
// (workflow.Parse accepts it alongside toolgateway/tools/<name>).
func (g *Gateway) SearchTools(_ context.Context, query string) SearchResult {
	scored := g.manager.Search(query, maxSearchResults)
	out := make([]ToolDescriptor, 0, len(scored))
	for _, s := range scored {
		out = append(out, g.describe(s.Spec))
	}
	return SearchResult{Tools: out}
}

func (g *Gateway) describe(spec tools.Spec) ToolDescriptor {
	serverOrLocal := localToken
	if t, err := g.manager.Lookup(spec.Name); err == nil && t.IsRemote() {
		serverOrLocal = t.Server
	}
	return ToolDescriptor{
		Name:         spec.Name,
		Description:  spec.Description,
		InputSchema:  spec.InputSchema,
		OutputSchema: spec.OutputSchema,
		ImportPath:   fmt.Sprintf("%s.%s.%s/%s", reservedNamespace, toolBucket, serverOrLocal, spec.Name),
	}
}

// ExecuteTool runs a single tool directly through the manager. No
// workflow engine is involved and no provenance bookkeeping happens.
func (g *Gateway) ExecuteTool(ctx context.Context, toolName string, args map[string]any) (any, error) {
	return g.manager.Call(ctx, toolName, args)
}

// StageError names the engine stage a workflow run failed in
// (parsing, validating, or executing), so a caller can classify a
// failure without importing pkg/errors to type-assert WorkflowFailureError.
type StageError struct {
	Stage string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("workflow failed during %s: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error { return e.Cause }

// ExecuteWorkflow parses and runs program with the engine's default
// timeout, returning the unwrapped root value. On success it writes the
// serialized Execution Result to the configured AuditSink on a
// best-effort basis: a sink failure is logged but never fails the call.
// On failure the error is a *StageError naming parsing, validating, or
// executing.
func (g *Gateway) ExecuteWorkflow(ctx context.Context, program string) (any, error) {
	result, err := g.engine.Run(ctx, workflow.Options{
		Source:     program,
		Strategy:   g.strategy,
		Capability: g.capability,
		Timeout:    g.timeout,
	})
	if err != nil {
		var wfErr *gwerrors.WorkflowFailureError
		if errors.As(err, &wfErr) {
			return nil, &StageError{Stage: wfErr.State, Cause: err}
		}
		return nil, err
	}

	serialized := result.Serialize()
	if auditErr := g.audit.Record(ctx, serialized); auditErr != nil {
		g.telemetry.Logger.Warn("audit sink write failed", slog.String("error", auditErr.Error()))
	}
	return serialized.Returned, nil
}
