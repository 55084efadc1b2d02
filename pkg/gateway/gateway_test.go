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

package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolgateway/gateway/pkg/provenance"
	"github.com/toolgateway/gateway/pkg/tools"
)

func newTestManager(t *testing.T, fns map[string]tools.Executor) *tools.Manager {
	t.Helper()
	m := tools.NewManager(tools.NewBM25Index())
	for name, fn := range fns {
		require.NoError(t, m.AddFunction(tools.Spec{Name: name, Description: name + " tool"}, fn))
	}
	return m
}

func TestSearchTools_ReturnsImportPathForLocalTool(t *testing.T) {
	manager := newTestManager(t, map[string]tools.Executor{
		"search": func(ctx context.Context, args map[string]any) (any, error) { return nil, nil },
	})
	gw := New(manager, Options{})

	result := gw.SearchTools(context.Background(), "search")
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "search", result.Tools[0].Name)
	assert.Equal(t, "toolgateway.tools.local/search", result.Tools[0].ImportPath)
}

func TestSearchTools_ReturnsImportPathForRemoteTool(t *testing.T) {
	manager := tools.NewManager(tools.NewBM25Index())
	dispatch := func(ctx context.Context, bareName string, args map[string]any) (any, error) { return nil, nil }
	require.NoError(t, manager.AddRemoteServer("calc", dispatch, []tools.RemoteToolDef{{
		Name:        "double",
		Description: "doubles a number",
	}}))
	gw := New(manager, Options{})

	result := gw.SearchTools(context.Background(), "doubles")
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "mcp_double", result.Tools[0].Name)
	assert.Equal(t, "toolgateway.tools.calc/mcp_double", result.Tools[0].ImportPath)
}

func TestSearchTools_BoundedToFive(t *testing.T) {
	fns := map[string]tools.Executor{}
	for i := 0; i < 12; i++ {
		fns[string(rune('a'+i))] = func(ctx context.Context, args map[string]any) (any, error) { return nil, nil }
	}
	manager := newTestManager(t, fns)
	gw := New(manager, Options{})

	result := gw.SearchTools(context.Background(), "tool")
	assert.LessOrEqual(t, len(result.Tools), maxSearchResults)
}

func TestExecuteTool_RunsDirectlyWithoutProvenance(t *testing.T) {
	manager := newTestManager(t, map[string]tools.Executor{
		"add": func(ctx context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	})
	gw := New(manager, Options{})

	out, err := gw.ExecuteTool(context.Background(), "add", map[string]any{"a": 1.0, "b": 2.0})
	require.NoError(t, err)
	assert.Equal(t, 3.0, out)
}

func TestExecuteTool_UnknownToolFails(t *testing.T) {
	manager := newTestManager(t, nil)
	gw := New(manager, Options{})

	_, err := gw.ExecuteTool(context.Background(), "missing", map[string]any{})
	assert.Error(t, err)
}

func TestExecuteWorkflow_WritesAuditRecordOnSuccess(t *testing.T) {
	manager := newTestManager(t, map[string]tools.Executor{
		"a": func(ctx context.Context, args map[string]any) (any, error) { return 5, nil },
	})
	sink := NewMemorySink()
	gw := New(manager, Options{Audit: sink})

	src := `
package workflow

import "toolgateway/tools/a"

func workflow() (any, error) {
	empty := make(map[string]any)
	return a(empty)
}
`
	out, err := gw.ExecuteWorkflow(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 5, out)

	entries := sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].Returned)
	assert.Len(t, entries[0].Calls, 1)
}

func TestExecuteWorkflow_ImportViolationTaggedValidating(t *testing.T) {
	manager := newTestManager(t, nil)
	gw := New(manager, Options{})

	src := `
package workflow

import "os"

func workflow() (any, error) {
	return nil, nil
}
`
	_, err := gw.ExecuteWorkflow(context.Background(), src)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "validating", stageErr.Stage)
}

func TestExecuteWorkflow_RuntimeFailureTaggedExecuting(t *testing.T) {
	manager := newTestManager(t, map[string]tools.Executor{
		"fail": func(ctx context.Context, args map[string]any) (any, error) {
			return nil, assert.AnError
		},
	})
	gw := New(manager, Options{})

	src := `
package workflow

import "toolgateway/tools/fail"

func workflow() (any, error) {
	empty := make(map[string]any)
	return fail(empty)
}
`
	_, err := gw.ExecuteWorkflow(context.Background(), src)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "executing", stageErr.Stage)
}

// failingSink confirms a sink failure never fails the call it audits.
type failingSink struct{}

func (failingSink) Record(ctx context.Context, _ provenance.Serialized) error {
	return assert.AnError
}

func TestExecuteWorkflow_SinkFailureDoesNotFailCall(t *testing.T) {
	manager := newTestManager(t, map[string]tools.Executor{
		"a": func(ctx context.Context, args map[string]any) (any, error) { return 1, nil },
	})
	gw := New(manager, Options{Audit: failingSink{}})

	src := `
package workflow

import "toolgateway/tools/a"

func workflow() (any, error) {
	empty := make(map[string]any)
	return a(empty)
}
`
	out, err := gw.ExecuteWorkflow(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, out)
}
