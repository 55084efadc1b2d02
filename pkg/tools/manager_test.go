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

package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
)

func echoSpec(name string) Spec {
	return Spec{
		Name:        name,
		Description: "echoes its input",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"msg": map[string]any{"type": "string"}},
			"required":   []any{"msg"},
		},
	}
}

func TestManager_AddFunctionAndCall(t *testing.T) {
	m := NewManager(NewBM25Index())
	err := m.AddFunction(echoSpec("echo"), func(ctx context.Context, args map[string]any) (any, error) {
		return args["msg"], nil
	})
	require.NoError(t, err)

	got, err := m.Call(context.Background(), "echo", map[string]any{"msg": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestManager_AddFunction_DuplicateErrors(t *testing.T) {
	m := NewManager(NewBM25Index())
	exec := func(ctx context.Context, args map[string]any) (any, error) { return nil, nil }
	require.NoError(t, m.AddFunction(echoSpec("echo"), exec))

	err := m.AddFunction(echoSpec("echo"), exec)
	var dup *gwerrors.DuplicateToolError
	assert.ErrorAs(t, err, &dup)
}

func TestManager_Lookup_NotFound(t *testing.T) {
	m := NewManager(NewBM25Index())
	_, err := m.Lookup("missing")
	var notFound *gwerrors.ToolNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestManager_Call_ValidatesArgsBeforeDispatch(t *testing.T) {
	m := NewManager(NewBM25Index())
	called := false
	err := m.AddFunction(echoSpec("echo"), func(ctx context.Context, args map[string]any) (any, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)

	_, err = m.Call(context.Background(), "echo", map[string]any{})
	require.Error(t, err)
	assert.False(t, called, "executor must not run when validation fails")

	var execErr *gwerrors.ToolExecutionError
	assert.ErrorAs(t, err, &execErr)
}

func TestManager_AddRemoteServer_PrefixesAndScalarUnwraps(t *testing.T) {
	m := NewManager(NewBM25Index())
	dispatch := func(ctx context.Context, bareName string, args map[string]any) (any, error) {
		return map[string]any{"result": 42}, nil
	}
	defs := []RemoteToolDef{{
		Name:        "add",
		Description: "adds numbers",
		InputSchema: map[string]any{"type": "object"},
		OutputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"result": map[string]any{"type": "integer"}},
		},
	}}
	require.NoError(t, m.AddRemoteServer("calc", dispatch, defs))

	tool, err := m.Lookup("mcp_add")
	require.NoError(t, err)
	assert.Equal(t, "calc", tool.Server)
	assert.True(t, tool.IsRemote())
	assert.Equal(t, map[string]any{"type": "integer"}, tool.Spec.OutputSchema)

	got, err := m.Call(context.Background(), "mcp_add", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestManager_AddRemoteServer_MultiFieldObjectPassesThrough(t *testing.T) {
	m := NewManager(NewBM25Index())
	dispatch := func(ctx context.Context, bareName string, args map[string]any) (any, error) {
		return map[string]any{"result": 1, "extra": 2}, nil
	}
	defs := []RemoteToolDef{{
		Name: "multi",
		OutputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"result": map[string]any{"type": "integer"},
				"extra":  map[string]any{"type": "integer"},
			},
		},
	}}
	require.NoError(t, m.AddRemoteServer("svc", dispatch, defs))

	got, err := m.Call(context.Background(), "mcp_multi", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"result": 1, "extra": 2}, got)
}

func TestManager_RemoveRemoteServer_RemovesOnlyThatServersTools(t *testing.T) {
	m := NewManager(NewBM25Index())
	dispatch := func(ctx context.Context, bareName string, args map[string]any) (any, error) { return nil, nil }
	require.NoError(t, m.AddRemoteServer("svc1", dispatch, []RemoteToolDef{{Name: "a"}}))
	require.NoError(t, m.AddRemoteServer("svc2", dispatch, []RemoteToolDef{{Name: "b"}}))

	m.RemoveRemoteServer("svc1")

	_, err := m.Lookup("mcp_a")
	assert.Error(t, err)
	_, err = m.Lookup("mcp_b")
	assert.NoError(t, err)
}

func TestManager_List(t *testing.T) {
	m := NewManager(NewBM25Index())
	require.NoError(t, m.AddFunction(echoSpec("echo"), func(ctx context.Context, args map[string]any) (any, error) {
		return nil, nil
	}))
	specs := m.List()
	require.Len(t, specs, 1)
	assert.Equal(t, "echo", specs[0].Name)
}
