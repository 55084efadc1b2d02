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

// Package tools implements the gateway's tool registry: identity,
// registration, search, validation, and dispatch. It deliberately does no
// provenance work — that belongs one layer up, in pkg/workflow's
// dispatch proxy.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/toolgateway/gateway/pkg/errors"
)

// RemotePrefix is the reserved token that keeps remote tool names disjoint
// from local function names.
const RemotePrefix = "mcp_"

// Spec is the immutable identity and schema of one tool. Equality is by
// Name alone.
type Spec struct {
	Name         string
	Description  string
	InputSchema  map[string]any
	OutputSchema map[string]any
}

// Executor invokes a tool with resolved (already-unwrapped) arguments.
type Executor func(ctx context.Context, args map[string]any) (any, error)

// Tool pairs a Spec with its executor and an optional server tag. A Tool
// with an empty Server is a local function; otherwise it is a remote
// tool owned by that server.
type Tool struct {
	Spec   Spec
	Exec   Executor
	Server string
}

// IsRemote reports whether t is owned by a remote server.
func (t Tool) IsRemote() bool { return t.Server != "" }

// SearchStrategy ranks specs against a query. Index is called whenever
// the registered spec set changes.
type SearchStrategy interface {
	Index(specs []Spec)
	Search(query string, limit int) []Scored
}

// Scored pairs a spec with its ranking score.
type Scored struct {
	Spec  Spec
	Score float64
}

// Manager is the tool registry described in spec.md §4.1. It is safe for
// concurrent use; callers typically share one Manager across a run.
type Manager struct {
	mu         sync.RWMutex
	tools      map[string]*Tool
	validators map[string]*jsonschema.Schema
	search     SearchStrategy
}

// NewManager creates an empty Manager using the given search strategy.
func NewManager(search SearchStrategy) *Manager {
	return &Manager{
		tools:      make(map[string]*Tool),
		validators: make(map[string]*jsonschema.Schema),
		search:     search,
	}
}

// AddFunction registers a local tool. Fails with DuplicateToolError if
// the name is already registered.
func (m *Manager) AddFunction(spec Spec, exec Executor) error {
	return m.add(&Tool{Spec: spec, Exec: exec})
}

// RemoteToolDef is one tool a remote server advertises, prior to the
// reserved-prefix rewrite AddRemoteServer performs.
type RemoteToolDef struct {
	Name         string
	Description  string
	InputSchema  map[string]any
	OutputSchema map[string]any
}

// RemoteDispatch forwards a call to a connected remote server and parses
// its result. bareName is the tool's name without the reserved prefix.
type RemoteDispatch func(ctx context.Context, bareName string, args map[string]any) (any, error)

// AddRemoteServer registers every tool a remote server advertises,
// renaming each with the reserved prefix and applying the scalar-unwrap
// rewrite: a tool whose output schema is an object with the single
// property "result" is rewritten to that inner schema, and its executor
// strips the {"result": v} wrapper from whatever the dispatch capability
// returns. Multi-field objects pass through unchanged.
func (m *Manager) AddRemoteServer(serverName string, dispatch RemoteDispatch, remoteTools []RemoteToolDef) error {
	added := make([]*Tool, 0, len(remoteTools))
	for _, def := range remoteTools {
		bareName := def.Name
		outputSchema, unwrapScalar := unwrapScalarSchema(def.OutputSchema)
		exec := func(ctx context.Context, args map[string]any) (any, error) {
			result, err := dispatch(ctx, bareName, args)
			if err != nil {
				return nil, err
			}
			if unwrapScalar {
				if obj, ok := result.(map[string]any); ok {
					if v, ok := obj["result"]; ok && len(obj) == 1 {
						return v, nil
					}
				}
			}
			return result, nil
		}
		added = append(added, &Tool{
			Spec: Spec{
				Name:         RemotePrefix + bareName,
				Description:  def.Description,
				InputSchema:  def.InputSchema,
				OutputSchema: outputSchema,
			},
			Exec:   exec,
			Server: serverName,
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range added {
		if _, exists := m.tools[t.Spec.Name]; exists {
			return &errors.DuplicateToolError{Name: t.Spec.Name}
		}
	}
	for _, t := range added {
		m.tools[t.Spec.Name] = t
		if err := m.compileValidatorLocked(t.Spec); err != nil {
			return err
		}
	}
	m.reindexLocked()
	return nil
}

// unwrapScalarSchema detects the {"result": <schema>} wrapper convention
// and returns the inner schema plus whether the rewrite applies.
func unwrapScalarSchema(schema map[string]any) (map[string]any, bool) {
	if schema == nil {
		return nil, false
	}
	if schema["type"] != "object" {
		return schema, false
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok || len(props) != 1 {
		return schema, false
	}
	inner, ok := props["result"]
	if !ok {
		return schema, false
	}
	innerSchema, ok := inner.(map[string]any)
	if !ok {
		return schema, false
	}
	return innerSchema, true
}

// RemoveRemoteServer atomically removes every tool tagged with
// serverName and reindexes the search strategy.
func (m *Manager) RemoveRemoteServer(serverName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, t := range m.tools {
		if t.Server == serverName {
			delete(m.tools, name)
			delete(m.validators, name)
		}
	}
	m.reindexLocked()
}

func (m *Manager) add(t *Tool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tools[t.Spec.Name]; exists {
		return &errors.DuplicateToolError{Name: t.Spec.Name}
	}
	m.tools[t.Spec.Name] = t
	if err := m.compileValidatorLocked(t.Spec); err != nil {
		return err
	}
	m.reindexLocked()
	return nil
}

func (m *Manager) compileValidatorLocked(spec Spec) error {
	if spec.InputSchema == nil {
		return nil
	}
	c := jsonschema.NewCompiler()
	url := "mem://" + spec.Name
	if err := c.AddResource(url, spec.InputSchema); err != nil {
		return fmt.Errorf("compile schema for tool %q: %w", spec.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return fmt.Errorf("compile schema for tool %q: %w", spec.Name, err)
	}
	m.validators[spec.Name] = sch
	return nil
}

func (m *Manager) reindexLocked() {
	specs := make([]Spec, 0, len(m.tools))
	for _, t := range m.tools {
		specs = append(specs, t.Spec)
	}
	m.search.Index(specs)
}

// Lookup resolves a tool by name, or fails with ToolNotFoundError.
func (m *Manager) Lookup(name string) (*Tool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tools[name]
	if !ok {
		return nil, &errors.ToolNotFoundError{Name: name}
	}
	return t, nil
}

// List returns every registered spec.
func (m *Manager) List() []Spec {
	m.mu.RLock()
	defer m.mu.RUnlock()
	specs := make([]Spec, 0, len(m.tools))
	for _, t := range m.tools {
		specs = append(specs, t.Spec)
	}
	return specs
}

// Call resolves name and invokes its executor with args, validating args
// against the tool's input schema first. It performs no provenance
// bookkeeping; any executor error surfaces unmodified.
func (m *Manager) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	m.mu.RLock()
	t, ok := m.tools[name]
	validator := m.validators[name]
	m.mu.RUnlock()
	if !ok {
		return nil, &errors.ToolNotFoundError{Name: name}
	}
	if validator != nil {
		if err := validateArgs(validator, args); err != nil {
			return nil, &errors.ToolExecutionError{Tool: name, Cause: err}
		}
	}
	return t.Exec(ctx, args)
}

// validateArgs normalizes args through a JSON round-trip (jsonschema/v6
// expects decoded-JSON instance values, not arbitrary Go numeric types)
// before validating against the compiled schema.
func validateArgs(sch *jsonschema.Schema, args map[string]any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return err
	}
	return sch.Validate(instance)
}

// Search passes the current spec set to the configured search strategy.
func (m *Manager) Search(query string, limit int) []Scored {
	return m.search.Search(query, limit)
}
