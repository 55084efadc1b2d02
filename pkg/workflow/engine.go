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

package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
	"github.com/toolgateway/gateway/pkg/provenance"
	"github.com/toolgateway/gateway/pkg/provenance/strategy"
	"github.com/toolgateway/gateway/pkg/tools"
)

// State is one point in the engine's run state machine.
type State string

const (
	StateReady      State = "ready"
	StateParsing    State = "parsing"
	StateValidating State = "validating"
	StatePreparing  State = "preparing"
	StateExecuting  State = "executing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// DefaultTimeout bounds a run when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configures one workflow run.
type Options struct {
	// Source is the workflow program text.
	Source string

	// Strategy selects how origins propagate during evaluation. Defaults
	// to strategy.Transparent{} when nil.
	Strategy strategy.Strategy

	// Capability, if set, answers elicit calls. A program that calls
	// elicit without one configured fails immediately.
	Capability Capability

	// Timeout bounds the whole run. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Engine runs workflow programs against a shared tool manager.
type Engine struct {
	manager *tools.Manager
}

// NewEngine builds an Engine dispatching tool calls through manager.
func NewEngine(manager *tools.Manager) *Engine {
	return &Engine{manager: manager}
}

// Run executes one workflow program end to end: parse, validate the
// import whitelist, build the tool-proxy namespace, evaluate the entry
// routine under a timeout, and return the resulting provenance records.
//
// State transitions: ready -> parsing -> validating -> preparing ->
// executing -> {completed, failed}. A parse or whitelist failure leaves
// the run in "failed" without ever reaching "executing"; a syntax error
// is reported in state "parsing", an import, unknown-tool, or
// missing-entry failure in state "validating". A run that fails or times
// out while executing still returns the call records appended so far.
func (e *Engine) Run(ctx context.Context, opts Options) (provenance.ExecutionResult, error) {
	runID := uuid.New().String()[:8]
	strat := opts.Strategy
	if strat == nil {
		strat = strategy.Transparent{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	available := make(map[string]struct{})
	for _, spec := range e.manager.List() {
		available[spec.Name] = struct{}{}
	}

	program, err := Parse(opts.Source, available)
	if err != nil {
		state := StateParsing
		var disallowed *gwerrors.ImportDisallowedError
		var unknown *gwerrors.UnknownToolError
		var missing *gwerrors.MissingEntryError
		if errors.As(err, &disallowed) || errors.As(err, &unknown) || errors.As(err, &missing) {
			state = StateValidating
		}
		return provenance.ExecutionResult{}, &gwerrors.WorkflowFailureError{RunID: runID, State: string(state), Cause: err}
	}

	store := provenance.NewStore()
	proxies := make(map[string]proxy, len(program.Imports))
	for bound, toolName := range program.Imports {
		proxies[bound] = newProxy(toolName, e.manager, store, strat)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	interpreter := newInterp(runCtx, proxies, strat, capabilityFunc(opts.Capability))

	resultCh := make(chan runOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- runOutcome{err: fmt.Errorf("workflow program panicked: %v", r)}
			}
		}()
		v, err := interpreter.run(program.Entry.Body)
		resultCh <- runOutcome{value: v, err: err}
	}()

	select {
	case outcome := <-resultCh:
		if outcome.err != nil {
			return provenance.ExecutionResult{Calls: store.Records()}, &gwerrors.WorkflowFailureError{RunID: runID, State: string(StateExecuting), Cause: outcome.err}
		}
		returned := provenance.Unwrap(outcome.value)
		return provenance.ExecutionResult{Returned: returned, Calls: store.Records()}, nil
	case <-runCtx.Done():
		return provenance.ExecutionResult{Calls: store.Records()}, &gwerrors.WorkflowFailureError{
			RunID: runID,
			State: string(StateExecuting),
			Cause: &gwerrors.TimeoutError{Operation: "workflow run", Duration: timeout, Cause: runCtx.Err()},
		}
	}
}

type runOutcome struct {
	value provenance.Value
	err   error
}
