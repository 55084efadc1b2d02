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
	"fmt"
	"go/ast"
	"time"

	"github.com/toolgateway/gateway/pkg/provenance"
	"github.com/toolgateway/gateway/pkg/provenance/strategy"
	"github.com/toolgateway/gateway/pkg/tools"
)

// evalCall dispatches a call expression. Three call shapes are
// recognized: make(map[string]any) for building argument maps, elicit(...)
// for the elicitation built-in, and <bound-tool-identifier>(args) for a
// provenance-tracked tool dispatch. Anything else is rejected — the
// restricted language has no user-defined functions.
func (in *interp) evalCall(call *ast.CallExpr) (provenance.Value, any, error) {
	ident, ok := call.Fun.(*ast.Ident)
	if !ok {
		return provenance.Value{}, nil, fmt.Errorf("unsupported call target %T", call.Fun)
	}

	switch ident.Name {
	case "make":
		v, err := in.evalMake(call)
		return v, nil, err
	case "elicit":
		return in.evalElicit(call)
	default:
		return in.evalToolCall(ident.Name, call)
	}
}

// evalMake supports exactly make(map[string]any), the sole composite-value
// constructor available to a workflow program in place of map literals.
func (in *interp) evalMake(call *ast.CallExpr) (provenance.Value, error) {
	if len(call.Args) != 1 {
		return provenance.Value{}, fmt.Errorf("make requires exactly one type argument")
	}
	if !isMapStringAnyType(call.Args[0]) {
		return provenance.Value{}, fmt.Errorf("make only supports map[string]any")
	}
	return provenance.Literal(map[string]provenance.Value{}), nil
}

func isMapStringAnyType(expr ast.Expr) bool {
	m, ok := expr.(*ast.MapType)
	if !ok {
		return false
	}
	key, ok := m.Key.(*ast.Ident)
	if !ok || key.Name != "string" {
		return false
	}
	switch v := m.Value.(type) {
	case *ast.InterfaceType:
		return len(v.Methods.List) == 0
	case *ast.Ident:
		return v.Name == "any"
	default:
		return false
	}
}

// evalElicit calls the engine's elicitation capability. Its result is
// always a literal: elicited input carries no tool-call provenance.
func (in *interp) evalElicit(call *ast.CallExpr) (provenance.Value, any, error) {
	if in.elicit == nil {
		return provenance.Value{}, nil, fmt.Errorf("workflow calls elicit but no elicitation capability is configured")
	}
	if len(call.Args) != 2 {
		return provenance.Value{}, nil, fmt.Errorf("elicit requires exactly two arguments (message, response_type)")
	}
	msgVal, err := in.eval(call.Args[0])
	if err != nil {
		return provenance.Value{}, nil, err
	}
	typeVal, err := in.eval(call.Args[1])
	if err != nil {
		return provenance.Value{}, nil, err
	}
	msg, ok := msgVal.Raw.(string)
	if !ok {
		return provenance.Value{}, nil, fmt.Errorf("elicit message must be a string")
	}
	respType, ok := typeVal.Raw.(string)
	if !ok {
		return provenance.Value{}, nil, fmt.Errorf("elicit response_type must be a string")
	}

	result, err := in.elicit(in.ctx, msg, respType)
	if err != nil {
		return provenance.Literal(nil), err, nil
	}
	return provenance.Literal(result), nil, nil
}

// evalToolCall resolves name through the program's import bindings and
// invokes the corresponding proxy, the provenance-tracked dispatch
// described in spec.md §4.8.
func (in *interp) evalToolCall(name string, call *ast.CallExpr) (provenance.Value, any, error) {
	p, ok := in.proxies[name]
	if !ok {
		return provenance.Value{}, nil, fmt.Errorf("%q is not an imported tool", name)
	}
	if len(call.Args) != 1 {
		return provenance.Value{}, nil, fmt.Errorf("tool calls take exactly one argument map")
	}
	argVal, err := in.eval(call.Args[0])
	if err != nil {
		return provenance.Value{}, nil, err
	}
	args, ok := argVal.Raw.(map[string]provenance.Value)
	if !ok {
		return provenance.Value{}, nil, fmt.Errorf("tool call argument must be a map[string]any built with make")
	}

	result, err := p(in.ctx, args)
	if err != nil {
		return provenance.Literal(nil), err, nil
	}
	return result, nil, nil
}

// newProxy builds the dispatch closure installed for one imported tool
// binding. It implements the pre-call/post-call bookkeeping spec.md §4.8
// requires: extract per-argument origins before resolving them away,
// mint the call_id by entry order, dispatch through the tool manager,
// and record the completed call by completion order.
func newProxy(toolName string, manager *tools.Manager, store *provenance.Store, strat strategy.Strategy) proxy {
	return func(ctx context.Context, args map[string]provenance.Value) (provenance.Value, error) {
		argOrigins := provenance.ExtractArgOrigins(args)
		callID := store.NextCallID(toolName)
		start := time.Now()

		resolved := provenance.ResolveArgs(args)
		output, err := manager.Call(ctx, toolName, resolved)
		if err != nil {
			return provenance.Value{}, err
		}

		duration := time.Since(start)
		origin := provenance.Origin{CallID: callID, ToolName: toolName, Timestamp: start}
		store.Append(provenance.ToolCallRecord{
			CallID:       callID,
			ToolName:     toolName,
			InputValue:   resolved,
			InputOrigins: provenance.RecordFromOrigins(argOrigins),
			OutputValue:  output,
			Timestamp:    start,
			DurationMS:   float64(duration.Microseconds()) / 1000.0,
		})

		return strat.Tag(output, origin), nil
	}
}
