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
	"go/ast"
	"go/token"
	"strconv"

	"github.com/toolgateway/gateway/pkg/provenance"
	"github.com/toolgateway/gateway/pkg/provenance/strategy"
)

// proxy is the provenance-tracked dispatch function installed for one
// imported tool (spec.md §4.8).
type proxy func(ctx context.Context, args map[string]provenance.Value) (provenance.Value, error)

// elicitFunc is the built-in injected when the engine is given an
// elicitation capability (spec.md §4.9).
type elicitFunc func(ctx context.Context, message, responseType string) (any, error)

// returnSignal unwinds block/statement execution when a return statement
// is reached — not a Go error, just control flow.
type returnSignal struct {
	value provenance.Value
	err   error
}

// interp holds the evaluation state of one workflow run.
type interp struct {
	ctx      context.Context
	vars     map[string]provenance.Value
	proxies  map[string]proxy
	strategy strategy.Strategy
	elicit   elicitFunc
}

func newInterp(ctx context.Context, proxies map[string]proxy, strat strategy.Strategy, elicit elicitFunc) *interp {
	return &interp{
		ctx:      ctx,
		vars:     make(map[string]provenance.Value),
		proxies:  proxies,
		strategy: strat,
		elicit:   elicit,
	}
}

// run executes the entry function body and returns its declared (value,
// error) result.
func (in *interp) run(body *ast.BlockStmt) (provenance.Value, error) {
	sig, err := in.execBlock(body)
	if err != nil {
		return provenance.Value{}, err
	}
	if sig == nil {
		return provenance.Value{}, errors.New("workflow entry routine did not return a value")
	}
	return sig.value, sig.err
}

// execBlock runs each statement in order, returning a non-nil
// returnSignal once a return statement fires.
func (in *interp) execBlock(block *ast.BlockStmt) (*returnSignal, error) {
	for _, stmt := range block.List {
		sig, err := in.execStmt(stmt)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			return sig, nil
		}
	}
	return nil, nil
}

func (in *interp) execStmt(stmt ast.Stmt) (*returnSignal, error) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		return nil, in.execAssign(s)
	case *ast.ExprStmt:
		_, _, err := in.evalMulti(s.X)
		return nil, err
	case *ast.ReturnStmt:
		return in.execReturn(s)
	case *ast.IfStmt:
		return in.execIf(s)
	case *ast.RangeStmt:
		return in.execRange(s)
	case *ast.DeclStmt:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}
}

func (in *interp) execReturn(s *ast.ReturnStmt) (*returnSignal, error) {
	switch len(s.Results) {
	case 0:
		return &returnSignal{}, nil
	case 1:
		// A single call expression forwards both of its results, so
		// `return tool(args)` propagates the tool's error.
		v, errVal, err := in.evalMulti(s.Results[0])
		if err != nil {
			return nil, err
		}
		sig := &returnSignal{value: v}
		if e, ok := errVal.(error); ok {
			sig.err = e
		}
		return sig, nil
	case 2:
		v, err := in.eval(s.Results[0])
		if err != nil {
			return nil, err
		}
		errResult, err := in.eval(s.Results[1])
		if err != nil {
			return nil, err
		}
		var retErr error
		if errResult.Raw != nil {
			if e, ok := errResult.Raw.(error); ok {
				retErr = e
			} else {
				retErr = fmt.Errorf("%v", errResult.Raw)
			}
		}
		return &returnSignal{value: v, err: retErr}, nil
	default:
		return nil, fmt.Errorf("return statement has unsupported arity %d", len(s.Results))
	}
}

func (in *interp) execAssign(s *ast.AssignStmt) error {
	if len(s.Lhs) == 2 && len(s.Rhs) == 1 {
		v, errVal, err := in.evalMulti(s.Rhs[0])
		if err != nil {
			return err
		}
		if err := in.bind(s.Lhs[0], v); err != nil {
			return err
		}
		return in.bind(s.Lhs[1], provenance.Literal(errVal))
	}
	if len(s.Lhs) != 1 || len(s.Rhs) != 1 {
		return fmt.Errorf("unsupported assignment shape (%d = %d)", len(s.Lhs), len(s.Rhs))
	}
	v, err := in.eval(s.Rhs[0])
	if err != nil {
		return err
	}
	return in.bind(s.Lhs[0], v)
}

// bind assigns v to the LHS expression, which is either a bare
// identifier (variable declaration/assignment) or an index expression
// into an existing map-valued variable.
func (in *interp) bind(lhs ast.Expr, v provenance.Value) error {
	switch target := lhs.(type) {
	case *ast.Ident:
		if target.Name == "_" {
			return nil
		}
		in.vars[target.Name] = v
		if tracked, ok := in.strategy.(*strategy.Instrumented); ok {
			tracked.TrackAssign(target.Name, v.Origins)
		}
		return nil
	case *ast.IndexExpr:
		baseVal, err := in.eval(target.X)
		if err != nil {
			return err
		}
		m, ok := baseVal.Raw.(map[string]provenance.Value)
		if !ok {
			return fmt.Errorf("cannot index-assign into non-map value")
		}
		key, err := in.eval(target.Index)
		if err != nil {
			return err
		}
		keyStr, ok := key.Raw.(string)
		if !ok {
			return fmt.Errorf("map keys must be strings")
		}
		m[keyStr] = v
		return nil
	default:
		return fmt.Errorf("unsupported assignment target %T", lhs)
	}
}

func (in *interp) execIf(s *ast.IfStmt) (*returnSignal, error) {
	cond, err := in.eval(s.Cond)
	if err != nil {
		return nil, err
	}
	truthy, ok := cond.Raw.(bool)
	if !ok {
		return nil, fmt.Errorf("if condition must evaluate to bool")
	}
	if truthy {
		return in.execBlock(s.Body)
	}
	if s.Else != nil {
		switch e := s.Else.(type) {
		case *ast.BlockStmt:
			return in.execBlock(e)
		case *ast.IfStmt:
			return in.execIf(e)
		}
	}
	return nil, nil
}

// execRange supports exactly the range-over-slice form: for _, item :=
// range list { ... }. This is the interpreter's iteration primitive: each
// element's origins combine with the base slice's origins.
func (in *interp) execRange(s *ast.RangeStmt) (*returnSignal, error) {
	base, err := in.eval(s.X)
	if err != nil {
		return nil, err
	}
	elems, err := toSlice(base.Raw)
	if err != nil {
		return nil, err
	}
	for i, raw := range elems {
		elemOrigins := in.strategy.Combine(base.Origins)
		if v, ok := raw.(provenance.Value); ok {
			elemOrigins = in.strategy.Combine(base.Origins, v.Origins)
			raw = v.Raw
		}
		if s.Key != nil {
			if err := in.bind(s.Key, provenance.Literal(i)); err != nil {
				return nil, err
			}
		}
		if s.Value != nil {
			if err := in.bind(s.Value, provenance.Derived(raw, elemOrigins)); err != nil {
				return nil, err
			}
		}
		sig, err := in.execBlock(s.Body)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			return sig, nil
		}
	}
	return nil, nil
}

func toSlice(raw any) ([]any, error) {
	switch t := raw.(type) {
	case []any:
		return t, nil
	case []provenance.Value:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot range over non-sequence value")
	}
}

// eval evaluates an expression to a single Value. Multi-result
// expressions (tool calls, elicit) are only reachable through
// evalMulti / execAssign's two-target form.
func (in *interp) eval(expr ast.Expr) (provenance.Value, error) {
	v, _, err := in.evalMulti(expr)
	return v, err
}

// evalMulti evaluates an expression, returning a second raw value for
// call expressions that conventionally yield (value, error) — tool
// proxies and elicit. Non-call expressions return a nil second value.
func (in *interp) evalMulti(expr ast.Expr) (provenance.Value, any, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		return in.evalIdent(e)
	case *ast.BasicLit:
		v, err := evalBasicLit(e)
		return v, nil, err
	case *ast.BinaryExpr:
		v, err := in.evalBinary(e)
		return v, nil, err
	case *ast.UnaryExpr:
		v, err := in.evalUnary(e)
		return v, nil, err
	case *ast.ParenExpr:
		return in.evalMulti(e.X)
	case *ast.IndexExpr:
		v, err := in.evalIndex(e)
		return v, nil, err
	case *ast.SelectorExpr:
		v, err := in.evalSelector(e)
		return v, nil, err
	case *ast.CallExpr:
		return in.evalCall(e)
	default:
		return provenance.Value{}, nil, fmt.Errorf("unsupported expression type %T", expr)
	}
}

func (in *interp) evalIdent(id *ast.Ident) (provenance.Value, any, error) {
	switch id.Name {
	case "true":
		return provenance.Literal(true), nil, nil
	case "false":
		return provenance.Literal(false), nil, nil
	case "nil":
		return provenance.Literal(nil), nil, nil
	}
	v, ok := in.vars[id.Name]
	if !ok {
		return provenance.Value{}, nil, fmt.Errorf("undefined variable %q", id.Name)
	}
	return v, nil, nil
}

func evalBasicLit(lit *ast.BasicLit) (provenance.Value, error) {
	switch lit.Kind {
	case token.STRING:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return provenance.Value{}, err
		}
		return provenance.Literal(s), nil
	case token.INT:
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return provenance.Value{}, err
		}
		return provenance.Literal(int(n)), nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return provenance.Value{}, err
		}
		return provenance.Literal(f), nil
	default:
		return provenance.Value{}, fmt.Errorf("unsupported literal kind %v", lit.Kind)
	}
}

func (in *interp) evalUnary(e *ast.UnaryExpr) (provenance.Value, error) {
	v, err := in.eval(e.X)
	if err != nil {
		return provenance.Value{}, err
	}
	switch e.Op {
	case token.SUB:
		switch n := v.Raw.(type) {
		case int:
			return provenance.Derived(-n, v.Origins), nil
		case float64:
			return provenance.Derived(-n, v.Origins), nil
		}
	case token.NOT:
		if b, ok := v.Raw.(bool); ok {
			return provenance.Derived(!b, v.Origins), nil
		}
	}
	return provenance.Value{}, fmt.Errorf("unsupported unary operator %v", e.Op)
}

func (in *interp) evalBinary(e *ast.BinaryExpr) (provenance.Value, error) {
	left, err := in.eval(e.X)
	if err != nil {
		return provenance.Value{}, err
	}
	right, err := in.eval(e.Y)
	if err != nil {
		return provenance.Value{}, err
	}
	origins := in.strategy.Combine(left.Origins, right.Origins)

	raw, err := applyBinaryOp(e.Op, left.Raw, right.Raw)
	if err != nil {
		return provenance.Value{}, err
	}
	return provenance.Derived(raw, origins), nil
}

// evalIndex implements both map and slice indexing, and is the
// interpreter's "indexing" composition rule: the result's origins
// combine with the base's.
func (in *interp) evalIndex(e *ast.IndexExpr) (provenance.Value, error) {
	base, err := in.eval(e.X)
	if err != nil {
		return provenance.Value{}, err
	}
	index, err := in.eval(e.Index)
	if err != nil {
		return provenance.Value{}, err
	}
	raw, elemOrigins, err := indexInto(base.Raw, index.Raw)
	if err != nil {
		return provenance.Value{}, err
	}
	origins := in.strategy.Combine(base.Origins, elemOrigins)
	return provenance.Derived(raw, origins), nil
}

// evalSelector treats dotted field access as sugar for string-keyed map
// access, since tool outputs decode as map[string]any rather than typed
// structs.
func (in *interp) evalSelector(e *ast.SelectorExpr) (provenance.Value, error) {
	base, err := in.eval(e.X)
	if err != nil {
		return provenance.Value{}, err
	}
	raw, elemOrigins, err := indexInto(base.Raw, e.Sel.Name)
	if err != nil {
		return provenance.Value{}, err
	}
	origins := in.strategy.Combine(base.Origins, elemOrigins)
	return provenance.Derived(raw, origins), nil
}

func indexInto(base any, key any) (any, provenance.OriginSet, error) {
	switch b := base.(type) {
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return nil, nil, fmt.Errorf("map key must be a string")
		}
		return b[k], provenance.OriginSet{}, nil
	case map[string]provenance.Value:
		k, ok := key.(string)
		if !ok {
			return nil, nil, fmt.Errorf("map key must be a string")
		}
		v := b[k]
		return v.Raw, v.Origins, nil
	case []any:
		i, ok := key.(int)
		if !ok {
			return nil, nil, fmt.Errorf("slice index must be an int")
		}
		if i < 0 || i >= len(b) {
			return nil, nil, fmt.Errorf("index %d out of range", i)
		}
		if v, ok := b[i].(provenance.Value); ok {
			return v.Raw, v.Origins, nil
		}
		return b[i], provenance.OriginSet{}, nil
	default:
		return nil, nil, fmt.Errorf("cannot index into %T", base)
	}
}
