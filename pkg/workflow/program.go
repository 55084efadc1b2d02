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

// Package workflow implements the Workflow Engine (spec.md §4.7): it
// parses a restricted Go program, enforces the tool-import whitelist,
// builds a restricted namespace of provenance-tracked proxies, and runs
// the program's entry routine under a timeout. Programs are plain Go
// source, interpreted rather than compiled, so the engine's "restricted
// namespace" is the set of identifiers the tree-walking interpreter in
// interpreter.go will resolve at evaluation time.
package workflow

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
)

// ToolNamespace is the reserved virtual import path prefix a workflow
// program's imports must fall under. It is not a resolvable Go import
// path — the interpreter never compiles or loads it — it is purely the
// string prefix the parser checks. Parse also accepts the import_path
// form search_tools returns, "toolgateway.tools.<server_or_local>/<name>",
// and binds it to the tool named by its final segment.
const ToolNamespace = "toolgateway/tools"

// entryFuncName is the required name of a program's entry routine.
const entryFuncName = "workflow"

// Program is a parsed, whitelist-checked workflow ready to run: its
// entry routine body plus the binding from imported identifier to tool
// name.
type Program struct {
	Imports map[string]string // bound identifier -> bare tool name
	Entry   *ast.FuncDecl
	fset    *token.FileSet
}

// Parse parses src as a workflow program and enforces the import
// whitelist against availableTools (a set of bare tool names the engine
// may dispatch to). It does not execute anything.
func Parse(src string, availableTools map[string]struct{}) (*Program, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "workflow.go", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse workflow program: %w", err)
	}

	imports := make(map[string]string)
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.IMPORT {
			continue
		}
		for _, spec := range gen.Specs {
			imp := spec.(*ast.ImportSpec)
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				return nil, fmt.Errorf("parse import path: %w", err)
			}
			var toolName string
			switch {
			case strings.HasPrefix(path, ToolNamespace+"/"):
				toolName = strings.TrimPrefix(path, ToolNamespace+"/")
			case strings.HasPrefix(path, "toolgateway.tools.") && strings.Contains(path, "/"):
				toolName = path[strings.LastIndex(path, "/")+1:]
			default:
				return nil, &gwerrors.ImportDisallowedError{Path: path}
			}
			bound := toolName
			if imp.Name != nil {
				bound = imp.Name.Name
			}
			if _, ok := availableTools[toolName]; !ok {
				return nil, &gwerrors.UnknownToolError{Name: toolName}
			}
			imports[bound] = toolName
		}
	}

	var entry *ast.FuncDecl
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if ok && fn.Recv == nil && fn.Name.Name == entryFuncName {
			entry = fn
			break
		}
	}
	if entry == nil {
		return nil, &gwerrors.MissingEntryError{}
	}

	return &Program{Imports: imports, Entry: entry, fset: fset}, nil
}
