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

// Package schema infers JSON Schema from a local function's declared
// parameter and return shapes. A function registered with the tool
// manager names its argument record as a Go struct; schema inference
// reflects over that struct rather than parsing source. Remote tools'
// schemas are not handled here.
package schema

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// nullSchema is returned for a function with no return value.
var nullSchema = map[string]any{"type": "null"}

// reflector produces schemas without $ref/$schema/$id noise: every field
// is inlined, since these schemas are handed to a planner as one
// self-contained document per tool.
func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
}

// InferInput builds the input_schema for a local function whose sole
// argument is a named struct type. Unsupported types (non-struct,
// non-pointer-to-struct) yield a nil schema rather than an error, per the
// inference algorithm's "unsupported types yield no schema" rule.
func InferInput(paramType reflect.Type) map[string]any {
	return structSchema(paramType)
}

// InferOutput builds the output_schema for a function's return type. A
// nil returnType (functions with no return value) yields the null
// schema.
func InferOutput(returnType reflect.Type) map[string]any {
	if returnType == nil {
		return nullSchema
	}
	if s := structSchema(returnType); s != nil {
		return s
	}
	return valueSchema(returnType)
}

// InferInputFrom and InferOutputFrom are generic convenience wrappers for
// call sites that have a concrete type parameter rather than a
// reflect.Type in hand (the common case when registering a function
// literal with a typed argument struct).
func InferInputFrom[T any]() map[string]any {
	return InferInput(reflect.TypeOf(*new(T)))
}

func InferOutputFrom[T any]() map[string]any {
	var zero T
	t := reflect.TypeOf(zero)
	return InferOutput(t)
}

func structSchema(t reflect.Type) map[string]any {
	t = deref(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	r := reflector()
	s := r.ReflectFromType(t)
	return toMap(s)
}

// valueSchema handles non-struct return types (scalars, slices, maps)
// that structSchema declines to cover.
func valueSchema(t reflect.Type) map[string]any {
	t = deref(t)
	if t == nil {
		return nullSchema
	}
	switch t.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": valueSchema(t.Elem())}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil
		}
		return map[string]any{"type": "object", "additionalProperties": valueSchema(t.Elem())}
	default:
		return nil
	}
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func toMap(s *jsonschema.Schema) map[string]any {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m
}
