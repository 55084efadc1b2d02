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

package provenance

// Value is the tracked-value carrier: a raw result paired with the set of
// tool calls that contributed to it. Every strategy in the strategy
// sub-package produces and consumes Values of this one shape; what differs
// between strategies is how Combine decides which origins survive a
// derivation (see strategy.Strategy).
type Value struct {
	Raw     any
	Origins OriginSet
}

// Literal wraps a raw value with no provenance. Used for program constants
// and for values returned by elicit (per the engine's literal treatment of
// elicited input).
func Literal(raw any) Value {
	return Value{Raw: raw, Origins: OriginSet{}}
}

// FromCall wraps a tool's raw output with exactly one origin: the call
// that produced it. A call's result does not inherit the origins of its
// own arguments — those are recorded separately in the call record.
func FromCall(raw any, origin Origin) Value {
	return Value{Raw: raw, Origins: NewOriginSet(origin)}
}

// Derived produces a new Value from raw with the given combined origin
// set. Used for indexing, attribute access, and arithmetic results.
func Derived(raw any, origins OriginSet) Value {
	return Value{Raw: raw, Origins: origins}
}

// Unwrap recursively resolves a value into plain data: Values nested in
// []Value or map[string]Value are replaced by their raw contents. This is
// the Resolver described in the provenance design: the shape a tool
// expects to receive as plain arguments.
func Unwrap(v any) any {
	switch t := v.(type) {
	case Value:
		return Unwrap(t.Raw)
	case []Value:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Unwrap(e)
		}
		return out
	case map[string]Value:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Unwrap(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Unwrap(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Unwrap(e)
		}
		return out
	default:
		return v
	}
}

// CollectOrigins is the Extractor: it walks a value (including nested
// mappings, sequences, and carriers) and returns the union of every
// Origin reachable from it.
func CollectOrigins(v any) OriginSet {
	switch t := v.(type) {
	case Value:
		return t.Origins.Union(CollectOrigins(t.Raw))
	case []Value:
		set := OriginSet{}
		for _, e := range t {
			set = set.Union(CollectOrigins(e))
		}
		return set
	case map[string]Value:
		set := OriginSet{}
		for _, e := range t {
			set = set.Union(CollectOrigins(e))
		}
		return set
	case []any:
		set := OriginSet{}
		for _, e := range t {
			set = set.Union(CollectOrigins(e))
		}
		return set
	case map[string]any:
		set := OriginSet{}
		for _, e := range t {
			set = set.Union(CollectOrigins(e))
		}
		return set
	default:
		return OriginSet{}
	}
}

// ExtractArgOrigins applies the Extractor to a mapping of argument name to
// value, omitting arguments whose transitive origin set is empty — per
// the ToolCallRecord invariant that input_origins keys only appear for
// non-empty sets.
func ExtractArgOrigins(args map[string]Value) map[string]OriginSet {
	out := make(map[string]OriginSet)
	for name, v := range args {
		set := v.Origins.Union(CollectOrigins(v.Raw))
		if !set.Empty() {
			out[name] = set
		}
	}
	return out
}

// ResolveArgs applies the Resolver to a mapping of argument name to value,
// producing the plain structure a tool executor expects to receive.
func ResolveArgs(args map[string]Value) map[string]any {
	out := make(map[string]any, len(args))
	for name, v := range args {
		out[name] = Unwrap(v)
	}
	return out
}
