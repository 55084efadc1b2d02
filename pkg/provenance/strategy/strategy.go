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

// Package strategy implements the three interchangeable tracked-value
// strategies: transparent wrapping, program-transformation instrumentation,
// and none. The workflow interpreter in pkg/workflow is strategy-agnostic:
// it asks the configured Strategy to combine origins whenever it derives a
// new value from existing ones (indexing, attribute access, binary
// operators), and asks it to interpose when binding a variable.
package strategy

import "github.com/toolgateway/gateway/pkg/provenance"

// Strategy decides how origins propagate as the interpreter evaluates a
// restricted workflow program. All three implementations share the same
// provenance.Value shape; they differ only in which origins a derivation
// keeps.
type Strategy interface {
	// Name identifies the strategy for logging and for the engine's
	// strategy-selection config.
	Name() string

	// Combine computes the origin set for a value derived from the given
	// operand origin sets (e.g. the two sides of a binary expression, or
	// the base of an index/attribute expression). A strategy that
	// performs no tracking returns the empty set regardless of input.
	Combine(operands ...provenance.OriginSet) provenance.OriginSet

	// Tag wraps a tool's raw output with the origin of the call that
	// produced it. The none strategy ignores origin entirely, so nothing
	// derived from its result ever carries provenance.
	Tag(raw any, origin provenance.Origin) provenance.Value
}
