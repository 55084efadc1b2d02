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

package strategy

import (
	"sync"

	"github.com/toolgateway/gateway/pkg/provenance"
)

// Instrumented implements Strategy I: rather than a carrier that
// interposes on every operation, the engine's interpreter is itself the
// "rewritten program" — it already walks the workflow as a restricted
// AST, so program transformation and direct execution are the same code
// path. What a source-to-source rewrite would inject as track_assign,
// track_subscript, and track_attr calls, Instrumented exposes as an
// OriginMap the interpreter writes at each variable binding; index and
// selector expressions derive their origins through Combine alone.
//
// Combine applies the identical union rule as Transparent: the two
// strategies must produce identical data-flow graphs on the program
// subset they both support (indexing, iteration, arithmetic, tool
// dispatch), and they do, because both route through the same combinator.
// The distinguishing behavior lives in TrackAssign, which the interpreter
// calls on every variable binding to record the bound value's origins into
// the OriginMap the way track_assign would.
type Instrumented struct {
	mu        sync.Mutex
	originMap map[string]provenance.OriginSet
}

// NewInstrumented creates an Instrumented strategy with an empty
// per-run OriginMap.
func NewInstrumented() *Instrumented {
	return &Instrumented{originMap: make(map[string]provenance.OriginSet)}
}

func (*Instrumented) Name() string { return "instrumented" }

func (*Instrumented) Combine(operands ...provenance.OriginSet) provenance.OriginSet {
	if len(operands) == 0 {
		return provenance.OriginSet{}
	}
	return operands[0].Union(operands[1:]...)
}

func (*Instrumented) Tag(raw any, origin provenance.Origin) provenance.Value {
	return provenance.FromCall(raw, origin)
}

// TrackAssign is the track_assign helper: it records the origin set bound
// to a variable name, mirroring what an instrumented program would call
// immediately after each assignment statement.
func (s *Instrumented) TrackAssign(name string, origins provenance.OriginSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.originMap[name] = origins
}

// OriginsOf is the read side of the OriginMap: the origins last recorded
// for a variable name, or the empty set if none were.
func (s *Instrumented) OriginsOf(name string) provenance.OriginSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.originMap[name]; ok {
		return set
	}
	return provenance.OriginSet{}
}
