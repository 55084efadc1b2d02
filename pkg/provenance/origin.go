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

// Package provenance implements the tracked-value lattice, the append-only
// call store, and the data-flow graph that together make up the gateway's
// provenance layer.
package provenance

import (
	"fmt"
	"sort"
	"time"
)

// Origin is the atomic provenance reference: a prior tool call within the
// current run. CallID has the form "<tool_name>#<k>".
type Origin struct {
	CallID    string
	ToolName  string
	Timestamp time.Time
}

// NewCallID builds the "<tool_name>#<k>" identifier used as both the
// Origin's and the ToolCallRecord's identity.
func NewCallID(toolName string, k int) string {
	return fmt.Sprintf("%s#%d", toolName, k)
}

// OriginSet is an immutable-by-convention set of Origins keyed by call_id.
// Callers must treat values returned from Union as fresh sets and
// never mutate a set obtained from a Value.
type OriginSet map[string]Origin

// NewOriginSet builds a set from the given origins.
func NewOriginSet(origins ...Origin) OriginSet {
	s := make(OriginSet, len(origins))
	for _, o := range origins {
		s[o.CallID] = o
	}
	return s
}

// Union returns a new set containing every origin in s and all others.
// The empty set is monotone under Union: combining with it never drops
// anything already present, which is the lattice's core invariant.
func (s OriginSet) Union(others ...OriginSet) OriginSet {
	out := make(OriginSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	for _, other := range others {
		for k, v := range other {
			out[k] = v
		}
	}
	return out
}

// CallIDs returns the set's call_ids in sorted order.
func (s OriginSet) CallIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the set has no origins.
func (s OriginSet) Empty() bool {
	return len(s) == 0
}
