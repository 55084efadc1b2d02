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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestBuildGraph_Diamond exercises the seed diamond scenario: a produces
// a value consumed by both b and c, and b and c's outputs both feed d.
func TestBuildGraph_Diamond(t *testing.T) {
	records := []ToolCallRecord{
		{CallID: "a#0", ToolName: "a", Timestamp: time.Unix(0, 0)},
		{CallID: "b#0", ToolName: "b", Timestamp: time.Unix(1, 0),
			InputOrigins: map[string][]string{"x": {"a#0"}}},
		{CallID: "c#0", ToolName: "c", Timestamp: time.Unix(2, 0),
			InputOrigins: map[string][]string{"x": {"a#0"}}},
		{CallID: "d#0", ToolName: "d", Timestamp: time.Unix(3, 0),
			InputOrigins: map[string][]string{"left": {"b#0"}, "right": {"c#0"}}},
	}

	g := BuildGraph(records)

	assert.Len(t, g.Nodes, 4)
	assert.ElementsMatch(t, []GraphEdge{
		{Source: "a#0", Sink: "b#0", Args: []string{"x"}},
		{Source: "a#0", Sink: "c#0", Args: []string{"x"}},
		{Source: "b#0", Sink: "d#0", Args: []string{"left"}},
		{Source: "c#0", Sink: "d#0", Args: []string{"right"}},
	}, g.Edges)
}

// TestBuildGraph_MergesEdgesBySourceSink exercises the merged-origins
// scenario: two arguments to the same call both trace back to the same
// source call, and must collapse into one edge with both arg names.
func TestBuildGraph_MergesEdgesBySourceSink(t *testing.T) {
	records := []ToolCallRecord{
		{CallID: "fetch#0", ToolName: "fetch", Timestamp: time.Unix(0, 0)},
		{CallID: "add#0", ToolName: "add", Timestamp: time.Unix(1, 0),
			InputOrigins: map[string][]string{"a": {"fetch#0"}, "b": {"fetch#0"}}},
	}

	g := BuildGraph(records)

	assert.Len(t, g.Edges, 1)
	assert.Equal(t, GraphEdge{Source: "fetch#0", Sink: "add#0", Args: []string{"a", "b"}}, g.Edges[0])
}

func TestBuildGraph_NoEdgesWhenNoOrigins(t *testing.T) {
	records := []ToolCallRecord{
		{CallID: "fetch#0", ToolName: "fetch", Timestamp: time.Unix(0, 0)},
	}
	g := BuildGraph(records)
	assert.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)
}
