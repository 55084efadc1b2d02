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

import "sort"

// GraphNode is one tool call in the derived data-flow graph.
type GraphNode struct {
	ID        string  `json:"id"`
	Tool      string  `json:"tool"`
	Timestamp float64 `json:"timestamp"`
}

// GraphEdge connects a source call to a sink call that consumed one of
// its outputs, labelled with every argument name the data flowed through.
type GraphEdge struct {
	Source string   `json:"source"`
	Sink   string   `json:"sink"`
	Args   []string `json:"args"`
}

// Graph is the serializable data-flow graph derived from an Execution
// Result's call records.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// BuildGraph derives a Graph from a run's ordered call records. Edges with
// the same (source, sink) pair are merged, with args collected and
// sorted.
func BuildGraph(records []ToolCallRecord) Graph {
	nodes := make([]GraphNode, len(records))
	for i, r := range records {
		nodes[i] = GraphNode{
			ID:        r.CallID,
			Tool:      r.ToolName,
			Timestamp: float64(r.Timestamp.UnixNano()) / 1e9,
		}
	}

	type edgeKey struct{ source, sink string }
	argsByEdge := make(map[edgeKey]map[string]struct{})
	var order []edgeKey

	for _, r := range records {
		for arg, origins := range r.InputOrigins {
			for _, source := range origins {
				key := edgeKey{source: source, sink: r.CallID}
				set, ok := argsByEdge[key]
				if !ok {
					set = make(map[string]struct{})
					argsByEdge[key] = set
					order = append(order, key)
				}
				set[arg] = struct{}{}
			}
		}
	}

	edges := make([]GraphEdge, 0, len(order))
	for _, key := range order {
		args := make([]string, 0, len(argsByEdge[key]))
		for a := range argsByEdge[key] {
			args = append(args, a)
		}
		sort.Strings(args)
		edges = append(edges, GraphEdge{Source: key.source, Sink: key.sink, Args: args})
	}

	return Graph{Nodes: nodes, Edges: edges}
}
