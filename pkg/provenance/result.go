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

// ExecutionResult is the outcome of one workflow run: the unwrapped root
// value plus the ordered call records that produced it.
type ExecutionResult struct {
	Returned any
	Calls    []ToolCallRecord
}

// serializedCall is the wire shape of one ToolCallRecord (§6).
type serializedCall struct {
	CallID       string              `json:"call_id"`
	ToolName     string              `json:"tool_name"`
	InputValue   map[string]any      `json:"input_value"`
	InputOrigins map[string][]string `json:"input_origins"`
	OutputValue  any                 `json:"output_value"`
	Timestamp    float64             `json:"timestamp"`
	DurationMS   float64             `json:"duration_ms"`
}

// Serialized is the canonical JSON shape of an ExecutionResult.
type Serialized struct {
	Returned any              `json:"returned"`
	Calls    []serializedCall `json:"calls"`
	DataFlow Graph            `json:"data_flow"`
}

// Serialize converts an ExecutionResult to its canonical JSON-ready form.
func (r ExecutionResult) Serialize() Serialized {
	calls := make([]serializedCall, len(r.Calls))
	for i, c := range r.Calls {
		origins := c.InputOrigins
		if origins == nil {
			origins = map[string][]string{}
		}
		calls[i] = serializedCall{
			CallID:       c.CallID,
			ToolName:     c.ToolName,
			InputValue:   c.InputValue,
			InputOrigins: origins,
			OutputValue:  c.OutputValue,
			Timestamp:    float64(c.Timestamp.UnixNano()) / 1e9,
			DurationMS:   c.DurationMS,
		}
	}
	return Serialized{
		Returned: r.Returned,
		Calls:    calls,
		DataFlow: BuildGraph(r.Calls),
	}
}
