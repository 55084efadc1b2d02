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

package mcpconnector

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
)

// call forwards one dispatch to the remote server and parses its result
// into a plain Go value: a single text content block is decoded as JSON
// when possible (falling back to the raw string), multiple blocks are
// returned as a list of the same.
func (s *session) call(ctx context.Context, bareName string, args map[string]any) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: bareName, Arguments: args},
	})
	if err != nil {
		return nil, &gwerrors.ToolExecutionError{Tool: bareName, Cause: err}
	}

	values := make([]any, 0, len(result.Content))
	for _, c := range result.Content {
		values = append(values, decodeContent(c))
	}

	if result.IsError {
		return nil, &gwerrors.ToolExecutionError{Tool: bareName, Cause: errorFromContent(values)}
	}

	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return values[0], nil
	default:
		return values, nil
	}
}

func decodeContent(c mcp.Content) any {
	text, ok := mcp.AsTextContent(c)
	if !ok {
		return c
	}
	var decoded any
	if err := json.Unmarshal([]byte(text.Text), &decoded); err == nil {
		return decoded
	}
	return text.Text
}

func errorFromContent(values []any) error {
	if len(values) == 0 {
		return errors.New("remote tool reported an error")
	}
	if s, ok := values[0].(string); ok {
		return errors.New(s)
	}
	return errors.New("remote tool reported an error")
}
