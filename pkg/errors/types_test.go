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

package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *gwerrors.ValidationError
		wantMsg string
	}{
		{
			name:    "with field",
			err:     &gwerrors.ValidationError{Tool: "http.get", Field: "url", Message: "required"},
			wantMsg: "validation failed on http.get.url: required",
		},
		{
			name:    "without field",
			err:     &gwerrors.ValidationError{Tool: "http.get", Message: "invalid arguments"},
			wantMsg: "validation failed for http.get: invalid arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestToolNotFoundError_Error(t *testing.T) {
	err := &gwerrors.ToolNotFoundError{Name: "github.list_repos"}
	want := "tool not found: github.list_repos"
	if got := err.Error(); got != want {
		t.Errorf("ToolNotFoundError.Error() = %q, want %q", got, want)
	}
}

func TestDuplicateToolError_Error(t *testing.T) {
	err := &gwerrors.DuplicateToolError{Name: "search"}
	want := "tool already registered: search"
	if got := err.Error(); got != want {
		t.Errorf("DuplicateToolError.Error() = %q, want %q", got, want)
	}
}

func TestImportDisallowedError_Error(t *testing.T) {
	err := &gwerrors.ImportDisallowedError{Path: "os/exec"}
	if got := err.Error(); !strings.Contains(got, "os/exec") {
		t.Errorf("ImportDisallowedError.Error() = %q, want to contain path", got)
	}
}

func TestToolExecutionError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &gwerrors.ToolExecutionError{Tool: "http.get", CallID: "http.get#1", Cause: cause}

	if got := err.Unwrap(); got != cause {
		t.Errorf("ToolExecutionError.Unwrap() = %v, want %v", got, cause)
	}
	if !strings.Contains(err.Error(), "http.get#1") {
		t.Errorf("ToolExecutionError.Error() = %q, want to contain call id", err.Error())
	}
}

func TestRemoteTransportError_Error(t *testing.T) {
	err := &gwerrors.RemoteTransportError{Server: "github", Operation: "close", Cause: errors.New("eof")}
	got := err.Error()
	for _, want := range []string{"github", "close", "eof"} {
		if !strings.Contains(got, want) {
			t.Errorf("RemoteTransportError.Error() = %q, want to contain %q", got, want)
		}
	}
}

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *gwerrors.ConfigError
		wantMsg string
	}{
		{
			name:    "with key",
			err:     &gwerrors.ConfigError{Key: "servers[0].command", Reason: "must not be empty"},
			wantMsg: "config error at servers[0].command: must not be empty",
		},
		{
			name:    "without key",
			err:     &gwerrors.ConfigError{Reason: "file not found"},
			wantMsg: "config error: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ConfigError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	cause := errors.New("file read error")
	err := &gwerrors.ConfigError{Key: "config", Reason: "failed to load", Cause: cause}

	if got := err.Unwrap(); got != cause {
		t.Errorf("ConfigError.Unwrap() = %v, want %v", got, cause)
	}
}

func TestTimeoutError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *gwerrors.TimeoutError
		want    []string
	}{
		{
			name: "tool call timeout",
			err:  &gwerrors.TimeoutError{Operation: "tool call", Duration: 30 * time.Second},
			want: []string{"tool call", "30s"},
		},
		{
			name: "workflow run timeout",
			err:  &gwerrors.TimeoutError{Operation: "workflow run", Duration: 2 * time.Minute},
			want: []string{"workflow run", "2m0s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("TimeoutError.Error() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestTimeoutError_Unwrap(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := &gwerrors.TimeoutError{Operation: "test", Duration: 5 * time.Second, Cause: cause}

	if got := err.Unwrap(); got != cause {
		t.Errorf("TimeoutError.Unwrap() = %v, want %v", got, cause)
	}
}

func TestErrorWrapping(t *testing.T) {
	t.Run("ValidationError can be wrapped", func(t *testing.T) {
		original := &gwerrors.ValidationError{Tool: "x", Field: "email", Message: "invalid format"}
		wrapped := fmt.Errorf("user input validation: %w", original)

		var target *gwerrors.ValidationError
		if !errors.As(wrapped, &target) {
			t.Error("errors.As should find ValidationError in wrapped error")
		}
		if target.Field != "email" {
			t.Errorf("unwrapped error Field = %q, want %q", target.Field, "email")
		}
	})

	t.Run("ToolNotFoundError can be wrapped", func(t *testing.T) {
		original := &gwerrors.ToolNotFoundError{Name: "test"}
		wrapped := fmt.Errorf("dispatch: %w", original)

		var target *gwerrors.ToolNotFoundError
		if !errors.As(wrapped, &target) {
			t.Error("errors.As should find ToolNotFoundError in wrapped error")
		}
		if target.Name != "test" {
			t.Errorf("unwrapped error Name = %q, want %q", target.Name, "test")
		}
	})

	t.Run("WorkflowFailureError preserves cause through wrapping", func(t *testing.T) {
		rootCause := errors.New("import not permitted")
		workflowErr := &gwerrors.WorkflowFailureError{RunID: "run-1", State: "validating", Cause: rootCause}
		wrapped := fmt.Errorf("executing workflow: %w", workflowErr)

		var target *gwerrors.WorkflowFailureError
		if !errors.As(wrapped, &target) {
			t.Error("errors.As should find WorkflowFailureError in wrapped error")
		}
		if target.Unwrap() != rootCause {
			t.Error("WorkflowFailureError.Unwrap() should return root cause")
		}
	})
}

func TestErrorsIs(t *testing.T) {
	t.Run("errors.Is works with wrapped ValidationError", func(t *testing.T) {
		original := &gwerrors.ValidationError{Tool: "test"}
		wrapped := fmt.Errorf("wrapper: %w", original)

		if !errors.Is(wrapped, original) {
			t.Error("errors.Is should find original error in chain")
		}
	})

	t.Run("errors.Is works with wrapped ToolNotFoundError", func(t *testing.T) {
		original := &gwerrors.ToolNotFoundError{Name: "123"}
		wrapped := fmt.Errorf("wrapper: %w", original)

		if !errors.Is(wrapped, original) {
			t.Error("errors.Is should find original error in chain")
		}
	})
}
