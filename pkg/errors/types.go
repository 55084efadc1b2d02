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

package errors

import (
	"fmt"
	"time"
)

// ValidationError represents malformed or schema-invalid tool arguments.
type ValidationError struct {
	// Tool is the tool the arguments were intended for.
	Tool string

	// Field identifies which argument failed validation, if known.
	Field string

	// Message is the human-readable error description.
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s.%s: %s", e.Tool, e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Tool, e.Message)
}

func (e *ValidationError) IsUserVisible() bool { return true }
func (e *ValidationError) UserMessage() string { return e.Error() }
func (e *ValidationError) Suggestion() string {
	return "check the tool's input schema and retry with corrected arguments"
}
func (e *ValidationError) ErrorType() string { return "validation" }
func (e *ValidationError) IsRetryable() bool { return false }

// DuplicateToolError is raised when a tool is registered under a name that
// already exists in the registry.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool already registered: %s", e.Name)
}

func (e *DuplicateToolError) IsUserVisible() bool { return true }
func (e *DuplicateToolError) UserMessage() string { return e.Error() }
func (e *DuplicateToolError) Suggestion() string {
	return "choose a different tool name or remove the existing registration first"
}
func (e *DuplicateToolError) ErrorType() string { return "duplicate_tool" }
func (e *DuplicateToolError) IsRetryable() bool { return false }

// ToolNotFoundError is raised when a gateway operation names a tool that is
// not present in the registry.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}

func (e *ToolNotFoundError) IsUserVisible() bool { return true }
func (e *ToolNotFoundError) UserMessage() string { return e.Error() }
func (e *ToolNotFoundError) Suggestion() string {
	return "run search_tools to see the registered catalog"
}
func (e *ToolNotFoundError) ErrorType() string { return "not_found" }
func (e *ToolNotFoundError) IsRetryable() bool { return false }

// ImportDisallowedError is raised when a workflow program imports a
// namespace outside the reserved tool-proxy prefix.
type ImportDisallowedError struct {
	Path string
}

func (e *ImportDisallowedError) Error() string {
	return fmt.Sprintf("import not permitted in workflow program: %s", e.Path)
}

func (e *ImportDisallowedError) IsUserVisible() bool { return true }
func (e *ImportDisallowedError) UserMessage() string { return e.Error() }
func (e *ImportDisallowedError) Suggestion() string {
	return "only import toolgateway/tools/<name> paths or import_path values returned by search_tools"
}
func (e *ImportDisallowedError) ErrorType() string { return "import_disallowed" }
func (e *ImportDisallowedError) IsRetryable() bool { return false }

// UnknownToolError is raised when a workflow program references a tool
// proxy that was imported but does not resolve to a registered tool.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool referenced in workflow: %s", e.Name)
}

func (e *UnknownToolError) IsUserVisible() bool { return true }
func (e *UnknownToolError) UserMessage() string { return e.Error() }
func (e *UnknownToolError) Suggestion() string {
	return "register the tool, or check the import path for a typo"
}
func (e *UnknownToolError) ErrorType() string { return "unknown_tool" }
func (e *UnknownToolError) IsRetryable() bool { return false }

// MissingEntryError is raised when a workflow program has no workflow()
// entry function.
type MissingEntryError struct{}

func (e *MissingEntryError) Error() string {
	return "workflow program has no workflow() entry function"
}

func (e *MissingEntryError) IsUserVisible() bool { return true }
func (e *MissingEntryError) UserMessage() string { return e.Error() }
func (e *MissingEntryError) Suggestion() string {
	return "define a workflow() function as the program's entry point"
}
func (e *MissingEntryError) ErrorType() string { return "missing_entry" }
func (e *MissingEntryError) IsRetryable() bool { return false }

// TimeoutError represents a bounded operation exceeding its deadline.
type TimeoutError struct {
	// Operation describes what timed out (e.g. "tool call", "workflow run").
	Operation string

	// Duration is how long the operation ran before timing out.
	Duration time.Duration

	// Cause is the underlying error, if any.
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Operation, e.Duration)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

func (e *TimeoutError) IsUserVisible() bool { return true }
func (e *TimeoutError) UserMessage() string { return e.Error() }
func (e *TimeoutError) Suggestion() string {
	return "retry the operation, or increase the configured timeout"
}
func (e *TimeoutError) ErrorType() string { return "timeout" }
func (e *TimeoutError) IsRetryable() bool { return true }

// ToolExecutionError wraps a failure raised by a tool's own execution,
// whether local or remote.
type ToolExecutionError struct {
	Tool   string
	CallID string
	Cause  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s (call %s) failed: %v", e.Tool, e.CallID, e.Cause)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Cause
}

func (e *ToolExecutionError) IsUserVisible() bool { return true }
func (e *ToolExecutionError) UserMessage() string { return e.Error() }
func (e *ToolExecutionError) Suggestion() string {
	return "inspect the tool's error output and retry if the failure looks transient"
}
func (e *ToolExecutionError) ErrorType() string { return "tool_execution" }
func (e *ToolExecutionError) IsRetryable() bool { return true }

// WorkflowFailureError wraps an error that terminated a workflow run,
// together with the state the run reached.
type WorkflowFailureError struct {
	RunID string
	State string
	Cause error
}

func (e *WorkflowFailureError) Error() string {
	return fmt.Sprintf("workflow run %s failed in state %s: %v", e.RunID, e.State, e.Cause)
}

func (e *WorkflowFailureError) Unwrap() error {
	return e.Cause
}

func (e *WorkflowFailureError) IsUserVisible() bool { return true }
func (e *WorkflowFailureError) UserMessage() string { return e.Error() }
func (e *WorkflowFailureError) Suggestion() string {
	return fmt.Sprintf("review the %s stage and fix the workflow program or its inputs", e.State)
}
func (e *WorkflowFailureError) ErrorType() string { return "workflow_failure" }
func (e *WorkflowFailureError) IsRetryable() bool { return false }

// RemoteTransportError represents a failure talking to a remote tool
// server (connect, handshake, list, call, or teardown).
type RemoteTransportError struct {
	Server    string
	Operation string
	Cause     error
}

func (e *RemoteTransportError) Error() string {
	return fmt.Sprintf("remote server %s: %s failed: %v", e.Server, e.Operation, e.Cause)
}

func (e *RemoteTransportError) Unwrap() error {
	return e.Cause
}

func (e *RemoteTransportError) IsUserVisible() bool { return true }
func (e *RemoteTransportError) UserMessage() string { return e.Error() }
func (e *RemoteTransportError) Suggestion() string {
	return fmt.Sprintf("confirm server %q is reachable and retry", e.Server)
}
func (e *RemoteTransportError) ErrorType() string { return "remote_transport" }
func (e *RemoteTransportError) IsRetryable() bool { return true }

// UserDeclinedError is raised when an elicitation capability reports that
// the operator explicitly declined to supply a requested value.
type UserDeclinedError struct {
	Message string
}

func (e *UserDeclinedError) Error() string {
	return fmt.Sprintf("user declined elicitation: %s", e.Message)
}

func (e *UserDeclinedError) IsUserVisible() bool { return true }
func (e *UserDeclinedError) UserMessage() string { return e.Error() }
func (e *UserDeclinedError) Suggestion() string  { return "" }
func (e *UserDeclinedError) ErrorType() string   { return "user_declined" }
func (e *UserDeclinedError) IsRetryable() bool   { return false }

// UserCancelledError is raised when an elicitation is cancelled before the
// operator responds (e.g. workflow timeout, context cancellation).
type UserCancelledError struct {
	Message string
}

func (e *UserCancelledError) Error() string {
	return fmt.Sprintf("elicitation cancelled: %s", e.Message)
}

func (e *UserCancelledError) IsUserVisible() bool { return true }
func (e *UserCancelledError) UserMessage() string { return e.Error() }
func (e *UserCancelledError) Suggestion() string {
	return "retry and respond to the prompt this time"
}
func (e *UserCancelledError) ErrorType() string { return "user_cancelled" }
func (e *UserCancelledError) IsRetryable() bool { return true }

// ConfigError represents a problem with gateway or connector configuration.
type ConfigError struct {
	Key    string
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

func (e *ConfigError) IsUserVisible() bool { return true }
func (e *ConfigError) UserMessage() string { return e.Error() }
func (e *ConfigError) Suggestion() string {
	return "fix the referenced configuration key and restart"
}
func (e *ConfigError) ErrorType() string { return "config" }
func (e *ConfigError) IsRetryable() bool { return false }
