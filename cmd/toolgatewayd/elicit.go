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

package main

import (
	"context"
	"strconv"

	"github.com/charmbracelet/huh"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
)

// TerminalCapability answers a workflow program's elicit() calls with an
// interactive huh prompt on the controlling terminal. It is the
// reference workflow.Capability implementation used by the CLI entry
// point; a hosted gateway would substitute a capability backed by its
// own planner/LLM surface instead (out of scope here).
type TerminalCapability struct{}

// Elicit prompts for message and parses the response according to
// responseType ("bool", "int", "float", or anything else treated as a
// free-form string). Declining a confirm prompt returns
// *errors.UserDeclinedError.
func (TerminalCapability) Elicit(_ context.Context, message, responseType string) (any, error) {
	switch responseType {
	case "bool", "confirm":
		confirmed := true
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return nil, &gwerrors.UserCancelledError{Message: err.Error()}
		}
		if !confirmed {
			return nil, &gwerrors.UserDeclinedError{Message: message}
		}
		return true, nil

	case "int":
		var raw string
		if err := runInputForm(message, &raw); err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &gwerrors.ValidationError{Field: "response", Message: "expected an integer"}
		}
		return int(n), nil

	case "float":
		var raw string
		if err := runInputForm(message, &raw); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &gwerrors.ValidationError{Field: "response", Message: "expected a number"}
		}
		return f, nil

	default:
		var raw string
		if err := runInputForm(message, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
}

func runInputForm(message string, into *string) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(message).
			Value(into),
	))
	if err := form.Run(); err != nil {
		return &gwerrors.UserCancelledError{Message: err.Error()}
	}
	return nil
}
