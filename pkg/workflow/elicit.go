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

package workflow

import "context"

// Capability is the engine's elicitation interface (spec.md §4.9): it
// presents message to the operator and asks for a value of responseType
// ("string", "bool", "int", "float"). A declined or cancelled elicitation
// returns a *pkg/errors.UserDeclinedError or *pkg/errors.UserCancelledError
// respectively, which aborts the run as a WorkflowFailureError.
//
// Engines that run without operator interaction (batch mode, tests) may
// leave Capability unset; any program that calls elicit then fails
// immediately rather than hanging.
type Capability interface {
	Elicit(ctx context.Context, message, responseType string) (any, error)
}

func capabilityFunc(cap Capability) elicitFunc {
	if cap == nil {
		return nil
	}
	return cap.Elicit
}
