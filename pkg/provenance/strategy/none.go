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

import "github.com/toolgateway/gateway/pkg/provenance"

// None implements Strategy N: no provenance tracking. Call records still
// get appended for every tool invocation, but input_origins is always
// empty.
type None struct{}

func (None) Name() string { return "none" }

func (None) Combine(...provenance.OriginSet) provenance.OriginSet {
	return provenance.OriginSet{}
}

func (None) Tag(raw any, origin provenance.Origin) provenance.Value {
	return provenance.Literal(raw)
}
