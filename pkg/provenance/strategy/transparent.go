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

// Transparent implements Strategy T: every observable operation the
// interpreter performs on a tracked value (index, iterate, attribute
// access, arithmetic) interposes and unions the origins of every operand
// into the result. There is no separate carrier type in this Go
// implementation — provenance.Value already behaves as the interposing
// carrier described in the design, since every interpreter primitive
// calls through Combine rather than touching Raw directly.
type Transparent struct{}

func (Transparent) Name() string { return "transparent" }

func (Transparent) Combine(operands ...provenance.OriginSet) provenance.OriginSet {
	if len(operands) == 0 {
		return provenance.OriginSet{}
	}
	return operands[0].Union(operands[1:]...)
}

func (Transparent) Tag(raw any, origin provenance.Origin) provenance.Value {
	return provenance.FromCall(raw, origin)
}
