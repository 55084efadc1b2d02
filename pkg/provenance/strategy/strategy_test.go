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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/toolgateway/gateway/pkg/provenance"
)

func origin(tool string, k int) provenance.Origin {
	return provenance.Origin{
		CallID:    provenance.NewCallID(tool, k),
		ToolName:  tool,
		Timestamp: time.Unix(int64(k), 0),
	}
}

// TestTransparentAndInstrumented_AgreeOnSharedSubset checks the spec's
// equivalence requirement: on the program subset both strategies support,
// Combine must produce identical origin sets.
func TestTransparentAndInstrumented_AgreeOnSharedSubset(t *testing.T) {
	a := provenance.NewOriginSet(origin("fetch", 0))
	b := provenance.NewOriginSet(origin("fetch", 1))

	transparent := Transparent{}
	instrumented := NewInstrumented()

	gotT := transparent.Combine(a, b)
	gotI := instrumented.Combine(a, b)

	assert.Equal(t, gotT, gotI)
}

func TestNone_CombineAlwaysEmpty(t *testing.T) {
	a := provenance.NewOriginSet(origin("fetch", 0))
	got := None{}.Combine(a)
	assert.True(t, got.Empty())
}

func TestNone_TagIgnoresOrigin(t *testing.T) {
	v := None{}.Tag("result", origin("fetch", 0))
	assert.Equal(t, "result", v.Raw)
	assert.True(t, v.Origins.Empty())
}

func TestTransparent_TagCarriesOrigin(t *testing.T) {
	o := origin("fetch", 0)
	v := Transparent{}.Tag("result", o)
	assert.Len(t, v.Origins, 1)
	assert.Equal(t, o, v.Origins[o.CallID])
}

func TestInstrumented_TrackAssignAndOriginsOf(t *testing.T) {
	s := NewInstrumented()
	set := provenance.NewOriginSet(origin("fetch", 0))

	assert.True(t, s.OriginsOf("missing").Empty())

	s.TrackAssign("x", set)
	assert.Equal(t, set, s.OriginsOf("x"))
}

func TestCombine_NoOperandsIsEmpty(t *testing.T) {
	assert.True(t, Transparent{}.Combine().Empty())
	assert.True(t, NewInstrumented().Combine().Empty())
	assert.True(t, None{}.Combine().Empty())
}
