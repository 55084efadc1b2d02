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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCallID_Format(t *testing.T) {
	assert.Equal(t, "search#0", NewCallID("search", 0))
	assert.Equal(t, "search#1", NewCallID("search", 1))
}

func TestOriginSet_UnionIsImmutable(t *testing.T) {
	a := origin("t", 0)
	b := origin("t", 1)
	s1 := NewOriginSet(a)
	s2 := s1.Union(NewOriginSet(b))

	assert.Len(t, s1, 1, "Union must not mutate its receiver")
	assert.Len(t, s2, 2)
}

func TestOriginSet_UnionWithEmptyIsMonotone(t *testing.T) {
	a := origin("t", 0)
	s := NewOriginSet(a)
	got := s.Union(OriginSet{})
	assert.Equal(t, s, got)
}

func TestOriginSet_CallIDsSorted(t *testing.T) {
	s := NewOriginSet(origin("z", 0), origin("a", 0))
	assert.Equal(t, []string{"a#0", "z#0"}, s.CallIDs())
}

func TestOriginSet_Empty(t *testing.T) {
	assert.True(t, OriginSet{}.Empty())
	assert.False(t, NewOriginSet(origin("t", 0)).Empty())
}
