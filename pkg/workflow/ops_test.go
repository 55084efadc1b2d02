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

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBinaryOp_IntArithmetic(t *testing.T) {
	v, err := applyBinaryOp(token.ADD, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestApplyBinaryOp_IntDivisionTruncates(t *testing.T) {
	v, err := applyBinaryOp(token.QUO, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestApplyBinaryOp_IntDivisionByZero(t *testing.T) {
	_, err := applyBinaryOp(token.QUO, 10, 0)
	assert.Error(t, err)
}

func TestApplyBinaryOp_FloatDivision(t *testing.T) {
	v, err := applyBinaryOp(token.QUO, 7.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)
}

func TestApplyBinaryOp_StringConcatenation(t *testing.T) {
	v, err := applyBinaryOp(token.ADD, "foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, "foobar", v)
}

func TestApplyBinaryOp_Comparison(t *testing.T) {
	v, err := applyBinaryOp(token.LSS, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestApplyBinaryOp_Equality(t *testing.T) {
	v, err := applyBinaryOp(token.EQL, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestApplyBinaryOp_MismatchedTypesError(t *testing.T) {
	_, err := applyBinaryOp(token.SUB, "a", 1)
	assert.Error(t, err)
}
