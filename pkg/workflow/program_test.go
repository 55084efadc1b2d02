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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
)

const validProgram = `
package workflow

import "toolgateway/tools/search"

func workflow() (any, error) {
	args := make(map[string]any)
	args["query"] = "hello"
	result, err := search(args)
	if err != nil {
		return nil, err
	}
	return result, nil
}
`

func TestParse_ValidProgram(t *testing.T) {
	p, err := Parse(validProgram, map[string]struct{}{"search": {}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"search": "search"}, p.Imports)
	assert.Equal(t, entryFuncName, p.Entry.Name.Name)
}

func TestParse_AliasedImportBindsAliasName(t *testing.T) {
	src := `
package workflow

import s "toolgateway/tools/search"

func workflow() (any, error) {
	return nil, nil
}
`
	p, err := Parse(src, map[string]struct{}{"search": {}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"s": "search"}, p.Imports)
}

func TestParse_ImportOutsideNamespaceIsDisallowed(t *testing.T) {
	src := `
package workflow

import "os"

func workflow() (any, error) {
	return nil, nil
}
`
	_, err := Parse(src, map[string]struct{}{})
	var disallowed *gwerrors.ImportDisallowedError
	require.ErrorAs(t, err, &disallowed)
	assert.Equal(t, "os", disallowed.Path)
}

func TestParse_UnknownToolIsRejected(t *testing.T) {
	src := `
package workflow

import "toolgateway/tools/nonexistent"

func workflow() (any, error) {
	return nil, nil
}
`
	_, err := Parse(src, map[string]struct{}{"search": {}})
	var unknown *gwerrors.UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nonexistent", unknown.Name)
}

func TestParse_MissingEntryFunction(t *testing.T) {
	src := `
package workflow

func notTheEntry() (any, error) {
	return nil, nil
}
`
	_, err := Parse(src, map[string]struct{}{})
	var missing *gwerrors.MissingEntryError
	require.ErrorAs(t, err, &missing)
}

func TestParse_SyntaxErrorIsWrapped(t *testing.T) {
	_, err := Parse("not valid go {{{", map[string]struct{}{})
	require.Error(t, err)
}
