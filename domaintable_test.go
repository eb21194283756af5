// Copyright 2025 The Rivaas Authors
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

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainTable_ExactBeatsWildcardSubdomain(t *testing.T) {
	t.Parallel()
	dt := newDomainTable()
	exact := dt.entryFor("shop.example.com")
	wildcard := dt.entryFor("*.example.com")

	e, prefix, ok := dt.resolve("shop.example.com")
	require.True(t, ok)
	assert.Same(t, exact, e)
	assert.Empty(t, prefix)
	_ = wildcard
}

func TestDomainTable_WildcardSubdomainCapturesPrefix(t *testing.T) {
	t.Parallel()
	dt := newDomainTable()
	dt.entryFor("*.example.com")

	e, prefix, ok := dt.resolve("acme.example.com")
	require.True(t, ok)
	assert.Equal(t, "*.example.com", e.pattern)
	assert.Equal(t, "acme", prefix)
}

func TestDomainTable_WildcardSubdomainDeclarationOrderWins(t *testing.T) {
	t.Parallel()
	dt := newDomainTable()
	first := dt.entryFor("*.a.example.com")
	dt.entryFor("*.example.com")

	e, _, ok := dt.resolve("tenant.a.example.com")
	require.True(t, ok)
	assert.Same(t, first, e)
}

func TestDomainTable_FallbackWildcardWhenNothingElseMatches(t *testing.T) {
	t.Parallel()
	dt := newDomainTable()
	dt.entryFor("shop.example.com")
	fallback := dt.entryFor("*")

	e, prefix, ok := dt.resolve("unrelated.invalid")
	require.True(t, ok)
	assert.Same(t, fallback, e)
	assert.Empty(t, prefix)
}

func TestDomainTable_NoMatchWithoutFallback(t *testing.T) {
	t.Parallel()
	dt := newDomainTable()
	dt.entryFor("shop.example.com")

	_, _, ok := dt.resolve("unrelated.invalid")
	assert.False(t, ok)
}

func TestDomainTable_EntryForIsIdempotentPerPattern(t *testing.T) {
	t.Parallel()
	dt := newDomainTable()
	a := dt.entryFor("shop.example.com")
	b := dt.entryFor("shop.example.com")
	assert.Same(t, a, b)

	wa := dt.entryFor("*.example.com")
	wb := dt.entryFor("*.example.com")
	assert.Same(t, wa, wb)
}
