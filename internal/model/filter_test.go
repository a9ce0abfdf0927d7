// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterToggleAddsAndRemoves(t *testing.T) {
	f := NewFilterState()

	f.Toggle(FacetArea, "Riesgos")
	assert.True(t, f.Selected(FacetArea, "Riesgos"))
	assert.Equal(t, 1, f.Count())

	f.Toggle(FacetArea, "Riesgos")
	assert.False(t, f.Selected(FacetArea, "Riesgos"))
	assert.True(t, f.IsEmpty())
}

func TestFilterDoubleToggleRestoresState(t *testing.T) {
	f := NewFilterState()
	f.Toggle(FacetArea, "Cumplimiento")
	f.Toggle(FacetCategory, "Manual")
	f.Toggle(FacetTag, "CNBV")
	before := f.Clone()

	f.Toggle(FacetSource, "Circular 4/2023")
	f.Toggle(FacetSource, "Circular 4/2023")

	assert.Equal(t, before.Areas, f.Areas)
	assert.Equal(t, before.Categories, f.Categories)
	assert.Equal(t, before.Sources, f.Sources)
	assert.Equal(t, before.Tags, f.Tags)
}

func TestFilterNoDuplicatesAndOrder(t *testing.T) {
	f := NewFilterState()
	f.Toggle(FacetTag, "a")
	f.Toggle(FacetTag, "b")
	f.Toggle(FacetTag, "c")
	f.Toggle(FacetTag, "b") // remove middle

	assert.Equal(t, []string{"a", "c"}, f.Values(FacetTag))
}

func TestFilterClear(t *testing.T) {
	f := NewFilterState()
	f.Toggle(FacetArea, "TI")
	f.Toggle(FacetCategory, "Política")
	f.Clear()

	assert.True(t, f.IsEmpty())
	assert.NotNil(t, f.Values(FacetArea))
	assert.Empty(t, f.Values(FacetArea))
}

func TestFilterCloneIsIndependent(t *testing.T) {
	f := NewFilterState()
	f.Toggle(FacetArea, "Contabilidad")

	clone := f.Clone()
	clone.Toggle(FacetArea, "Contabilidad")

	assert.True(t, f.Selected(FacetArea, "Contabilidad"))
	assert.False(t, clone.Selected(FacetArea, "Contabilidad"))
}

func TestFilterUnknownFacetIsNoop(t *testing.T) {
	f := NewFilterState()
	f.Toggle(Facet("bogus"), "x")
	assert.True(t, f.IsEmpty())
	assert.Empty(t, f.Values(Facet("bogus")))
}
