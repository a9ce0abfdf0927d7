// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package model

// Facet identifies one of the four filter dimensions applied to a query.
type Facet string

const (
	FacetArea     Facet = "area"
	FacetCategory Facet = "category"
	FacetSource   Facet = "source"
	FacetTag      Facet = "tag"
)

// Facets lists all facets in display order.
var Facets = []Facet{FacetArea, FacetCategory, FacetSource, FacetTag}

// FilterState holds the selected values per facet. Slices preserve insertion
// order and never contain duplicates; a nil slice and an empty slice both
// mean "no selection".
type FilterState struct {
	Areas      []string
	Categories []string
	Sources    []string
	Tags       []string
}

// NewFilterState returns an empty selection.
func NewFilterState() *FilterState {
	return &FilterState{}
}

// Toggle adds value to the facet if absent, removes it if present.
// Toggling the same value twice restores the previous state.
func (f *FilterState) Toggle(facet Facet, value string) {
	slot := f.slot(facet)
	if slot == nil {
		return
	}
	for i, v := range *slot {
		if v == value {
			*slot = append((*slot)[:i], (*slot)[i+1:]...)
			return
		}
	}
	*slot = append(*slot, value)
}

// Selected reports whether value is currently selected on the facet.
func (f *FilterState) Selected(facet Facet, value string) bool {
	slot := f.slot(facet)
	if slot == nil {
		return false
	}
	for _, v := range *slot {
		if v == value {
			return true
		}
	}
	return false
}

// Values returns the selection for a facet, never nil.
func (f *FilterState) Values(facet Facet) []string {
	slot := f.slot(facet)
	if slot == nil || *slot == nil {
		return []string{}
	}
	out := make([]string, len(*slot))
	copy(out, *slot)
	return out
}

// Clear drops every selection.
func (f *FilterState) Clear() {
	f.Areas = nil
	f.Categories = nil
	f.Sources = nil
	f.Tags = nil
}

// Count returns the total number of selected values across facets.
func (f *FilterState) Count() int {
	return len(f.Areas) + len(f.Categories) + len(f.Sources) + len(f.Tags)
}

// IsEmpty reports whether nothing is selected.
func (f *FilterState) IsEmpty() bool {
	return f.Count() == 0
}

// Clone returns a deep copy so a snapshot can cross a goroutine boundary.
func (f *FilterState) Clone() *FilterState {
	clone := &FilterState{}
	clone.Areas = append([]string(nil), f.Areas...)
	clone.Categories = append([]string(nil), f.Categories...)
	clone.Sources = append([]string(nil), f.Sources...)
	clone.Tags = append([]string(nil), f.Tags...)
	return clone
}

func (f *FilterState) slot(facet Facet) *[]string {
	switch facet {
	case FacetArea:
		return &f.Areas
	case FacetCategory:
		return &f.Categories
	case FacetSource:
		return &f.Sources
	case FacetTag:
		return &f.Tags
	}
	return nil
}
