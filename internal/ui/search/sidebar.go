// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package search

import (
	"fmt"
	"strings"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
)

// facetOrder fixes the sidebar layout: areas, categories, sources, tags.
var facetOrder = []struct {
	facet model.Facet
	title string
}{
	{model.FacetArea, "Áreas"},
	{model.FacetCategory, "Categorías"},
	{model.FacetSource, "Fuentes"},
	{model.FacetTag, "Etiquetas"},
}

// facetValues returns the vocabulary names for the facet at index i.
func (m Model) facetValues(i int) []string {
	if m.options == nil || i < 0 || i >= len(facetOrder) {
		return nil
	}
	switch facetOrder[i].facet {
	case model.FacetArea:
		return backend.Names(m.options.Areas)
	case model.FacetCategory:
		return backend.Names(m.options.Categories)
	case model.FacetSource:
		return backend.Names(m.options.Sources)
	case model.FacetTag:
		return backend.Names(m.options.Tags)
	}
	return nil
}

// renderSidebar draws the four facet lists with selection marks.
func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.theme.FacetTitle.Render("Filtros"))
	if n := m.filters.Count(); n > 0 {
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf(" (%d)", n)))
	}
	b.WriteString("\n")

	if m.options == nil {
		b.WriteString(m.theme.Muted.Render("Cargando filtros..."))
		return b.String()
	}

	for i, entry := range facetOrder {
		title := entry.title
		if m.focus == focusSidebar && i == m.facetIdx {
			title = m.theme.FacetCursor.Render("» ") + m.theme.FacetTitle.Render(title)
		} else {
			title = "  " + m.theme.Muted.Render(title)
		}
		b.WriteString("\n" + title + "\n")

		values := m.facetValues(i)
		if len(values) == 0 {
			b.WriteString(m.theme.Muted.Render("  (vacío)") + "\n")
			continue
		}
		for j, name := range values {
			mark := "[ ]"
			style := m.theme.FacetOption
			if m.filters.Selected(entry.facet, name) {
				mark = "[x]"
				style = m.theme.FacetSelected
			}
			cursor := "  "
			if m.focus == focusSidebar && i == m.facetIdx && j == m.optionIdx {
				cursor = m.theme.FacetCursor.Render("> ")
			}
			b.WriteString(cursor + style.Render(mark+" "+name) + "\n")
		}
	}
	return b.String()
}

// renderChips shows the active selection above the input when the sidebar
// is hidden.
func (m Model) renderChips() string {
	if m.filters.IsEmpty() {
		return ""
	}
	var chips []string
	for _, entry := range facetOrder {
		for _, v := range m.filters.Values(entry.facet) {
			chips = append(chips, m.theme.FilterChip.Render(v))
		}
	}
	return strings.Join(chips, " ")
}
