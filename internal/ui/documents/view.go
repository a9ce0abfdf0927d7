// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package documents

import (
	"fmt"
	"strings"

	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/components"
)

// View renders the active surface.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm()
	case modeUploading:
		return m.viewUploading()
	case modeSearch:
		return m.viewSearch()
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder
	title := "Biblioteca de documentos"
	if m.offline {
		title += "  (copia local)"
	}
	b.WriteString(m.theme.PanelTitle.Render(title) + "\n\n")

	if m.loading {
		b.WriteString(m.theme.Muted.Render("Cargando...") + "\n")
	}
	b.WriteString(m.table.View() + "\n")

	if m.page != nil {
		totalPages := (m.page.Total + pageSize - 1) / pageSize
		if totalPages == 0 {
			totalPages = 1
		}
		b.WriteString(m.theme.Muted.Render(
			fmt.Sprintf("Página %d de %d · %d documentos", m.pageNum+1, totalPages, m.page.Total)) + "\n")
	}
	if len(m.queue) > 0 {
		b.WriteString(m.theme.ToastWarning.Render(
			fmt.Sprintf("%d archivo(s) en cola · u para subir", len(m.queue))) + "\n")
	}

	bar := components.StatusBar{
		Left: "Documentos",
		Shortcuts: []components.Shortcut{
			{Key: "u", Desc: "subir"},
			{Key: "n/p", Desc: "página"},
			{Key: "/", Desc: "buscar"},
			{Key: "r", Desc: "refrescar"},
		},
	}
	b.WriteString(bar.Render(m.theme, m.width))
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Subir documento") + "\n\n")

	labels := [3]string{"Ruta", "Alias", "Descripción"}
	for i := range m.inputs {
		label := m.theme.Muted.Render(labels[i])
		if m.formRow == i {
			label = m.theme.Emphasis.Render(labels[i])
		}
		b.WriteString(label + "\n" + m.inputs[i].View() + "\n")
	}

	for row := rowAreas; row < rowCount; row++ {
		title := facetRowTitles[row]
		if m.formRow == row {
			b.WriteString("\n" + m.theme.FacetCursor.Render("» ") + m.theme.FacetTitle.Render(title) + "\n")
		} else {
			b.WriteString("\n  " + m.theme.Muted.Render(title) + "\n")
		}
		opts := m.facetOptions(row)
		if len(opts) == 0 {
			b.WriteString(m.theme.Muted.Render("  (vacío)") + "\n")
			continue
		}
		var items []string
		for i, opt := range opts {
			mark := "[ ]"
			style := m.theme.FacetOption
			if m.facetSelected(row, opt.ID) {
				mark = "[x]"
				style = m.theme.FacetSelected
			}
			item := style.Render(mark + " " + opt.Name)
			if m.formRow == row && i == m.optIdx[row] {
				item = m.theme.FacetCursor.Render(">") + item
			}
			items = append(items, item)
		}
		b.WriteString("  " + strings.Join(items, "  ") + "\n")
	}

	bar := components.StatusBar{
		Left: "Subir",
		Shortcuts: []components.Shortcut{
			{Key: "Tab", Desc: "campo"},
			{Key: "Espacio", Desc: "marcar"},
			{Key: "C-g", Desc: "subir"},
			{Key: "Esc", Desc: "cancelar"},
		},
	}
	b.WriteString("\n" + bar.Render(m.theme, m.width))
	return b.String()
}

func (m Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Buscar documentos") + "\n\n")
	b.WriteString(m.searchInput.View() + "\n\n")
	b.WriteString(m.theme.Muted.Render("Enter buscar · Esc volver"))
	return b.String()
}

func (m Model) viewUploading() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Subiendo documento") + "\n\n")
	b.WriteString(m.rail.Render(m.theme, m.width))
	return b.String()
}
