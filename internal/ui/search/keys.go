// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package search

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keyboard bindings for the search page.
type KeyMap struct {
	Submit        key.Binding
	NewChat       key.Binding
	ToggleSidebar key.Binding
	ClearFilters  key.Binding
	NextFacet     key.Binding
	PrevFacet     key.Binding
	Up            key.Binding
	Down          key.Binding
	Toggle        key.Binding
	Back          key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Suggestion    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "enviar"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "nueva conversación"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "filtros"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "limpiar filtros"),
		),
		NextFacet: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("→", "siguiente faceta"),
		),
		PrevFacet: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("←", "faceta anterior"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "subir"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "bajar"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("Espacio", "marcar"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "volver"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "página arriba"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "página abajo"),
		),
		Suggestion: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "sugerencia"),
		),
	}
}
