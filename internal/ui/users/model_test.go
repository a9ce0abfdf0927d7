// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package users

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/components"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
)

func newTestModel() Model {
	return New(styles.NewTheme("dark"), backend.NewClient("http://127.0.0.1:1", "anon"), components.NewToastManager())
}

func TestPageLoadedFillsTable(t *testing.T) {
	m := newTestModel()

	m, _ = m.Update(PageLoadedMsg{Page: &backend.UserPage{
		Users: []backend.User{
			{ID: "u1", Email: "ana@banco.mx", FullName: "Ana Torres", CreatedAt: "2025-01-15T09:00:00Z"},
			{ID: "u2", Email: "luis@banco.mx"},
		},
		Total: 2,
	}})

	out := m.View()
	assert.Contains(t, out, "Ana Torres")
	assert.Contains(t, out, "luis@banco.mx")
	assert.Contains(t, out, "Página 1 de 1 · 2 usuarios")
}

func TestPaginationRespectsTotal(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(PageLoadedMsg{Page: &backend.UserPage{Total: 40}})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.pageNum)

	m, _ = m.Update(PageLoadedMsg{Page: &backend.UserPage{Total: 40}})
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	require.NotNil(t, cmd)
	assert.Equal(t, 2, m.pageNum)

	m, _ = m.Update(PageLoadedMsg{Page: &backend.UserPage{Total: 40}})
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.pageNum)
}

func TestLoadFailureRaisesToast(t *testing.T) {
	m := newTestModel()

	m, _ = m.Update(PageLoadedMsg{Err: assert.AnError})

	assert.True(t, m.toasts.Active())
}
