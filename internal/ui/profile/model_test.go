// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package profile

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

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestEditPrefillsFromProfile(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(LoadedMsg{Profile: &backend.Profile{ID: "u1", Name: "Ana Torres", Nickname: "ana"}})

	m, _ = m.Update(keyRune('e'))

	assert.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "Ana Torres", m.inputs[fieldName].Value())
	assert.Equal(t, "ana", m.inputs[fieldNickname].Value())
}

func TestEditBlockedWithoutProfile(t *testing.T) {
	m := newTestModel()

	m, cmd := m.Update(keyRune('e'))

	assert.Equal(t, modeView, m.mode)
	assert.Nil(t, cmd)
}

func TestEnterSavesAndReturnsToView(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(LoadedMsg{Profile: &backend.Profile{ID: "u1", Name: "Ana"}})
	m, _ = m.Update(keyRune('e'))
	m.inputs[fieldName].SetValue("Ana María Torres")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	m, _ = m.Update(SavedMsg{Profile: &backend.Profile{ID: "u1", Name: "Ana María Torres"}})
	assert.False(t, m.busy)
	assert.Equal(t, modeView, m.mode)
	assert.Equal(t, "Ana María Torres", m.profile.Name)
}

func TestSaveFailureKeepsEditMode(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(LoadedMsg{Profile: &backend.Profile{ID: "u1"}})
	m, _ = m.Update(keyRune('e'))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = m.Update(SavedMsg{Err: assert.AnError})

	assert.False(t, m.busy)
	assert.Equal(t, modeEdit, m.mode)
	assert.True(t, m.toasts.Active())
}

func TestAvatarResultUpdatesCard(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(LoadedMsg{Profile: &backend.Profile{ID: "u1", Name: "Ana"}})
	m, _ = m.Update(keyRune('a'))
	assert.Equal(t, modeAvatar, m.mode)
	m.busy = true

	m, _ = m.Update(AvatarMsg{URL: "https://cdn/banco/avatar.png"})

	assert.Equal(t, modeView, m.mode)
	assert.Equal(t, "https://cdn/banco/avatar.png", m.profile.ImgURL)
	assert.Contains(t, m.View(), "avatar.png")
}
