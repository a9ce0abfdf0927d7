// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package signin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
)

func newTestModel(url string) Model {
	return New(styles.NewTheme("dark"), backend.NewClient(url, "anon-key"))
}

func TestTabMovesFocusBetweenFields(t *testing.T) {
	m := newTestModel("http://127.0.0.1:1")

	assert.Equal(t, fieldEmail, m.focus)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldPassword, m.focus)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldEmail, m.focus)
}

func TestSubmitRequiresBothFields(t *testing.T) {
	m := newTestModel("http://127.0.0.1:1")
	m.setFocus(fieldPassword)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, "Ingresa tu correo y contraseña.", m.errMsg)
	assert.False(t, m.busy)
}

func TestSubmitSuccessEmitsSignedInMsg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_in":3600,"user":{"id":"u1","email":"ana@banco.mx"}}`))
	}))
	defer srv.Close()

	m := newTestModel(srv.URL)
	m.inputs[fieldEmail].SetValue("ana@banco.mx")
	m.inputs[fieldPassword].SetValue("secreta")
	m.setFocus(fieldPassword)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	msg := extractAuthMsg(t, cmd)
	signed, ok := msg.(SignedInMsg)
	require.True(t, ok, "expected SignedInMsg, got %T", msg)
	assert.Equal(t, "u1", signed.Session.User.ID)

	m, _ = m.Update(signed)
	assert.False(t, m.busy)
}

func TestSubmitBadCredentialsShowsInlineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	m := newTestModel(srv.URL)
	m.inputs[fieldEmail].SetValue("ana@banco.mx")
	m.inputs[fieldPassword].SetValue("mala")
	m.setFocus(fieldPassword)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := extractAuthMsg(t, cmd)
	failed, ok := msg.(signInFailedMsg)
	require.True(t, ok, "expected signInFailedMsg, got %T", msg)
	assert.Equal(t, "Correo o contraseña incorrectos.", failed.message)

	m, _ = m.Update(failed)
	assert.False(t, m.busy)
	assert.Contains(t, m.View(), "Correo o contraseña incorrectos.")
}

// extractAuthMsg runs the batched submit command and returns the
// authentication result, skipping the spinner tick.
func extractAuthMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	require.True(t, ok, "expected tea.BatchMsg, got %T", msg)
	for _, c := range batch {
		got := c()
		switch got.(type) {
		case SignedInMsg, signInFailedMsg:
			return got
		}
	}
	t.Fatal("no auth result in batch")
	return nil
}
