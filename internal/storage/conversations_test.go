// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package storage

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
)

func newTestStore(t *testing.T, max int) *ConversationStore {
	t.Helper()
	store, err := NewConversationStore(t.TempDir(), max)
	require.NoError(t, err)
	return store
}

func sampleConversation(title string) *StoredConversation {
	return &StoredConversation{
		Title: title,
		Turns: []model.ChatTurn{
			{ID: model.NewTurnID(), Role: model.RoleUser, Content: "¿Qué dice la circular?", Timestamp: time.Now()},
			{ID: model.NewTurnID(), Role: model.RoleAssistant, Content: "La circular establece reportes trimestrales.", Timestamp: time.Now()},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t, 0)

	id, err := store.Save(sampleConversation("Circular CNBV"))
	require.NoError(t, err)

	loaded, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "Circular CNBV", loaded.Title)
	require.Len(t, loaded.Turns, 2)
	assert.Equal(t, model.RoleUser, loaded.Turns[0].Role)
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t, 0)
	_, err := store.Load("conv_inexistente")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestListSortedByUpdate(t *testing.T) {
	store := newTestStore(t, 0)

	first := sampleConversation("primera")
	first.UpdatedAt = time.Now().Add(-time.Hour)
	_, err := store.Save(first)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = store.Save(sampleConversation("segunda"))
	require.NoError(t, err)

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "segunda", metas[0].Title)
}

func TestSearchMatchesTitleAndContent(t *testing.T) {
	store := newTestStore(t, 0)
	_, err := store.Save(sampleConversation("Onboarding de clientes"))
	require.NoError(t, err)

	byTitle, err := store.Search("onboarding")
	require.NoError(t, err)
	assert.Len(t, byTitle, 1)

	byContent, err := store.Search("trimestrales")
	require.NoError(t, err)
	assert.Len(t, byContent, 1)

	none, err := store.Search("hipotecas")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t, 0)
	id, err := store.Save(sampleConversation("borrar"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))
	_, err = store.Load(id)
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.ErrorIs(t, store.Delete(id), ErrConversationNotFound)
}

func TestEnforceLimitPrunesOldest(t *testing.T) {
	store := newTestStore(t, 2)

	for _, title := range []string{"uno", "dos", "tres"} {
		_, err := store.Save(sampleConversation(title))
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "tres", metas[0].Title)
	assert.Equal(t, "dos", metas[1].Title)
}

func TestSnapshotTranscript(t *testing.T) {
	tr := model.NewTranscript("¡Hola!")
	id, ok := tr.BeginExchange("¿Cuáles son las políticas de TI vigentes para accesos remotos?")
	require.True(t, ok)
	require.True(t, tr.Resolve(id, tr.Generation(), "Las políticas exigen MFA.", nil))

	filters := model.NewFilterState()
	filters.Toggle(model.FacetArea, "TI")

	conv := SnapshotTranscript(tr, filters)
	assert.True(t, strings.HasPrefix(conv.Title, "¿Cuáles son las políticas de TI"))
	assert.LessOrEqual(t, utf8.RuneCountInString(conv.Title), 50)
	assert.True(t, strings.HasSuffix(conv.Title, "..."))
	assert.Len(t, conv.Turns, 3)
	require.NotNil(t, conv.Filters)
	assert.True(t, conv.Filters.Selected(model.FacetArea, "TI"))
}

func TestExportMarkdown(t *testing.T) {
	conv := sampleConversation("Exportar")
	conv.Turns[1].Sources = []model.SourceReference{{Source: "circular.pdf", Page: "7", MatchingText: "reportes"}}
	conv.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	md := conv.ExportMarkdown()
	assert.Contains(t, md, "# Exportar")
	assert.Contains(t, md, "**Tú:** ¿Qué dice la circular?")
	assert.Contains(t, md, "Fuente: circular.pdf, pág. 7")
}
