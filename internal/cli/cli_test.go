// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/chat"
	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
	"github.com/luke-chia/leximind-knowledge-hub/internal/nlsql"
	"github.com/luke-chia/leximind-knowledge-hub/internal/storage"
)

func TestParseArgsDefaultsToTUI(t *testing.T) {
	args, err := ParseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, CmdTUI, args.Command)
}

func TestParseArgsAskWithFilters(t *testing.T) {
	args, err := ParseArgs([]string{
		"ask", "--area", "Crédito", "--area", "Riesgos", "--tag", "CNBV",
		"qué", "dice", "la", "circular",
	})
	require.NoError(t, err)
	assert.Equal(t, CmdAsk, args.Command)
	assert.Equal(t, "qué dice la circular", args.Query)
	assert.Equal(t, []string{"Crédito", "Riesgos"}, args.Areas)
	assert.Equal(t, []string{"CNBV"}, args.Tags)
}

func TestParseArgsLockSubcommand(t *testing.T) {
	args, err := ParseArgs([]string{"lock", "enroll"})
	require.NoError(t, err)
	assert.Equal(t, CmdLock, args.Command)
	assert.Equal(t, "enroll", args.Subcommand)
}

func TestParseArgsOpinionsCarriesMessageID(t *testing.T) {
	args, err := ParseArgs([]string{"opiniones", "3f2b8c1a-9d4e-4b6f-8a2c-1e5d7f9b0a3c"})
	require.NoError(t, err)
	assert.Equal(t, CmdOpinions, args.Command)
	assert.Equal(t, "3f2b8c1a-9d4e-4b6f-8a2c-1e5d7f9b0a3c", args.Query)
}

func TestOpinionsMarkdownListsExperts(t *testing.T) {
	md := opinionsMarkdown([]backend.Opinion{
		{ExpertName: "Lic. Ramírez", Opinion: "La circular fue derogada.", CreatedAt: "2025-05-20T10:00:00Z"},
		{ExpertName: "Experto", Opinion: "Revisar el anexo B.", DocumentURL: "https://docs.banco.mx/anexo-b"},
	})

	assert.Contains(t, md, "## Opiniones de expertos")
	assert.Contains(t, md, "**Lic. Ramírez** (2025-05-20): La circular fue derogada.")
	assert.Contains(t, md, "[documento](https://docs.banco.mx/anexo-b)")
}

func TestParseArgsRejectsUnknown(t *testing.T) {
	_, err := ParseArgs([]string{"fly"})
	assert.Error(t, err)

	_, err = ParseArgs([]string{"--turbo"})
	assert.Error(t, err)

	_, err = ParseArgs([]string{"ask", "--area"})
	assert.Error(t, err)
}

func TestAnswerMarkdownIncludesSources(t *testing.T) {
	md := answerMarkdown(&chat.Response{
		Response: "La circular exige identificación del cliente.",
		Sources: []model.SourceReference{
			{Source: "circular.pdf", Page: "12", MatchingText: "identificación"},
		},
	})
	assert.Contains(t, md, "## Fuentes")
	assert.Contains(t, md, "**circular.pdf**, pág. 12")
}

func TestResultMarkdownBuildsTable(t *testing.T) {
	md := resultMarkdown(&nlsql.Response{
		GeneratedSQL: "SELECT sucursal FROM clientes",
		Results: []map[string]any{
			{"sucursal": "Norte", "total": 42},
		},
		Metadata: nlsql.Metadata{RowCount: 1, TablesUsed: []string{"clientes"}},
	})
	assert.Contains(t, md, "```sql")
	assert.Contains(t, md, "| sucursal | total |")
	assert.Contains(t, md, "| Norte | 42 |")
	assert.Contains(t, md, "tablas: clientes")
}

func TestHandleChatCommandFilterToggle(t *testing.T) {
	transcript := model.NewTranscript("hola")
	filters := model.NewFilterState()

	quit := handleChatCommand("/filter area Crédito", transcript, filters, nil)
	assert.False(t, quit)
	assert.True(t, filters.Selected(model.FacetArea, "Crédito"))

	handleChatCommand("/filter area Crédito", transcript, filters, nil)
	assert.False(t, filters.Selected(model.FacetArea, "Crédito"))

	assert.True(t, handleChatCommand("/quit", transcript, filters, nil))
}

func TestHandleChatCommandSave(t *testing.T) {
	transcript := model.NewTranscript("hola")
	filters := model.NewFilterState()
	store, err := storage.NewConversationStore(t.TempDir(), 10)
	require.NoError(t, err)

	// Nothing beyond the greeting: nothing saved.
	handleChatCommand("/save", transcript, filters, store)
	metas, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, metas)

	turnID, ok := transcript.BeginExchange("¿qué es KYC?")
	require.True(t, ok)
	transcript.Resolve(turnID, transcript.Generation(), "Conoce a tu cliente.", nil)
	for {
		done, ok := transcript.TypeNextWord(turnID, transcript.Generation())
		if !ok || done {
			break
		}
	}

	handleChatCommand("/save", transcript, filters, store)
	metas, err = store.List()
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}
