// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greeting = "¡Hola! Soy tu asistente de conocimiento."

func TestNewTranscriptSeedsGreeting(t *testing.T) {
	tr := NewTranscript(greeting)

	require.Equal(t, 1, tr.Len())
	turn := tr.Turns()[0]
	assert.Equal(t, RoleAssistant, turn.Role)
	assert.Equal(t, greeting, turn.Content)
	assert.Equal(t, PhaseIdle, tr.Phase())
}

func TestBeginExchangeRejectsEmptyInput(t *testing.T) {
	tr := NewTranscript(greeting)

	for _, input := range []string{"", "   ", "\n\t "} {
		_, ok := tr.BeginExchange(input)
		assert.False(t, ok, "input %q should be rejected", input)
	}
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, PhaseIdle, tr.Phase())
}

func TestBeginExchangeAppendsUserAndPlaceholder(t *testing.T) {
	tr := NewTranscript(greeting)

	id, ok := tr.BeginExchange("  ¿Qué exige la CNBV?  ")
	require.True(t, ok)
	require.Equal(t, 3, tr.Len())

	turns := tr.Turns()
	assert.Equal(t, RoleUser, turns[1].Role)
	assert.Equal(t, "¿Qué exige la CNBV?", turns[1].Content)
	assert.Equal(t, RoleAssistant, turns[2].Role)
	assert.True(t, turns[2].Pending)
	assert.Equal(t, id, turns[2].ID)
	assert.Equal(t, PhaseAwaiting, tr.Phase())
}

func TestBeginExchangeSingleFlight(t *testing.T) {
	tr := NewTranscript(greeting)

	_, ok := tr.BeginExchange("primera")
	require.True(t, ok)

	_, ok = tr.BeginExchange("segunda")
	assert.False(t, ok, "submit while awaiting must be a no-op")
	assert.Equal(t, 3, tr.Len())
}

func TestResolveStartsTyping(t *testing.T) {
	tr := NewTranscript(greeting)
	id, _ := tr.BeginExchange("pregunta")

	ok := tr.Resolve(id, tr.Generation(), "uno dos tres", nil)
	require.True(t, ok)
	assert.Equal(t, PhaseTyping, tr.Phase())
	assert.Equal(t, 3, tr.RemainingWords())

	turn := tr.Turns()[2]
	assert.True(t, turn.Typing)
	assert.Equal(t, "", turn.Content)
	assert.Equal(t, "uno dos tres", turn.FullContent)
}

func TestTypingProducesOnePrefixPerWord(t *testing.T) {
	tr := NewTranscript(greeting)
	id, _ := tr.BeginExchange("pregunta")

	answer := "las políticas de riesgo operacional aplican"
	words := strings.Fields(answer)
	require.True(t, tr.Resolve(id, tr.Generation(), answer, nil))

	var seen []string
	for {
		done, ok := tr.TypeNextWord(id, tr.Generation())
		require.True(t, ok)
		seen = append(seen, tr.Turns()[2].Content)
		if done {
			break
		}
	}

	require.Len(t, seen, len(words))
	for i, prefix := range seen[:len(seen)-1] {
		assert.Equal(t, strings.Join(words[:i+1], " "), prefix)
	}
	assert.Equal(t, answer, seen[len(seen)-1])
	assert.Equal(t, PhaseIdle, tr.Phase())
	assert.False(t, tr.Turns()[2].Typing)
}

func TestResolveEmptyAnswerFinishesImmediately(t *testing.T) {
	tr := NewTranscript(greeting)
	id, _ := tr.BeginExchange("pregunta")

	require.True(t, tr.Resolve(id, tr.Generation(), "", nil))
	assert.Equal(t, PhaseIdle, tr.Phase())
	assert.False(t, tr.Turns()[2].Typing)
}

func TestResetDropsStaleCompletionAndTicks(t *testing.T) {
	tr := NewTranscript(greeting)
	id, _ := tr.BeginExchange("pregunta")
	gen := tr.Generation()
	require.True(t, tr.Resolve(id, gen, "uno dos tres", nil))
	_, ok := tr.TypeNextWord(id, gen)
	require.True(t, ok)

	tr.Reset()

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, greeting, tr.Turns()[0].Content)
	assert.Equal(t, PhaseIdle, tr.Phase())

	// Ticks and completions started under the old generation are dropped.
	_, ok = tr.TypeNextWord(id, gen)
	assert.False(t, ok)
	assert.False(t, tr.Resolve(id, gen, "tardía", nil))
	assert.False(t, tr.Fail(id, gen, &TurnError{Message: "x", Code: 500}))
	assert.Equal(t, 1, tr.Len())
}

func TestResetBumpsGeneration(t *testing.T) {
	tr := NewTranscript(greeting)
	gen := tr.Generation()
	tr.Reset()
	assert.Equal(t, gen+1, tr.Generation())
}

func TestFailMarksTurnAndAllowsResubmit(t *testing.T) {
	tr := NewTranscript(greeting)
	id, _ := tr.BeginExchange("pregunta")

	terr := &TurnError{Message: "Error del servidor. Intenta más tarde.", Code: 500}
	require.True(t, tr.Fail(id, tr.Generation(), terr))

	turn := tr.Turns()[2]
	assert.True(t, turn.IsError())
	assert.Equal(t, 500, turn.Err.Code)
	assert.Equal(t, terr.Message, turn.DisplayContent())
	assert.Equal(t, PhaseError, tr.Phase())

	_, ok := tr.BeginExchange("reintento")
	assert.True(t, ok, "error phase must accept a new submit")
}

func TestResolveWrongTurnIDDropped(t *testing.T) {
	tr := NewTranscript(greeting)
	_, _ = tr.BeginExchange("pregunta")

	assert.False(t, tr.Resolve("turn_otro", tr.Generation(), "x", nil))
	assert.Equal(t, PhaseAwaiting, tr.Phase())
}

func TestSourcesAttachedOnResolve(t *testing.T) {
	tr := NewTranscript(greeting)
	id, _ := tr.BeginExchange("pregunta")

	sources := []SourceReference{{Source: "manual.pdf", Page: "12", MatchingText: "el límite aplicable"}}
	require.True(t, tr.Resolve(id, tr.Generation(), "respuesta corta", sources))

	assert.Equal(t, sources, tr.Turns()[2].Sources)
}
