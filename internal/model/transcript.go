// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package model

import (
	"strings"
	"time"
)

// SessionPhase is the state of the single chat exchange slot.
type SessionPhase int

const (
	// PhaseIdle means no exchange is in flight; submissions are accepted.
	PhaseIdle SessionPhase = iota
	// PhaseAwaiting means a request was sent and the response is pending.
	PhaseAwaiting
	// PhaseTyping means the answer arrived and is being typed out.
	PhaseTyping
	// PhaseError means the last exchange failed; submissions are accepted.
	PhaseError
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaiting:
		return "awaiting"
	case PhaseTyping:
		return "typing"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Transcript is the append-only turn log plus the exchange state machine.
// It is not safe for concurrent use: all mutation happens on the UI update
// loop, and async results re-enter through messages carrying the turn ID
// and generation they were started with.
type Transcript struct {
	greeting   string
	turns      []*ChatTurn
	phase      SessionPhase
	generation uint64
	activeID   string
	words      []string
	wordPos    int
}

// NewTranscript returns a transcript seeded with the assistant greeting.
func NewTranscript(greeting string) *Transcript {
	t := &Transcript{greeting: greeting}
	t.seed()
	return t
}

func (t *Transcript) seed() {
	t.turns = []*ChatTurn{{
		ID:        NewTurnID(),
		Role:      RoleAssistant,
		Content:   t.greeting,
		Timestamp: time.Now(),
	}}
}

// Turns returns the turn list. Callers must treat it as read-only.
func (t *Transcript) Turns() []*ChatTurn {
	out := make([]*ChatTurn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns, greeting included.
func (t *Transcript) Len() int { return len(t.turns) }

// Phase returns the current exchange phase.
func (t *Transcript) Phase() SessionPhase { return t.phase }

// Generation returns the reset counter. Async completions carry the
// generation they started under and are dropped when it no longer matches.
func (t *Transcript) Generation() uint64 { return t.generation }

// ActiveTurnID returns the ID of the in-flight assistant turn, or "".
func (t *Transcript) ActiveTurnID() string { return t.activeID }

// CanSubmit reports whether a new exchange may start. Only one exchange is
// in flight at a time; a failed exchange does not block the next one.
func (t *Transcript) CanSubmit() bool {
	return t.phase == PhaseIdle || t.phase == PhaseError
}

// BeginExchange appends the user turn and an assistant placeholder, and
// moves to PhaseAwaiting. It is a no-op when the trimmed text is empty or
// an exchange is already in flight.
func (t *Transcript) BeginExchange(text string) (placeholderID string, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !t.CanSubmit() {
		return "", false
	}

	now := time.Now()
	t.turns = append(t.turns, &ChatTurn{
		ID:        NewTurnID(),
		Role:      RoleUser,
		Content:   trimmed,
		Timestamp: now,
	})

	placeholder := &ChatTurn{
		ID:        NewTurnID(),
		Role:      RoleAssistant,
		Timestamp: now,
		Pending:   true,
	}
	t.turns = append(t.turns, placeholder)

	t.phase = PhaseAwaiting
	t.activeID = placeholder.ID
	t.words = nil
	t.wordPos = 0
	return placeholder.ID, true
}

// Resolve delivers the answer for the placeholder turn and starts typing.
// Stale deliveries (wrong generation or turn ID) are dropped. An empty
// answer completes immediately without a typing phase.
func (t *Transcript) Resolve(turnID string, gen uint64, answer string, sources []SourceReference) bool {
	turn := t.active(turnID, gen)
	if turn == nil || t.phase != PhaseAwaiting {
		return false
	}

	turn.Pending = false
	turn.FullContent = answer
	turn.Sources = sources
	turn.Timestamp = time.Now()

	t.words = splitWords(answer)
	t.wordPos = 0
	if len(t.words) == 0 {
		turn.Content = answer
		t.finish(turn)
		return true
	}

	turn.Typing = true
	turn.Content = ""
	t.phase = PhaseTyping
	return true
}

// TypeNextWord appends the next word of the resolved answer to the visible
// content. done is true once the full answer is visible. Stale ticks
// (after a Reset or for a finished turn) return ok=false and are ignored.
func (t *Transcript) TypeNextWord(turnID string, gen uint64) (done, ok bool) {
	turn := t.active(turnID, gen)
	if turn == nil || t.phase != PhaseTyping {
		return false, false
	}

	if turn.Content == "" {
		turn.Content = t.words[t.wordPos]
	} else {
		turn.Content += " " + t.words[t.wordPos]
	}
	t.wordPos++

	if t.wordPos >= len(t.words) {
		turn.Content = turn.FullContent
		t.finish(turn)
		return true, true
	}
	return false, true
}

// Fail resolves the placeholder to an error turn and moves to PhaseError.
// Stale failures are dropped.
func (t *Transcript) Fail(turnID string, gen uint64, terr *TurnError) bool {
	turn := t.active(turnID, gen)
	if turn == nil || t.phase != PhaseAwaiting {
		return false
	}

	turn.Pending = false
	turn.Err = terr
	turn.Timestamp = time.Now()
	t.phase = PhaseError
	t.activeID = ""
	t.words = nil
	t.wordPos = 0
	return true
}

// Reset restores the transcript to just the greeting and bumps the
// generation so in-flight completions and typing ticks become stale.
func (t *Transcript) Reset() {
	t.generation++
	t.phase = PhaseIdle
	t.activeID = ""
	t.words = nil
	t.wordPos = 0
	t.seed()
}

// RemainingWords returns how many words are still to be typed.
func (t *Transcript) RemainingWords() int {
	if t.phase != PhaseTyping {
		return 0
	}
	return len(t.words) - t.wordPos
}

func (t *Transcript) finish(turn *ChatTurn) {
	turn.Typing = false
	t.phase = PhaseIdle
	t.activeID = ""
	t.words = nil
	t.wordPos = 0
}

func (t *Transcript) active(turnID string, gen uint64) *ChatTurn {
	if gen != t.generation || turnID == "" || turnID != t.activeID {
		return nil
	}
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].ID == turnID {
			return t.turns[i]
		}
	}
	return nil
}

// splitWords splits on any whitespace run; the original spacing is restored
// from FullContent when typing completes.
func splitWords(s string) []string {
	return strings.Fields(s)
}
