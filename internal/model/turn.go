// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Role identifies the author of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SourceReference is one cited document fragment attached to an answer.
// Page is a label, not a number: backends emit values like "12" but also
// ranges ("12-13") and roman-numeral front matter.
type SourceReference struct {
	Source       string `json:"source"`
	Page         string `json:"page"`
	MatchingText string `json:"matchingText"`
}

// TurnError is the user-facing failure attached to an assistant turn.
// Code follows the transport taxonomy: HTTP status, 0 for network
// failures, -1 for unknown errors.
type TurnError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// ChatTurn is one entry in the transcript. Assistant turns being typed out
// hold the complete answer in FullContent while Content grows word by word.
type ChatTurn struct {
	ID          string            `json:"id"`
	Role        Role              `json:"role"`
	Content     string            `json:"content"`
	FullContent string            `json:"fullContent,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Pending     bool              `json:"-"`
	Typing      bool              `json:"-"`
	Sources     []SourceReference `json:"sources,omitempty"`
	Err         *TurnError        `json:"error,omitempty"`
}

// IsError reports whether the turn resolved to a failure.
func (t *ChatTurn) IsError() bool {
	return t.Err != nil
}

// DisplayContent returns what the view should render right now: the partial
// text while typing, the error message on failure, the content otherwise.
func (t *ChatTurn) DisplayContent() string {
	if t.Err != nil {
		return t.Err.Message
	}
	return t.Content
}

// NewTurnID returns a stable unique turn identifier.
func NewTurnID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Timestamp fallback keeps IDs unique enough within one session.
		return fmt.Sprintf("turn_%d", time.Now().UnixNano())
	}
	return "turn_" + hex.EncodeToString(b)
}
