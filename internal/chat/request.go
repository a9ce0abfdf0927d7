// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package chat

import (
	"errors"
	"strings"

	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
)

// DefaultUserID is sent when no user is signed in.
const DefaultUserID = "user123"

var (
	// ErrEmptyUserID indicates a request without a user identifier.
	ErrEmptyUserID = errors.New("chat: userId is required")
	// ErrEmptyMessage indicates a request whose message is blank.
	ErrEmptyMessage = errors.New("chat: message is required")
)

// Request is the wire payload of one user turn. The facet slices are never
// null on the wire: an empty selection serializes as [].
type Request struct {
	UserID     string   `json:"userId"`
	Message    string   `json:"message"`
	Areas      []string `json:"area"`
	Categories []string `json:"category"`
	Sources    []string `json:"source"`
	Tags       []string `json:"tags"`
}

// NewRequest builds a validated request from the message and the current
// filter selection. The message is trimmed; empty facet slices stay
// non-nil so they serialize as [] rather than null.
func NewRequest(userID, message string, filters *model.FilterState) Request {
	if userID == "" {
		userID = DefaultUserID
	}
	if filters == nil {
		filters = model.NewFilterState()
	}
	return Request{
		UserID:     userID,
		Message:    strings.TrimSpace(message),
		Areas:      filters.Values(model.FacetArea),
		Categories: filters.Values(model.FacetCategory),
		Sources:    filters.Values(model.FacetSource),
		Tags:       filters.Values(model.FacetTag),
	}
}

// Validate checks the request before it goes on the wire.
func (r Request) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(r.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}
