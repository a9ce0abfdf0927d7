// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package search

import (
	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/chat"
	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
)

// ResponseMsg delivers a successful answer for a pending turn. TurnID and
// Generation identify the exchange it was started for; stale ones are
// dropped by the update loop.
type ResponseMsg struct {
	TurnID     string
	Generation uint64
	Response   *chat.Response
}

// ResponseErrMsg delivers a failed exchange.
type ResponseErrMsg struct {
	TurnID     string
	Generation uint64
	Err        *model.TurnError
}

// TypeTickMsg advances the typing animation by one word.
type TypeTickMsg struct {
	TurnID     string
	Generation uint64
}

// FiltersLoadedMsg delivers the facet vocabularies for the sidebar.
type FiltersLoadedMsg struct {
	Options *backend.FacetOptions
	Err     error
}

// NewResponseMsg builds a ResponseMsg.
func NewResponseMsg(turnID string, gen uint64, resp *chat.Response) ResponseMsg {
	return ResponseMsg{TurnID: turnID, Generation: gen, Response: resp}
}

// NewResponseErrMsg builds a ResponseErrMsg.
func NewResponseErrMsg(turnID string, gen uint64, terr *model.TurnError) ResponseErrMsg {
	return ResponseErrMsg{TurnID: turnID, Generation: gen, Err: terr}
}
