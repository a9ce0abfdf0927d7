// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package search

import (
	"context"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/chat"
	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
)

// sendCmd issues the chat request off the update loop. Whatever comes back
// is tagged with the turn and generation it was started for so the update
// loop can discard it after a reset.
func sendCmd(client *chat.Client, req chat.Request, turnID string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Send(context.Background(), req)
		if err != nil {
			te := api.Classify(err)
			return NewResponseErrMsg(turnID, gen, &model.TurnError{
				Message: te.Message,
				Code:    te.Code,
			})
		}
		return NewResponseMsg(turnID, gen, resp)
	}
}

// typeTickCmd schedules the next word of the typing animation after a
// random delay inside the configured bounds.
func typeTickCmd(turnID string, gen uint64, minMs, maxMs int) tea.Cmd {
	if maxMs <= minMs {
		maxMs = minMs + 1
	}
	delay := time.Duration(minMs+rand.Intn(maxMs-minMs)) * time.Millisecond
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TypeTickMsg{TurnID: turnID, Generation: gen}
	})
}

// loadFiltersCmd fetches the four facet vocabularies for the sidebar.
func loadFiltersCmd(client *backend.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		opts, err := client.LoadFilterOptions(ctx)
		return FiltersLoadedMsg{Options: opts, Err: err}
	}
}
