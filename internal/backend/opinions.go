// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Opinion is one expert annotation on a saved assistant message, with the
// expert's display name resolved from the profiles table.
type Opinion struct {
	ID           string `json:"id"`
	MessageID    string `json:"message_id"`
	ExpertUserID string `json:"expert_user_id"`
	ExpertName   string `json:"-"`
	Opinion      string `json:"opinion"`
	DocumentURL  string `json:"document_url,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// Opinions only exist for messages persisted by the platform, which keys
// them by UUID. Local turn IDs never match and skip the request.
var messageUUID = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// ListOpinions returns the expert opinions for one saved message, newest
// first. A non-UUID message ID yields an empty list without a request.
func (c *Client) ListOpinions(ctx context.Context, messageID string) ([]Opinion, error) {
	if !messageUUID.MatchString(strings.ToLower(messageID)) {
		return nil, nil
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("message_id", "eq."+messageID)
	q.Set("order", "created_at.desc")

	var opinions []Opinion
	if err := c.rest(ctx, http.MethodGet, "expert_opinions", q, nil, nil, &opinions); err != nil {
		return nil, err
	}
	if len(opinions) == 0 {
		return opinions, nil
	}

	names, err := c.expertNames(ctx, opinions)
	if err != nil {
		// The opinions themselves loaded; show them without names.
		names = nil
	}
	for i := range opinions {
		opinions[i].ExpertName = names[opinions[i].ExpertUserID]
		if opinions[i].ExpertName == "" {
			opinions[i].ExpertName = "Experto"
		}
	}
	return opinions, nil
}

// expertNames fetches the nicknames for every distinct expert in one query.
func (c *Client) expertNames(ctx context.Context, opinions []Opinion) (map[string]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, op := range opinions {
		if !seen[op.ExpertUserID] {
			seen[op.ExpertUserID] = true
			ids = append(ids, op.ExpertUserID)
		}
	}

	q := url.Values{}
	q.Set("select", "id,nickname")
	q.Set("id", "in.("+strings.Join(ids, ",")+")")

	var rows []struct {
		ID       string `json:"id"`
		Nickname string `json:"nickname"`
	}
	if err := c.rest(ctx, http.MethodGet, "profiles", q, nil, nil, &rows); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(rows))
	for _, r := range rows {
		names[r.ID] = r.Nickname
	}
	return names, nil
}
