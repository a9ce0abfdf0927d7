// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// Profile is one row of the profiles table.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Role      string `json:"role,omitempty"`
	Status    string `json:"status,omitempty"`
	ImgURL    string `json:"img_url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ProfileUpdate carries the editable fields.
type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	ImgURL   string `json:"img_url,omitempty"`
}

func singleRowQuery(id string) url.Values {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)
	return q
}

// GetProfile fetches the signed-in user's profile, creating an empty one
// when it does not exist yet.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	user, err := c.CurrentUser()
	if err != nil {
		return nil, err
	}

	h := http.Header{}
	h.Set("Accept", "application/vnd.pgrst.object+json")

	var profile Profile
	err = c.rest(ctx, http.MethodGet, "profiles", singleRowQuery(user.ID), h, nil, &profile)
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, ErrNoRows) {
		return nil, err
	}

	// First visit: create the row and return it.
	ph := http.Header{}
	ph.Set("Prefer", "return=representation")
	var created []Profile
	if err := c.rest(ctx, http.MethodPost, "profiles", nil, ph, map[string]string{"id": user.ID}, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, ErrNoRows
	}
	return &created[0], nil
}

// UpdateProfile patches the signed-in user's profile and returns the
// updated row.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	user, err := c.CurrentUser()
	if err != nil {
		return nil, err
	}

	h := http.Header{}
	h.Set("Prefer", "return=representation")

	var rows []Profile
	if err := c.rest(ctx, http.MethodPatch, "profiles", singleRowQuery(user.ID), h, update, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return &rows[0], nil
}

// UploadProfileImage stores the avatar in the public bucket and points the
// profile at its public URL.
func (c *Client) UploadProfileImage(ctx context.Context, data []byte, contentType string) (string, error) {
	user, err := c.CurrentUser()
	if err != nil {
		return "", err
	}

	path := "profiles/" + user.ID + "/avatar.png"
	if err := c.UploadObject(ctx, "public-assets", path, data, contentType, true); err != nil {
		return "", err
	}

	publicURL := c.PublicURL("public-assets", path)
	if _, err := c.UpdateProfile(ctx, ProfileUpdate{ImgURL: publicURL}); err != nil {
		return "", err
	}
	return publicURL, nil
}
