// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"net/http"
	"net/url"
)

// User is one row of the users table.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
}

// UserPage is one window of the user directory with the exact total.
type UserPage struct {
	Users []User
	Total int
}

// ListUsers returns one page of users, newest first. page is zero-based.
func (c *Client) ListUsers(ctx context.Context, page, pageSize int) (*UserPage, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page < 0 {
		page = 0
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	from := page * pageSize
	to := from + pageSize - 1

	var rows []User
	total, err := c.restCount(ctx, "users", q, from, to, &rows)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: rows, Total: total}, nil
}

// GetUserByID fetches one user row.
func (c *Client) GetUserByID(ctx context.Context, id string) (*User, error) {
	h := http.Header{}
	h.Set("Accept", "application/vnd.pgrst.object+json")

	var user User
	if err := c.rest(ctx, http.MethodGet, "users", singleRowQuery(id), h, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
