// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
)

// AuthUser is the signed-in identity.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session holds the tokens returned by the password grant.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         AuthUser  `json:"user"`
}

// Expired reports whether the access token has passed its expiry.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

func (c *Client) token(ctx context.Context, grant string, body any) (*Session, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + "/auth/v1/token?grant_type=" + grant
	h := http.Header{}
	h.Set("apikey", c.anonKey)

	var tok tokenResponse
	if err := api.DoJSON(ctx, c.httpClient, http.MethodPost, u, h, body, &tok); err != nil {
		return nil, err
	}

	session := &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
		User:         tok.User,
	}
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return session, nil
}

// SignIn performs the password grant and installs the session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.token(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Refresh exchanges the refresh token for a new session.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session == nil || session.RefreshToken == "" {
		return nil, ErrNotAuthenticated
	}
	return c.token(ctx, "refresh_token", map[string]string{
		"refresh_token": session.RefreshToken,
	})
}

// RestoreSession installs a session loaded from the local vault.
func (c *Client) RestoreSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// SignOut drops the session locally and revokes it server-side on a best
// effort basis.
func (c *Client) SignOut(ctx context.Context) {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil || !c.Configured() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	if resp, err := c.httpClient.Do(req); err == nil {
		resp.Body.Close()
	}
}

// CurrentUser returns the signed-in identity, or ErrNotAuthenticated.
func (c *Client) CurrentUser() (AuthUser, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return AuthUser{}, ErrNotAuthenticated
	}
	return c.session.User, nil
}

// CurrentSession returns a copy of the active session, or nil.
func (c *Client) CurrentSession() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}
