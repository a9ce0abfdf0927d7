// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
)

// noRowsCode is the PostgREST code for "zero rows where one was expected".
const noRowsCode = "PGRST116"

var (
	// ErrNotConfigured indicates the platform URL or key is missing.
	ErrNotConfigured = errors.New("backend: project URL and anon key are required")
	// ErrNotAuthenticated indicates no session is active.
	ErrNotAuthenticated = errors.New("backend: not authenticated")
	// ErrNoRows indicates a single-row query matched nothing.
	ErrNoRows = errors.New("backend: no rows found")
)

// restError is the PostgREST error body.
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// Client talks to the hosted platform. Safe for concurrent use; the active
// session is guarded by a mutex so the UI and background commands can share
// one client.
type Client struct {
	baseURL    string
	anonKey    string
	timeout    time.Duration
	httpClient *http.Client

	mu      sync.RWMutex
	session *Session
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient builds a platform client from the project URL and anon key.
func NewClient(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		timeout:    api.DefaultTimeout,
		httpClient: api.HTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether URL and key are present.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// headers returns the auth headers for the current session. The anon key
// doubles as the bearer token until someone signs in.
func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("apikey", c.anonKey)
	token := c.anonKey
	c.mu.RLock()
	if c.session != nil {
		token = c.session.AccessToken
	}
	c.mu.RUnlock()
	h.Set("Authorization", "Bearer "+token)
	return h
}

// rest issues one request against /rest/v1. extra headers may be nil;
// out may be nil for fire-and-forget writes.
func (c *Client) rest(ctx context.Context, method, table string, query url.Values, extra http.Header, in, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	u := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range c.headers() {
		req.Header[k] = vs
	}
	for k, vs := range extra {
		req.Header[k] = vs
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return &api.TransportError{Message: api.MsgTimeout, Code: api.CodeNetwork}
		}
		return api.Classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, api.MaxResponseSize))
	if err != nil {
		return api.Classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var rerr restError
		if json.Unmarshal(data, &rerr) == nil && rerr.Code == noRowsCode {
			return ErrNoRows
		}
		return api.FromStatus(resp.StatusCode, string(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &api.MalformedResponseError{Endpoint: u, Err: err}
		}
	}
	return nil
}

// restCount is rest plus exact-count pagination: it sets the Range header
// for the requested window and parses the total from Content-Range.
func (c *Client) restCount(ctx context.Context, table string, query url.Values, from, to int, out any) (int, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}

	u := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.headers() {
		req.Header[k] = vs
	}
	req.Header.Set("Prefer", "count=exact")
	req.Header.Set("Range-Unit", "items")
	req.Header.Set("Range", fmt.Sprintf("%d-%d", from, to))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, api.Classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, api.MaxResponseSize))
	if err != nil {
		return 0, api.Classify(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, api.FromStatus(resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return 0, &api.MalformedResponseError{Endpoint: u, Err: err}
		}
	}
	return parseTotal(resp.Header.Get("Content-Range")), nil
}

// parseTotal extracts the total from a "0-9/42" Content-Range value.
func parseTotal(contentRange string) int {
	i := strings.LastIndexByte(contentRange, '/')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(contentRange[i+1:])
	if err != nil {
		return 0
	}
	return n
}
