// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
)

// Endpoint is the single backend route this client talks to.
const Endpoint = "/chats/process-message/"

var errMissingResponse = errors.New("missing response field")

// Response is one answer from the assistant backend.
type Response struct {
	Response  string                  `json:"response"`
	Timestamp string                  `json:"timestamp"`
	Sources   []model.SourceReference `json:"sources,omitempty"`
}

// wireResponse tolerates the backend's loose source shape: page arrives as
// a string or a number, matching text under either key casing.
type wireResponse struct {
	Response  string       `json:"response"`
	Timestamp string       `json:"timestamp"`
	Sources   []wireSource `json:"sources"`
}

type wireSource struct {
	Source        string          `json:"source"`
	Page          json.RawMessage `json:"page"`
	MatchingText  string          `json:"matchingText"`
	MatchingText2 string          `json:"matching_text"`
}

func (w wireSource) toModel() model.SourceReference {
	ref := model.SourceReference{
		Source:       w.Source,
		MatchingText: w.MatchingText,
	}
	if ref.MatchingText == "" {
		ref.MatchingText = w.MatchingText2
	}
	if len(w.Page) > 0 {
		// The backend sends page as a bare number or a quoted label.
		ref.Page = strings.Trim(string(w.Page), `"`)
	}
	return ref
}

// Client issues chat requests. Safe for concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the fixed request timeout.
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

// NewClient builds a client against the chat API base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    api.DefaultTimeout,
		httpClient: api.HTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send issues one request and returns the typed answer. Validation failures
// return before any network call. Transport failures come back as
// *api.TransportError, broken 2xx payloads as *api.MalformedResponseError.
// There is no retry.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	if c.baseURL == "" {
		return nil, api.ErrNotConfigured
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + Endpoint
	var wire wireResponse
	if err := api.DoJSON(ctx, c.httpClient, http.MethodPost, url, nil, req, &wire); err != nil {
		return nil, err
	}

	if wire.Response == "" {
		return nil, &api.MalformedResponseError{Endpoint: url, Err: errMissingResponse}
	}

	resp := &Response{
		Response:  wire.Response,
		Timestamp: wire.Timestamp,
	}
	for _, s := range wire.Sources {
		resp.Sources = append(resp.Sources, s.toModel())
	}
	return resp, nil
}
