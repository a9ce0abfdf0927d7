// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package nlsql

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
)

const (
	// Endpoint is the query route.
	Endpoint = "/api/v1/nl_sql"
	// HealthEndpoint is probed to show the service indicator.
	HealthEndpoint = "/health"

	// Question length bounds, enforced before any network call.
	MinQuestionLen = 10
	MaxQuestionLen = 1000
)

var (
	// ErrQuestionTooShort indicates a question under the minimum length.
	ErrQuestionTooShort = errors.New("nlsql: la pregunta debe tener al menos 10 caracteres")
	// ErrQuestionTooLong indicates a question over the maximum length.
	ErrQuestionTooLong = errors.New("nlsql: la pregunta no puede exceder los 1000 caracteres")
)

// Metadata describes how the backend produced a result set.
type Metadata struct {
	RowCount      int      `json:"rowCount"`
	ExecutionTime string   `json:"executionTime"`
	TablesUsed    []string `json:"tablesUsed"`
	ModelID       string   `json:"modelId"`
	IsValid       bool     `json:"isValid"`
	Schemas       []string `json:"schemas"`
}

// Response is one answered natural-language query.
type Response struct {
	Question     string           `json:"question"`
	GeneratedSQL string           `json:"generatedSQL"`
	Results      []map[string]any `json:"results"`
	Metadata     Metadata         `json:"metadata"`
}

// Client issues NL-SQL queries. Safe for concurrent use.
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

// NewClient builds a client against the NL-SQL service base URL.
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

// ValidateQuestion enforces the length bounds on the trimmed question.
func ValidateQuestion(question string) error {
	trimmed := strings.TrimSpace(question)
	n := utf8.RuneCountInString(trimmed)
	if n < MinQuestionLen {
		return ErrQuestionTooShort
	}
	if n > MaxQuestionLen {
		return ErrQuestionTooLong
	}
	return nil
}

// Ask executes one natural-language query. Length violations return before
// any network call; transport failures follow the shared taxonomy.
func (c *Client) Ask(ctx context.Context, question string) (*Response, error) {
	if c.baseURL == "" {
		return nil, api.ErrNotConfigured
	}
	if err := ValidateQuestion(question); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + Endpoint
	payload := map[string]string{"question": strings.TrimSpace(question)}

	var resp Response
	if err := api.DoJSON(ctx, c.httpClient, http.MethodPost, url, nil, payload, &resp); err != nil {
		return nil, err
	}
	if resp.GeneratedSQL == "" && len(resp.Results) == 0 {
		return nil, &api.MalformedResponseError{Endpoint: url, Err: errEmptyResult}
	}
	return &resp, nil
}

var errEmptyResult = errors.New("missing generatedSQL and results")

// Health reports whether the service answers its health probe. Failures
// are not surfaced as errors: the caller only needs the boolean.
func (c *Client) Health(ctx context.Context) bool {
	if c.baseURL == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+HealthEndpoint, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
