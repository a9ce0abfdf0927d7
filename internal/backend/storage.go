// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
)

// SignedURLTTL is how long document download links stay valid.
const SignedURLTTL = 7 * 24 * time.Hour

// UploadObject stores raw bytes in a storage bucket. With upsert false an
// existing object at the same path makes the call fail.
func (c *Client) UploadObject(ctx context.Context, bucket, path string, data []byte, contentType string, upsert bool) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + "/storage/v1/object/" + bucket + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.headers() {
		req.Header[k] = vs
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("x-upsert", strconv.FormatBool(upsert))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return api.Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return api.FromStatus(resp.StatusCode, string(body))
	}
	return nil
}

// CreateSignedURL returns a time-limited download link for an object.
func (c *Client) CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if ttl <= 0 {
		ttl = SignedURLTTL
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + "/storage/v1/object/sign/" + bucket + "/" + path
	payload := map[string]int{"expiresIn": int(ttl.Seconds())}

	var out struct {
		SignedURL string `json:"signedURL"`
	}
	if err := api.DoJSON(ctx, c.httpClient, http.MethodPost, u, c.headers(), payload, &out); err != nil {
		return "", err
	}
	if out.SignedURL == "" {
		return "", &api.MalformedResponseError{Endpoint: u, Err: errNoSignedURL}
	}
	return c.baseURL + "/storage/v1" + out.SignedURL, nil
}

var errNoSignedURL = errors.New("missing signedURL field")

// PublicURL returns the unauthenticated URL for an object in a public
// bucket.
func (c *Client) PublicURL(bucket, path string) string {
	return c.baseURL + "/storage/v1/object/public/" + bucket + "/" + path
}
