// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds every request. There is no retry: a call fails
	// once and the failure is surfaced to the UI.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps response body reads (10MB).
	MaxResponseSize = 10 * 1024 * 1024
)

// sharedClient is reused across all service clients so connections pool.
var sharedClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// HTTPClient returns the shared pooled client.
func HTTPClient() *http.Client {
	return sharedClient
}

// DoJSON issues one JSON request and decodes the 2xx response into out.
// Failures come back as *TransportError; a 2xx body that does not decode
// comes back as *MalformedResponseError. in and out may be nil.
func DoJSON(ctx context.Context, client *http.Client, method, url string, header http.Header, in, out any) error {
	if client == nil {
		client = sharedClient
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Message: MsgUnknown, Code: CodeUnknown, Details: err.Error()}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return &TransportError{Message: MsgUnknown, Code: CodeUnknown, Details: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		// Context expiry surfaces wrapped inside *url.Error.
		if ctx.Err() == context.DeadlineExceeded {
			return &TransportError{Message: MsgTimeout, Code: CodeNetwork}
		}
		return Classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return Classify(err)
	}
	if len(data) > MaxResponseSize {
		return &TransportError{Message: MsgUnknown, Code: CodeUnknown, Details: ErrResponseTooLarge.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FromStatus(resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &MalformedResponseError{Endpoint: url, Err: err}
		}
	}
	return nil
}
