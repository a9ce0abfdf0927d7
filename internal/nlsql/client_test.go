// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package nlsql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
)

func TestValidateQuestionBounds(t *testing.T) {
	tests := []struct {
		name     string
		question string
		wantErr  error
	}{
		{"too short", "corta", ErrQuestionTooShort},
		{"whitespace only", "             ", ErrQuestionTooShort},
		{"exactly minimum", "1234567890", nil},
		{"normal", "¿cuántos clientes tienen crédito activo?", nil},
		{"exactly maximum", strings.Repeat("a", 1000), nil},
		{"over maximum", strings.Repeat("a", 1001), ErrQuestionTooLong},
		{"padding does not count", "  1234567890  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(tt.question)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAskSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, Endpoint, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "¿cuántos clientes hay por sucursal?", body["question"])

		w.Write([]byte(`{
			"question": "¿cuántos clientes hay por sucursal?",
			"generatedSQL": "SELECT sucursal, COUNT(*) FROM clientes GROUP BY sucursal",
			"results": [{"sucursal": "Centro", "count": 120}],
			"metadata": {
				"rowCount": 1,
				"executionTime": "84ms",
				"tablesUsed": ["clientes"],
				"modelId": "sql-gen-v2",
				"isValid": true,
				"schemas": ["core"]
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Ask(context.Background(), "  ¿cuántos clientes hay por sucursal?  ")
	require.NoError(t, err)

	assert.Contains(t, resp.GeneratedSQL, "GROUP BY sucursal")
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Centro", resp.Results[0]["sucursal"])
	assert.Equal(t, 1, resp.Metadata.RowCount)
	assert.True(t, resp.Metadata.IsValid)
	assert.Equal(t, []string{"clientes"}, resp.Metadata.TablesUsed)
}

func TestAskBoundsRejectedBeforeNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Ask(context.Background(), "corta")
	assert.ErrorIs(t, err, ErrQuestionTooShort)

	_, err = c.Ask(context.Background(), strings.Repeat("x", 1500))
	assert.ErrorIs(t, err, ErrQuestionTooLong)

	assert.False(t, called)
}

func TestAskHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_question","message":"no entendible"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Ask(context.Background(), "¿una pregunta suficientemente larga?")

	var terr *api.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 400, terr.Code)
	assert.Equal(t, "Solicitud inválida. Verifica los datos enviados.", terr.Message)
}

func TestAskMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Ask(context.Background(), "¿una pregunta suficientemente larga?")

	var merr *api.MalformedResponseError
	assert.ErrorAs(t, err, &merr)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == HealthEndpoint {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	assert.True(t, c.Health(context.Background()))

	srv.Close()
	assert.False(t, c.Health(context.Background()))
}

func TestHealthUnconfigured(t *testing.T) {
	c := NewClient("")
	assert.False(t, c.Health(context.Background()))
}
