// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
)

const anonKey = "anon-test-key"

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, anonKey), srv
}

func TestSignInInstallsSession(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, anonKey, r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@banco.mx", body["email"])

		w.Write([]byte(`{
			"access_token": "jwt-abc",
			"refresh_token": "refresh-xyz",
			"expires_in": 3600,
			"user": {"id": "u-1", "email": "ana@banco.mx"}
		}`))
	})

	session, err := c.SignIn(context.Background(), "ana@banco.mx", "secreta")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", session.AccessToken)
	assert.False(t, session.Expired())

	user, err := c.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
}

func TestSignInBadCredentials(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	_, err := c.SignIn(context.Background(), "ana@banco.mx", "mala")
	var terr *api.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 401, terr.Code)
	assert.Equal(t, "No autorizado. Inicia sesión nuevamente.", terr.Message)

	_, err = c.CurrentUser()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestBearerFallsBackToAnonKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+anonKey, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})

	_, err := c.fetchFacet(context.Background(), "areas")
	assert.NoError(t, err)
}

func TestListDocumentsPagination(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/documents", r.URL.Path)
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		assert.Equal(t, "10-19", r.Header.Get("Range"))

		w.Header().Set("Content-Range", "10-19/57")
		w.Write([]byte(`[{"id":"d-11","original_name":"circular.pdf","alias":"Circular 4/2023","file_size":1024,"content_type":"application/pdf","user_id":"u-1","storage_path":"u-1/V1-circular.pdf"}]`))
	})

	page, err := c.ListDocuments(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 57, page.Total)
	require.Len(t, page.Documents, 1)
	assert.Equal(t, "Circular 4/2023", page.Documents[0].Alias)
}

func TestListOpinionsResolvesExpertNames(t *testing.T) {
	const msgID = "3f2b8c1a-9d4e-4b6f-8a2c-1e5d7f9b0a3c"

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/expert_opinions":
			assert.Equal(t, "eq."+msgID, r.URL.Query().Get("message_id"))
			assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
			w.Write([]byte(`[
				{"id": "op-1", "message_id": "` + msgID + `", "expert_user_id": "u-9", "opinion": "La circular citada fue derogada en 2024."},
				{"id": "op-2", "message_id": "` + msgID + `", "expert_user_id": "u-fantasma", "opinion": "Revisar el anexo B."}
			]`))
		case "/rest/v1/profiles":
			assert.Equal(t, "in.(u-9,u-fantasma)", r.URL.Query().Get("id"))
			w.Write([]byte(`[{"id": "u-9", "nickname": "Lic. Ramírez"}]`))
		default:
			t.Fatalf("unexpected request %s", r.URL.Path)
		}
	})

	opinions, err := c.ListOpinions(context.Background(), msgID)
	require.NoError(t, err)
	require.Len(t, opinions, 2)
	assert.Equal(t, "Lic. Ramírez", opinions[0].ExpertName)
	assert.Equal(t, "La circular citada fue derogada en 2024.", opinions[0].Opinion)
	// A missing profile row falls back to a generic label.
	assert.Equal(t, "Experto", opinions[1].ExpertName)
}

func TestListOpinionsSkipsLocalTurnIDs(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("local IDs must not reach the network, got %s", r.URL.Path)
	})

	opinions, err := c.ListOpinions(context.Background(), "turn_a1b2c3d4")
	require.NoError(t, err)
	assert.Empty(t, opinions)
}

func TestGetProfileCreatesOnNoRows(t *testing.T) {
	var created bool
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/v1/token":
			w.Write([]byte(`{"access_token":"jwt","refresh_token":"r","expires_in":3600,"user":{"id":"u-9","email":"x@y.z"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/profiles":
			w.WriteHeader(http.StatusNotAcceptable)
			w.Write([]byte(`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/profiles":
			created = true
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "u-9", body["id"])
			w.Write([]byte(`[{"id":"u-9"}]`))
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	_, err := c.SignIn(context.Background(), "x@y.z", "pw")
	require.NoError(t, err)

	profile, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "u-9", profile.ID)
}

func TestCreateSignedURL(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/v1/object/sign/documents/u-1/V1-manual.pdf", r.URL.Path)
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int(SignedURLTTL.Seconds()), body["expiresIn"])
		w.Write([]byte(`{"signedURL":"/object/sign/documents/u-1/V1-manual.pdf?token=abc"}`))
	})

	url, err := c.CreateSignedURL(context.Background(), "documents", "u-1/V1-manual.pdf", 0)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/sign/documents/u-1/V1-manual.pdf?token=abc", url)
}

func TestUploadObjectUpsertHeader(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/v1/object/documents/u-1/V1-doc.pdf", r.URL.Path)
		assert.Equal(t, "false", r.Header.Get("x-upsert"))
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	})

	err := c.UploadObject(context.Background(), "documents", "u-1/V1-doc.pdf", []byte("%PDF-1.4"), "application/pdf", false)
	assert.NoError(t, err)
}

func TestSortFacetOptionsSpanishCollation(t *testing.T) {
	rows := []FacetOption{
		{Name: "Zonas"},
		{Name: "Área Legal"},
		{Name: "auditoría"},
		{Name: "Crédito"},
	}
	sortFacetOptions(rows)

	assert.Equal(t, []string{"Área Legal", "auditoría", "Crédito", "Zonas"},
		Names(rows))
}

func TestNotConfigured(t *testing.T) {
	c := NewClient("", "")
	_, err := c.SignIn(context.Background(), "a@b.c", "pw")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.ListDocuments(context.Background(), 0, 10)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestParseTotal(t *testing.T) {
	assert.Equal(t, 42, parseTotal("0-9/42"))
	assert.Equal(t, 0, parseTotal("*/*"))
	assert.Equal(t, 0, parseTotal(""))
}
