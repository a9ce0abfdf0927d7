// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package upload

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
)

func writePDF(t *testing.T, dir, name string, size int) string {
	t.Helper()
	data := append([]byte("%PDF-1.4\n"), make([]byte, size)...)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	pdf := writePDF(t, dir, "ok.pdf", 100)

	assert.NoError(t, ValidateFile(pdf, 0))
	assert.NoError(t, ValidateFile(pdf, 1024*1024))

	txt := filepath.Join(dir, "notas.txt")
	require.NoError(t, os.WriteFile(txt, []byte("texto"), 0o600))
	assert.ErrorIs(t, ValidateFile(txt, 0), ErrNotPDF)

	fake := filepath.Join(dir, "falso.pdf")
	require.NoError(t, os.WriteFile(fake, []byte("no es un pdf"), 0o600))
	assert.ErrorIs(t, ValidateFile(fake, 0), ErrNotPDF)

	empty := filepath.Join(dir, "vacio.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	assert.ErrorIs(t, ValidateFile(empty, 0), ErrEmptyFile)

	big := writePDF(t, dir, "grande.pdf", 2048)
	assert.ErrorIs(t, ValidateFile(big, 1024), ErrTooLarge)
}

func TestPipelineRun(t *testing.T) {
	var ingest struct {
		userID string
		docID  string
		areas  []string
	}

	platform := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/v1/token":
			w.Write([]byte(`{"access_token":"jwt","refresh_token":"r","expires_in":3600,"user":{"id":"u-7","email":"a@b.c"}}`))
		case r.URL.Path == "/storage/v1/object/documents/u-7/V1-politica.pdf":
			assert.Equal(t, "false", r.Header.Get("x-upsert"))
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/storage/v1/object/sign/documents/u-7/V1-politica.pdf":
			w.Write([]byte(`{"signedURL":"/object/sign/documents/u-7/V1-politica.pdf?token=t"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/documents":
			var doc backend.Document
			require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
			assert.Equal(t, "politica.pdf", doc.OriginalName)
			assert.Equal(t, "u-7/V1-politica.pdf", doc.StoragePath)
			doc.ID = "doc-1"
			json.NewEncoder(w).Encode([]backend.Document{doc})
		case r.URL.Path == "/rest/v1/document_areas":
			w.WriteHeader(http.StatusCreated)
		default:
			t.Fatalf("unexpected platform request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer platform.Close()

	memory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		ingest.userID = r.FormValue("userId")
		ingest.docID = r.FormValue("documentId")
		assert.Equal(t, "false", r.FormValue("savepdf"))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("area")), &ingest.areas))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "politica.pdf", header.Filename)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer memory.Close()

	bc := backend.NewClient(platform.URL, "anon")
	_, err := bc.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	pdf := writePDF(t, t.TempDir(), "politica.pdf", 64)
	p := NewPipeline(bc, memory.URL, "documents", 25)

	options := &backend.FacetOptions{
		Areas: []backend.FacetOption{{ID: 3, Name: "TI"}, {ID: 4, Name: "Riesgos"}},
	}

	var steps []int
	result, err := p.Run(context.Background(), Request{
		FilePath: pdf,
		Alias:    "Política de accesos",
		AreaIDs:  []int64{3},
	}, options, func(s Step) { steps = append(steps, s.Step) })

	require.NoError(t, err)
	assert.Empty(t, result.Warning)
	assert.Equal(t, "doc-1", result.Document.ID)
	assert.NotEmpty(t, result.UploadID)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, steps)

	assert.Equal(t, "u-7", ingest.userID)
	assert.Equal(t, "doc-1", ingest.docID)
	assert.Equal(t, []string{"TI"}, ingest.areas)
}

func TestPipelineMemoryFailureIsWarning(t *testing.T) {
	platform := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/v1/token":
			w.Write([]byte(`{"access_token":"jwt","refresh_token":"r","expires_in":3600,"user":{"id":"u-7","email":"a@b.c"}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/documents":
			w.Write([]byte(`[{"id":"doc-2","original_name":"x.pdf","alias":"x","file_size":1,"content_type":"application/pdf","user_id":"u-7","storage_path":"u-7/V1-x.pdf"}]`))
		case strings.HasPrefix(r.URL.Path, "/storage/v1/object/sign/"):
			w.Write([]byte(`{"signedURL":"/object/sign/x?token=t"}`))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer platform.Close()

	memory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer memory.Close()

	bc := backend.NewClient(platform.URL, "anon")
	_, err := bc.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	pdf := writePDF(t, t.TempDir(), "x.pdf", 16)
	p := NewPipeline(bc, memory.URL, "documents", 25)

	result, err := p.Run(context.Background(), Request{FilePath: pdf, Alias: "x"}, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, result.Warning, "Servicio no disponible temporalmente.")
}

func TestPipelineSavePDFOptionReachesMemory(t *testing.T) {
	platform := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/v1/token":
			w.Write([]byte(`{"access_token":"jwt","refresh_token":"r","expires_in":3600,"user":{"id":"u-7","email":"a@b.c"}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/documents":
			w.Write([]byte(`[{"id":"doc-3","original_name":"y.pdf","alias":"y","file_size":1,"content_type":"application/pdf","user_id":"u-7","storage_path":"u-7/V1-y.pdf"}]`))
		case strings.HasPrefix(r.URL.Path, "/storage/v1/object/sign/"):
			w.Write([]byte(`{"signedURL":"/object/sign/y?token=t"}`))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer platform.Close()

	var got string
	memory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		got = r.FormValue("savepdf")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer memory.Close()

	bc := backend.NewClient(platform.URL, "anon")
	_, err := bc.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	pdf := writePDF(t, t.TempDir(), "y.pdf", 16)
	p := NewPipeline(bc, memory.URL, "documents", 25, WithSavePDF(true))

	result, err := p.Run(context.Background(), Request{FilePath: pdf, Alias: "y"}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Warning)
	assert.Equal(t, "true", got)
}

func TestPipelineRejectsInvalidFileBeforeNetwork(t *testing.T) {
	bc := backend.NewClient("", "")
	p := NewPipeline(bc, "", "documents", 25)

	txt := filepath.Join(t.TempDir(), "notas.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))

	_, err := p.Run(context.Background(), Request{FilePath: txt}, nil, nil)
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestWatcherAnnouncesSettledPDFs(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch())

	writePDF(t, dir, "dropped.pdf", 32)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignorado.txt"), []byte("x"), 0o600))

	select {
	case path := <-w.Events():
		assert.Equal(t, "dropped.pdf", filepath.Base(path))
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never announced the dropped PDF")
	}

	// The non-PDF must not show up.
	select {
	case path := <-w.Events():
		t.Fatalf("unexpected event for %s", path)
	case <-time.After(200 * time.Millisecond):
	}
}
