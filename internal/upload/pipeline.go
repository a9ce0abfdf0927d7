// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
)

// Step is one stage of the pipeline, reported through the progress callback.
type Step struct {
	Step     int
	Message  string
	Progress int
}

// Steps lists the pipeline stages in order.
var Steps = []Step{
	{1, "Subiendo documento...", 20},
	{2, "Documento enviado...", 40},
	{3, "Generando enlace firmado...", 60},
	{4, "Guardando en base de datos...", 80},
	{5, "Enviando a LexiMind Memory...", 100},
}

// ProgressFunc receives each completed step. May be nil.
type ProgressFunc func(Step)

// Request describes one document to ingest. Facet IDs select vocabulary
// rows; their names are resolved from the loaded options for the memory
// backend handoff.
type Request struct {
	FilePath     string
	Alias        string
	Description  string
	URLReference string
	AreaIDs      []int64
	CategoryIDs  []int64
	SourceIDs    []int64
	TagIDs       []int64
}

// Result is the pipeline outcome. Warning carries a memory-backend
// failure that did not abort the upload.
type Result struct {
	Document *backend.Document
	UploadID string
	Warning  string
}

// Pipeline runs document ingestion against the platform and the memory
// backend.
type Pipeline struct {
	backend      *backend.Client
	apiBase      string
	bucket       string
	maxSizeBytes int64
	savePDF      bool
	httpClient   *http.Client
}

// Option adjusts pipeline behavior.
type Option func(*Pipeline)

// WithSavePDF asks the memory backend to keep its own copy of the PDF
// after extraction.
func WithSavePDF(save bool) Option {
	return func(p *Pipeline) { p.savePDF = save }
}

// NewPipeline builds a pipeline. apiBase is the memory backend base URL;
// maxSizeMB <= 0 disables the size limit.
func NewPipeline(bc *backend.Client, apiBase, bucket string, maxSizeMB int, opts ...Option) *Pipeline {
	if bucket == "" {
		bucket = "documents"
	}
	p := &Pipeline{
		backend:      bc,
		apiBase:      strings.TrimRight(apiBase, "/"),
		bucket:       bucket,
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
		httpClient:   api.HTTPClient(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the five steps. Steps 1-4 are fatal on error; step 5 only
// produces a warning, matching the platform row being the source of truth.
func (p *Pipeline) Run(ctx context.Context, req Request, options *backend.FacetOptions, progress ProgressFunc) (*Result, error) {
	report := func(i int) {
		if progress != nil {
			progress(Steps[i])
		}
	}

	// Step 1: validate and read the file.
	if err := ValidateFile(req.FilePath, p.maxSizeBytes); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	user, err := p.backend.CurrentUser()
	if err != nil {
		return nil, err
	}
	report(0)

	// Step 2: upload the object. Versioned name, no overwrite.
	fileName := "V1-" + filepath.Base(req.FilePath)
	storagePath := user.ID + "/" + fileName
	if err := p.backend.UploadObject(ctx, p.bucket, storagePath, data, "application/pdf", false); err != nil {
		return nil, fmt.Errorf("storage upload: %w", err)
	}
	report(1)

	// Step 3: signed download link.
	signedURL, err := p.backend.CreateSignedURL(ctx, p.bucket, storagePath, backend.SignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("sign url: %w", err)
	}
	report(2)

	// Step 4: metadata row plus facet links.
	doc, err := p.backend.InsertDocument(ctx, backend.Document{
		OriginalName:       filepath.Base(req.FilePath),
		Alias:              req.Alias,
		Description:        req.Description,
		URLReference:       req.URLReference,
		FileSize:           int64(len(data)),
		ContentType:        "application/pdf",
		UserID:             user.ID,
		StoragePath:        storagePath,
		SignedURL:          signedURL,
		SignedURLExpiresAt: time.Now().Add(backend.SignedURLTTL).Format(time.RFC3339),
		CreatedBy:          user.ID,
		UpdatedBy:          user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("insert metadata: %w", err)
	}
	if err := p.backend.LinkDocumentFacets(ctx, doc.ID, user.ID,
		req.AreaIDs, req.CategoryIDs, req.SourceIDs, req.TagIDs); err != nil {
		return nil, fmt.Errorf("link facets: %w", err)
	}
	report(3)

	// Step 5: hand the document to the memory backend.
	result := &Result{Document: doc, UploadID: uuid.NewString()}
	if err := p.sendToMemory(ctx, data, filepath.Base(req.FilePath), user.ID, doc.ID, req, options); err != nil {
		result.Warning = err.Error()
	}
	report(4)

	return result, nil
}

// sendToMemory posts the PDF and its facet names as multipart form data.
func (p *Pipeline) sendToMemory(ctx context.Context, data []byte, fileName, userID, documentID string, req Request, options *backend.FacetOptions) error {
	if p.apiBase == "" {
		return api.ErrNotConfigured
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}

	w.WriteField("userId", userID)
	w.WriteField("documentId", documentID)
	w.WriteField("savepdf", strconv.FormatBool(p.savePDF))

	writeNames := func(field string, ids []int64, rows []backend.FacetOption) error {
		names := resolveNames(ids, rows)
		if len(names) == 0 {
			return nil
		}
		encoded, err := json.Marshal(names)
		if err != nil {
			return err
		}
		return w.WriteField(field, string(encoded))
	}
	if options != nil {
		if err := writeNames("area", req.AreaIDs, options.Areas); err != nil {
			return err
		}
		if err := writeNames("category", req.CategoryIDs, options.Categories); err != nil {
			return err
		}
		if err := writeNames("source", req.SourceIDs, options.Sources); err != nil {
			return err
		}
		if err := writeNames("tags", req.TagIDs, options.Tags); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, api.DefaultTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+"/documents/upload", &body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return api.Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return api.FromStatus(resp.StatusCode, string(detail))
	}
	return nil
}

// resolveNames maps vocabulary IDs to display names, dropping unknown IDs.
func resolveNames(ids []int64, rows []backend.FacetOption) []string {
	var names []string
	for _, id := range ids {
		for _, row := range rows {
			if row.ID == id {
				names = append(names, row.Name)
				break
			}
		}
	}
	return names
}
