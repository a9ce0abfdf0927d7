// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Document is one row of the documents table.
type Document struct {
	ID                 string `json:"id,omitempty"`
	OriginalName       string `json:"original_name"`
	Alias              string `json:"alias"`
	Description        string `json:"description,omitempty"`
	URLReference       string `json:"URL_Reference,omitempty"`
	FileSize           int64  `json:"file_size"`
	ContentType        string `json:"content_type"`
	UserID             string `json:"user_id"`
	StoragePath        string `json:"storage_path"`
	SignedURL          string `json:"signed_url,omitempty"`
	SignedURLExpiresAt string `json:"signed_url_expires_at,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
	CreatedBy          string `json:"created_by,omitempty"`
	UpdatedBy          string `json:"updated_by,omitempty"`
}

// DocumentPage is one window of the library listing.
type DocumentPage struct {
	Documents []Document
	Total     int
	Page      int
	PageSize  int
}

// ListDocuments returns one page of the library, newest first. page is
// zero-based.
func (c *Client) ListDocuments(ctx context.Context, page, pageSize int) (*DocumentPage, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page < 0 {
		page = 0
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	from := page * pageSize
	to := from + pageSize - 1

	var rows []Document
	total, err := c.restCount(ctx, "documents", q, from, to, &rows)
	if err != nil {
		return nil, err
	}
	return &DocumentPage{Documents: rows, Total: total, Page: page, PageSize: pageSize}, nil
}

// InsertDocument creates the metadata row and returns it with its ID.
func (c *Client) InsertDocument(ctx context.Context, doc Document) (*Document, error) {
	h := http.Header{}
	h.Set("Prefer", "return=representation")

	var rows []Document
	if err := c.rest(ctx, http.MethodPost, "documents", nil, h, doc, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return &rows[0], nil
}

// LinkDocumentFacets writes the join-table rows tying a document to its
// selected vocabulary entries. Empty selections write nothing.
func (c *Client) LinkDocumentFacets(ctx context.Context, docID, userID string, areas, categories, sources, tags []int64) error {
	type link map[string]any

	insert := func(table, column string, ids []int64) error {
		if len(ids) == 0 {
			return nil
		}
		rows := make([]link, len(ids))
		for i, id := range ids {
			rows[i] = link{
				"document_id": docID,
				column:        id,
				"created_by":  userID,
				"updated_by":  userID,
			}
		}
		return c.rest(ctx, http.MethodPost, table, nil, nil, rows, nil)
	}

	if err := insert("document_areas", "area_id", areas); err != nil {
		return fmt.Errorf("link areas: %w", err)
	}
	if err := insert("document_categories", "category_id", categories); err != nil {
		return fmt.Errorf("link categories: %w", err)
	}
	if err := insert("document_sources", "source_id", sources); err != nil {
		return fmt.Errorf("link sources: %w", err)
	}
	if err := insert("document_tags", "tag_id", tags); err != nil {
		return fmt.Errorf("link tags: %w", err)
	}
	return nil
}
