// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
)

// docCacheSchema mirrors the library listing locally so the documents page
// can paginate and search without a round trip.
const docCacheSchema = `
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    alias TEXT NOT NULL,
    description TEXT,
    file_size INTEGER NOT NULL,
    content_type TEXT,
    user_id TEXT NOT NULL,
    storage_path TEXT NOT NULL,
    signed_url TEXT,
    created_at TEXT,
    cached_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
    alias,
    description,
    original_name,
    tokenize='unicode61'
);

CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
    INSERT INTO documents_fts(rowid, alias, description, original_name)
    VALUES (new.rowid, new.alias, new.description, new.original_name);
END;

CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
    DELETE FROM documents_fts WHERE rowid = old.rowid;
END;
`

const docCacheSchemaVersion = "1"

// DocumentCache is the local sqlite mirror of the document library.
// Safe for concurrent use.
type DocumentCache struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenDocumentCache opens (and migrates) the cache database under dataDir.
func OpenDocumentCache(dataDir string) (*DocumentCache, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dbPath := filepath.Join(dataDir, "documents.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open document cache: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(docCacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`,
		docCacheSchemaVersion,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("write schema version: %w", err)
	}

	return &DocumentCache{db: db}, nil
}

// Close releases the database.
func (c *DocumentCache) Close() error {
	return c.db.Close()
}

// Replace swaps the cached listing for the given rows in one transaction.
func (c *DocumentCache) Replace(ctx context.Context, docs []backend.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents
			(id, original_name, alias, description, file_size, content_type,
			 user_id, storage_path, signed_url, created_at, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, doc := range docs {
		if _, err := stmt.ExecContext(ctx,
			doc.ID, doc.OriginalName, doc.Alias, doc.Description,
			doc.FileSize, doc.ContentType, doc.UserID, doc.StoragePath,
			doc.SignedURL, doc.CreatedAt, now,
		); err != nil {
			return fmt.Errorf("insert %s: %w", doc.ID, err)
		}
	}
	return tx.Commit()
}

// Upsert adds or refreshes one cached row.
func (c *DocumentCache) Upsert(ctx context.Context, doc backend.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// Delete-then-insert keeps the FTS triggers in sync; REPLACE would
	// skip the delete trigger.
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, doc.ID); err != nil {
		return fmt.Errorf("delete stale row: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents
			(id, original_name, alias, description, file_size, content_type,
			 user_id, storage_path, signed_url, created_at, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.OriginalName, doc.Alias, doc.Description,
		doc.FileSize, doc.ContentType, doc.UserID, doc.StoragePath,
		doc.SignedURL, doc.CreatedAt, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	return tx.Commit()
}

// Page returns one window of the cached listing, newest first, with the
// total row count. page is zero-based.
func (c *DocumentCache) Page(ctx context.Context, page, pageSize int) ([]backend.Document, int, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page < 0 {
		page = 0
	}

	var total int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, original_name, alias, description, file_size, content_type,
		       user_id, storage_path, signed_url, created_at
		FROM documents
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, pageSize, page*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("page query: %w", err)
	}
	defer rows.Close()

	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Search runs a full-text query over alias, description and file name.
func (c *DocumentCache) Search(ctx context.Context, query string, limit int) ([]backend.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT d.id, d.original_name, d.alias, d.description, d.file_size,
		       d.content_type, d.user_id, d.storage_path, d.signed_url, d.created_at
		FROM documents_fts f
		JOIN documents d ON d.rowid = f.rowid
		WHERE documents_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, ftsQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ftsQuery turns free text into a prefix-match FTS expression.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, "") + `"*`
	}
	return strings.Join(terms, " ")
}

func scanDocuments(rows *sql.Rows) ([]backend.Document, error) {
	var docs []backend.Document
	for rows.Next() {
		var doc backend.Document
		var description, contentType, signedURL, createdAt sql.NullString
		if err := rows.Scan(
			&doc.ID, &doc.OriginalName, &doc.Alias, &description,
			&doc.FileSize, &contentType, &doc.UserID, &doc.StoragePath,
			&signedURL, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.Description = description.String
		doc.ContentType = contentType.String
		doc.SignedURL = signedURL.String
		doc.CreatedAt = createdAt.String
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
