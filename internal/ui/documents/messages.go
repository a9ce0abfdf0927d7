// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package documents

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/storage"
	"github.com/luke-chia/leximind-knowledge-hub/internal/upload"
)

// PageLoadedMsg delivers one page of the library listing. PageNum is the
// page that was requested, so the local-copy fallback can serve the same
// window when the request fails.
type PageLoadedMsg struct {
	PageNum int
	Page    *backend.DocumentPage
	Err     error
}

// FacetsLoadedMsg delivers the facet vocabularies for the upload form.
type FacetsLoadedMsg struct {
	Options *backend.FacetOptions
	Err     error
}

// UploadProgressMsg reports one completed pipeline step.
type UploadProgressMsg struct {
	Step upload.Step
}

// UploadDoneMsg reports the pipeline outcome.
type UploadDoneMsg struct {
	Result *upload.Result
	Err    error
}

// WatchedFileMsg announces a PDF dropped into the watched directory.
type WatchedFileMsg struct {
	Path string
}

// CachePageMsg delivers a page served from the local copy.
type CachePageMsg struct {
	Documents []backend.Document
	Total     int
	Err       error
}

// SearchResultsMsg delivers full-text matches from the local copy.
type SearchResultsMsg struct {
	Documents []backend.Document
	Err       error
}

func loadPageCmd(client *backend.Client, page, pageSize int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		p, err := client.ListDocuments(ctx, page, pageSize)
		return PageLoadedMsg{PageNum: page, Page: p, Err: err}
	}
}

func loadFacetsCmd(client *backend.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		opts, err := client.LoadFilterOptions(ctx)
		return FacetsLoadedMsg{Options: opts, Err: err}
	}
}

func cachePageCmd(cache *storage.DocumentCache, page, pageSize int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		docs, total, err := cache.Page(ctx, page, pageSize)
		return CachePageMsg{Documents: docs, Total: total, Err: err}
	}
}

// cacheWriteCmd mirrors the fetched page into the local copy. Failures are
// swallowed: the cache is an offline convenience, not a source of truth.
func cacheWriteCmd(cache *storage.DocumentCache, docs []backend.Document) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, d := range docs {
			if err := cache.Upsert(ctx, d); err != nil {
				return nil
			}
		}
		return nil
	}
}

func searchCacheCmd(cache *storage.DocumentCache, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		docs, err := cache.Search(ctx, query, 50)
		return SearchResultsMsg{Documents: docs, Err: err}
	}
}

// startUploadCmd runs the pipeline off the update loop and streams its
// progress through the events channel. The companion listenCmd relays each
// event back into Bubble Tea, one message per command.
func startUploadCmd(p *upload.Pipeline, req upload.Request, options *backend.FacetOptions, events chan tea.Msg) tea.Cmd {
	run := func() tea.Msg {
		res, err := p.Run(context.Background(), req, options, func(s upload.Step) {
			events <- UploadProgressMsg{Step: s}
		})
		events <- UploadDoneMsg{Result: res, Err: err}
		return nil
	}
	return tea.Batch(func() tea.Msg {
		go run()
		return nil
	}, listenCmd(events))
}

func listenCmd(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// watchCmd blocks on the drop-directory watcher until the next settled PDF.
func watchCmd(w *upload.Watcher) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-w.Events()
		if !ok {
			return nil
		}
		return WatchedFileMsg{Path: path}
	}
}
