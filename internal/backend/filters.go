// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FacetOption is one row of a filter vocabulary table.
type FacetOption struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// FacetOptions holds the four vocabularies the filter sidebar offers.
type FacetOptions struct {
	Areas      []FacetOption
	Categories []FacetOption
	Sources    []FacetOption
	Tags       []FacetOption
}

// facetTables maps each vocabulary to its table.
var facetTables = map[string]string{
	"areas":      "areas",
	"categories": "categories",
	"sources":    "sources",
	"tags":       "tags",
}

func (c *Client) fetchFacet(ctx context.Context, table string) ([]FacetOption, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "name.asc")

	var rows []FacetOption
	if err := c.rest(ctx, http.MethodGet, table, q, nil, nil, &rows); err != nil {
		return nil, err
	}
	sortFacetOptions(rows)
	return rows, nil
}

// sortFacetOptions orders names with Spanish collation so accented entries
// land where a Spanish speaker expects them, not at the end of the list.
func sortFacetOptions(rows []FacetOption) {
	col := collate.New(language.Spanish, collate.IgnoreCase)
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && col.CompareString(rows[j].Name, rows[j-1].Name) < 0; j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

// LoadFilterOptions fetches the four vocabularies concurrently. A facet
// that fails loads as empty rather than failing the whole sidebar; the
// first error is still reported so the UI can toast it.
func (c *Client) LoadFilterOptions(ctx context.Context) (*FacetOptions, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	out := &FacetOptions{}

	fetch := func(table string, dst *[]FacetOption) {
		defer wg.Done()
		rows, err := c.fetchFacet(ctx, table)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		*dst = rows
	}

	wg.Add(4)
	go fetch(facetTables["areas"], &out.Areas)
	go fetch(facetTables["categories"], &out.Categories)
	go fetch(facetTables["sources"], &out.Sources)
	go fetch(facetTables["tags"], &out.Tags)
	wg.Wait()

	return out, firstErr
}

// Names projects option rows to their display names.
func Names(rows []FacetOption) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}
