// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/config"
	"github.com/luke-chia/leximind-knowledge-hub/internal/nlsql"
)

// HealthReport is the health command outcome.
type HealthReport struct {
	Chat    bool `json:"chat"`
	NLSQL   bool `json:"nlsql"`
	Backend bool `json:"backend"`
}

// RunHealth probes every configured service.
func RunHealth(cfg *config.Config, args *Args) error {
	report := HealthReport{
		Chat:    probeHTTP(cfg.API.ChatBaseURL),
		NLSQL:   nlsql.NewClient(cfg.API.NLSQLBaseURL).Health(context.Background()),
		Backend: probeHTTP(cfg.API.SupabaseURL),
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printProbe("Chat", report.Chat)
	printProbe("Cliente 360", report.NLSQL)
	printProbe("Backend", report.Backend)

	if !report.Chat || !report.NLSQL || !report.Backend {
		os.Exit(1)
	}
	return nil
}

// probeHTTP reports whether the base URL answers anything at all. Any
// HTTP status counts: the point is reachability, not correctness.
func probeHTTP(baseURL string) bool {
	if baseURL == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := api.HTTPClient().Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

func printProbe(name string, up bool) {
	mark := "✗ sin conexión"
	if up {
		mark = "✓ en línea"
	}
	fmt.Printf("%-12s %s\n", name, mark)
}
