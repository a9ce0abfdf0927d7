// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/chat"
	"github.com/luke-chia/leximind-knowledge-hub/internal/config"
	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
)

// RunAsk answers a single question and prints the rendered response with
// its sources.
func RunAsk(cfg *config.Config, args *Args, userID string) error {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return fmt.Errorf("ask requiere una pregunta")
	}

	filters := model.NewFilterState()
	for _, v := range args.Areas {
		filters.Toggle(model.FacetArea, v)
	}
	for _, v := range args.Categories {
		filters.Toggle(model.FacetCategory, v)
	}
	for _, v := range args.Sources {
		filters.Toggle(model.FacetSource, v)
	}
	for _, v := range args.Tags {
		filters.Toggle(model.FacetTag, v)
	}

	client := chat.NewClient(cfg.API.ChatBaseURL)
	req := chat.NewRequest(userID, question, filters)

	resp, err := client.Send(context.Background(), req)
	if err != nil {
		te := api.Classify(err)
		return fmt.Errorf("%s", te.Message)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	out, err := renderMarkdown(answerMarkdown(resp))
	if err != nil {
		fmt.Println(resp.Response)
		return nil
	}
	fmt.Print(out)
	return nil
}

// answerMarkdown formats one response for terminal rendering.
func answerMarkdown(resp *chat.Response) string {
	var b strings.Builder
	b.WriteString(resp.Response)
	if len(resp.Sources) > 0 {
		b.WriteString("\n\n## Fuentes\n\n")
		for _, s := range resp.Sources {
			b.WriteString(fmt.Sprintf("- **%s**, pág. %s", s.Source, s.Page))
			if s.MatchingText != "" {
				b.WriteString(fmt.Sprintf(": _%s_", s.MatchingText))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderMarkdown(md string) (string, error) {
	width := TerminalWidth()
	if width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
