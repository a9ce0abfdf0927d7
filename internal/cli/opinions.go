// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/config"
)

// RunOpinions lists the expert opinions recorded for one saved message.
func RunOpinions(cfg *config.Config, args *Args, client *backend.Client) error {
	messageID := strings.TrimSpace(args.Query)
	if messageID == "" {
		return fmt.Errorf("opiniones requiere el id del mensaje")
	}

	if s := RestoreSession(cfg, client); s == nil {
		return fmt.Errorf("inicia sesión primero con: leximind login")
	}

	opinions, err := client.ListOpinions(context.Background(), messageID)
	if err != nil {
		te := api.Classify(err)
		return fmt.Errorf("%s", te.Message)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(opinions)
	}

	if len(opinions) == 0 {
		fmt.Println("Sin opiniones para ese mensaje.")
		return nil
	}

	out, err := renderMarkdown(opinionsMarkdown(opinions))
	if err != nil {
		for _, op := range opinions {
			fmt.Printf("%s: %s\n", op.ExpertName, op.Opinion)
		}
		return nil
	}
	fmt.Print(out)
	return nil
}

// opinionsMarkdown formats the opinion list for terminal rendering.
func opinionsMarkdown(opinions []backend.Opinion) string {
	var b strings.Builder
	b.WriteString("## Opiniones de expertos\n\n")
	for _, op := range opinions {
		b.WriteString(fmt.Sprintf("- **%s**", op.ExpertName))
		if len(op.CreatedAt) >= 10 {
			b.WriteString(" (" + op.CreatedAt[:10] + ")")
		}
		b.WriteString(": " + op.Opinion)
		if op.DocumentURL != "" {
			b.WriteString(fmt.Sprintf(" · [documento](%s)", op.DocumentURL))
		}
		b.WriteString("\n")
	}
	return b.String()
}
