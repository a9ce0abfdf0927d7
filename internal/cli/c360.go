// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/config"
	"github.com/luke-chia/leximind-knowledge-hub/internal/nlsql"
	"github.com/luke-chia/leximind-knowledge-hub/internal/util"
)

// Run360 answers one Cliente 360 question: generated SQL, rows and
// metadata.
func Run360(cfg *config.Config, args *Args) error {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return fmt.Errorf("360 requiere una pregunta")
	}

	client := nlsql.NewClient(cfg.API.NLSQLBaseURL)
	resp, err := client.Ask(context.Background(), question)
	if err != nil {
		te := api.Classify(err)
		if te.Code == api.CodeUnknown {
			return fmt.Errorf("%s", strings.TrimPrefix(err.Error(), "nlsql: "))
		}
		return fmt.Errorf("%s", te.Message)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	md := resultMarkdown(resp)
	if out, err := renderMarkdown(md); err == nil {
		fmt.Print(out)
	} else {
		fmt.Println(md)
	}
	return nil
}

// resultMarkdown formats the response; the fenced SQL block gets syntax
// highlighting from the renderer.
func resultMarkdown(resp *nlsql.Response) string {
	var b strings.Builder
	b.WriteString("```sql\n" + strings.TrimSpace(resp.GeneratedSQL) + "\n```\n\n")

	if len(resp.Results) == 0 {
		b.WriteString("Sin resultados.\n")
	} else {
		cols := make([]string, 0, len(resp.Results[0]))
		for k := range resp.Results[0] {
			cols = append(cols, k)
		}
		sort.Strings(cols)

		b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")
		for _, row := range resp.Results {
			cells := make([]string, len(cols))
			for i, c := range cols {
				cells[i] = fmt.Sprintf("%v", row[c])
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}

	md := resp.Metadata
	b.WriteString(fmt.Sprintf("\n_%s filas", util.FormatCount(md.RowCount)))
	if md.ExecutionTime != "" {
		b.WriteString(" · " + md.ExecutionTime)
	}
	if len(md.TablesUsed) > 0 {
		b.WriteString(" · tablas: " + strings.Join(md.TablesUsed, ", "))
	}
	b.WriteString("_\n")
	return b.String()
}
