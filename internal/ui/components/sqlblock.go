// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package components

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
)

// SQLBlock renders generated SQL with syntax highlighting and line numbers
// for the Cliente 360 console.
type SQLBlock struct {
	SQL      string
	MaxWidth int
}

// NewSQLBlock creates a block with the default width.
func NewSQLBlock(sql string) SQLBlock {
	return SQLBlock{SQL: sql, MaxWidth: 80}
}

// Render highlights the SQL and frames it. Highlighting failures fall back
// to plain text.
func (b SQLBlock) Render(theme *styles.Theme) string {
	sql := strings.TrimSpace(b.SQL)
	if sql == "" {
		return ""
	}

	highlighted := highlightSQL(sql, theme.IsDark)
	lines := strings.Split(highlighted, "\n")

	numStyle := theme.Muted
	var body strings.Builder
	for i, line := range lines {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(numStyle.Render(fmt.Sprintf("%2d", i+1)) + " " + line)
	}

	frame := theme.PanelBorder.MaxWidth(b.MaxWidth)
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.PanelTitle.Render("SQL generado"),
		frame.Render(body.String()),
	)
}

// highlightSQL runs chroma over the statement with a terminal formatter.
func highlightSQL(sql string, dark bool) string {
	lexer := lexers.Get("sql")
	if lexer == nil {
		return sql
	}

	styleName := "monokai"
	if !dark {
		styleName = "github"
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return sql
	}

	iterator, err := lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}

	var out strings.Builder
	if err := formatter.Format(&out, style, iterator); err != nil {
		return sql
	}
	return strings.TrimRight(out.String(), "\n")
}
