// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package components

import (
	"strings"

	"github.com/luke-chia/leximind-knowledge-hub/internal/util"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
)

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom line: a left status segment, the shortcut
// hints, and an optional right segment (e.g. the NL-SQL health dot).
type StatusBar struct {
	Left      string
	Right     string
	Shortcuts []Shortcut
}

// Render draws the bar fitted to width.
func (s StatusBar) Render(theme *styles.Theme, width int) string {
	var hints []string
	for _, sc := range s.Shortcuts {
		hints = append(hints,
			theme.ShortcutKey.Render(sc.Key)+" "+theme.ShortcutDesc.Render(sc.Desc))
	}
	center := strings.Join(hints, "  ")

	left := theme.StatusBar.Render(s.Left)
	right := theme.StatusBar.Render(s.Right)

	line := left
	if center != "" {
		line += "  " + center
	}
	if s.Right != "" {
		line += "  " + right
	}
	return util.TruncateWidth(line, width)
}
