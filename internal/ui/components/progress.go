// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package components

import (
	"strings"

	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
	"github.com/luke-chia/leximind-knowledge-hub/internal/upload"
	"github.com/luke-chia/leximind-knowledge-hub/internal/util"
)

// StepRail renders the five-step upload progress: completed steps get a
// check, the current one a spinner frame, pending ones a dot.
type StepRail struct {
	Current int // 1-based step in progress; 0 = not started
	Done    bool
}

// Render draws the rail plus a percent bar for the current position.
func (r StepRail) Render(theme *styles.Theme, width int) string {
	var b strings.Builder
	percent := 0

	for _, step := range upload.Steps {
		marker := theme.ProgressTodo.Render("·")
		label := theme.Muted.Render(step.Message)
		switch {
		case r.Done || step.Step < r.Current:
			marker = theme.ProgressDone.Render("✓")
			label = theme.App.Render(step.Message)
			percent = step.Progress
		case step.Step == r.Current:
			marker = theme.Emphasis.Render("▸")
			label = theme.Emphasis.Render(step.Message)
			percent = step.Progress
		}
		b.WriteString(marker + " " + label + "\n")
	}

	if r.Done {
		percent = 100
	}
	b.WriteString(renderBar(theme, percent, width-8) + " " + theme.Muted.Render(util.FormatPercent(percent)))
	return b.String()
}

func renderBar(theme *styles.Theme, percent, width int) string {
	if width < 10 {
		width = 10
	}
	filled := width * percent / 100
	return theme.ProgressDone.Render(strings.Repeat("█", filled)) +
		theme.ProgressTodo.Render(strings.Repeat("░", width-filled))
}
