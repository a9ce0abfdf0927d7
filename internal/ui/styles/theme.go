// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package styles provides the visual styling system for the knowledge hub
// terminal UI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette anchors. The brand leans on teal for the assistant and violet
// for user input, with amber reserved for warnings.
const (
	colorTeal      = lipgloss.Color("36")
	colorTealDim   = lipgloss.Color("30")
	colorViolet    = lipgloss.Color("99")
	colorAmber     = lipgloss.Color("214")
	colorRed       = lipgloss.Color("196")
	colorGreen     = lipgloss.Color("42")
	colorGrayLight = lipgloss.Color("250")
	colorGray      = lipgloss.Color("243")
	colorGrayDark  = lipgloss.Color("238")
)

// Theme holds every styled component the pages render with. It detects the
// terminal color capability once at startup.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CHROME
	// ==========================================================================

	App         lipgloss.Style
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	StatusBar   lipgloss.Style
	ShortcutKey lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	PendingBubble   lipgloss.Style
	TurnTimestamp   lipgloss.Style
	TypingCursor    lipgloss.Style
	SourceBlock     lipgloss.Style
	SourceTitle     lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	CharCount      lipgloss.Style
	CharCountWarn  lipgloss.Style

	// ==========================================================================
	// FILTER SIDEBAR
	// ==========================================================================

	FacetTitle     lipgloss.Style
	FacetSelected  lipgloss.Style
	FacetOption    lipgloss.Style
	FacetCursor    lipgloss.Style
	FilterChip     lipgloss.Style

	// ==========================================================================
	// TABLES AND PANELS
	// ==========================================================================

	TableHeader  lipgloss.Style
	TableRow     lipgloss.Style
	TableRowAlt  lipgloss.Style
	PanelBorder  lipgloss.Style
	PanelTitle   lipgloss.Style
	ProgressDone lipgloss.Style
	ProgressTodo lipgloss.Style

	// ==========================================================================
	// FEEDBACK
	// ==========================================================================

	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastStatus  lipgloss.Style
	Muted        lipgloss.Style
	Emphasis     lipgloss.Style
}

// NewTheme builds a theme for the detected terminal background. mode is
// "auto", "dark" or "light".
func NewTheme(mode string) *Theme {
	isDark := true
	switch mode {
	case "light":
		isDark = false
	case "dark":
		isDark = true
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}

	text := colorGrayLight
	if !isDark {
		text = lipgloss.Color("236")
	}

	t.App = lipgloss.NewStyle().Foreground(text)

	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorGrayDark).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	t.TabActive = lipgloss.NewStyle().Bold(true).Foreground(colorTeal).Underline(true)
	t.TabInactive = lipgloss.NewStyle().Foreground(colorGray)

	t.StatusBar = lipgloss.NewStyle().Foreground(colorGray)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(colorGray)

	t.UserBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorViolet).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorTealDim).
		Padding(0, 1)
	t.ErrorBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorRed).
		Foreground(colorRed).
		Padding(0, 1)
	t.PendingBubble = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	t.TurnTimestamp = lipgloss.NewStyle().Foreground(colorGrayDark)
	t.TypingCursor = lipgloss.NewStyle().Foreground(colorTeal).Bold(true)
	t.SourceBlock = lipgloss.NewStyle().Foreground(colorGray).PaddingLeft(2)
	t.SourceTitle = lipgloss.NewStyle().Foreground(colorTealDim).Bold(true).PaddingLeft(2)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(colorGrayDark)
	t.InputPrompt = lipgloss.NewStyle().Foreground(colorViolet).Bold(true)
	t.CharCount = lipgloss.NewStyle().Foreground(colorGrayDark)
	t.CharCountWarn = lipgloss.NewStyle().Foreground(colorAmber)

	t.FacetTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	t.FacetSelected = lipgloss.NewStyle().Foreground(colorGreen)
	t.FacetOption = lipgloss.NewStyle().Foreground(text)
	t.FacetCursor = lipgloss.NewStyle().Foreground(colorViolet).Bold(true)
	t.FilterChip = lipgloss.NewStyle().
		Foreground(colorTeal).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorTealDim).
		Padding(0, 1)

	t.TableHeader = lipgloss.NewStyle().Bold(true).Foreground(colorTeal).Underline(true)
	t.TableRow = lipgloss.NewStyle().Foreground(text)
	t.TableRowAlt = lipgloss.NewStyle().Foreground(colorGray)
	t.PanelBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorGrayDark).
		Padding(0, 1)
	t.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	t.ProgressDone = lipgloss.NewStyle().Foreground(colorGreen)
	t.ProgressTodo = lipgloss.NewStyle().Foreground(colorGrayDark)

	t.ToastError = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	t.ToastWarning = lipgloss.NewStyle().Foreground(colorAmber)
	t.ToastSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	t.ToastStatus = lipgloss.NewStyle().Foreground(colorGray)
	t.Muted = lipgloss.NewStyle().Foreground(colorGray)
	t.Emphasis = lipgloss.NewStyle().Bold(true).Foreground(text)

	return t
}

// SetSize records the terminal dimensions for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
