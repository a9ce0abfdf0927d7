// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/components"
)

const timestampLayout = "02/01/2006 15:04"

// View renders the whole page: transcript (plus sidebar), chips, input and
// shortcut bar.
func (m Model) View() string {
	if !m.ready {
		return "Inicializando..."
	}

	body := m.viewport.View()
	if m.showSidebar {
		sidebar := m.theme.PanelBorder.Width(sidebarWidth - 2).Render(m.renderSidebar())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, sidebar)
	}

	var sections []string
	sections = append(sections, body)
	if chips := m.renderChips(); chips != "" && !m.showSidebar {
		sections = append(sections, chips)
	}
	sections = append(sections, m.renderInput())
	sections = append(sections, m.renderStatusBar())

	return strings.Join(sections, "\n")
}

func (m Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("❯ ")
	return m.theme.InputContainer.Width(m.width).Render(prompt + m.input.View())
}

func (m Model) renderStatusBar() string {
	left := "Búsqueda"
	switch m.transcript.Phase() {
	case model.PhaseAwaiting:
		left = "Consultando..."
	case model.PhaseTyping:
		left = "Escribiendo..."
	case model.PhaseError:
		left = "Error"
	}
	right := ""
	if n := m.filters.Count(); n > 0 {
		right = fmt.Sprintf("%d filtros", n)
	}
	bar := components.StatusBar{
		Left:  left,
		Right: right,
		Shortcuts: []components.Shortcut{
			{Key: "Enter", Desc: "enviar"},
			{Key: "C-f", Desc: "filtros"},
			{Key: "C-n", Desc: "nueva"},
			{Key: "C-s", Desc: "sugerencia"},
		},
	}
	return bar.Render(m.theme, m.width)
}

// renderTranscript produces the viewport content. With only the greeting
// present it shows the welcome screen with suggested questions.
func (m Model) renderTranscript() string {
	turns := m.transcript.Turns()
	if len(turns) == 1 {
		return m.renderWelcome(turns[0])
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderTurn(turn))
	}
	return b.String()
}

func (m Model) renderWelcome(greeting *model.ChatTurn) string {
	var b strings.Builder
	b.WriteString(m.theme.AssistantBubble.Render(greeting.Content))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Emphasis.Render("Preguntas sugeridas"))
	b.WriteString(m.theme.Muted.Render("  (C-s para usar una)"))
	b.WriteString("\n")
	for _, q := range suggestedQuestions {
		b.WriteString(m.theme.Muted.Render("  • ") + q + "\n")
	}
	return b.String()
}

func (m Model) renderTurn(turn *model.ChatTurn) string {
	ts := m.theme.TurnTimestamp.Render(turn.Timestamp.Format(timestampLayout))

	switch {
	case turn.Role == model.RoleUser:
		label := m.theme.InputPrompt.Render("Tú")
		return label + " " + ts + "\n" + m.theme.UserBubble.Render(turn.Content) + "\n"

	case turn.Pending:
		return m.theme.PendingBubble.Render(m.spinner.View()+" Pensando...") + "\n"

	case turn.IsError():
		return m.theme.ErrorBubble.Render(turn.DisplayContent()) + "\n"
	}

	label := m.theme.SourceTitle.Render("Asistente")
	content := turn.DisplayContent()
	switch {
	case turn.Typing:
		content = m.theme.AssistantBubble.Render(content + m.theme.TypingCursor.Render("▌"))
	default:
		content = m.renderAnswer(content)
	}
	out := label + " " + ts + "\n" + content + "\n"
	if !turn.Typing && len(turn.Sources) > 0 {
		out += m.renderSources(turn.Sources)
	}
	return out
}

// renderAnswer runs a finished answer through the markdown renderer so
// headings and lists the assistant emits come out styled.
func (m Model) renderAnswer(content string) string {
	if m.markdown != nil {
		if out, err := m.markdown.Render(content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return m.theme.AssistantBubble.Render(content)
}

// renderSources lists the cited fragments once the answer finished typing.
func (m Model) renderSources(sources []model.SourceReference) string {
	var b strings.Builder
	b.WriteString(m.theme.SourceTitle.Render("Fuentes") + "\n")
	for _, s := range sources {
		line := fmt.Sprintf("• %s, pág. %s", s.Source, s.Page)
		b.WriteString(m.theme.SourceBlock.Render(line) + "\n")
		if s.MatchingText != "" {
			quote := fmt.Sprintf("  %q", s.MatchingText)
			b.WriteString(m.theme.SourceBlock.Render(quote) + "\n")
		}
	}
	return b.String()
}
