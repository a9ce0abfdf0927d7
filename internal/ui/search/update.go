// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package search

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/luke-chia/leximind-knowledge-hub/internal/chat"
	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
)

const sidebarWidth = 32

// Update advances the page state machine. All transcript mutation happens
// here, on the single Bubble Tea goroutine.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if m.transcript.Phase() == model.PhaseAwaiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refreshViewport()
			return m, cmd
		}
		return m, nil

	case ResponseMsg:
		var sources []model.SourceReference
		answer := ""
		if msg.Response != nil {
			answer = msg.Response.Response
			sources = msg.Response.Sources
		}
		if m.transcript.Resolve(msg.TurnID, msg.Generation, answer, sources) {
			m.refreshViewport()
			if m.transcript.Phase() == model.PhaseTyping {
				return m, typeTickCmd(msg.TurnID, msg.Generation, m.typingMinMs, m.typingMaxMs)
			}
		}
		return m, nil

	case ResponseErrMsg:
		if m.transcript.Fail(msg.TurnID, msg.Generation, msg.Err) {
			m.refreshViewport()
		}
		return m, nil

	case TypeTickMsg:
		done, ok := m.transcript.TypeNextWord(msg.TurnID, msg.Generation)
		if !ok {
			return m, nil
		}
		m.refreshViewport()
		if done {
			return m, nil
		}
		return m, typeTickCmd(msg.TurnID, msg.Generation, m.typingMinMs, m.typingMaxMs)

	case FiltersLoadedMsg:
		if msg.Options != nil {
			m.options = msg.Options
		}
		if msg.Err != nil {
			m.toasts.AddError("No se pudieron cargar los filtros.")
		}
		return m, nil

	case tea.KeyMsg:
		if m.focus == focusSidebar {
			return m.updateSidebar(msg)
		}
		return m.updateInput(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()

	case key.Matches(msg, m.keys.NewChat):
		m.transcript.Reset()
		m.input.Reset()
		m.suggestIdx = 0
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		m.resize()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		m.filters.Clear()
		return m, nil

	case key.Matches(msg, m.keys.Suggestion):
		if m.transcript.Len() == 1 {
			m.input.SetValue(suggestedQuestions[m.suggestIdx])
			m.input.CursorEnd()
			m.suggestIdx = (m.suggestIdx + 1) % len(suggestedQuestions)
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSidebar(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.ToggleSidebar):
		m.focus = focusInput
		m.showSidebar = false
		m.input.Focus()
		m.resize()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.NextFacet):
		m.facetIdx = (m.facetIdx + 1) % len(facetOrder)
		m.optionIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.PrevFacet):
		m.facetIdx = (m.facetIdx + len(facetOrder) - 1) % len(facetOrder)
		m.optionIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.optionIdx > 0 {
			m.optionIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.optionIdx < len(m.facetValues(m.facetIdx))-1 {
			m.optionIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		values := m.facetValues(m.facetIdx)
		if m.optionIdx < len(values) {
			m.filters.Toggle(facetOrder[m.facetIdx].facet, values[m.optionIdx])
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		m.filters.Clear()
		return m, nil
	}
	return m, nil
}

// submit starts a new exchange for the current input text. A no-op while
// another exchange is in flight or typing.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	if !m.transcript.CanSubmit() {
		return nil
	}
	if !m.limiter.Allow() {
		m.toasts.AddStatus("Espera un momento antes de enviar otra pregunta.")
		return nil
	}
	turnID, ok := m.transcript.BeginExchange(text)
	if !ok {
		return nil
	}
	m.input.Reset()
	req := chat.NewRequest(m.userID, text, m.filters)
	m.refreshViewport()
	return tea.Batch(
		sendCmd(m.chatClient, req, turnID, m.transcript.Generation()),
		m.spinner.Tick,
	)
}

func (m *Model) resize() {
	w := m.width
	if m.showSidebar {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	if m.viewport.Width == 0 && m.viewport.Height == 0 {
		m.viewport = viewport.New(w, h)
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.input.Width = w - 6

	wrap := w - 4
	if wrap < 20 {
		wrap = 20
	}
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrap)); err == nil {
		m.markdown = r
	}
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
