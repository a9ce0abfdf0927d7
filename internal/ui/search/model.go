// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package search implements the knowledge search page: the chat transcript
// with its word-by-word typing animation, the filter sidebar and the
// question input.
package search

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"golang.org/x/time/rate"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/chat"
	"github.com/luke-chia/leximind-knowledge-hub/internal/config"
	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/components"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// focusTarget selects which pane receives key input.
type focusTarget int

const (
	focusInput focusTarget = iota
	focusSidebar
)

// suggestedQuestions seeds an empty conversation with starting points.
var suggestedQuestions = []string{
	"¿Qué regulaciones de la CNBV aplican a la apertura de cuentas?",
	"¿Dónde está el manual de cumplimiento vigente?",
	"¿Cuáles son las políticas de seguridad de TI?",
	"¿Cómo se documentan los procedimientos contables?",
	"¿Qué lineamientos existen para la gestión de riesgos?",
	"¿Cuál es el proceso de onboarding de clientes?",
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the search page.
type Model struct {
	theme *styles.Theme

	width  int
	height int
	ready  bool

	// Conversation state machine.
	transcript *model.Transcript
	filters    *model.FilterState

	// Backends.
	chatClient *chat.Client
	backendSvc *backend.Client
	userID     string

	// Typing animation bounds, milliseconds per word.
	typingMinMs int
	typingMaxMs int

	// Facet vocabularies, nil until loaded.
	options *backend.FacetOptions

	// UI components.
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	toasts   *components.ToastManager
	keys     KeyMap

	// Markdown renderer for finished answers, rebuilt on resize. Turns
	// still typing render plain so the word animation stays stable.
	markdown *glamour.TermRenderer

	// Submit throttle.
	limiter *rate.Limiter

	focus       focusTarget
	showSidebar bool
	facetIdx    int
	optionIdx   int
	suggestIdx  int
}

// New builds the search page. The toast manager is shared with the rest of
// the application so every page surfaces feedback in one place.
func New(theme *styles.Theme, cfg *config.Config, chatClient *chat.Client, backendSvc *backend.Client, userID string, toasts *components.ToastManager) Model {
	ti := textinput.New()
	ti.Placeholder = "Escribe tu pregunta..."
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	greeting := cfg.UI.Greeting
	if greeting == "" {
		greeting = config.DefaultGreeting
	}
	if userID == "" {
		userID = chat.DefaultUserID
	}

	return Model{
		theme:       theme,
		transcript:  model.NewTranscript(greeting),
		filters:     model.NewFilterState(),
		chatClient:  chatClient,
		backendSvc:  backendSvc,
		userID:      userID,
		typingMinMs: cfg.UI.TypingMinMs,
		typingMaxMs: cfg.UI.TypingMaxMs,
		input:       ti,
		spinner:     sp,
		toasts:      toasts,
		keys:        DefaultKeyMap(),
		limiter:     rate.NewLimiter(rate.Limit(1), 2),
	}
}

// Init starts the blink cursor and loads the facet vocabularies.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.backendSvc != nil {
		cmds = append(cmds, loadFiltersCmd(m.backendSvc))
	}
	return tea.Batch(cmds...)
}

// Transcript exposes the conversation for persistence.
func (m Model) Transcript() *model.Transcript { return m.transcript }

// Filters exposes the current selection for persistence.
func (m Model) Filters() *model.FilterState { return m.filters }

// Busy reports whether an exchange is in flight or typing out.
func (m Model) Busy() bool {
	return !m.transcript.CanSubmit()
}
