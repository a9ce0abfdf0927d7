// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package console implements the Cliente 360 page: natural-language queries
// answered with the generated SQL, the result rows and the execution
// metadata, plus a periodic health probe of the service.
package console

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/nlsql"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/components"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
	"github.com/luke-chia/leximind-knowledge-hub/internal/util"
)

const (
	healthInterval = 30 * time.Second
	maxResultRows  = 50
	maxColumns     = 6
)

// ResultMsg delivers an answered query.
type ResultMsg struct {
	Response *nlsql.Response
	Err      error
}

// HealthMsg delivers a probe outcome and schedules the next one.
type HealthMsg struct {
	Up bool
}

// Model is the Bubble Tea model for the console page.
type Model struct {
	theme  *styles.Theme
	client *nlsql.Client
	toasts *components.ToastManager

	width  int
	height int
	ready  bool

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	busy     bool
	healthy  bool
	response *nlsql.Response
	errMsg   string
}

// New builds the console page.
func New(theme *styles.Theme, client *nlsql.Client, toasts *components.ToastManager) Model {
	ti := textinput.New()
	ti.Placeholder = "¿Cuántos clientes tienen crédito hipotecario activo?"
	ti.CharLimit = nlsql.MaxQuestionLen + 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		theme:   theme,
		client:  client,
		toasts:  toasts,
		input:   ti,
		spinner: sp,
	}
}

// Init probes the service health.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, healthCmd(m.client))
}

// Focus enables the question input when the page becomes active.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

func askCmd(client *nlsql.Client, question string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Ask(context.Background(), question)
		return ResultMsg{Response: resp, Err: err}
	}
}

func healthCmd(client *nlsql.Client) tea.Cmd {
	return func() tea.Msg {
		return HealthMsg{Up: client.Health(context.Background())}
	}
}

func healthTickCmd() tea.Cmd {
	return tea.Tick(healthInterval, func(time.Time) tea.Msg {
		return healthProbeDue{}
	})
}

type healthProbeDue struct{}

// Update advances the page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - 6
		if h < 3 {
			h = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case HealthMsg:
		m.healthy = msg.Up
		return m, healthTickCmd()

	case healthProbeDue:
		return m, healthCmd(m.client)

	case ResultMsg:
		m.busy = false
		if msg.Err != nil {
			m.response = nil
			m.errMsg = userError(msg.Err)
			m.refresh()
			return m, nil
		}
		m.response = msg.Response
		m.errMsg = ""
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.busy {
			return m.submit()
		}
		if msg.String() == "pgup" || msg.String() == "pgdown" {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if err := nlsql.ValidateQuestion(question); err != nil {
		m.errMsg = userError(err)
		m.refresh()
		return m, nil
	}
	m.busy = true
	m.errMsg = ""
	m.refresh()
	return m, tea.Batch(askCmd(m.client, question), m.spinner.Tick)
}

// userError strips the package prefix from validation errors and passes
// transport messages through.
func userError(err error) string {
	te := api.Classify(err)
	if te.Code == api.CodeUnknown {
		return strings.TrimPrefix(err.Error(), "nlsql: ")
	}
	return te.Message
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderResult())
	m.viewport.GotoTop()
}

// View renders the console.
func (m Model) View() string {
	if !m.ready {
		return "Inicializando..."
	}

	var sections []string
	sections = append(sections, m.viewport.View())
	sections = append(sections, m.renderInput())
	sections = append(sections, m.renderStatusBar())
	return strings.Join(sections, "\n")
}

func (m Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("360❯ ")
	// Rune count, matching the validator: accented Spanish must not trip
	// the warn style while the question is still valid.
	count := utf8.RuneCountInString(strings.TrimSpace(m.input.Value()))
	counter := fmt.Sprintf(" %d/%d", count, nlsql.MaxQuestionLen)
	style := m.theme.CharCount
	if count > 0 && (count < nlsql.MinQuestionLen || count > nlsql.MaxQuestionLen) {
		style = m.theme.CharCountWarn
	}
	return m.theme.InputContainer.Width(m.width).Render(prompt + m.input.View() + style.Render(counter))
}

func (m Model) renderStatusBar() string {
	health := "● desconectado"
	if m.healthy {
		health = "● en línea"
	}
	left := "Cliente 360"
	if m.busy {
		left = m.spinner.View() + " Consultando..."
	}
	bar := components.StatusBar{
		Left:  left,
		Right: health,
		Shortcuts: []components.Shortcut{
			{Key: "Enter", Desc: "consultar"},
			{Key: "PgUp/PgDn", Desc: "desplazar"},
		},
	}
	return bar.Render(m.theme, m.width)
}

func (m Model) renderResult() string {
	if m.errMsg != "" {
		return m.theme.ErrorBubble.Render(m.errMsg)
	}
	if m.response == nil {
		return m.theme.Muted.Render(
			"Haz una pregunta en lenguaje natural sobre los clientes.\n" +
				"Ejemplo: ¿cuántas cuentas se abrieron este mes por sucursal?")
	}

	var b strings.Builder
	b.WriteString(components.NewSQLBlock(m.response.GeneratedSQL).Render(m.theme))
	b.WriteString("\n\n")
	b.WriteString(m.renderRows())
	b.WriteString("\n")
	b.WriteString(m.renderMetadata())
	return b.String()
}

// renderRows draws the result set as a fixed-width grid. Columns come from
// the first row in sorted order so the layout is stable between queries.
func (m Model) renderRows() string {
	rows := m.response.Results
	if len(rows) == 0 {
		return m.theme.Muted.Render("Sin resultados.")
	}

	cols := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	if len(cols) > maxColumns {
		cols = cols[:maxColumns]
	}

	colWidth := 18
	if m.width > 0 && m.width/len(cols) < colWidth+2 {
		colWidth = m.width/len(cols) - 2
		if colWidth < 8 {
			colWidth = 8
		}
	}

	var b strings.Builder
	var header []string
	for _, c := range cols {
		header = append(header, util.PadWidth(util.TruncateWidth(c, colWidth), colWidth))
	}
	b.WriteString(m.theme.TableHeader.Render(strings.Join(header, "  ")) + "\n")

	limit := len(rows)
	if limit > maxResultRows {
		limit = maxResultRows
	}
	for i := 0; i < limit; i++ {
		var cells []string
		for _, c := range cols {
			cells = append(cells, util.PadWidth(util.TruncateWidth(cellString(rows[i][c]), colWidth), colWidth))
		}
		style := m.theme.TableRow
		if i%2 == 1 {
			style = m.theme.TableRowAlt
		}
		b.WriteString(style.Render(strings.Join(cells, "  ")) + "\n")
	}
	if len(rows) > limit {
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("... %d filas más", len(rows)-limit)) + "\n")
	}
	return b.String()
}

func (m Model) renderMetadata() string {
	md := m.response.Metadata
	parts := []string{
		fmt.Sprintf("%d filas", md.RowCount),
	}
	if md.ExecutionTime != "" {
		parts = append(parts, md.ExecutionTime)
	}
	if len(md.TablesUsed) > 0 {
		parts = append(parts, "tablas: "+strings.Join(md.TablesUsed, ", "))
	}
	if md.ModelID != "" {
		parts = append(parts, md.ModelID)
	}
	return m.theme.Muted.Render(strings.Join(parts, " · "))
}

// cellString renders one result value; JSON numbers arrive as float64.
func cellString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "sí"
		}
		return "no"
	default:
		return fmt.Sprintf("%v", v)
	}
}
