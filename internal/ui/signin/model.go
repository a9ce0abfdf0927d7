// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package signin implements the authentication page: email and password
// fields against the hosted backend, with the transport error surfaced
// inline.
package signin

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
)

// field indexes into the two inputs.
const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// SignedInMsg announces a successful authentication to the application.
type SignedInMsg struct {
	Session *backend.Session
}

// signInFailedMsg carries the user-facing failure back to the page.
type signInFailedMsg struct {
	message string
}

// Model is the Bubble Tea model for the sign-in page.
type Model struct {
	theme   *styles.Theme
	client  *backend.Client
	inputs  [fieldCount]textinput.Model
	focus   int
	busy    bool
	errMsg  string
	spinner spinner.Model
	width   int
	height  int
}

// New builds the sign-in page.
func New(theme *styles.Theme, client *backend.Client) Model {
	email := textinput.New()
	email.Placeholder = "correo@banco.mx"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "contraseña"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		theme:   theme,
		client:  client,
		inputs:  [fieldCount]textinput.Model{email, password},
		spinner: sp,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles field navigation and the submit round trip.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case signInFailedMsg:
		m.busy = false
		m.errMsg = msg.message
		return m, nil

	case SignedInMsg:
		m.busy = false
		m.errMsg = ""
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			if m.focus == fieldEmail {
				m.setFocus(fieldPassword)
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		m.errMsg = "Ingresa tu correo y contraseña."
		return m, nil
	}
	m.busy = true
	m.errMsg = ""
	client := m.client
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		session, err := client.SignIn(ctx, email, password)
		if err != nil {
			te := api.Classify(err)
			message := te.Message
			if te.Code == 400 || te.Code == 401 {
				message = "Correo o contraseña incorrectos."
			}
			return signInFailedMsg{message: message}
		}
		return SignedInMsg{Session: session}
	})
}

// View renders the centered sign-in panel.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("LexiMind Knowledge Hub") + "\n\n")
	b.WriteString(m.theme.Muted.Render("Correo") + "\n")
	b.WriteString(m.inputs[fieldEmail].View() + "\n\n")
	b.WriteString(m.theme.Muted.Render("Contraseña") + "\n")
	b.WriteString(m.inputs[fieldPassword].View() + "\n\n")

	switch {
	case m.busy:
		b.WriteString(m.theme.Muted.Render(m.spinner.View() + " Iniciando sesión..."))
	case m.errMsg != "":
		b.WriteString(m.theme.ToastError.Render("✗ " + m.errMsg))
	default:
		b.WriteString(m.theme.Muted.Render("Enter para iniciar sesión"))
	}

	panel := m.theme.PanelBorder.Width(46).Render(b.String())
	if m.width == 0 {
		return panel
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// Busy reports whether a sign-in round trip is in flight.
func (m Model) Busy() bool { return m.busy }
