// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package profile implements the profile page: the current user's card,
// inline editing of name and nickname, and avatar upload from a local
// image file.
package profile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/components"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
)

// mode selects the page surface.
type mode int

const (
	modeView mode = iota
	modeEdit
	modeAvatar
)

// edit fields.
const (
	fieldName = iota
	fieldNickname
	fieldCount
)

// LoadedMsg delivers the profile, created on first access when missing.
type LoadedMsg struct {
	Profile *backend.Profile
	Err     error
}

// SavedMsg delivers the outcome of an update.
type SavedMsg struct {
	Profile *backend.Profile
	Err     error
}

// AvatarMsg delivers the outcome of an avatar upload.
type AvatarMsg struct {
	URL string
	Err error
}

// Model is the Bubble Tea model for the profile page.
type Model struct {
	theme  *styles.Theme
	client *backend.Client
	toasts *components.ToastManager

	width   int
	height  int
	mode    mode
	busy    bool
	profile *backend.Profile

	inputs [fieldCount]textinput.Model
	focus  int
	avatar textinput.Model
}

// New builds the profile page.
func New(theme *styles.Theme, client *backend.Client, toasts *components.ToastManager) Model {
	name := textinput.New()
	name.Placeholder = "Nombre completo"
	name.CharLimit = 120

	nickname := textinput.New()
	nickname.Placeholder = "Apodo"
	nickname.CharLimit = 60

	avatar := textinput.New()
	avatar.Placeholder = "/ruta/a/avatar.png"
	avatar.CharLimit = 512

	return Model{
		theme:  theme,
		client: client,
		toasts: toasts,
		inputs: [fieldCount]textinput.Model{name, nickname},
		avatar: avatar,
	}
}

// Init loads the profile.
func (m Model) Init() tea.Cmd {
	return loadCmd(m.client)
}

func loadCmd(client *backend.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		p, err := client.GetProfile(ctx)
		return LoadedMsg{Profile: p, Err: err}
	}
}

func saveCmd(client *backend.Client, update backend.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		p, err := client.UpdateProfile(ctx, update)
		return SavedMsg{Profile: p, Err: err}
	}
}

func avatarCmd(client *backend.Client, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return AvatarMsg{Err: err}
		}
		contentType := "image/png"
		if ext := strings.ToLower(filepath.Ext(path)); ext == ".jpg" || ext == ".jpeg" {
			contentType = "image/jpeg"
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		url, err := client.UploadProfileImage(ctx, data, contentType)
		return AvatarMsg{URL: url, Err: err}
	}
}

// Update advances the page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.toasts.AddError("No se pudo cargar el perfil.")
			return m, nil
		}
		m.profile = msg.Profile
		return m, nil

	case SavedMsg:
		m.busy = false
		if msg.Err != nil {
			m.toasts.AddError("No se pudo guardar el perfil.")
			return m, nil
		}
		m.profile = msg.Profile
		m.mode = modeView
		m.toasts.AddSuccess("Perfil actualizado.")
		return m, nil

	case AvatarMsg:
		m.busy = false
		if msg.Err != nil {
			m.toasts.AddError("No se pudo subir el avatar.")
			return m, nil
		}
		if m.profile != nil {
			m.profile.ImgURL = msg.URL
		}
		m.mode = modeView
		m.toasts.AddSuccess("Avatar actualizado.")
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch m.mode {
		case modeView:
			return m.updateView(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeAvatar:
			return m.updateAvatar(msg)
		}
	}
	return m, nil
}

func (m Model) updateView(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		if m.profile == nil {
			return m, nil
		}
		m.mode = modeEdit
		m.focus = fieldName
		m.inputs[fieldName].SetValue(m.profile.Name)
		m.inputs[fieldNickname].SetValue(m.profile.Nickname)
		m.inputs[fieldName].Focus()
		m.inputs[fieldNickname].Blur()
		return m, textinput.Blink
	case "a":
		if m.profile == nil {
			return m, nil
		}
		m.mode = modeAvatar
		m.avatar.SetValue("")
		m.avatar.Focus()
		return m, textinput.Blink
	case "r":
		return m, loadCmd(m.client)
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeView
		return m, nil
	case "tab", "down", "shift+tab", "up":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % fieldCount
		m.inputs[m.focus].Focus()
		return m, nil
	case "enter":
		m.busy = true
		return m, saveCmd(m.client, backend.ProfileUpdate{
			Name:     strings.TrimSpace(m.inputs[fieldName].Value()),
			Nickname: strings.TrimSpace(m.inputs[fieldNickname].Value()),
		})
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateAvatar(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeView
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.avatar.Value())
		if path == "" {
			return m, nil
		}
		m.busy = true
		return m, avatarCmd(m.client, path)
	}
	var cmd tea.Cmd
	m.avatar, cmd = m.avatar.Update(msg)
	return m, cmd
}

// View renders the active surface.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Perfil") + "\n\n")

	if m.profile == nil {
		b.WriteString(m.theme.Muted.Render("Cargando perfil..."))
		return b.String()
	}

	switch m.mode {
	case modeEdit:
		b.WriteString(m.theme.Muted.Render("Nombre") + "\n" + m.inputs[fieldName].View() + "\n\n")
		b.WriteString(m.theme.Muted.Render("Apodo") + "\n" + m.inputs[fieldNickname].View() + "\n\n")
		if m.busy {
			b.WriteString(m.theme.Muted.Render("Guardando..."))
		} else {
			b.WriteString(m.theme.Muted.Render("Enter guardar · Esc cancelar"))
		}
	case modeAvatar:
		b.WriteString(m.theme.Muted.Render("Ruta de la imagen") + "\n" + m.avatar.View() + "\n\n")
		if m.busy {
			b.WriteString(m.theme.Muted.Render("Subiendo..."))
		} else {
			b.WriteString(m.theme.Muted.Render("Enter subir · Esc cancelar"))
		}
	default:
		b.WriteString(m.renderCard())
	}

	bar := components.StatusBar{
		Left: "Perfil",
		Shortcuts: []components.Shortcut{
			{Key: "e", Desc: "editar"},
			{Key: "a", Desc: "avatar"},
			{Key: "r", Desc: "refrescar"},
		},
	}
	b.WriteString("\n\n" + bar.Render(m.theme, m.width))
	return b.String()
}

func (m Model) renderCard() string {
	p := m.profile
	var rows []string
	rows = append(rows, m.theme.Emphasis.Render(valueOr(p.Name, "Sin nombre")))
	if p.Nickname != "" {
		rows = append(rows, m.theme.Muted.Render("\""+p.Nickname+"\""))
	}
	if p.Role != "" {
		rows = append(rows, "Rol: "+p.Role)
	}
	if p.Status != "" {
		rows = append(rows, "Estado: "+p.Status)
	}
	if p.ImgURL != "" {
		rows = append(rows, m.theme.Muted.Render("Avatar: "+p.ImgURL))
	}
	return m.theme.PanelBorder.Render(strings.Join(rows, "\n"))
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
