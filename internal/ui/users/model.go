// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package users implements the user directory page: a paged listing of the
// platform accounts.
package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/components"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
	"github.com/luke-chia/leximind-knowledge-hub/internal/util"
)

const pageSize = 15

// PageLoadedMsg delivers one page of the directory.
type PageLoadedMsg struct {
	Page *backend.UserPage
	Err  error
}

// Model is the Bubble Tea model for the users page.
type Model struct {
	theme  *styles.Theme
	client *backend.Client
	toasts *components.ToastManager

	width   int
	height  int
	table   table.Model
	page    *backend.UserPage
	pageNum int
	loading bool
}

// New builds the users page.
func New(theme *styles.Theme, client *backend.Client, toasts *components.ToastManager) Model {
	columns := []table.Column{
		{Title: "Nombre", Width: 28},
		{Title: "Correo", Width: 32},
		{Title: "Alta", Width: 12},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithHeight(pageSize+1),
		table.WithFocused(true),
	)
	return Model{theme: theme, client: client, toasts: toasts, table: tbl}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	m.loading = true
	return loadPageCmd(m.client, 0)
}

func loadPageCmd(client *backend.Client, page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		p, err := client.ListUsers(ctx, page, pageSize)
		return PageLoadedMsg{Page: p, Err: err}
	}
}

// Update advances the page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case PageLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.toasts.AddError("No se pudieron cargar los usuarios.")
			return m, nil
		}
		m.page = msg.Page
		m.table.SetRows(userRows(msg.Page.Users))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "n", "right":
			if m.page != nil && (m.pageNum+1)*pageSize < m.page.Total {
				m.pageNum++
				m.loading = true
				return m, loadPageCmd(m.client, m.pageNum)
			}
			return m, nil
		case "p", "left":
			if m.pageNum > 0 {
				m.pageNum--
				m.loading = true
				return m, loadPageCmd(m.client, m.pageNum)
			}
			return m, nil
		case "r":
			m.loading = true
			return m, loadPageCmd(m.client, m.pageNum)
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the directory.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Usuarios") + "\n\n")
	if m.loading {
		b.WriteString(m.theme.Muted.Render("Cargando...") + "\n")
	}
	b.WriteString(m.table.View() + "\n")
	if m.page != nil {
		totalPages := (m.page.Total + pageSize - 1) / pageSize
		if totalPages == 0 {
			totalPages = 1
		}
		b.WriteString(m.theme.Muted.Render(
			fmt.Sprintf("Página %d de %d · %d usuarios", m.pageNum+1, totalPages, m.page.Total)) + "\n")
	}
	bar := components.StatusBar{
		Left: "Usuarios",
		Shortcuts: []components.Shortcut{
			{Key: "n/p", Desc: "página"},
			{Key: "r", Desc: "refrescar"},
		},
	}
	b.WriteString(bar.Render(m.theme, m.width))
	return b.String()
}

func userRows(users []backend.User) []table.Row {
	rows := make([]table.Row, 0, len(users))
	for _, u := range users {
		name := u.FullName
		if name == "" {
			name = "(sin nombre)"
		}
		created := u.CreatedAt
		if len(created) >= 10 {
			created = created[:10]
		}
		rows = append(rows, table.Row{
			util.TruncateWidth(name, 28),
			util.TruncateWidth(u.Email, 32),
			created,
		})
	}
	return rows
}
