// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package ui assembles the terminal application: authentication gate, app
// lock, tab navigation and the shared feedback surface.
package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/chat"
	"github.com/luke-chia/leximind-knowledge-hub/internal/config"
	"github.com/luke-chia/leximind-knowledge-hub/internal/nlsql"
	"github.com/luke-chia/leximind-knowledge-hub/internal/security"
	"github.com/luke-chia/leximind-knowledge-hub/internal/storage"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/components"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/console"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/documents"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/profile"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/search"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/signin"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/users"
	"github.com/luke-chia/leximind-knowledge-hub/internal/upload"
)

// page identifies one tab.
type page int

const (
	pageSearch page = iota
	pageDocuments
	pageConsole
	pageUsers
	pageProfile
	pageCount
)

var pageTitles = [pageCount]string{
	"Búsqueda",
	"Documentos",
	"Cliente 360",
	"Usuarios",
	"Perfil",
}

var pageKeys = [pageCount]string{"f1", "f2", "f3", "f4", "f5"}

// Deps bundles everything the application needs. Watcher, Cache,
// Conversations, Vault and Lock may be nil when the matching feature is
// disabled.
type Deps struct {
	Config        *config.Config
	Backend       *backend.Client
	Chat          *chat.Client
	NLSQL         *nlsql.Client
	Pipeline      *upload.Pipeline
	Watcher       *upload.Watcher
	Cache         *storage.DocumentCache
	Conversations *storage.ConversationStore
	Vault         *security.Vault
	VaultKey      []byte
	Lock          *security.AppLock
	Session       *backend.Session
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	theme  *styles.Theme
	toasts *components.ToastManager

	width  int
	height int

	locked    bool
	lockInput textinput.Model
	lockErr   string

	authed bool
	page   page

	signin    signin.Model
	search    search.Model
	documents documents.Model
	console   console.Model
	users     users.Model
	profile   profile.Model

	tickArmed bool
}

// NewApp wires the pages together.
func NewApp(deps Deps) App {
	theme := styles.NewTheme(deps.Config.UI.Theme)
	toasts := components.NewToastManager()

	lockInput := textinput.New()
	lockInput.Placeholder = "Código de 6 dígitos"
	lockInput.CharLimit = 6
	lockInput.Focus()

	userID := ""
	if deps.Session != nil {
		userID = deps.Session.User.ID
	}

	return App{
		deps:      deps,
		theme:     theme,
		toasts:    toasts,
		locked:    deps.Lock != nil && deps.Config.Security.AppLock && deps.Lock.Enrolled(),
		lockInput: lockInput,
		authed:    deps.Session != nil && !deps.Session.Expired(),
		signin:    signin.New(theme, deps.Backend),
		search:    search.New(theme, deps.Config, deps.Chat, deps.Backend, userID, toasts),
		documents: documents.New(theme, deps.Backend, deps.Pipeline, deps.Watcher, deps.Cache, toasts),
		console:   console.New(theme, deps.NLSQL, toasts),
		users:     users.New(theme, deps.Backend, toasts),
		profile:   profile.New(theme, deps.Backend, toasts),
	}
}

// Init starts the gate that applies: lock screen, sign-in, or the pages.
func (a App) Init() tea.Cmd {
	if a.locked {
		return textinput.Blink
	}
	if !a.authed {
		return a.signin.Init()
	}
	return a.initPages()
}

func (a App) initPages() tea.Cmd {
	return tea.Batch(
		a.search.Init(),
		a.documents.Init(),
		a.console.Init(),
		a.users.Init(),
		a.profile.Init(),
	)
}

// Update routes messages: keys go to the active surface, asynchronous
// results go to every page so background work lands even after a tab
// switch.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		body := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2}
		var cmds []tea.Cmd
		a.signin, _ = a.signin.Update(msg)
		a.search, _ = a.search.Update(body)
		a.documents, _ = a.documents.Update(body)
		a.console, _ = a.console.Update(body)
		a.users, _ = a.users.Update(body)
		a.profile, _ = a.profile.Update(body)
		return a, tea.Batch(cmds...)

	case components.ToastTickMsg:
		if a.toasts.Tick(msg.Time) {
			return a, components.ToastTickCmd()
		}
		a.tickArmed = false
		return a, nil

	case signin.SignedInMsg:
		a.authed = true
		a.deps.Session = msg.Session
		a.persistSession(msg.Session)
		a.search = search.New(a.theme, a.deps.Config, a.deps.Chat, a.deps.Backend, msg.Session.User.ID, a.toasts)
		var cmd tea.Cmd
		a.signin, cmd = a.signin.Update(msg)
		return a, tea.Batch(cmd, a.initPages(), a.resizeCmd())

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	return a.broadcast(msg)
}

// resizeCmd replays the last window size so pages built after sign-in lay
// themselves out.
func (a App) resizeCmd() tea.Cmd {
	if a.width == 0 {
		return nil
	}
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.saveConversation(false)
		return a, tea.Quit
	}

	if a.locked {
		return a.updateLock(msg)
	}

	if !a.authed {
		var cmd tea.Cmd
		a.signin, cmd = a.signin.Update(msg)
		return a.armToasts(cmd)
	}

	for i, k := range pageKeys {
		if msg.String() == k {
			a.page = page(i)
			if a.page == pageConsole {
				return a, a.console.Focus()
			}
			return a, nil
		}
	}

	if msg.String() == "ctrl+o" {
		a.saveConversation(true)
		return a.armToasts(nil)
	}

	var cmd tea.Cmd
	switch a.page {
	case pageSearch:
		a.search, cmd = a.search.Update(msg)
	case pageDocuments:
		a.documents, cmd = a.documents.Update(msg)
	case pageConsole:
		a.console, cmd = a.console.Update(msg)
	case pageUsers:
		a.users, cmd = a.users.Update(msg)
	case pageProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a.armToasts(cmd)
}

func (a App) updateLock(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		code := strings.TrimSpace(a.lockInput.Value())
		if err := a.deps.Lock.Verify(code); err != nil {
			a.lockErr = "Código inválido."
			a.lockInput.SetValue("")
			return a, nil
		}
		a.locked = false
		a.lockErr = ""
		if !a.authed {
			return a, a.signin.Init()
		}
		return a, a.initPages()
	}
	var cmd tea.Cmd
	a.lockInput, cmd = a.lockInput.Update(msg)
	return a, cmd
}

// broadcast forwards an asynchronous message to every authed page.
func (a App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if !a.authed {
		a.signin, cmd = a.signin.Update(msg)
		return a.armToasts(cmd)
	}

	a.search, cmd = a.search.Update(msg)
	cmds = append(cmds, cmd)
	a.documents, cmd = a.documents.Update(msg)
	cmds = append(cmds, cmd)
	a.console, cmd = a.console.Update(msg)
	cmds = append(cmds, cmd)
	a.users, cmd = a.users.Update(msg)
	cmds = append(cmds, cmd)
	a.profile, cmd = a.profile.Update(msg)
	cmds = append(cmds, cmd)

	return a.armToasts(tea.Batch(cmds...))
}

// armToasts schedules the expiry ticker when a page just added a toast.
func (a App) armToasts(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if a.toasts.Active() && !a.tickArmed {
		a.tickArmed = true
		return a, tea.Batch(cmd, components.ToastTickCmd())
	}
	return a, cmd
}

// persistSession seals the tokens into the local vault so the next start
// skips the sign-in form.
func (a *App) persistSession(session *backend.Session) {
	if a.deps.Vault == nil || len(a.deps.VaultKey) == 0 || session == nil {
		return
	}
	if err := a.deps.Vault.SealJSON(a.deps.VaultKey, session); err != nil {
		a.toasts.Add(components.ToastWarning, "No se pudo guardar la sesión local.")
	}
}

// saveConversation snapshots the current transcript. announce controls the
// success toast; quiet saves run on exit.
func (a *App) saveConversation(announce bool) {
	if a.deps.Conversations == nil || a.search.Transcript().Len() <= 1 {
		return
	}
	snap := storage.SnapshotTranscript(a.search.Transcript(), a.search.Filters())
	if _, err := a.deps.Conversations.Save(snap); err != nil {
		if announce {
			a.toasts.AddError("No se pudo guardar la conversación.")
		}
		return
	}
	if announce {
		a.toasts.AddSuccess("Conversación guardada.")
	}
}

// View renders the active surface under the tab header.
func (a App) View() string {
	if a.locked {
		return a.viewLock()
	}
	if !a.authed {
		return a.overlayToasts(a.signin.View())
	}

	var body string
	switch a.page {
	case pageSearch:
		body = a.search.View()
	case pageDocuments:
		body = a.documents.View()
	case pageConsole:
		body = a.console.View()
	case pageUsers:
		body = a.users.View()
	case pageProfile:
		body = a.profile.View()
	}

	return a.overlayToasts(a.viewHeader() + "\n" + body)
}

func (a App) viewHeader() string {
	var tabs []string
	for i := page(0); i < pageCount; i++ {
		label := pageKeys[i] + " " + pageTitles[i]
		if i == a.page {
			tabs = append(tabs, a.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, a.theme.TabInactive.Render(label))
		}
	}
	title := a.theme.HeaderTitle.Render("LexiMind")
	return a.theme.Header.Width(a.width).Render(title + "  " + strings.Join(tabs, "  "))
}

func (a App) viewLock() string {
	var b strings.Builder
	b.WriteString(a.theme.HeaderTitle.Render("LexiMind bloqueado") + "\n\n")
	b.WriteString(a.theme.Muted.Render("Ingresa el código de tu aplicación de autenticación.") + "\n\n")
	b.WriteString(a.lockInput.View() + "\n")
	if a.lockErr != "" {
		b.WriteString("\n" + a.theme.ToastError.Render("✗ "+a.lockErr))
	}
	return a.theme.PanelBorder.Render(b.String())
}

func (a App) overlayToasts(body string) string {
	if !a.toasts.Active() {
		return body
	}
	return body + "\n" + a.toasts.Render(a.theme)
}

// Run starts the program. With ui.debug_log enabled, Bubble Tea's log
// output lands in the data directory instead of corrupting the screen.
func Run(deps Deps) error {
	if deps.Config != nil && deps.Config.UI.DebugLog {
		f, err := tea.LogToFile(filepath.Join(deps.Config.Storage.DataDir, "debug.log"), "leximind")
		if err == nil {
			defer f.Close()
		}
	}
	program := tea.NewProgram(NewApp(deps), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
