// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package documents implements the library page: the paged document table,
// the upload form with its step rail, and the drop-directory queue.
package documents

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/storage"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/components"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
	"github.com/luke-chia/leximind-knowledge-hub/internal/upload"
	"github.com/luke-chia/leximind-knowledge-hub/internal/util"
)

const pageSize = 10

// mode selects which surface the page shows.
type mode int

const (
	modeList mode = iota
	modeForm
	modeUploading
	modeSearch
)

// form rows: three inputs followed by the four facet pickers.
const (
	rowPath = iota
	rowAlias
	rowDescription
	rowAreas
	rowCategories
	rowSources
	rowTags
	rowCount
)

var facetRowTitles = map[int]string{
	rowAreas:      "Áreas",
	rowCategories: "Categorías",
	rowSources:    "Fuentes",
	rowTags:       "Etiquetas",
}

// Model is the Bubble Tea model for the documents page.
type Model struct {
	theme    *styles.Theme
	client   *backend.Client
	pipeline *upload.Pipeline
	toasts   *components.ToastManager
	cache    *storage.DocumentCache

	width  int
	height int

	mode mode

	// Listing.
	table   table.Model
	page    *backend.DocumentPage
	pageNum int
	loading bool

	// Upload form.
	inputs   [3]textinput.Model
	formRow  int
	optIdx   [rowCount]int
	selected map[int][]int64
	options  *backend.FacetOptions

	// Upload in flight.
	rail    components.StepRail
	events  chan tea.Msg
	warning string

	// Drop-directory queue.
	watcher *upload.Watcher
	queue   []string

	// Local cache search.
	searchInput textinput.Model
	offline     bool
}

// New builds the documents page. watcher may be nil when no drop directory
// is configured; cache may be nil when local persistence is disabled.
func New(theme *styles.Theme, client *backend.Client, pipeline *upload.Pipeline, watcher *upload.Watcher, cache *storage.DocumentCache, toasts *components.ToastManager) Model {
	path := textinput.New()
	path.Placeholder = "/ruta/al/documento.pdf"
	path.CharLimit = 512

	alias := textinput.New()
	alias.Placeholder = "Alias del documento"
	alias.CharLimit = 120

	desc := textinput.New()
	desc.Placeholder = "Descripción (opcional)"
	desc.CharLimit = 500

	columns := []table.Column{
		{Title: "Alias", Width: 24},
		{Title: "Archivo", Width: 28},
		{Title: "Tamaño", Width: 10},
		{Title: "Creado", Width: 16},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithHeight(pageSize+1),
		table.WithFocused(true),
	)

	search := textinput.New()
	search.Placeholder = "Buscar en la biblioteca local..."
	search.CharLimit = 120

	return Model{
		theme:       theme,
		client:      client,
		pipeline:    pipeline,
		toasts:      toasts,
		table:       tbl,
		inputs:      [3]textinput.Model{path, alias, desc},
		selected:    make(map[int][]int64),
		watcher:     watcher,
		cache:       cache,
		searchInput: search,
	}
}

// Init loads the first page and arms the drop-directory watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadPageCmd(m.client, 0, pageSize), loadFacetsCmd(m.client)}
	if m.watcher != nil {
		cmds = append(cmds, watchCmd(m.watcher))
	}
	return tea.Batch(cmds...)
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
			if m.cache != nil {
				m.pageNum = msg.PageNum
				m.toasts.Add(components.ToastWarning, "Sin conexión, mostrando la copia local.")
				return m, cachePageCmd(m.cache, msg.PageNum, pageSize)
			}
			m.toasts.AddError("No se pudieron cargar los documentos.")
			return m, nil
		}
		m.offline = false
		m.page = msg.Page
		m.pageNum = msg.Page.Page
		m.table.SetRows(documentRows(msg.Page.Documents))
		if m.cache != nil {
			return m, cacheWriteCmd(m.cache, msg.Page.Documents)
		}
		return m, nil

	case CachePageMsg:
		if msg.Err != nil {
			m.toasts.AddError("No se pudieron cargar los documentos.")
			return m, nil
		}
		m.offline = true
		m.page = &backend.DocumentPage{Documents: msg.Documents, Total: msg.Total, Page: m.pageNum, PageSize: pageSize}
		m.table.SetRows(documentRows(msg.Documents))
		return m, nil

	case SearchResultsMsg:
		if msg.Err != nil {
			m.toasts.AddError("La búsqueda local falló.")
			return m, nil
		}
		m.table.SetRows(documentRows(msg.Documents))
		return m, nil

	case FacetsLoadedMsg:
		if msg.Options != nil {
			m.options = msg.Options
		}
		return m, nil

	case UploadProgressMsg:
		m.rail.Current = msg.Step.Step
		return m, listenCmd(m.events)

	case UploadDoneMsg:
		return m.finishUpload(msg)

	case WatchedFileMsg:
		m.queue = append(m.queue, msg.Path)
		m.toasts.AddStatus("Documento detectado: " + filepath.Base(msg.Path))
		return m, watchCmd(m.watcher)

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeUploading:
			// Pipeline runs to completion, keys are ignored.
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "n", "right":
		if m.page != nil && (m.pageNum+1)*pageSize < m.page.Total {
			m.loading = true
			return m, loadPageCmd(m.client, m.pageNum+1, pageSize)
		}
		return m, nil
	case "p", "left":
		if m.pageNum > 0 {
			m.loading = true
			return m, loadPageCmd(m.client, m.pageNum-1, pageSize)
		}
		return m, nil
	case "r":
		m.loading = true
		return m, loadPageCmd(m.client, m.pageNum, pageSize)
	case "u":
		m.openForm("")
		return m, textinput.Blink
	case "/":
		if m.cache != nil {
			m.mode = modeSearch
			m.searchInput.SetValue("")
			m.searchInput.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.loading = true
		return m, loadPageCmd(m.client, m.pageNum, pageSize)
	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.mode = modeList
		return m, searchCacheCmd(m.cache, query)
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// openForm switches to the upload form, prefilled from the drop queue when
// a path is pending.
func (m *Model) openForm(path string) {
	if path == "" && len(m.queue) > 0 {
		path = m.queue[0]
		m.queue = m.queue[1:]
	}
	m.mode = modeForm
	m.formRow = rowPath
	m.warning = ""
	m.inputs[rowPath].SetValue(path)
	m.inputs[rowAlias].SetValue(aliasFromPath(path))
	m.inputs[rowDescription].SetValue("")
	m.selected = make(map[int][]int64)
	for i := range m.optIdx {
		m.optIdx[i] = 0
	}
	m.inputs[rowPath].Focus()
	if path != "" {
		m.focusRow(rowAlias)
	}
}

func (m *Model) focusRow(row int) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.formRow = row
	if row < len(m.inputs) {
		m.inputs[row].Focus()
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil

	case "tab", "down":
		m.focusRow((m.formRow + 1) % rowCount)
		return m, nil

	case "shift+tab", "up":
		m.focusRow((m.formRow + rowCount - 1) % rowCount)
		return m, nil

	case "enter":
		if m.formRow < rowTags {
			m.focusRow(m.formRow + 1)
			return m, nil
		}
		return m.submit()

	case "ctrl+g":
		return m.submit()
	}

	if m.formRow >= rowAreas {
		switch msg.String() {
		case "left":
			if m.optIdx[m.formRow] > 0 {
				m.optIdx[m.formRow]--
			}
			return m, nil
		case "right":
			if m.optIdx[m.formRow] < len(m.facetOptions(m.formRow))-1 {
				m.optIdx[m.formRow]++
			}
			return m, nil
		case " ":
			opts := m.facetOptions(m.formRow)
			if i := m.optIdx[m.formRow]; i < len(opts) {
				m.toggleFacet(m.formRow, opts[i].ID)
			}
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.formRow], cmd = m.inputs[m.formRow].Update(msg)
	return m, cmd
}

func (m Model) facetOptions(row int) []backend.FacetOption {
	if m.options == nil {
		return nil
	}
	switch row {
	case rowAreas:
		return m.options.Areas
	case rowCategories:
		return m.options.Categories
	case rowSources:
		return m.options.Sources
	case rowTags:
		return m.options.Tags
	}
	return nil
}

func (m *Model) toggleFacet(row int, id int64) {
	ids := m.selected[row]
	for i, v := range ids {
		if v == id {
			m.selected[row] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
	m.selected[row] = append(ids, id)
}

func (m Model) facetSelected(row int, id int64) bool {
	for _, v := range m.selected[row] {
		if v == id {
			return true
		}
	}
	return false
}

func (m Model) submit() (Model, tea.Cmd) {
	path := strings.TrimSpace(m.inputs[rowPath].Value())
	alias := strings.TrimSpace(m.inputs[rowAlias].Value())
	if path == "" {
		m.toasts.AddError("Indica la ruta del documento.")
		return m, nil
	}
	if alias == "" {
		alias = aliasFromPath(path)
	}

	req := upload.Request{
		FilePath:    path,
		Alias:       alias,
		Description: strings.TrimSpace(m.inputs[rowDescription].Value()),
		AreaIDs:     m.selected[rowAreas],
		CategoryIDs: m.selected[rowCategories],
		SourceIDs:   m.selected[rowSources],
		TagIDs:      m.selected[rowTags],
	}

	m.mode = modeUploading
	m.rail = components.StepRail{Current: 0}
	m.events = make(chan tea.Msg, len(upload.Steps)+1)
	return m, startUploadCmd(m.pipeline, req, m.options, m.events)
}

func (m Model) finishUpload(msg UploadDoneMsg) (Model, tea.Cmd) {
	m.mode = modeList
	m.events = nil
	if msg.Err != nil {
		m.toasts.AddError("No se pudo subir el documento: " + msg.Err.Error())
		return m, nil
	}
	m.toasts.AddSuccess("Documento subido correctamente.")
	if msg.Result != nil && msg.Result.Warning != "" {
		m.toasts.Add(components.ToastWarning, msg.Result.Warning)
	}
	m.loading = true
	return m, loadPageCmd(m.client, 0, pageSize)
}

// aliasFromPath derives a default alias from the file name.
func aliasFromPath(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func documentRows(docs []backend.Document) []table.Row {
	rows := make([]table.Row, 0, len(docs))
	for _, d := range docs {
		created := d.CreatedAt
		if len(created) >= 10 {
			created = created[:10]
		}
		rows = append(rows, table.Row{
			util.TruncateWidth(d.Alias, 24),
			util.TruncateWidth(d.OriginalName, 28),
			util.FormatBytes(d.FileSize),
			created,
		})
	}
	return rows
}
