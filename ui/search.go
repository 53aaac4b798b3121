package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"pocket_library/lang"
	"pocket_library/library"
)

// openDetailsMsg asks the app to show a work's description.
type openDetailsMsg struct {
	Result library.SearchResult
}

// ---------------- SearchModel ----------------
type SearchModel struct {
	controller *library.SearchController
	favourites *library.FavouritesController

	input   textinput.Model
	list    list.Model
	spinner spinner.Model
	state   library.SearchState

	status    string
	statusErr bool
	width     int
	height    int
}

func NewSearchModel(c *library.SearchController, favourites *library.FavouritesController, initialQuery string) SearchModel {
	ti := textinput.New()
	ti.PromptStyle = gloss.NewStyle().Foreground(colorAccent).PaddingLeft(1).Bold(true)
	ti.PlaceholderStyle = InputPlaceholderStyle
	ti.TextStyle = InputTextStyle
	ti.Cursor.Style = gloss.NewStyle().Foreground(colorAccent)
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.CharLimit = 120
	ti.Width = 40
	ti.Focus()

	m := SearchModel{
		controller: c,
		favourites: favourites,
		input:      ti,
		list:       newBookList(nil),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle)),
	}
	m.applyLanguage()

	if strings.TrimSpace(initialQuery) != "" {
		m.input.SetValue(initialQuery)
		m.input.CursorEnd()
		c.SetQuery(initialQuery)
	}
	m.applyState()
	return m
}

func (m *SearchModel) applyLanguage() {
	texts := lang.Active()
	m.input.Prompt = texts.Search.Prompt
	m.input.Placeholder = texts.Search.Placeholder
}

func (m *SearchModel) resize(width, height int) {
	m.width = width
	m.height = height
	w, h := listSize(width, height, 12)
	m.list.SetSize(w, h)
	if w > 10 {
		m.input.Width = w - 10
	}
}

// applyState pulls the latest snapshot from the controller.
func (m *SearchModel) applyState() tea.Cmd {
	wasLoading := m.state.Loading
	prev := m.state.Results
	m.state = m.controller.State()

	if !sameResults(prev, m.state.Results) {
		items := make([]list.Item, len(m.state.Results))
		for i, r := range m.state.Results {
			items[i] = r
		}
		m.list.SetItems(items)
		m.list.Select(0)
	}

	if m.state.Loading && !wasLoading {
		return m.spinner.Tick
	}
	return nil
}

func sameResults(a, b []library.SearchResult) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

func (m SearchModel) selected() (library.SearchResult, bool) {
	sr, ok := m.list.SelectedItem().(library.SearchResult)
	return sr, ok
}

func (m *SearchModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch tm := msg.(type) {
	case searchChangedMsg:
		return m, m.applyState()

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tm)
		return m, cmd

	case favouriteSavedMsg:
		if tm.Err != nil {
			m.setStatus(lang.SaveFailed(tm.Err), true)
		} else {
			title := tm.Title
			if title == "" {
				title = lang.Active().Search.UnknownTitle
			}
			m.setStatus(lang.BookSaved(title), false)
		}
		return m, nil

	case tea.KeyMsg:
		switch tm.String() {
		case "up", "down", "ctrl+p", "ctrl+n", "pgup", "pgdown":
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(translateListKey(tm))
			return m, cmd
		case "enter":
			if sr, ok := m.selected(); ok {
				m.setStatus("", false)
				return m, saveFavouriteCmd(m.favourites, sr)
			}
			return m, nil
		case "ctrl+r":
			m.setStatus("", false)
			m.controller.Refresh()
			return m, nil
		case "ctrl+d":
			if sr, ok := m.selected(); ok {
				return m, func() tea.Msg { return openDetailsMsg{Result: sr} }
			}
			return m, nil
		case "esc":
			m.input.SetValue("")
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.state.Query {
		m.status = ""
		m.controller.SetQuery(m.input.Value())
		cmd = tea.Batch(cmd, m.applyState())
	}
	return m, cmd
}

// translateListKey maps readline-style keys onto the list's arrow bindings
// so letters stay free for the query.
func translateListKey(k tea.KeyMsg) tea.KeyMsg {
	switch k.String() {
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return k
}

func (m SearchModel) statusView() string {
	texts := lang.Active()
	switch {
	case m.state.Loading:
		return StatusStyle.Width(m.width).Render(m.spinner.View() + " " + texts.Search.Searching)
	case m.state.Err != "":
		return StatusErrorStyle.Width(m.width).Render(m.state.Err)
	case strings.TrimSpace(m.state.Query) == "", len(m.state.Results) == 0 && !m.state.Fetched:
		return StatusMutedStyle.Width(m.width).Render(texts.Search.InputHint)
	case len(m.state.Results) == 0:
		return StatusMutedStyle.Width(m.width).Render(texts.Search.NoResults)
	}
	return StatusStyle.Width(m.width).Render(lang.SearchFound(len(m.state.Results)))
}

func (m SearchModel) View() string {
	inputView := gloss.Place(m.width, 3, gloss.Center, gloss.Center, PromptBoxStyle.Render(m.input.View()))

	parts := []string{inputView, m.statusView()}
	if m.status != "" {
		style := StatusSuccessStyle
		if m.statusErr {
			style = StatusErrorStyle
		}
		parts = append(parts, style.Width(m.width).Render(m.status))
	}
	if len(m.list.Items()) > 0 {
		listBlock := ListStyle.Width(containerWidth(m.width)).Render(m.list.View())
		parts = append(parts, List.Width(m.width).Render(listBlock))
	}
	parts = append(parts, HelpStyle.Width(m.width).Render(lang.Active().Search.Help))
	return strings.Join(parts, "\n")
}
