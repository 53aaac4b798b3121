package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"pocket_library/lang"
	"pocket_library/library"
	"pocket_library/utils"
)

type AppState int

const (
	StateBrowse AppState = iota
	StateDetails
	StatePicker
)

const (
	tabSearch = iota
	tabLibrary
	tabCount
)

// Deps is everything the TUI needs from the outside.
type Deps struct {
	Search       *library.SearchController
	SearchEvents <-chan struct{}
	Favourites   *library.FavouritesController
	Details      DescriptionFetcher
	PicturesDir  string
	PickImage    ImagePicker
	Saved        utils.SavedState
}

type AppModel struct {
	state     AppState
	activeTab int
	deps      Deps

	searchUI  SearchModel
	libraryUI LibraryModel
	detailsUI DetailsModel
	pickerUI  PickerModel

	notice    string
	noticeErr bool
	width     int
	height    int
}

func NewAppModel(d Deps) AppModel {
	if d.PickImage == nil {
		d.PickImage = utils.SelectImageDialog
	}
	return AppModel{
		state:     StateBrowse,
		activeTab: tabSearch,
		deps:      d,
		searchUI:  NewSearchModel(d.Search, d.Favourites, d.Saved.SearchQuery),
		libraryUI: NewLibraryModel(d.Favourites, d.PickImage, d.PicturesDir, d.Saved),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		waitForSearch(m.deps.SearchEvents),
		loadLibraryCmd(m.deps.Favourites),
		textinput.Blink,
	)
}

// SavedState is what should be restored on the next start.
func (m AppModel) SavedState() utils.SavedState {
	index, offset := m.libraryUI.SavedPosition()
	return utils.SavedState{
		SearchQuery:         m.deps.Search.State().Query,
		LibraryScrollIndex:  index,
		LibraryScrollOffset: offset,
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch tm := msg.(type) {
	case tea.KeyMsg:
		switch tm.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			return m, m.changeLanguage()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = tm.Width, tm.Height
		m.searchUI.resize(tm.Width, tm.Height)
		m.libraryUI.resize(tm.Width, tm.Height)
		var cmd tea.Cmd
		switch m.state {
		case StateDetails:
			m.detailsUI, cmd = m.detailsUI.Update(tm)
		case StatePicker:
			m.pickerUI, cmd = m.pickerUI.Update(tm)
		}
		return m, cmd

	case searchChangedMsg:
		var cmd tea.Cmd
		m.searchUI, cmd = m.searchUI.Update(tm)
		return m, tea.Batch(cmd, waitForSearch(m.deps.SearchEvents))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.searchUI, cmd = m.searchUI.Update(tm)
		return m, cmd

	case favouriteSavedMsg:
		var cmd, libCmd tea.Cmd
		m.searchUI, cmd = m.searchUI.Update(tm)
		if tm.Err == nil {
			m.libraryUI, libCmd = m.libraryUI.Update(libraryChangedMsg{})
		}
		return m, tea.Batch(cmd, libCmd)

	case libraryChangedMsg, shareDoneMsg, imagePickedMsg:
		var cmd tea.Cmd
		m.libraryUI, cmd = m.libraryUI.Update(msg)
		return m, cmd

	case configSavedMsg:
		if tm.Err != nil {
			m.setNotice(lang.SaveConfigFailed(tm.Err), true)
		}
		return m, nil

	case openDetailsMsg:
		m.detailsUI = NewDetailsModel(tm.Result, m.width, m.height)
		m.state = StateDetails
		return m, fetchDetailsCmd(m.deps.Details, tm.Result.Key)

	case detailsMsg:
		if m.state == StateDetails && m.detailsUI.Result.Key == tm.Key {
			if tm.Err != nil {
				utils.Warn("description fetch failed", "key", tm.Key, "err", tm.Err)
			}
			m.detailsUI.SetText(tm.Text, tm.Err)
		}
		return m, nil

	case closeDetailsMsg:
		m.state = StateBrowse
		return m, nil

	case openPickerMsg:
		entries := m.deps.Favourites.State().Entries
		m.pickerUI = NewPickerModel(entries, tm.Purpose, tm.PhotoPath, m.width, m.height)
		m.state = StatePicker
		return m, nil

	case pickerSelectMsg:
		m.state = StateBrowse
		m.activeTab = tabLibrary
		if tm.Purpose == pickForPhoto {
			return m, m.libraryUI.LinkPhoto(tm.PhotoPath, tm.Favourite)
		}
		return m, shareCmd(tm.Favourite)

	case pickerCancelMsg:
		m.state = StateBrowse
		return m, nil
	}

	switch m.state {
	case StateDetails:
		var cmd tea.Cmd
		m.detailsUI, cmd = m.detailsUI.Update(msg)
		return m, cmd
	case StatePicker:
		var cmd tea.Cmd
		m.pickerUI, cmd = m.pickerUI.Update(msg)
		return m, cmd
	}
	return m.handleBrowse(msg)
}

func (m AppModel) handleBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		capturing := m.activeTab == tabLibrary && m.libraryUI.Capturing()
		switch km.String() {
		case "tab":
			if !capturing {
				m.switchTab(1)
				return m, nil
			}
		case "shift+tab":
			if !capturing {
				m.switchTab(-1)
				return m, nil
			}
		case "q":
			if m.activeTab == tabLibrary && !capturing {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	if m.activeTab == tabSearch {
		m.searchUI, cmd = m.searchUI.Update(msg)
	} else {
		m.libraryUI, cmd = m.libraryUI.Update(msg)
	}
	return m, cmd
}

func (m *AppModel) switchTab(delta int) {
	m.activeTab = (m.activeTab + delta + tabCount) % tabCount
	m.notice = ""
	if m.activeTab == tabSearch {
		m.searchUI.input.Focus()
	} else {
		m.searchUI.input.Blur()
	}
}

func (m *AppModel) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

// changeLanguage cycles the UI locale and persists the choice.
func (m *AppModel) changeLanguage() tea.Cmd {
	next := lang.NextLocale()
	if !lang.SetLocale(next) {
		return nil
	}
	utils.AppConfig.UI.Language = string(next)
	utils.Info("language changed", "locale", next)

	m.searchUI.applyLanguage()
	m.libraryUI.applyLanguage()
	if m.state == StatePicker {
		m.pickerUI.ApplyLanguage()
	}
	m.setNotice(lang.LanguageChanged(next), false)
	return saveConfigCmd()
}

func (m AppModel) tabsView() string {
	texts := lang.Active()
	names := []string{texts.Tabs.Search, texts.Tabs.Library}

	var renderedTabs []string
	for i, name := range names {
		if i == m.activeTab {
			renderedTabs = append(renderedTabs, ActiveTabStyle.Render(name))
		} else {
			renderedTabs = append(renderedTabs, InactiveTabStyle.Render(name))
		}
	}
	tabsRow := TabsRow.Width(m.width).Render(gloss.JoinHorizontal(gloss.Top, renderedTabs...))

	maxUnderline := texts.Layout.UnderlineLength
	if maxUnderline <= 0 {
		maxUnderline = 48
	}
	lineWidth := m.width
	if lineWidth > maxUnderline {
		lineWidth = maxUnderline
	}
	underlineRow := UnderlineRow.Width(m.width).Render(strings.Repeat("─", lineWidth))
	return tabsRow + "\n" + underlineRow
}

func (m AppModel) View() string {
	switch m.state {
	case StateDetails:
		return m.detailsUI.View()
	case StatePicker:
		return m.pickerUI.View()
	case StateBrowse:
	default:
		return lang.Active().Common.UnknownState
	}

	out := m.tabsView()
	if m.notice != "" {
		style := StatusMutedStyle
		if m.noticeErr {
			style = StatusErrorStyle
		}
		out += "\n" + style.Width(m.width).Render(m.notice)
	}
	if m.activeTab == tabSearch {
		return out + "\n" + m.searchUI.View()
	}
	return out + "\n" + m.libraryUI.View()
}

// Run starts the TUI and returns the state to save once it exits.
func Run(d Deps) (utils.SavedState, error) {
	app := NewAppModel(d)

	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return app.SavedState(), fmt.Errorf("run program: %w", err)
	}
	if fm, ok := final.(AppModel); ok {
		return fm.SavedState(), nil
	}
	return app.SavedState(), nil
}
