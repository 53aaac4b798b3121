package ui

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"pocket_library/lang"
	"pocket_library/library"
	"pocket_library/utils"
)

type libraryMode int

const (
	modeBrowsing libraryMode = iota
	modeFiltering
	modeEditing
	modeConfirming
)

// openPickerMsg asks the app to choose a favourite for sharing or for
// linking an already picked photo.
type openPickerMsg struct {
	Purpose   pickerPurpose
	PhotoPath string
}

// ImagePicker opens a native file dialog starting in the given directory.
type ImagePicker func(start string) (string, error)

// ---------------- LibraryModel ----------------
type LibraryModel struct {
	controller  *library.FavouritesController
	pick        ImagePicker
	picturesDir string
	pickStart   string

	list    list.Model
	filter  textinput.Model
	mode    libraryMode
	edit    EditDialog
	confirm ConfirmDialog

	state         library.LibraryState
	loaded        bool
	restoreIndex  int
	restoreOffset int

	status    string
	statusErr bool
	width     int
	height    int
}

func NewLibraryModel(c *library.FavouritesController, pick ImagePicker, picturesDir string, saved utils.SavedState) LibraryModel {
	ti := textinput.New()
	ti.PromptStyle = gloss.NewStyle().Foreground(colorAccent).PaddingLeft(1).Bold(true)
	ti.PlaceholderStyle = InputPlaceholderStyle
	ti.TextStyle = InputTextStyle
	ti.Cursor.Style = gloss.NewStyle().Foreground(colorAccent)
	ti.Cursor.SetMode(cursor.CursorHide)
	ti.CharLimit = 80
	ti.Width = 30

	start, _ := os.UserHomeDir()

	m := LibraryModel{
		controller:   c,
		pick:         pick,
		picturesDir:  picturesDir,
		pickStart:    start,
		list:          newBookList(nil),
		filter:        ti,
		restoreIndex:  saved.LibraryScrollIndex,
		restoreOffset: saved.LibraryScrollOffset,
	}
	m.applyLanguage()
	return m
}

func (m *LibraryModel) applyLanguage() {
	texts := lang.Active()
	m.filter.Prompt = texts.Library.FilterPrompt
	m.filter.Placeholder = texts.Library.FilterPlaceholder
	if m.mode == modeConfirming {
		m.confirm.applyLanguage(m.width)
	}
}

func (m *LibraryModel) resize(width, height int) {
	m.width = width
	m.height = height
	w, h := listSize(width, height, 12)
	m.list.SetSize(w, h)
	if w > 10 {
		m.filter.Width = w - 10
	}
}

// Capturing reports whether keys belong to an open input or dialog.
func (m LibraryModel) Capturing() bool {
	return m.mode != modeBrowsing
}

func (m LibraryModel) selected() (library.Favourite, bool) {
	f, ok := m.list.SelectedItem().(library.Favourite)
	return f, ok
}

func (m *LibraryModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// applyState copies the controller's entries into the list, keeping the
// cursor where it was. The first load restores the saved position.
func (m *LibraryModel) applyState() {
	first := !m.loaded
	index := m.list.Index()
	if first {
		index = m.restoreIndex
	}
	m.state = m.controller.State()

	items := make([]list.Item, len(m.state.Entries))
	for i, f := range m.state.Entries {
		items[i] = f
	}
	m.list.SetItems(items)

	if index >= len(items) {
		index = len(items) - 1
	}
	if index < 0 {
		index = 0
	}
	m.list.Select(index)
	if first {
		m.restorePage()
	}
	m.loaded = true
	m.saveScroll()
}

// restorePage shows the saved page when the window now splits the list
// differently. The cursor moves to the item on that page nearest the saved
// index.
func (m *LibraryModel) restorePage() {
	p := m.list.Paginator
	if m.height <= 0 || m.restoreOffset < 0 || m.restoreOffset >= p.TotalPages || m.restoreOffset == p.Page {
		return
	}
	lo := m.restoreOffset * p.PerPage
	hi := lo + p.PerPage - 1
	if n := len(m.list.Items()) - 1; hi > n {
		hi = n
	}
	index := m.list.Index()
	if index < lo {
		index = lo
	}
	if index > hi {
		index = hi
	}
	m.list.Select(index)
}

// saveScroll records where the list is after a cursor move.
func (m *LibraryModel) saveScroll() {
	if !m.loaded {
		return
	}
	m.controller.SaveScrollPosition(m.list.Index(), m.list.Paginator.Page)
}

// SavedPosition is the list position to persist on exit.
func (m LibraryModel) SavedPosition() (index, offset int) {
	s := m.controller.State()
	return s.ScrollIndex, s.ScrollOffset
}

func (m LibraryModel) Update(msg tea.Msg) (LibraryModel, tea.Cmd) {
	switch tm := msg.(type) {
	case libraryChangedMsg:
		if tm.Err != nil {
			text := tm.Status
			if text == "" {
				text = lang.LibraryFailed(tm.Err)
			}
			utils.Warn("library operation failed", "err", tm.Err)
			m.setStatus(text, true)
			if !m.loaded {
				return m, nil
			}
		} else if tm.Status != "" {
			m.setStatus(tm.Status, false)
		}
		m.applyState()
		if tm.Err == nil && m.state.Listed != m.filter.Value() {
			// a write listed everything, or an older filter finished last
			return m, filterLibraryCmd(m.controller, m.filter.Value())
		}
		return m, nil

	case shareDoneMsg:
		if tm.Err != nil {
			m.setStatus(lang.ClipboardFailed(tm.Err), true)
		} else {
			m.setStatus(lang.ShareCopied(tm.Title), false)
		}
		return m, nil

	case imagePickedMsg:
		return m.handleImagePicked(tm)

	case editSavedMsg:
		m.mode = modeBrowsing
		return m, updateFavouriteCmd(m.controller, tm.Favourite)

	case editCancelMsg:
		m.mode = modeBrowsing
		return m, nil

	case confirmResultMsg:
		m.mode = modeBrowsing
		if tm.Confirmed {
			return m, removeFavouriteCmd(m.controller, tm.Favourite)
		}
		return m, nil
	}

	switch m.mode {
	case modeEditing:
		var cmd tea.Cmd
		m.edit, cmd = m.edit.Update(msg)
		return m, cmd
	case modeConfirming:
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	case modeFiltering:
		return m.updateFilter(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch km.String() {
	case "/":
		m.mode = modeFiltering
		m.filter.Cursor.SetMode(cursor.CursorStatic)
		m.filter.Focus()
		m.filter.CursorEnd()
		return m, nil
	case "esc":
		if m.state.Query != "" {
			m.filter.SetValue("")
			return m, filterLibraryCmd(m.controller, "")
		}
		return m, nil
	case "e", "enter":
		if f, ok := m.selected(); ok {
			m.edit = NewEditDialog(f)
			m.mode = modeEditing
		}
		return m, nil
	case "d", "delete":
		if f, ok := m.selected(); ok {
			m.confirm = NewConfirmDialog(f, m.width)
			m.mode = modeConfirming
		}
		return m, nil
	case "s":
		if f, ok := m.selected(); ok {
			return m, shareCmd(f)
		}
		return m, nil
	case "S":
		return m, func() tea.Msg { return openPickerMsg{Purpose: pickForShare} }
	case "p":
		if f, ok := m.selected(); ok {
			m.setStatus(lang.Active().Dialog.SelectImagePrompt, false)
			return m, selectImageCmd(m.pick, m.pickStart, &f)
		}
		return m, nil
	case "P":
		m.setStatus(lang.Active().Dialog.SelectImagePrompt, false)
		return m, selectImageCmd(m.pick, m.pickStart, nil)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.saveScroll()
	return m, cmd
}

func (m LibraryModel) updateFilter(msg tea.Msg) (LibraryModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter", "up", "down":
			m.leaveFilter()
			return m, nil
		case "esc":
			m.leaveFilter()
			m.filter.SetValue("")
			if m.state.Query != "" {
				return m, filterLibraryCmd(m.controller, "")
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != m.state.Query {
		m.state.Query = m.filter.Value()
		cmd = tea.Batch(cmd, filterLibraryCmd(m.controller, m.filter.Value()))
	}
	return m, cmd
}

func (m *LibraryModel) leaveFilter() {
	m.mode = modeBrowsing
	m.filter.Blur()
	m.filter.Cursor.SetMode(cursor.CursorHide)
}

func (m LibraryModel) handleImagePicked(msg imagePickedMsg) (LibraryModel, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, utils.ErrDialogCancelled):
		m.setStatus("", false)
		return m, nil
	case errors.Is(msg.Err, utils.ErrDialogUnavailable):
		m.setStatus(lang.Active().Dialog.Unavailable, true)
		return m, nil
	case msg.Err != nil:
		utils.Warn("image selection failed", "err", msg.Err)
		m.setStatus(lang.PhotoImportFailed(msg.Err), true)
		return m, nil
	}

	m.setStatus("", false)
	if msg.Target != nil {
		return m, linkPhotoCmd(m.controller, msg.Path, m.picturesDir, *msg.Target)
	}
	path := msg.Path
	return m, func() tea.Msg { return openPickerMsg{Purpose: pickForPhoto, PhotoPath: path} }
}

// LinkPhoto copies path in as f's cover.
func (m LibraryModel) LinkPhoto(path string, f library.Favourite) tea.Cmd {
	return linkPhotoCmd(m.controller, path, m.picturesDir, f)
}

func (m LibraryModel) statusView() string {
	texts := lang.Active()
	var rows []string

	switch {
	case len(m.state.Entries) == 0 && strings.TrimSpace(m.state.Query) != "":
		rows = append(rows, StatusMutedStyle.Width(m.width).Render(texts.Library.NoMatches))
	case len(m.state.Entries) == 0:
		rows = append(rows, StatusMutedStyle.Width(m.width).Render(texts.Library.Empty))
	default:
		rows = append(rows, StatusStyle.Width(m.width).Render(lang.LibraryCount(len(m.state.Entries))))
	}
	if m.status != "" {
		style := StatusSuccessStyle
		if m.statusErr {
			style = StatusErrorStyle
		}
		rows = append(rows, style.Width(m.width).Render(m.status))
	}
	return strings.Join(rows, "\n")
}

func (m LibraryModel) View() string {
	parts := []string{}
	if m.mode == modeFiltering || m.state.Query != "" {
		parts = append(parts, gloss.Place(m.width, 3, gloss.Center, gloss.Center, PromptBoxStyle.Render(m.filter.View())))
	}
	parts = append(parts, m.statusView())
	if len(m.list.Items()) > 0 {
		listBlock := ListStyle.Width(containerWidth(m.width)).Render(m.list.View())
		parts = append(parts, List.Width(m.width).Render(listBlock))
	}
	parts = append(parts, HelpStyle.Width(m.width).Render(lang.Active().Library.Help))
	base := strings.Join(parts, "\n")

	switch m.mode {
	case modeEditing:
		return base + "\n" + m.edit.View(m.width, m.height)
	case modeConfirming:
		return base + "\n" + m.confirm.View(m.width, m.height)
	}
	return base
}
