package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"pocket_library/lang"
	"pocket_library/library"
)

type pickerPurpose int

const (
	pickForShare pickerPurpose = iota
	pickForPhoto
)

// PickerModel lists favourites so one can be chosen for sharing or for
// linking a photo.
type PickerModel struct {
	list      list.Model
	purpose   pickerPurpose
	photoPath string // pickForPhoto only
	width     int
	height    int
}

// Messages used to communicate selection/cancel to the parent AppModel
type pickerSelectMsg struct {
	Purpose   pickerPurpose
	Favourite library.Favourite
	PhotoPath string
}
type pickerCancelMsg struct{}

func NewPickerModel(entries []library.Favourite, purpose pickerPurpose, photoPath string, width, height int) PickerModel {
	items := make([]list.Item, len(entries))
	for i, f := range entries {
		items[i] = f
	}

	l := list.New(items, &BookDelegate{}, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.Styles.StatusBar = gloss.NewStyle().
		Foreground(colorMuted).
		PaddingBottom(1).
		PaddingLeft(2)
	l.SetShowTitle(true)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = DialogTitleStyle.Margin(0).Padding(0)
	l.FilterInput.PromptStyle = PromptStyle.PaddingTop(1)
	l.FilterInput.TextStyle = PromptTextStyle
	l.FilterInput.Cursor.Style = PromptCursorStyle
	l.Styles.FilterPrompt = l.Styles.FilterPrompt.Padding(0)
	l.Styles.FilterCursor = l.Styles.FilterCursor.Padding(0)

	m := PickerModel{list: l, purpose: purpose, photoPath: photoPath}
	m.ApplyLanguage()
	m.resize(width, height)
	if len(items) > 0 {
		m.list.Select(0)
	}
	return m
}

func (m *PickerModel) ApplyLanguage() {
	texts := lang.Active()
	if m.purpose == pickForPhoto {
		m.list.Title = texts.Picker.PhotoTitle
	} else {
		m.list.Title = texts.Picker.ShareTitle
	}
	m.list.SetStatusBarItemName(texts.Picker.StatusSingular, texts.Picker.StatusPlural)
	m.list.FilterInput.Prompt = texts.Picker.FilterPrompt
}

func (m *PickerModel) resize(width, height int) {
	m.width, m.height = width, height
	w, h := listSize(width, height, 4)
	m.list.SetSize(w, h)
}

func (m PickerModel) Init() tea.Cmd { return nil }

func (m PickerModel) Update(msg tea.Msg) (PickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.list.FilterState() == list.Filtering {
				break
			}
			if f, ok := m.list.SelectedItem().(library.Favourite); ok {
				sel := pickerSelectMsg{Purpose: m.purpose, Favourite: f, PhotoPath: m.photoPath}
				return m, func() tea.Msg { return sel }
			}
			return m, nil
		case "esc":
			if m.list.FilterState() == list.Filtering || m.list.IsFiltered() {
				m.list.ResetFilter()
				return m, nil
			}
			return m, func() tea.Msg { return pickerCancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) View() string {
	if len(m.list.Items()) == 0 {
		return gloss.NewStyle().PaddingTop(1).PaddingLeft(2).Render(
			DialogTitleStyle.Render(m.list.Title) + "\n" +
				StatusMutedStyle.Render(lang.Active().Picker.Empty))
	}
	return gloss.NewStyle().
		PaddingTop(1).
		PaddingLeft(2).
		Render(m.list.View())
}
