package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"pocket_library/lang"
	"pocket_library/library"
)

type closeDetailsMsg struct{}

// DetailsModel pages through a work's description.
type DetailsModel struct {
	Result  library.SearchResult
	Loading bool
	Err     error
	text    string
	lines   []string
	offset  int
	Width   int
	Height  int
}

func NewDetailsModel(sr library.SearchResult, width, height int) DetailsModel {
	return DetailsModel{Result: sr, Loading: true, Width: width, Height: height}
}

func (m DetailsModel) Init() tea.Cmd { return nil }

// SetText stores the description and rewraps it for the current width.
func (m *DetailsModel) SetText(text string, err error) {
	m.Loading = false
	m.Err = err
	m.text = text
	m.offset = 0
	m.rewrap()
}

func (m *DetailsModel) rewrap() {
	w := m.Width - 4
	if w < 10 {
		w = 10
	}
	if strings.TrimSpace(m.text) == "" {
		m.lines = nil
		return
	}
	m.lines = strings.Split(wordwrap.String(m.text, w), "\n")
}

// pageHeight is the number of description rows that fit under the header.
func (m DetailsModel) pageHeight() int {
	h := m.Height - 8
	if h < 1 {
		h = 1
	}
	return h
}

func (m DetailsModel) maxOffset() int {
	if n := len(m.lines) - m.pageHeight(); n > 0 {
		return n
	}
	return 0
}

func (m DetailsModel) Update(msg tea.Msg) (DetailsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "backspace":
			return m, func() tea.Msg { return closeDetailsMsg{} }
		case "down", "j":
			m.offset++
		case "up", "k":
			m.offset--
		case "pgdown", "right", "l", " ":
			m.offset += m.pageHeight()
		case "pgup", "left", "h":
			m.offset -= m.pageHeight()
		case "g", "home":
			m.offset = 0
		case "G", "end":
			m.offset = m.maxOffset()
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.rewrap()
	}

	if m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return m, nil
}

func (m DetailsModel) View() string {
	texts := lang.Active()
	header := DetailsTitleStyle.Render(runewidth.Truncate(m.Result.Title(), m.Width-4, "…")) + "\n" +
		NormalDescStyle.Render(runewidth.Truncate(m.Result.Description(), m.Width-6, "…"))

	var body string
	switch {
	case m.Loading:
		body = DetailsLoadingStyle.Width(m.Width).Render(texts.Details.Loading)
	case m.Err != nil:
		body = StatusErrorStyle.Width(m.Width).Render(lang.DetailsFailed(m.Err))
	case len(m.lines) == 0:
		body = StatusMutedStyle.Width(m.Width).Render(texts.Details.NoDescription)
	default:
		end := m.offset + m.pageHeight()
		if end > len(m.lines) {
			end = len(m.lines)
		}
		body = DetailsStyle(m.Width).Render(strings.Join(m.lines[m.offset:end], "\n"))
	}
	return header + "\n" + body + "\n" + HelpStyle.Width(m.Width).Render(texts.Details.Help)
}
