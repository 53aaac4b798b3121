package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// ---------------- BookDelegate ----------------

// BookDelegate renders search results and favourites as a title line and a
// truncated author/year line.
type BookDelegate struct {
	list.DefaultDelegate
}

func (d *BookDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(list.DefaultItem)
	if !ok {
		return
	}
	width := m.Width() - 4
	if width < 1 {
		width = 1
	}
	title := runewidth.Truncate(it.Title(), width, "…")
	desc := runewidth.Truncate(it.Description(), m.Width()-10, "…")
	if index == m.Index() {
		title = SelectedTitleStyle.Render(title)
		desc = SelectedDescStyle.Render(desc)
	} else {
		title = NormalTitleStyle.Render(title)
		desc = NormalDescStyle.Render(desc)
	}
	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func (d *BookDelegate) Height() int  { return 2 }
func (d *BookDelegate) Spacing() int { return 1 }
func (d *BookDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// ---------------- Confirm choices ----------------
type confirmChoice struct {
	Label   string
	Confirm bool
}

func (c confirmChoice) Title() string       { return c.Label }
func (c confirmChoice) Description() string { return "" }
func (c confirmChoice) FilterValue() string { return c.Label }

// ConfirmDelegate is the compact one-line delegate for Yes/No lists.
type ConfirmDelegate struct{ list.DefaultDelegate }

func (d *ConfirmDelegate) Height() int  { return 1 }
func (d *ConfirmDelegate) Spacing() int { return 0 }
func (d *ConfirmDelegate) Render(w io.Writer, m list.Model, idx int, it list.Item) {
	choice, ok := it.(confirmChoice)
	if !ok {
		return
	}
	if idx == m.Index() {
		fmt.Fprint(w, SelectedTitleStyle.Render(choice.Label))
	} else {
		fmt.Fprint(w, NormalTitleStyle.Render(choice.Label))
	}
}

// ---------------- List styling ----------------
func newBookList(items []list.Item) list.Model {
	l := list.New(items, &BookDelegate{}, 0, 0)
	listSettings(&l)
	return l
}

func listSettings(l *list.Model) {
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.FilterInput.PromptStyle = PromptStyle
	l.FilterInput.TextStyle = PromptTextStyle
	l.FilterInput.Cursor.Style = PromptCursorStyle
}

// listSize is the list area for a terminal of width x height, leaving room
// for tabs, an input box and the status rows above it.
func listSize(width, height, reserved int) (int, int) {
	w := width - 8
	if w > ListMaxWidth {
		w = ListMaxWidth
	}
	if w < 0 {
		w = ListMaxWidth
	}
	h := height - reserved
	if h < 3 {
		h = 3
	}
	return w, h
}

func containerWidth(width int) int {
	w := ListMaxWidth
	if width < w {
		w = width - 8
	}
	if w < 0 {
		w = ListMaxWidth
	}
	return w
}
