package ui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"pocket_library/lang"
	"pocket_library/library"
)

// ---- Dialog sizing helpers ----
const (
	confirmMaxWidth = 60
	confirmMinWidth = 24
)

func dialogWidths(width int) (dlgW, contentW int) {
	avail := width - 6 // side margin
	if avail < confirmMinWidth {
		avail = confirmMinWidth
	}
	if avail > confirmMaxWidth {
		avail = confirmMaxWidth
	}
	dlgW = avail
	// Padding(1,2) + border
	contentW = dlgW - 6
	if contentW < 10 {
		contentW = 10
	}
	return
}

func overlay(width, height int, box string) string {
	return gloss.Place(width, height, gloss.Center, gloss.Center, box)
}

// ---------------- Edit dialog ----------------
const (
	fieldTitle = iota
	fieldAuthor
	fieldYear
	fieldCount
)

type editSavedMsg struct{ Favourite library.Favourite }
type editCancelMsg struct{}

// EditDialog edits the title, author and year of one favourite.
type EditDialog struct {
	original library.Favourite
	inputs   []textinput.Model
	focus    int
	err      string
}

func NewEditDialog(f library.Favourite) EditDialog {
	values := []string{f.Name, f.Author, ""}
	if f.Year != 0 {
		values[fieldYear] = strconv.Itoa(f.Year)
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.TextStyle = InputTextStyle
		ti.PlaceholderStyle = InputPlaceholderStyle
		ti.Cursor.Style = PromptCursorStyle
		ti.CharLimit = 200
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[fieldYear].CharLimit = 6

	d := EditDialog{original: f, inputs: inputs}
	d.setFocus(fieldTitle)
	return d
}

func (d *EditDialog) setFocus(i int) {
	d.focus = (i + fieldCount) % fieldCount
	for j := range d.inputs {
		if j == d.focus {
			d.inputs[j].Focus()
			d.inputs[j].CursorEnd()
		} else {
			d.inputs[j].Blur()
		}
	}
}

func (d EditDialog) Update(msg tea.Msg) (EditDialog, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			return d, func() tea.Msg { return editCancelMsg{} }
		case "tab", "down":
			d.setFocus(d.focus + 1)
			return d, nil
		case "shift+tab", "up":
			d.setFocus(d.focus - 1)
			return d, nil
		case "enter":
			edited, err := library.ApplyEdit(d.original,
				d.inputs[fieldTitle].Value(),
				d.inputs[fieldAuthor].Value(),
				d.inputs[fieldYear].Value())
			if errors.Is(err, library.ErrEmptyTitle) {
				d.err = lang.Active().Edit.EmptyTitle
				d.setFocus(fieldTitle)
				return d, nil
			}
			return d, func() tea.Msg { return editSavedMsg{Favourite: edited} }
		}
	}

	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	d.err = ""
	return d, cmd
}

func (d EditDialog) View(width, height int) string {
	texts := lang.Active()
	dlgW, contentW := dialogWidths(width)
	labels := []string{texts.Edit.TitleLabel, texts.Edit.AuthorLabel, texts.Edit.YearLabel}

	rows := []string{DialogTitleStyle.Render(texts.Edit.Title), ""}
	for i, in := range d.inputs {
		label := FieldLabelStyle.Render(labels[i])
		if i == d.focus {
			label = FieldLabelActiveStyle.Render(labels[i])
		}
		in.Width = contentW - 10
		rows = append(rows, label+" "+in.View())
	}
	if d.err != "" {
		rows = append(rows, "", gloss.NewStyle().Foreground(colorDanger).Render(d.err))
	}
	rows = append(rows, "", NormalDescStyle.PaddingLeft(0).Render(wordwrap.String(texts.Edit.Hint, contentW)))

	return overlay(width, height, EditBoxStyle.Width(dlgW).Render(strings.Join(rows, "\n")))
}

// ---------------- Confirm dialog ----------------
type confirmResultMsg struct {
	Confirmed bool
	Favourite library.Favourite
}

// ConfirmDialog asks before removing a favourite.
type ConfirmDialog struct {
	target library.Favourite
	list   list.Model
}

func NewConfirmDialog(f library.Favourite, width int) ConfirmDialog {
	l := list.New(nil, &ConfirmDelegate{}, 0, 0)
	listSettings(&l)
	l.SetShowPagination(false)

	d := ConfirmDialog{target: f, list: l}
	d.applyLanguage(width)
	return d
}

func (d *ConfirmDialog) applyLanguage(width int) {
	texts := lang.Active()
	_, contentW := dialogWidths(width)
	idx := d.list.Index()
	d.list.SetItems([]list.Item{
		confirmChoice{Label: texts.Confirm.RemoveConfirm, Confirm: true},
		confirmChoice{Label: texts.Confirm.Cancel},
	})
	d.list.SetSize(contentW, 2)
	d.list.Select(idx)
}

func (d ConfirmDialog) Update(msg tea.Msg) (ConfirmDialog, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc", "n":
			return d, d.result(false)
		case "y":
			return d, d.result(true)
		case "enter":
			choice, _ := d.list.SelectedItem().(confirmChoice)
			return d, d.result(choice.Confirm)
		}
	}
	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return d, cmd
}

func (d ConfirmDialog) result(ok bool) tea.Cmd {
	target := d.target
	return func() tea.Msg { return confirmResultMsg{Confirmed: ok, Favourite: target} }
}

func (d ConfirmDialog) View(width, height int) string {
	dlgW, contentW := dialogWidths(width)
	name := d.target.Name
	if name == "" {
		name = lang.Active().Search.UnknownTitle
	}
	prompt := wordwrap.String(lang.RemovePrompt(name), contentW)
	body := strings.Join([]string{
		ConfirmPromptStyle.Render(prompt),
		ConfirmListStyle.Width(contentW).Render(d.list.View()),
	}, "\n\n")
	return overlay(width, height, ConfirmBoxStyle.Width(dlgW).Render(body))
}
