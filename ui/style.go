package ui

import (
	gloss "github.com/charmbracelet/lipgloss"
)

const (
	TabSpacing    = 4
	TabPaddingTop = 1
	TabPaddingBot = 0
	ListMaxWidth  = 60
)

// Catppuccin Mocha
const (
	colorAccent  = gloss.Color("#89b4fa")
	colorMuted   = gloss.Color("#585b70")
	colorText    = gloss.Color("#cdd6f4")
	colorSubtext = gloss.Color("#bac2de")
	colorDanger  = gloss.Color("#f38ba8")
	colorSuccess = gloss.Color("#a6e3a1")
	colorRule    = gloss.Color("#363a4f")
)

// Tab styles
var (
	ActiveTabStyle = gloss.NewStyle().
			Foreground(colorAccent).
			Padding(TabPaddingTop, TabSpacing, TabPaddingBot, TabSpacing).
			Align(gloss.Center)

	InactiveTabStyle = gloss.NewStyle().
				Foreground(colorMuted).
				Padding(TabPaddingTop, TabSpacing, TabPaddingBot, TabSpacing).
				Align(gloss.Center)

	TabsRow = gloss.NewStyle().
		Foreground(colorAccent).
		Align(gloss.Center).
		Bold(true)

	UnderlineRow = gloss.NewStyle().
			Foreground(colorRule).
			Align(gloss.Center)
)

// List container style
var (
	ListStyle = gloss.NewStyle().
			Align(gloss.Left).
			Padding(1, 4)

	List = gloss.NewStyle().
		Align(gloss.Center)
)

// Listed item styles
var (
	SelectedTitleStyle = gloss.NewStyle().
				Foreground(colorAccent).
				BorderLeft(true).
				BorderStyle(gloss.NormalBorder()).
				BorderForeground(colorAccent).
				PaddingLeft(1).
				Bold(true)

	SelectedDescStyle = gloss.NewStyle().
				Foreground(colorSubtext).
				BorderLeft(true).
				BorderStyle(gloss.NormalBorder()).
				BorderForeground(colorAccent).
				PaddingLeft(1)

	NormalTitleStyle = gloss.NewStyle().
				Foreground(colorMuted).
				PaddingLeft(2)

	NormalDescStyle = gloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(2)
)

// Inputs
var (
	PromptStyle = gloss.NewStyle().
			Foreground(colorAccent)

	PromptTextStyle = gloss.NewStyle().
			Foreground(colorText)

	PromptCursorStyle = gloss.NewStyle().
				Foreground(colorText)

	PromptBoxStyle = gloss.NewStyle().
			Border(gloss.RoundedBorder()).
			BorderForeground(colorAccent)

	InputTextStyle = gloss.NewStyle().
			Foreground(colorText)

	InputPlaceholderStyle = gloss.NewStyle().
				Foreground(colorMuted)

	SpinnerStyle = gloss.NewStyle().
			Foreground(colorAccent)
)

// Status rows
var (
	StatusStyle = gloss.NewStyle().
			Foreground(colorAccent).
			PaddingLeft(4).
			PaddingRight(4).
			PaddingTop(1).
			Align(gloss.Center)

	StatusMutedStyle = gloss.NewStyle().
				Foreground(colorMuted).
				PaddingLeft(4).
				PaddingTop(1).
				Align(gloss.Center)

	StatusErrorStyle = StatusStyle.
				Foreground(colorDanger)

	StatusSuccessStyle = StatusStyle.
				Foreground(colorSuccess)

	HelpStyle = gloss.NewStyle().
			Foreground(colorMuted).
			PaddingTop(1).
			Align(gloss.Center)
)

// Dialogs
var (
	ConfirmBoxStyle = gloss.NewStyle().
			Border(gloss.RoundedBorder()).
			BorderForeground(colorDanger).
			Padding(1, 2)

	ConfirmPromptStyle = gloss.NewStyle().
				Foreground(colorDanger).
				Bold(true)

	ConfirmListStyle = gloss.NewStyle().
				Foreground(colorText)

	EditBoxStyle = gloss.NewStyle().
			Border(gloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	DialogTitleStyle = gloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	FieldLabelStyle = gloss.NewStyle().
			Foreground(colorSubtext).
			Width(8)

	FieldLabelActiveStyle = FieldLabelStyle.
				Foreground(colorAccent).
				Bold(true)
)

func DetailsStyle(width int) gloss.Style {
	return gloss.NewStyle().
		Foreground(colorText).
		Width(width).
		PaddingLeft(2).
		PaddingRight(1).
		PaddingTop(1)
}

var DetailsTitleStyle = gloss.NewStyle().
	Foreground(colorAccent).
	Bold(true).
	PaddingLeft(2).
	PaddingTop(1)

var DetailsLoadingStyle = gloss.NewStyle().
	Foreground(colorAccent).
	Padding(2).
	Align(gloss.Center)
