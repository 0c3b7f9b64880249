package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF5F5F", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	clock   lipgloss.Style
	done    lipgloss.Style
	cursor  lipgloss.Style
	pane    lipgloss.Style
	focused lipgloss.Style
	alert   lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(h)).
		Padding(1, 2)

	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		ok:      NewBold(s),
		err:     NewBold(e),
		warn:    NewStyle(w),
		help:    NewEm(h),
		clock:   NewBold(t).Padding(0, 1),
		done:    NewStyle(h).Strikethrough(true),
		cursor:  NewBold(t),
		pane:    pane,
		focused: pane.BorderForeground(lipgloss.Color(t)),
		alert: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(w)).
			Padding(1, 4).
			Align(lipgloss.Center),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
