package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("63")
	colorMuted  = lipgloss.Color("241")
	colorOK     = lipgloss.Color("42")
	colorWarn   = lipgloss.Color("214")
	colorError  = lipgloss.Color("196")
)

type styles struct {
	title        lipgloss.Style
	search       lipgloss.Style
	control      lipgloss.Style
	controlOff   lipgloss.Style
	noticeInfo   lipgloss.Style
	noticeWarn   lipgloss.Style
	noticeError  lipgloss.Style
	detailBorder lipgloss.Style
	status       lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:        lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		search:       lipgloss.NewStyle().Foreground(colorAccent),
		control:      lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent),
		controlOff:   lipgloss.NewStyle().Faint(true).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted),
		noticeInfo:   lipgloss.NewStyle().Foreground(colorOK),
		noticeWarn:   lipgloss.NewStyle().Foreground(colorWarn),
		noticeError:  lipgloss.NewStyle().Foreground(colorError).Bold(true),
		detailBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1),
		status:       lipgloss.NewStyle().Foreground(colorMuted),
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(colorAccent).
		Bold(false)
	return s
}
