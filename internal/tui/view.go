package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/trly/servicedeck/internal/binder"
)

// View implements tea.Model.
func (m *Model) View() string {
	switch m.mode {
	case modeDetail:
		return m.detailView()
	case modeEdit:
		return m.editorView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	if m.mode == modeSearch || m.view.Term() != "" {
		b.WriteString(m.styles.search.Render(m.search.View()))
		b.WriteString("\n")
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.controlsView())
	b.WriteString("\n")
	b.WriteString(m.noticeView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) headerView() string {
	status := fmt.Sprintf("%d of %d units", m.view.Len(), m.collection.Len())
	if m.loading {
		status = "loading units..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.title.Render(m.title),
		"  ",
		m.styles.status.Render(status),
	)
}

func (m *Model) controlsView() string {
	c, ok := m.binder.Current()
	if !ok {
		return ""
	}

	buttons := make([]string, 0, len(c.Controls)+1)
	for _, ctl := range c.Controls {
		binding := m.keys.actionBinding(ctl.Action)
		label := fmt.Sprintf("%s %s", binding.Help().Key, ctl.Action.Label())
		if ctl.Visible {
			buttons = append(buttons, m.styles.control.Render(label))
		} else {
			buttons = append(buttons, m.styles.controlOff.Render(label))
		}
	}

	detail := "enter Unit file"
	if c.Detail.Enabled {
		buttons = append(buttons, m.styles.control.Render(detail))
	} else {
		buttons = append(buttons, m.styles.controlOff.Render(detail))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m *Model) noticeView() string {
	if m.notice == nil {
		return ""
	}
	switch m.notice.Level {
	case binder.LevelError:
		return m.styles.noticeError.Render(m.notice.Message)
	case binder.LevelWarn:
		return m.styles.noticeWarn.Render(m.notice.Message)
	default:
		return m.styles.noticeInfo.Render(m.notice.Message)
	}
}

func (m *Model) detailView() string {
	c, _ := m.binder.Current()
	header := m.styles.title.Render(c.Detail.Title)
	hint := m.styles.status.Render("esc close • ctrl+e edit")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.styles.detailBorder.Render(m.detail.View()),
		m.noticeView(),
		hint,
	)
}

func (m *Model) editorView() string {
	c, _ := m.binder.Current()
	header := m.styles.title.Render("Editing " + c.Detail.Title)
	hint := m.styles.status.Render("ctrl+s save • esc cancel")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.editor.View(),
		m.noticeView(),
		hint,
	)
}
