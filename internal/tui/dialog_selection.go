package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) handleSelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.selection.uploading {
		return m, nil
	}

	km := m.keyMap()
	count := len(m.selection.intent.Attachments)

	switch {
	case key.Matches(msg, km.selection.Cancel):
		m.resetSelection()
		return m, nil

	case key.Matches(msg, km.selection.Up):
		if m.selection.cursor > 0 {
			m.selection.cursor--
		}
		return m, nil

	case key.Matches(msg, km.selection.Down):
		if m.selection.cursor < count-1 {
			m.selection.cursor++
		}
		return m, nil

	case key.Matches(msg, km.selection.Toggle):
		m.selection.checked[m.selection.cursor] = !m.selection.checked[m.selection.cursor]
		return m, nil

	case key.Matches(msg, km.selection.SelectAll):
		for i := 0; i < count; i++ {
			m.selection.checked[i] = true
		}
		return m, nil

	case key.Matches(msg, km.selection.SelectNo):
		for i := 0; i < count; i++ {
			m.selection.checked[i] = false
		}
		return m, nil

	case key.Matches(msg, km.selection.Upload):
		picked := m.selection.selectedAttachments()
		if len(picked) == 0 {
			return m, m.toastCmd("Select at least one attachment")
		}
		m.selection.uploading = true
		return m, m.uploadSelectedCmd(m.selection.intent, picked)

	default:
		return m, nil
	}
}

func (m *Model) renderSelectionModal() string {
	var b strings.Builder

	modalWidth := max(44, min(70, m.ui.width-10))

	titleStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center).
		Bold(true)
	b.WriteString(titleStyle.Render("Select PDF Attachments"))
	b.WriteString("\n\n")

	subjectStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Dialog.HeaderValueFg))
	subject := m.selection.intent.Message.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	b.WriteString(subjectStyle.Render(truncateToWidth(subject, modalWidth)))
	b.WriteString("\n\n")

	checkedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.List.SelectedFg))
	for i, att := range m.selection.intent.Attachments {
		cursor := "  "
		if i == m.selection.cursor {
			cursor = "> "
		}
		box := "[ ]"
		if m.selection.checked[i] {
			box = checkedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s%s %s", cursor, box, att.Filename)
		if size := formatAttachmentSize(att.Size); size != "" {
			line += " (" + size + ")"
		}
		b.WriteString(truncateToWidth(line, modalWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(m.theme.Modal.FooterFg))

	var footer string
	if m.selection.uploading {
		footer = m.ui.spinner.View() + " Uploading..."
	} else {
		footer = fmt.Sprintf(
			"%d selected • space toggle • a all • n none • enter upload • esc cancel",
			m.selection.selectedCount(),
		)
	}
	b.WriteString(footerStyle.Render(footer))

	return b.String()
}
