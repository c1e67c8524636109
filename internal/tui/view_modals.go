package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// overlayModal centers a modal dialog on top of the base view.
func (m *Model) overlayModal(baseView string, modal string) string {
	dialogBoxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Modal.BorderFg)).
		Padding(1, 2)

	styledModal := dialogBoxStyle.Render(modal)

	// Use overlay.Composite to place the modal on top of the base view
	return overlay.Composite(
		styledModal,    // foreground (modal)
		baseView,       // background (current view)
		overlay.Center, // horizontal position
		overlay.Center, // vertical position
		0,              // x offset
		0,              // y offset
	)
}

func (m *Model) renderHelpModal() string {
	var b strings.Builder

	modalWidth := max(40, min(80, m.ui.width-10))

	titleStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center).
		Bold(true)
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpModel := m.ui.help
	helpModel.ShowAll = true
	helpModel.Width = max(10, modalWidth-4)
	b.WriteString(helpModel.View(m.keyMap()))

	b.WriteString("\n\n")
	footerStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(m.theme.Modal.FooterFg))
	b.WriteString(footerStyle.Render("Press any key to close"))

	return b.String()
}

func (m *Model) renderErrorModal() string {
	var b strings.Builder

	modalWidth := 60

	titleStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center)
	b.WriteString(titleStyle.Render("Error"))
	b.WriteString("\n\n")

	b.WriteString(wordwrap.String(m.ui.err.Error(), modalWidth))
	b.WriteString("\n\n")

	footerStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center)
	b.WriteString(footerStyle.Render("Press any key to dismiss"))

	return b.String()
}
