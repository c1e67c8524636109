package tui

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"go.withmatt.com/paperdrop/internal/paperless"
)

func (k entityKind) label() string {
	if k == entityDocumentType {
		return "document type"
	}
	return "correspondent"
}

// openEntityDialog opens the child creation dialog on top of the advanced
// form. The advanced form is rebuilt once the child closes.
func (m Model) openEntityDialog(kind entityKind) (Model, tea.Cmd) {
	m.advanced.child = entityState{
		active:    true,
		kind:      kind,
		autoMatch: true,
	}
	return m, m.rebuildEntityForm()
}

func (m *Model) rebuildEntityForm() tea.Cmd {
	child := &m.advanced.child
	child.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Validate(func(value string) error {
				if strings.TrimSpace(value) == "" {
					return errors.New("required")
				}
				return nil
			}).
			Value(&child.name),
		huh.NewConfirm().
			Title("Enable automatic matching?").
			Affirmative("Yes").
			Negative("No").
			Value(&child.autoMatch),
	)).
		WithWidth(m.advancedFormWidth()).
		WithShowHelp(false)
	return child.form.Init()
}

func (m Model) handleEntityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.advanced.child.creating {
		return m, nil
	}
	if msg.String() == "esc" {
		m.advanced.child = entityState{}
		return m, m.rebuildAdvancedForm()
	}
	if m.advanced.child.form == nil {
		return m, nil
	}
	return m.updateActiveForm(msg)
}

func (m Model) maybeSubmitEntityForm() (Model, tea.Cmd) {
	child := &m.advanced.child
	if child.form == nil || child.creating {
		return m, nil
	}

	switch child.form.State {
	case huh.StateAborted:
		m.advanced.child = entityState{}
		return m, m.rebuildAdvancedForm()
	case huh.StateCompleted:
	default:
		return m, nil
	}

	name := strings.TrimSpace(child.name)
	if name == "" {
		return m, m.rebuildEntityForm()
	}
	child.creating = true
	child.errText = ""
	return m, m.createEntityCmd(child.kind, name, child.autoMatch)
}

func (m Model) handleEntityCreated(msg entityCreatedMsg) (tea.Model, tea.Cmd) {
	if !m.advanced.child.active {
		return m, nil
	}
	m.advanced.child.creating = false

	if msg.err != nil {
		m.logf("create %s failed: %v", msg.kind.label(), msg.err)
		m.advanced.child.errText = msg.err.Error()
		return m, m.rebuildEntityForm()
	}

	// Fold the new record into the loaded list and preselect it by id.
	id := strconv.FormatInt(msg.id, 10)
	switch msg.kind {
	case entityCorrespondent:
		m.advanced.correspondents = append(
			m.advanced.correspondents,
			paperless.Correspondent{ID: msg.id, Name: msg.name},
		)
		m.advanced.correspondent = id
	case entityDocumentType:
		m.advanced.documentTypes = append(
			m.advanced.documentTypes,
			paperless.DocumentType{ID: msg.id, Name: msg.name},
		)
		m.advanced.documentType = id
	}

	m.advanced.child = entityState{}
	return m, tea.Batch(
		m.toastCmd("Created "+msg.name),
		m.rebuildAdvancedForm(),
	)
}

func (m *Model) renderEntityModal() string {
	var b strings.Builder

	modalWidth := max(40, min(60, m.ui.width-14))

	titleStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center).
		Bold(true)
	b.WriteString(titleStyle.Render("New " + m.advanced.child.kind.label()))
	b.WriteString("\n\n")

	if m.advanced.child.form != nil {
		b.WriteString(m.advanced.child.form.View())
		b.WriteString("\n")
	}

	if m.advanced.child.errText != "" {
		errStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Dialog.ErrorFg))
		b.WriteString(errStyle.Render(truncateToWidth(m.advanced.child.errText, modalWidth)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(m.theme.Modal.FooterFg))
	footer := "enter create • esc back"
	if m.advanced.child.creating {
		footer = m.ui.spinner.View() + " Creating..."
	}
	b.WriteString(footerStyle.Render(footer))

	return b.String()
}
