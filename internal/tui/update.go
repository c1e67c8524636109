package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles events and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return m.updateSpinner(msg)
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case inboxLoadedMsg:
		return m.handleInboxLoaded(msg)
	case threadMetadataLoadedMsg:
		return m.handleThreadMetadataLoaded(msg)
	case notificationMsg:
		return m, m.toastCmd(msg.text)
	case openSelectionDialogMsg:
		return m.handleOpenSelectionDialog(msg)
	case openAdvancedDialogMsg:
		return m.handleOpenAdvancedDialog(msg)
	case quickUploadSentMsg:
		return m.handleUploadSent(msg.err)
	case advancedUploadSentMsg:
		return m.handleUploadSent(msg.err)
	case selectionDoneMsg:
		return m.handleSelectionDone(msg)
	case advancedDoneMsg:
		return m.handleAdvancedDone(msg)
	case referenceListsLoadedMsg:
		return m.handleReferenceListsLoaded(msg)
	case entityCreatedMsg:
		return m.handleEntityCreated(msg)
	default:
		return m.updateBackground(msg)
	}
}

func (m Model) updateSpinner(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.ui.spinner, cmd = m.ui.spinner.Update(msg)
	return m, cmd
}

// updateBackground routes messages no handler claims to the toast stack and
// whichever form is active; both ignore what they don't recognize.
func (m Model) updateBackground(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	var alertCmd tea.Cmd
	m, alertCmd = m.updateAlerts(msg)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	var formCmd tea.Cmd
	m, formCmd = m.updateActiveForm(msg)
	if formCmd != nil {
		cmds = append(cmds, formCmd)
	}

	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Close passive modals on any keypress
	if m.ui.showHelp {
		m.ui.showHelp = false
		return m, nil
	}
	if m.ui.showError {
		m.ui.showError = false
		m.ui.err = nil
		return m, nil
	}

	if m.advanced.child.active {
		return m.handleEntityKey(msg)
	}
	if m.advanced.active {
		return m.handleAdvancedKey(msg)
	}
	if m.selection.active {
		return m.handleSelectionKey(msg)
	}
	return m.handleListKey(msg)
}
