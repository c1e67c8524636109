package tui

// View renders the UI.
func (m Model) View() string {
	output := m.renderListView()

	// Overlay modals on top of base view
	switch {
	case m.ui.showHelp:
		output = m.overlayModal(output, m.renderHelpModal())
	case m.ui.showError && m.ui.err != nil:
		output = m.overlayModal(output, m.renderErrorModal())
	case m.advanced.child.active:
		output = m.overlayModal(output, m.renderAdvancedModal())
		output = m.overlayModal(output, m.renderEntityModal())
	case m.advanced.active:
		output = m.overlayModal(output, m.renderAdvancedModal())
	case m.selection.active:
		output = m.overlayModal(output, m.renderSelectionModal())
	}

	return m.ui.alert.Render(output)
}
