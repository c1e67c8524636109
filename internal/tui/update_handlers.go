package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keyMap()
	switch {
	case key.Matches(msg, km.list.Quit):
		return m, tea.Quit

	case key.Matches(msg, km.list.Help):
		m.ui.showHelp = true
		return m, nil

	case key.Matches(msg, km.list.Up):
		if m.inbox.cursor > 0 {
			m.inbox.cursor--
			m.ensureCursorVisible()
		}
		return m, nil

	case key.Matches(msg, km.list.Down):
		if m.inbox.cursor < m.displayCount()-1 {
			m.inbox.cursor++
			m.ensureCursorVisible()
		}
		return m, nil

	case key.Matches(msg, km.list.PageUp):
		page := max(m.visibleCardCount(), 1)
		m.inbox.cursor = max(m.inbox.cursor-page, 0)
		m.ensureCursorVisible()
		return m, nil

	case key.Matches(msg, km.list.PageDown):
		page := max(m.visibleCardCount(), 1)
		m.inbox.cursor = min(m.inbox.cursor+page, max(m.displayCount()-1, 0))
		m.ensureCursorVisible()
		return m, nil

	case key.Matches(msg, km.list.QuickUpload):
		thread, ok := m.selectedThread()
		if !ok || m.inbox.dispatching {
			return m, nil
		}
		m.inbox.dispatching = true
		return m, m.quickUploadCmd(thread)

	case key.Matches(msg, km.list.AdvancedUpload):
		thread, ok := m.selectedThread()
		if !ok || m.inbox.dispatching {
			return m, nil
		}
		m.inbox.dispatching = true
		return m, m.advancedUploadCmd(thread)

	case key.Matches(msg, km.list.Refresh):
		if m.inbox.refreshing || m.inbox.loading {
			return m, nil
		}
		m.inbox.refreshing = true
		return m, m.loadInboxCmd(inboxLoadManual)

	case key.Matches(msg, km.list.LoadMore):
		if m.inbox.loadingMore || m.inbox.nextPageToken == "" {
			return m, nil
		}
		m.inbox.loadingMore = true
		return m, m.loadMoreThreadsCmd()

	case key.Matches(msg, km.list.OpenWeb):
		if m.serviceURL == "" {
			return m, m.toastCmd("Paperless is not configured")
		}
		return m, m.openWebCmd()

	default:
		return m, nil
	}
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	oldWidth := m.ui.width
	m.ui.width = msg.Width
	m.ui.height = msg.Height
	if msg.Width != oldWidth && msg.Width > 0 {
		m.ui.alert = newAlertModel(m.theme, msg.Width)
	}
	m.ensureCursorVisible()
	return m, nil
}

func (m Model) handleInboxLoaded(msg inboxLoadedMsg) (tea.Model, tea.Cmd) {
	m.inbox.loading = false
	m.inbox.loadingMore = false
	m.inbox.refreshing = false

	if msg.err != nil {
		m.logf("inbox load failed: %v", msg.err)
		m.ui.err = msg.err
		m.ui.showError = true
		return m, nil
	}

	if msg.append {
		m.inbox.threads = append(m.inbox.threads, msg.threads...)
	} else {
		m.inbox.threads = msg.threads
		if msg.source != inboxLoadInit {
			// Keep the cursor in range after a refresh shrinks the list.
			m.inbox.cursor = min(m.inbox.cursor, max(len(m.inbox.threads)-1, 0))
		}
	}
	m.inbox.nextPageToken = msg.nextPageToken
	m.ensureCursorVisible()

	return m, m.loadAllThreadsMetadataCmd(false)
}

func (m Model) handleThreadMetadataLoaded(msg threadMetadataLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logf("thread metadata load failed thread=%s err=%v", msg.threadID, msg.err)
		return m, nil
	}
	if msg.thread == nil {
		return m, nil
	}

	// The list may have shifted since the request went out; relocate by id.
	index := -1
	if msg.index >= 0 && msg.index < len(m.inbox.threads) &&
		m.inbox.threads[msg.index].ThreadID == msg.threadID {
		index = msg.index
	} else {
		for i := range m.inbox.threads {
			if m.inbox.threads[i].ThreadID == msg.threadID {
				index = i
				break
			}
		}
	}
	if index < 0 {
		return m, nil
	}

	thread := *msg.thread
	thread.ThreadID = msg.threadID
	thread.AccountIndex = msg.accountIndex
	if msg.accountIndex >= 0 && msg.accountIndex < len(m.accountNames) {
		thread.AccountName = m.accountNames[msg.accountIndex]
	}
	m.inbox.threads[index] = thread
	return m, nil
}

func (m Model) handleOpenSelectionDialog(msg openSelectionDialogMsg) (tea.Model, tea.Cmd) {
	intent, ok := m.sessions.Take(msg.sessionID)
	if !ok {
		m.logf("selection session %s already consumed", msg.sessionID)
		return m, m.toastCmd("Upload request expired")
	}

	checked := make(map[int]bool, len(intent.Attachments))
	for i := range intent.Attachments {
		checked[i] = true
	}
	m.selection = selectionState{
		active:    true,
		sessionID: msg.sessionID,
		intent:    intent,
		checked:   checked,
	}
	return m, nil
}

func (m Model) handleOpenAdvancedDialog(msg openAdvancedDialogMsg) (tea.Model, tea.Cmd) {
	intent, ok := m.sessions.Take(msg.sessionID)
	if !ok {
		m.logf("advanced session %s already consumed", msg.sessionID)
		return m, m.toastCmd("Upload request expired")
	}

	m.advanced = advancedState{
		active:       true,
		sessionID:    msg.sessionID,
		intent:       intent,
		loadingLists: true,
		title:        advancedDefaultTitle(intent),
		selectedTags: append([]string(nil), m.defaultTags...),
	}
	return m, m.loadReferenceListsCmd()
}

// handleUploadSent resolves a fired quick or advanced upload request. The
// interesting outcomes (uploads, dialogs, refusals) arrive separately as
// notifications and dialog-open messages.
func (m Model) handleUploadSent(err error) (tea.Model, tea.Cmd) {
	m.inbox.dispatching = false
	if err != nil {
		m.logf("upload request failed: %v", err)
		m.ui.err = err
		m.ui.showError = true
	}
	return m, nil
}

func (m Model) handleSelectionDone(msg selectionDoneMsg) (tea.Model, tea.Cmd) {
	m.selection.uploading = false
	if msg.err != nil {
		m.ui.err = msg.err
		m.ui.showError = true
		return m, nil
	}
	// Outcome notices were already raised per attachment and per batch.
	m.resetSelection()
	return m, nil
}
