package tui

import "go.withmatt.com/paperdrop/internal/gmail"

const (
	listHeaderHeight = 0
	listFooterHeight = 1
	listSnippetLines = 1
)

func (m *Model) listCardHeight() int {
	return listSnippetLines + 3
}

func (m *Model) visibleCardCount() int {
	availableHeight := m.ui.height - listHeaderHeight - listFooterHeight
	if availableHeight <= 0 {
		return 0
	}
	return availableHeight / m.listCardHeight()
}

func (m *Model) displayCount() int {
	return len(m.inbox.threads)
}

func (m *Model) selectedThread() (gmail.Thread, bool) {
	if m.inbox.cursor < 0 || m.inbox.cursor >= len(m.inbox.threads) {
		return gmail.Thread{}, false
	}
	return m.inbox.threads[m.inbox.cursor], true
}

func (m *Model) ensureCursorVisible() {
	visibleCards := m.visibleCardCount()
	if visibleCards <= 0 {
		m.inbox.scrollOffset = 0
		return
	}

	count := m.displayCount()
	if count <= visibleCards {
		m.inbox.scrollOffset = 0
		return
	}

	maxOffset := max(count-visibleCards, 0)
	if m.inbox.scrollOffset < 0 {
		m.inbox.scrollOffset = 0
	} else if m.inbox.scrollOffset > maxOffset {
		m.inbox.scrollOffset = maxOffset
	}

	if m.inbox.cursor < m.inbox.scrollOffset {
		m.inbox.scrollOffset = m.inbox.cursor
	} else if m.inbox.cursor >= m.inbox.scrollOffset+visibleCards {
		m.inbox.scrollOffset = m.inbox.cursor - visibleCards + 1
	}

	if m.inbox.scrollOffset < 0 {
		m.inbox.scrollOffset = 0
	} else if m.inbox.scrollOffset > maxOffset {
		m.inbox.scrollOffset = maxOffset
	}
}

// getVisibleThreadRange calculates which threads should be visible.
func (m *Model) getVisibleThreadRange() (start, end int) {
	total := m.displayCount()
	if total == 0 {
		return 0, 0
	}

	visibleCards := m.visibleCardCount()
	if visibleCards <= 0 || total <= visibleCards {
		return 0, total
	}

	maxStart := max(total-visibleCards, 0)
	start = min(max(m.inbox.scrollOffset, 0), maxStart)
	end = start + visibleCards
	return start, end
}
