package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type rightPart struct {
	text  string
	style lipgloss.Style
}

func rightPartsWidth(parts []rightPart) int {
	width := 0
	count := 0
	for _, part := range parts {
		if part.text == "" {
			continue
		}
		if count > 0 {
			width++
		}
		width += lipgloss.Width(part.text)
		count++
	}
	if count > 0 {
		width++
	}
	return width
}

func renderRightParts(parts []rightPart) string {
	var b strings.Builder
	first := true
	for _, part := range parts {
		if part.text == "" {
			continue
		}
		if !first {
			b.WriteString(" ")
		}
		b.WriteString(part.style.Render(part.text))
		first = false
	}
	if b.Len() == 0 {
		return ""
	}
	return " " + b.String()
}

func (m *Model) renderListView() string {
	var body strings.Builder

	fromStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.List.ReadFg))
	unreadFromStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.List.UnreadFg)).
		Bold(true)
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Status.Dim))
	metaStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.List.MetaFg))
	snippetStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Status.Dim)).
		Faint(true)

	selectedBarStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.List.SelectedFg))
	unreadBarStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.List.UnreadFg)).
		Bold(true)

	cardBodyHeight := listSnippetLines + 2
	cardStyle := lipgloss.NewStyle().
		Height(cardBodyHeight).
		MaxHeight(cardBodyHeight)

	padToWidth := func(text string, width int) string {
		if width <= 0 {
			return ""
		}
		textWidth := lipgloss.Width(text)
		if textWidth >= width {
			return text
		}
		return text + strings.Repeat(" ", width-textWidth)
	}

	if m.inbox.loading {
		body.WriteString("Loading inbox...")
		return m.renderListLayout(body.String())
	}
	if len(m.inbox.threads) == 0 {
		body.WriteString("No messages with attachments")
		return m.renderListLayout(body.String())
	}

	start, end := m.getVisibleThreadRange()

	for i := start; i < end; i++ {
		thread := m.inbox.threads[i]

		isSelected := i == m.inbox.cursor
		prefix := " "
		switch {
		case isSelected:
			prefix = selectedBarStyle.Render("┃")
		case thread.Unread:
			prefix = unreadBarStyle.Render("│")
		}
		lineWidth := max(m.ui.width-2, 0)

		if !thread.Loaded {
			var cardContent strings.Builder
			cardContent.WriteString(prefix)
			cardContent.WriteString("\n")
			cardContent.WriteString(prefix)
			cardContent.WriteString(dimStyle.Render("Loading..."))
			for line := 0; line < listSnippetLines; line++ {
				cardContent.WriteString("\n")
				cardContent.WriteString(prefix)
			}
			body.WriteString(cardStyle.Render(cardContent.String()))
			body.WriteString("\n\n")
			continue
		}

		// Extract just the name from "Name <email>"
		from := thread.From
		if idx := strings.Index(from, "<"); idx > 0 {
			from = strings.TrimSpace(from[:idx])
		}

		date := formatRelativeTime(thread.Date)

		indicatorsText := ""
		if thread.MessageCount > 1 {
			indicatorsText = fmt.Sprintf("(%d)", thread.MessageCount)
		}

		accountText := ""
		if len(m.accountNames) > 1 && thread.AccountName != "" {
			accountText = thread.AccountName
		}

		parts := []rightPart{
			{text: indicatorsText, style: dimStyle},
			{text: accountText, style: metaStyle},
			{text: date, style: dimStyle},
		}
		if rightPartsWidth(parts) > lineWidth {
			parts = parts[1:]
		}
		rightRendered := renderRightParts(parts)

		fromMax := min(max(lineWidth-rightPartsWidth(parts), 0), 40)
		from = truncateToWidth(from, fromMax)

		line1Left := from
		padding := lineWidth - lipgloss.Width(from) - lipgloss.Width(rightRendered)
		if padding > 0 {
			line1Left += strings.Repeat(" ", padding)
		}
		style1 := fromStyle
		if thread.Unread {
			style1 = unreadFromStyle
		}
		line1 := prefix + style1.Render(truncateToWidth(line1Left, lineWidth-lipgloss.Width(rightRendered))) + rightRendered

		subject := thread.Subject
		if subject == "" {
			subject = "(no subject)"
		}
		subject = padToWidth(truncateToWidth(subject, lineWidth), lineWidth)
		line2 := prefix + style1.Render(subject)

		snippet := strings.TrimSpace(thread.Snippet)
		snippet = padToWidth(truncateToWidth(snippet, lineWidth), lineWidth)
		line3 := prefix + snippetStyle.Render(snippet)

		var cardContent strings.Builder
		cardContent.WriteString(line1)
		cardContent.WriteString("\n")
		cardContent.WriteString(line2)
		cardContent.WriteString("\n")
		cardContent.WriteString(line3)

		body.WriteString(cardStyle.Render(cardContent.String()))
		body.WriteString("\n\n")
	}

	return m.renderListLayout(body.String())
}

func (m *Model) renderListLayout(body string) string {
	return renderFixedLayout(m.ui.height, body, m.renderListStatusline())
}

func (m *Model) renderListStatusline() string {
	count := m.displayCount()
	pos := 0
	if count > 0 {
		pos = min(m.inbox.cursor+1, count)
	}

	left := []statusSegment{
		statusModeSegment(m.theme, "PAPERDROP"),
		statusPowerlineSeparator(m.theme.Status.ModeBg, m.theme.Status.Bg),
		statusTextSegment(m.theme, fmt.Sprintf("messages %d", count)),
	}

	right := []statusSegment{}
	switch {
	case m.inbox.refreshing:
		right = append(right, statusDimSegment(m.theme, "refreshing"))
	case m.inbox.loadingMore:
		right = append(right, statusDimSegment(m.theme, "loading more"))
	case m.inbox.loading:
		right = append(right, statusDimSegment(m.theme, "loading"))
	case m.inbox.dispatching:
		right = append(right, statusDimSegment(m.theme, "working"))
	}

	right = append(right, statusTextSegment(m.theme, fmt.Sprintf("%d/%d", pos, count)))
	right = append(right,
		statusDimSegment(m.theme, "u upload"),
		statusDimSegment(m.theme, "? help"),
		statusDimSegment(m.theme, "q quit"),
	)

	return renderStatusline(m.theme, m.ui.width, left, right)
}
