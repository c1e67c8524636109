package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"go.withmatt.com/paperdrop/internal/paperless"
	"go.withmatt.com/paperdrop/internal/upload"
)

// Sentinel select values; real options carry decimal server ids and never
// collide with these.
const (
	optionNone      = ""
	optionCreateNew = "__create_new__"
)

// correspondentSelectOptions builds the correspondent picker. Labels are the
// server names; values are the decimal primary keys the ingestion endpoint
// expects.
func correspondentSelectOptions(items []paperless.Correspondent) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(items)+2)
	options = append(options, huh.NewOption("(none)", optionNone))
	for _, c := range items {
		options = append(options, huh.NewOption(c.Name, strconv.FormatInt(c.ID, 10)))
	}
	return append(options, huh.NewOption("+ Create new...", optionCreateNew))
}

func documentTypeSelectOptions(items []paperless.DocumentType) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(items)+2)
	options = append(options, huh.NewOption("(none)", optionNone))
	for _, dt := range items {
		options = append(options, huh.NewOption(dt.Name, strconv.FormatInt(dt.ID, 10)))
	}
	return append(options, huh.NewOption("+ Create new...", optionCreateNew))
}

func advancedDefaultTitle(intent upload.Intent) string {
	if len(intent.Attachments) > 0 {
		return upload.DeriveTitle(intent.Attachments[0].Filename)
	}
	return ""
}

func validateCreatedDate(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

// rebuildAdvancedForm recreates the metadata form against the current
// reference lists. The bound values survive, so a rebuild keeps whatever the
// user already entered.
func (m *Model) rebuildAdvancedForm() tea.Cmd {
	a := &m.advanced

	correspondentOptions := correspondentSelectOptions(a.correspondents)
	documentTypeOptions := documentTypeSelectOptions(a.documentTypes)

	tagOptions := make([]huh.Option[string], 0, len(a.tags))
	known := make(map[string]bool, len(a.tags))
	for _, tag := range a.tags {
		tagOptions = append(tagOptions, huh.NewOption(tag.Name, tag.Name))
		known[tag.Name] = true
	}
	// Selected tags that no longer exist on the server would wedge the
	// multi-select; drop them.
	kept := a.selectedTags[:0]
	for _, name := range a.selectedTags {
		if known[name] {
			kept = append(kept, name)
		}
	}
	a.selectedTags = kept

	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Value(&a.title),
		huh.NewSelect[string]().
			Title("Correspondent").
			Options(correspondentOptions...).
			Value(&a.correspondent),
		huh.NewSelect[string]().
			Title("Document type").
			Options(documentTypeOptions...).
			Value(&a.documentType),
	}
	if len(tagOptions) > 0 {
		fields = append(fields,
			huh.NewMultiSelect[string]().
				Title("Tags").
				Options(tagOptions...).
				Value(&a.selectedTags),
		)
	}
	fields = append(fields,
		huh.NewInput().
			Title("Created").
			Placeholder("YYYY-MM-DD").
			Validate(validateCreatedDate).
			Value(&a.created),
		huh.NewInput().
			Title("Source").
			Placeholder("Email via paperdrop").
			Value(&a.source),
	)

	a.form = huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(m.advancedFormWidth()).
		WithShowHelp(false)
	return a.form.Init()
}

// submitOptions assembles the metadata an advanced submission sends. The
// bound select values already hold decimal server ids.
func (a *advancedState) submitOptions() upload.Options {
	return upload.Options{
		Title:           strings.TrimSpace(a.title),
		CorrespondentID: a.correspondent,
		DocumentTypeID:  a.documentType,
		Tags:            append([]string(nil), a.selectedTags...),
		Created:         strings.TrimSpace(a.created),
		Source:          strings.TrimSpace(a.source),
	}
}

func (m *Model) advancedFormWidth() int {
	return max(40, min(70, m.ui.width-14))
}

func (m Model) handleAdvancedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.advanced.uploading {
		return m, nil
	}
	if msg.String() == "esc" {
		m.resetAdvanced()
		return m, nil
	}
	if m.advanced.form == nil {
		return m, nil
	}
	return m.updateActiveForm(msg)
}

// updateActiveForm feeds a message to whichever dialog form is on screen and
// reacts to the form finishing.
func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch {
	case m.advanced.child.active && m.advanced.child.form != nil:
		form, cmd := m.advanced.child.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.advanced.child.form = f
		}
		cmds = append(cmds, cmd)
		var submitCmd tea.Cmd
		m, submitCmd = m.maybeSubmitEntityForm()
		cmds = append(cmds, submitCmd)

	case m.advanced.active && m.advanced.form != nil:
		form, cmd := m.advanced.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.advanced.form = f
		}
		cmds = append(cmds, cmd)
		var submitCmd tea.Cmd
		m, submitCmd = m.maybeSubmitAdvancedForm()
		cmds = append(cmds, submitCmd)

	default:
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// maybeSubmitAdvancedForm fires the batch once the form completes. A "create
// new" sentinel in either select detours into the child dialog instead.
func (m Model) maybeSubmitAdvancedForm() (Model, tea.Cmd) {
	form := m.advanced.form
	if form == nil || m.advanced.uploading {
		return m, nil
	}

	switch form.State {
	case huh.StateAborted:
		m.resetAdvanced()
		return m, nil
	case huh.StateCompleted:
	default:
		return m, nil
	}

	if m.advanced.correspondent == optionCreateNew {
		m.advanced.correspondent = optionNone
		return m.openEntityDialog(entityCorrespondent)
	}
	if m.advanced.documentType == optionCreateNew {
		m.advanced.documentType = optionNone
		return m.openEntityDialog(entityDocumentType)
	}

	opts := m.advanced.submitOptions()
	intent := m.advanced.intent
	intent.Options = opts

	m.advanced.uploading = true
	m.advanced.errTexts = nil
	m.advanced.successText = ""
	return m, m.uploadWithOptionsCmd(intent, opts)
}

func (m Model) handleReferenceListsLoaded(msg referenceListsLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.advanced.active {
		return m, nil
	}
	m.advanced.loadingLists = false
	if msg.err != nil {
		m.logf("reference list load failed: %v", msg.err)
		m.advanced.errTexts = []string{"Could not load Paperless lists: " + msg.err.Error()}
	} else {
		m.advanced.correspondents = msg.correspondents
		m.advanced.documentTypes = msg.documentTypes
		m.advanced.tags = msg.tags
	}
	return m, m.rebuildAdvancedForm()
}

func (m Model) handleAdvancedDone(msg advancedDoneMsg) (tea.Model, tea.Cmd) {
	if !m.advanced.active {
		return m, nil
	}
	m.advanced.uploading = false

	if msg.err != nil {
		m.ui.err = msg.err
		m.ui.showError = true
		return m, m.rebuildAdvancedForm()
	}

	summary := upload.Summarize(msg.outcomes)

	var noticeCmd tea.Cmd
	if summary.Total() > 1 {
		noticeCmd = m.toastCmd(summary.Notice())
	}

	if summary.Failed == 0 {
		m.resetAdvanced()
		return m, noticeCmd
	}

	// Leave the dialog open so the user sees what failed and can retry.
	errTexts := make([]string, 0, summary.Failed)
	for _, outcome := range msg.outcomes {
		if !outcome.Success {
			errTexts = append(errTexts, outcome.AttachmentName+": "+outcome.Err)
		}
	}
	m.advanced.errTexts = errTexts
	if summary.Succeeded > 0 {
		m.advanced.successText = fmt.Sprintf(
			"Uploaded %d of %d documents",
			summary.Succeeded,
			summary.Total(),
		)
	}
	return m, tea.Batch(noticeCmd, m.rebuildAdvancedForm())
}

func (m *Model) renderAdvancedModal() string {
	var b strings.Builder

	modalWidth := max(46, min(74, m.ui.width-10))

	titleStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center).
		Bold(true)
	b.WriteString(titleStyle.Render("Upload to Paperless"))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Dialog.HeaderLabelFg))
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Dialog.HeaderValueFg))

	subject := m.advanced.intent.Message.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	b.WriteString(labelStyle.Render("Message: "))
	b.WriteString(valueStyle.Render(truncateToWidth(subject, modalWidth-9)))
	b.WriteString("\n")

	names := make([]string, 0, len(m.advanced.intent.Attachments))
	for _, att := range m.advanced.intent.Attachments {
		names = append(names, att.Filename)
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("PDFs (%d): ", len(names))))
	b.WriteString(valueStyle.Render(truncateToWidth(strings.Join(names, ", "), modalWidth-11)))
	b.WriteString("\n\n")

	switch {
	case m.advanced.loadingLists:
		b.WriteString(m.ui.spinner.View() + " Loading Paperless lists...")
		b.WriteString("\n")
	case m.advanced.form != nil:
		b.WriteString(m.advanced.form.View())
		b.WriteString("\n")
	}

	if m.advanced.successText != "" {
		successStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Dialog.SuccessFg))
		b.WriteString(successStyle.Render(m.advanced.successText))
		b.WriteString("\n")
	}
	if len(m.advanced.errTexts) > 0 {
		errStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Dialog.ErrorFg))
		for _, text := range m.advanced.errTexts {
			b.WriteString(errStyle.Render(truncateToWidth(text, modalWidth)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(m.theme.Modal.FooterFg))
	footer := "enter submit • esc cancel"
	if m.advanced.uploading {
		footer = m.ui.spinner.View() + " Uploading..."
	}
	b.WriteString(footerStyle.Render(footer))

	return b.String()
}
