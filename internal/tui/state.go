package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/huh"
	"go.dalton.dog/bubbleup"

	"go.withmatt.com/paperdrop/internal/gmail"
	"go.withmatt.com/paperdrop/internal/paperless"
	"go.withmatt.com/paperdrop/internal/upload"
)

type uiState struct {
	width     int
	height    int
	spinner   spinner.Model
	help      help.Model
	alert     bubbleup.AlertModel
	showHelp  bool
	showError bool
	err       error
}

type inboxState struct {
	threads       []gmail.Thread
	cursor        int
	scrollOffset  int
	nextPageToken string
	loading       bool
	loadingMore   bool
	refreshing    bool

	// dispatching guards against double-firing an upload request while one
	// is still being resolved.
	dispatching bool
}

// selectionState is the attachment-selection dialog: a quick upload that found
// several PDFs and needs the user to pick a subset.
type selectionState struct {
	active    bool
	sessionID string
	intent    upload.Intent
	cursor    int
	checked   map[int]bool
	uploading bool
}

// entityKind discriminates the child creation dialogs.
type entityKind int

const (
	entityCorrespondent entityKind = iota
	entityDocumentType
)

// entityState is a child dialog opened from the advanced form to create a
// correspondent or document type. Its result is posted back to the opener.
type entityState struct {
	active    bool
	kind      entityKind
	form      *huh.Form
	name      string
	autoMatch bool
	creating  bool
	errText   string
}

// advancedState is the metadata dialog. The form is rebuilt whenever the
// reference lists change; the bound field values survive rebuilds.
type advancedState struct {
	active       bool
	sessionID    string
	intent       upload.Intent
	form         *huh.Form
	loadingLists bool
	uploading    bool

	correspondents []paperless.Correspondent
	documentTypes  []paperless.DocumentType
	tags           []paperless.Tag

	// Form-bound values. correspondent and documentType hold decimal server
	// ids, or one of the select sentinels.
	title         string
	correspondent string
	documentType  string
	selectedTags  []string
	created       string
	source        string

	child entityState

	errTexts    []string
	successText string
}

func newUIState() uiState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return uiState{spinner: s}
}

func (m *Model) resetSelection() {
	m.selection = selectionState{}
}

func (m *Model) resetAdvanced() {
	m.advanced = advancedState{}
}

// selectedAttachments returns the checked subset in intent order.
func (s *selectionState) selectedAttachments() []gmail.Attachment {
	picked := make([]gmail.Attachment, 0, len(s.intent.Attachments))
	for i, att := range s.intent.Attachments {
		if s.checked[i] {
			picked = append(picked, att)
		}
	}
	return picked
}

func (s *selectionState) selectedCount() int {
	count := 0
	for _, checked := range s.checked {
		if checked {
			count++
		}
	}
	return count
}
