package upload

import (
	"fmt"
	"time"

	"go.withmatt.com/paperdrop/internal/gmail"
)

// Mode selects how much metadata accompanies an upload.
type Mode int

const (
	// ModeQuick uploads with a derived title and nothing else.
	ModeQuick Mode = iota
	// ModeAdvanced uploads with the full metadata form.
	ModeAdvanced
)

// MessageRef is a lightweight projection of a mail message; enough for the
// dialogs to display context without holding the full message.
type MessageRef struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// Options carries the user-supplied metadata for an advanced upload. Blank
// fields are omitted from the outgoing request. Correspondent and document
// type are server primary keys in decimal form; the service rejects names.
type Options struct {
	Title           string   `json:"title,omitempty"`
	CorrespondentID string   `json:"correspondent_id,omitempty"`
	DocumentTypeID  string   `json:"document_type_id,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Created         string   `json:"created,omitempty"`
	Source          string   `json:"source,omitempty"`
}

// Intent describes one user-requested upload batch: one message, one or more
// PDF attachments, and the metadata mode. Callers filter to a non-empty PDF
// set before constructing one.
type Intent struct {
	Mode        Mode               `json:"mode"`
	Message     MessageRef         `json:"message"`
	Attachments []gmail.Attachment `json:"attachments"`
	Options     Options            `json:"options"`

	// Account indexes the mail account the message belongs to.
	Account int `json:"account"`
}

// Outcome is the per-attachment result of one ingestion attempt. Exactly one
// of Document and Err is populated, gated by Success.
type Outcome struct {
	AttachmentName string `json:"attachment_name"`
	Success        bool   `json:"success"`
	Document       string `json:"document,omitempty"`
	Err            string `json:"error,omitempty"`
}

// Summary aggregates a batch; recomputed per batch, never stored.
type Summary struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Total returns the number of outcomes the summary covers.
func (s Summary) Total() int {
	return s.Succeeded + s.Failed
}

// Notice renders the batch's user-visible status line: all-success, mixed, or
// all-failure.
func (s Summary) Notice() string {
	switch {
	case s.Succeeded > 0 && s.Failed == 0:
		return fmt.Sprintf("Uploaded %d document(s) to Paperless", s.Succeeded)
	case s.Succeeded > 0:
		return fmt.Sprintf("Uploaded %d document(s), %d failed", s.Succeeded, s.Failed)
	default:
		return "Failed to upload all documents"
	}
}

// Summarize counts outcomes into a Summary. Aggregation is order-independent;
// the summary is a count, not an ordered log.
func Summarize(outcomes []Outcome) Summary {
	var summary Summary
	for _, outcome := range outcomes {
		if outcome.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	return summary
}
