package upload

import (
	"context"
	"fmt"

	"go.withmatt.com/paperdrop/internal/gmail"
	"go.withmatt.com/paperdrop/internal/log"
	"go.withmatt.com/paperdrop/internal/paperless"
)

// defaultSource is recorded against advanced uploads when the user leaves the
// source field blank.
const defaultSource = "Email via paperdrop"

// AttachmentSource resolves attachment bytes from the mail host.
type AttachmentSource interface {
	DownloadAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// Ingestor pushes a document into the document service.
type Ingestor interface {
	UploadDocument(
		ctx context.Context,
		data []byte,
		filename string,
		meta paperless.Metadata,
	) (*paperless.Document, error)
}

// Notifier surfaces human-readable status messages to the user.
type Notifier interface {
	Notify(text string)
}

// Orchestrator drives the ingestor once per attachment in a batch and
// aggregates the outcomes. All batch state lives in the Run call; concurrent
// batches do not share anything mutable.
type Orchestrator struct {
	source   AttachmentSource
	ingestor Ingestor
	notify   Notifier
}

func NewOrchestrator(source AttachmentSource, ingestor Ingestor, notify Notifier) *Orchestrator {
	return &Orchestrator{source: source, ingestor: ingestor, notify: notify}
}

// Run processes every attachment in the intent, in intent order. One failed
// attachment never aborts its siblings; each gets its own outcome. The batch
// summary notice is emitted for multi-attachment batches.
func (o *Orchestrator) Run(ctx context.Context, intent Intent) (Summary, []Outcome) {
	outcomes := make([]Outcome, 0, len(intent.Attachments))
	for _, att := range intent.Attachments {
		outcomes = append(outcomes, o.uploadOne(ctx, intent, att))
	}

	summary := Summarize(outcomes)
	if len(intent.Attachments) > 1 {
		o.notifyText(summary.Notice())
	}
	return summary, outcomes
}

// UploadOne uploads a single attachment and reports its outcome. Used for the
// single-attachment quick path where no batch summary is wanted.
func (o *Orchestrator) UploadOne(
	ctx context.Context,
	intent Intent,
	att gmail.Attachment,
) Outcome {
	return o.uploadOne(ctx, intent, att)
}

func (o *Orchestrator) uploadOne(
	ctx context.Context,
	intent Intent,
	att gmail.Attachment,
) Outcome {
	outcome := Outcome{AttachmentName: att.Filename}

	o.notifyText(fmt.Sprintf("Uploading %s to Paperless...", att.Filename))

	data, err := o.source.DownloadAttachment(ctx, intent.Message.ID, att.AttachmentID)
	if err != nil {
		log.Printf("attachment fetch failed for %s: %v", att.Filename, err)
		outcome.Err = err.Error()
		o.notifyText(fmt.Sprintf("Failed to upload %s: %s", att.Filename, outcome.Err))
		return outcome
	}

	doc, err := o.ingestor.UploadDocument(ctx, data, att.Filename, o.metadataFor(intent, att))
	if err != nil {
		log.Printf("upload failed for %s: %v", att.Filename, err)
		outcome.Err = err.Error()
		o.notifyText(fmt.Sprintf("Failed to upload %s: %s", att.Filename, outcome.Err))
		return outcome
	}

	outcome.Success = true
	if doc != nil {
		outcome.Document = doc.TaskID
	}
	o.notifyText(fmt.Sprintf("Uploaded %s to Paperless", att.Filename))
	return outcome
}

// metadataFor builds the upload metadata. Quick mode derives the title from
// the filename; advanced mode uses the user title for every attachment in the
// batch, falling back to derivation only when it is blank.
func (o *Orchestrator) metadataFor(intent Intent, att gmail.Attachment) paperless.Metadata {
	if intent.Mode == ModeQuick {
		return paperless.Metadata{Title: DeriveTitle(att.Filename)}
	}

	opts := intent.Options
	title := opts.Title
	if title == "" {
		title = DeriveTitle(att.Filename)
	}
	source := opts.Source
	if source == "" {
		source = defaultSource
	}
	return paperless.Metadata{
		Title:           title,
		CorrespondentID: opts.CorrespondentID,
		DocumentTypeID:  opts.DocumentTypeID,
		Tags:            opts.Tags,
		Created:         opts.Created,
		Source:          source,
	}
}

func (o *Orchestrator) notifyText(text string) {
	if o.notify != nil {
		o.notify.Notify(text)
	}
}
