package upload_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.withmatt.com/paperdrop/internal/gmail"
	"go.withmatt.com/paperdrop/internal/paperless"
	"go.withmatt.com/paperdrop/internal/upload"
)

type fakeSource struct {
	failFor map[string]error
	calls   []string
}

func (s *fakeSource) DownloadAttachment(
	ctx context.Context,
	messageID, attachmentID string,
) ([]byte, error) {
	s.calls = append(s.calls, attachmentID)
	if err, ok := s.failFor[attachmentID]; ok {
		return nil, err
	}
	return []byte("%PDF-1.4 " + attachmentID), nil
}

type uploadedDoc struct {
	filename string
	meta     paperless.Metadata
}

type fakeIngestor struct {
	failFor map[string]error
	docs    []uploadedDoc
}

func (i *fakeIngestor) UploadDocument(
	ctx context.Context,
	data []byte,
	filename string,
	meta paperless.Metadata,
) (*paperless.Document, error) {
	if err, ok := i.failFor[filename]; ok {
		return nil, err
	}
	i.docs = append(i.docs, uploadedDoc{filename: filename, meta: meta})
	return &paperless.Document{TaskID: "task-" + filename}, nil
}

type fakeNotifier struct {
	notices []string
}

func (n *fakeNotifier) Notify(text string) {
	n.notices = append(n.notices, text)
}

func quickIntent(attachments ...gmail.Attachment) upload.Intent {
	return upload.Intent{
		Mode: upload.ModeQuick,
		Message: upload.MessageRef{
			ID:      "msg-1",
			Subject: "Invoices",
		},
		Attachments: attachments,
	}
}

func TestRun_UploadsEveryAttachmentInOrder(t *testing.T) {
	source := &fakeSource{}
	ingestor := &fakeIngestor{}
	orch := upload.NewOrchestrator(source, ingestor, nil)

	intent := quickIntent(
		gmail.Attachment{Filename: "a.pdf", AttachmentID: "att-a"},
		gmail.Attachment{Filename: "b.pdf", AttachmentID: "att-b"},
		gmail.Attachment{Filename: "c.pdf", AttachmentID: "att-c"},
	)

	summary, outcomes := orch.Run(context.Background(), intent)

	if summary.Succeeded != 3 || summary.Failed != 0 {
		t.Errorf("Expected 3/0, got %d/%d", summary.Succeeded, summary.Failed)
	}
	if len(outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(outcomes))
	}
	for i, want := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		if outcomes[i].AttachmentName != want {
			t.Errorf("Expected outcome %d for %q, got %q", i, want, outcomes[i].AttachmentName)
		}
		if !outcomes[i].Success {
			t.Errorf("Expected outcome %d to succeed: %s", i, outcomes[i].Err)
		}
	}
	wantCalls := []string{"att-a", "att-b", "att-c"}
	for i, want := range wantCalls {
		if source.calls[i] != want {
			t.Errorf("Expected download %d to be %q, got %q", i, want, source.calls[i])
		}
	}
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	source := &fakeSource{}
	ingestor := &fakeIngestor{
		failFor: map[string]error{"b.pdf": errors.New("HTTP 500: server error")},
	}
	orch := upload.NewOrchestrator(source, ingestor, nil)

	intent := quickIntent(
		gmail.Attachment{Filename: "a.pdf", AttachmentID: "att-a"},
		gmail.Attachment{Filename: "b.pdf", AttachmentID: "att-b"},
		gmail.Attachment{Filename: "c.pdf", AttachmentID: "att-c"},
	)

	summary, outcomes := orch.Run(context.Background(), intent)

	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("Expected 2/1, got %d/%d", summary.Succeeded, summary.Failed)
	}
	if outcomes[1].Success {
		t.Error("Expected b.pdf to fail")
	}
	if outcomes[1].Err == "" {
		t.Error("Expected failed outcome to carry an error message")
	}
	if !outcomes[0].Success || !outcomes[2].Success {
		t.Error("Expected siblings of the failed attachment to upload")
	}
}

func TestRun_DownloadFailureDoesNotReachIngestor(t *testing.T) {
	source := &fakeSource{
		failFor: map[string]error{"att-a": errors.New("attachment gone")},
	}
	ingestor := &fakeIngestor{}
	orch := upload.NewOrchestrator(source, ingestor, nil)

	intent := quickIntent(gmail.Attachment{Filename: "a.pdf", AttachmentID: "att-a"})
	summary, outcomes := orch.Run(context.Background(), intent)

	if summary.Failed != 1 {
		t.Errorf("Expected 1 failure, got %d", summary.Failed)
	}
	if len(ingestor.docs) != 0 {
		t.Errorf("Expected no ingestion after download failure, got %d", len(ingestor.docs))
	}
	if outcomes[0].Err != "attachment gone" {
		t.Errorf("Expected download error in outcome, got %q", outcomes[0].Err)
	}
}

func TestRun_QuickModeDerivesTitlePerAttachment(t *testing.T) {
	ingestor := &fakeIngestor{}
	orch := upload.NewOrchestrator(&fakeSource{}, ingestor, nil)

	intent := quickIntent(
		gmail.Attachment{Filename: "Invoice.pdf", AttachmentID: "att-a"},
		gmail.Attachment{Filename: "Receipt.PDF", AttachmentID: "att-b"},
	)
	orch.Run(context.Background(), intent)

	if len(ingestor.docs) != 2 {
		t.Fatalf("Expected 2 uploads, got %d", len(ingestor.docs))
	}
	if ingestor.docs[0].meta.Title != "Invoice" {
		t.Errorf("Expected title %q, got %q", "Invoice", ingestor.docs[0].meta.Title)
	}
	if ingestor.docs[1].meta.Title != "Receipt" {
		t.Errorf("Expected title %q, got %q", "Receipt", ingestor.docs[1].meta.Title)
	}
	if ingestor.docs[0].meta.Source != "" {
		t.Errorf("Expected quick mode to omit source, got %q", ingestor.docs[0].meta.Source)
	}
}

func TestRun_AdvancedModeSharesTitleAcrossBatch(t *testing.T) {
	ingestor := &fakeIngestor{}
	orch := upload.NewOrchestrator(&fakeSource{}, ingestor, nil)

	intent := upload.Intent{
		Mode:    upload.ModeAdvanced,
		Message: upload.MessageRef{ID: "msg-1"},
		Attachments: []gmail.Attachment{
			{Filename: "a.pdf", AttachmentID: "att-a"},
			{Filename: "b.pdf", AttachmentID: "att-b"},
		},
		Options: upload.Options{
			Title:           "Tax documents",
			CorrespondentID: "12",
			Tags:            []string{"taxes"},
			Created:         "2024-04-15",
		},
	}
	orch.Run(context.Background(), intent)

	if len(ingestor.docs) != 2 {
		t.Fatalf("Expected 2 uploads, got %d", len(ingestor.docs))
	}
	for i, doc := range ingestor.docs {
		if doc.meta.Title != "Tax documents" {
			t.Errorf("Expected shared title on upload %d, got %q", i, doc.meta.Title)
		}
		if doc.meta.CorrespondentID != "12" {
			t.Errorf("Expected correspondent id on upload %d, got %q", i, doc.meta.CorrespondentID)
		}
		if doc.meta.Source != "Email via paperdrop" {
			t.Errorf("Expected default source on upload %d, got %q", i, doc.meta.Source)
		}
	}
}

func TestRun_AdvancedModeBlankTitleFallsBackToFilename(t *testing.T) {
	ingestor := &fakeIngestor{}
	orch := upload.NewOrchestrator(&fakeSource{}, ingestor, nil)

	intent := upload.Intent{
		Mode:    upload.ModeAdvanced,
		Message: upload.MessageRef{ID: "msg-1"},
		Attachments: []gmail.Attachment{
			{Filename: "Statement.pdf", AttachmentID: "att-a"},
		},
	}
	orch.Run(context.Background(), intent)

	if len(ingestor.docs) != 1 {
		t.Fatalf("Expected 1 upload, got %d", len(ingestor.docs))
	}
	if ingestor.docs[0].meta.Title != "Statement" {
		t.Errorf("Expected derived title, got %q", ingestor.docs[0].meta.Title)
	}
}

func TestRun_NotifiesBatchSummaryOnlyForMultipleAttachments(t *testing.T) {
	t.Run("single attachment", func(t *testing.T) {
		notifier := &fakeNotifier{}
		orch := upload.NewOrchestrator(&fakeSource{}, &fakeIngestor{}, notifier)

		intent := quickIntent(gmail.Attachment{Filename: "a.pdf", AttachmentID: "att-a"})
		orch.Run(context.Background(), intent)

		for _, notice := range notifier.notices {
			if strings.Contains(notice, "document(s)") {
				t.Errorf("Expected no batch summary for single attachment, got %q", notice)
			}
		}
	})

	t.Run("multiple attachments", func(t *testing.T) {
		notifier := &fakeNotifier{}
		orch := upload.NewOrchestrator(&fakeSource{}, &fakeIngestor{}, notifier)

		intent := quickIntent(
			gmail.Attachment{Filename: "a.pdf", AttachmentID: "att-a"},
			gmail.Attachment{Filename: "b.pdf", AttachmentID: "att-b"},
		)
		orch.Run(context.Background(), intent)

		want := "Uploaded 2 document(s) to Paperless"
		found := false
		for _, notice := range notifier.notices {
			if notice == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected batch summary %q in notices %v", want, notifier.notices)
		}
	})
}

func TestUploadOne_ReportsDocumentID(t *testing.T) {
	orch := upload.NewOrchestrator(&fakeSource{}, &fakeIngestor{}, nil)

	intent := quickIntent(gmail.Attachment{Filename: "a.pdf", AttachmentID: "att-a"})
	outcome := orch.UploadOne(context.Background(), intent, intent.Attachments[0])

	if !outcome.Success {
		t.Fatalf("Expected success, got error %q", outcome.Err)
	}
	if want := "task-a.pdf"; outcome.Document != want {
		t.Errorf("Expected document %q, got %q", want, outcome.Document)
	}
}

func TestRun_NilNotifierDoesNotPanic(t *testing.T) {
	orch := upload.NewOrchestrator(&fakeSource{}, &fakeIngestor{}, nil)
	intent := quickIntent(
		gmail.Attachment{Filename: "a.pdf", AttachmentID: "att-a"},
		gmail.Attachment{Filename: "b.pdf", AttachmentID: "att-b"},
	)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Expected no panic, got %v", r)
		}
	}()
	summary, _ := orch.Run(context.Background(), intent)
	if summary.Succeeded != 2 {
		t.Errorf("Expected 2 successes, got %d", summary.Succeeded)
	}
}
