package coordinator_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"go.withmatt.com/paperdrop/internal/bridge"
	"go.withmatt.com/paperdrop/internal/cache"
	"go.withmatt.com/paperdrop/internal/coordinator"
	"go.withmatt.com/paperdrop/internal/gmail"
	"go.withmatt.com/paperdrop/internal/paperless"
	"go.withmatt.com/paperdrop/internal/upload"
)

type fakeHost struct {
	messages map[string]*gmail.Message
	getErr   error
}

func (h *fakeHost) GetMessage(ctx context.Context, messageID string) (*gmail.Message, error) {
	if h.getErr != nil {
		return nil, h.getErr
	}
	msg, ok := h.messages[messageID]
	if !ok {
		return nil, fmt.Errorf("unknown message %s", messageID)
	}
	return msg, nil
}

func (h *fakeHost) DownloadAttachment(
	ctx context.Context,
	messageID, attachmentID string,
) ([]byte, error) {
	return []byte("%PDF-1.4 " + attachmentID), nil
}

type fakeWindows struct {
	selectionIDs []string
	advancedIDs  []string
}

func (w *fakeWindows) OpenSelectionDialog(sessionID string) {
	w.selectionIDs = append(w.selectionIDs, sessionID)
}

func (w *fakeWindows) OpenAdvancedDialog(sessionID string) {
	w.advancedIDs = append(w.advancedIDs, sessionID)
}

type fakeNotifier struct {
	texts []string
}

func (n *fakeNotifier) Notify(text string) {
	n.texts = append(n.texts, text)
}

// paperlessStub counts post_document hits and serves canned reference lists.
func paperlessStub(t *testing.T, listFail *atomic.Bool) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var uploads atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if listFail != nil && listFail.Load() && r.URL.Path != "/api/documents/post_document/" {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		switch r.URL.Path {
		case "/api/documents/post_document/":
			uploads.Add(1)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, "%q", fmt.Sprintf("task-%d", uploads.Load()))
		case "/api/correspondents/":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"results":[{"id":1,"name":"Utility Co"}]}`)
		case "/api/document_types/":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"results":[{"id":3,"name":"Invoice"}]}`)
		case "/api/tags/":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"results":[{"id":7,"name":"email"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &uploads
}

type fixture struct {
	dispatcher *bridge.Dispatcher
	sessions   *bridge.Sessions
	windows    *fakeWindows
	notifier   *fakeNotifier
	coord      *coordinator.Coordinator
	uploads    *atomic.Int64
	lists      *cache.Store
}

func newFixture(t *testing.T, host coordinator.MailHost, listFail *atomic.Bool) *fixture {
	t.Helper()
	srv, uploads := paperlessStub(t, listFail)

	lists, err := cache.OpenPath(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	t.Cleanup(func() { lists.Close() })

	f := &fixture{
		dispatcher: bridge.NewDispatcher(),
		sessions:   bridge.NewSessions(),
		windows:    &fakeWindows{},
		notifier:   &fakeNotifier{},
		uploads:    uploads,
		lists:      lists,
	}
	docs := paperless.NewClient(srv.URL, "secret", srv.Client())
	f.coord = coordinator.New(
		[]coordinator.MailHost{host},
		docs, f.sessions, lists, f.notifier, f.windows,
	)
	f.coord.Register(f.dispatcher)
	return f
}

func singlePDFHost() *fakeHost {
	return &fakeHost{messages: map[string]*gmail.Message{
		"msg-1": {
			ID:      "msg-1",
			Subject: "March invoice",
			From:    "billing@example.com",
			Attachments: []gmail.Attachment{
				{Filename: "invoice.pdf", MimeType: "application/pdf", AttachmentID: "att-1"},
			},
		},
	}}
}

func multiPDFHost() *fakeHost {
	return &fakeHost{messages: map[string]*gmail.Message{
		"msg-2": {
			ID:      "msg-2",
			Subject: "Quarterly documents",
			From:    "office@example.com",
			Attachments: []gmail.Attachment{
				{Filename: "report.pdf", MimeType: "application/pdf", AttachmentID: "att-1"},
				{Filename: "photo.jpg", MimeType: "image/jpeg", AttachmentID: "att-2"},
				{Filename: "receipt.pdf", MimeType: "application/pdf", AttachmentID: "att-3"},
			},
		},
	}}
}

func TestQuickUpload_SinglePDFUploadsImmediately(t *testing.T) {
	f := newFixture(t, singlePDFHost(), nil)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action:    bridge.ActionQuickUploadFromDisplay,
		MessageID: "msg-1",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success, got error %q", resp.Error)
	}
	if resp.Result == nil || !resp.Result.Success {
		t.Fatalf("Expected a successful outcome, got %+v", resp.Result)
	}
	if resp.Result.AttachmentName != "invoice.pdf" {
		t.Errorf("Expected outcome for invoice.pdf, got %q", resp.Result.AttachmentName)
	}
	if got := f.uploads.Load(); got != 1 {
		t.Errorf("Expected 1 upload, got %d", got)
	}
	if len(f.windows.selectionIDs) != 0 {
		t.Error("Expected no selection dialog for a single PDF")
	}
}

func TestQuickUpload_MultiplePDFsOpenSelectionDialog(t *testing.T) {
	f := newFixture(t, multiPDFHost(), nil)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action:    bridge.ActionQuickUploadFromDisplay,
		MessageID: "msg-2",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success, got error %q", resp.Error)
	}
	if got := f.uploads.Load(); got != 0 {
		t.Errorf("Expected no uploads before selection, got %d", got)
	}
	if len(f.windows.selectionIDs) != 1 {
		t.Fatalf("Expected 1 selection dialog, got %d", len(f.windows.selectionIDs))
	}

	intent, ok := f.sessions.Take(f.windows.selectionIDs[0])
	if !ok {
		t.Fatal("Expected the session to be retrievable")
	}
	if intent.Mode != upload.ModeQuick {
		t.Errorf("Expected quick mode, got %v", intent.Mode)
	}
	if len(intent.Attachments) != 2 {
		t.Fatalf("Expected 2 PDF attachments, got %d", len(intent.Attachments))
	}
	if intent.Attachments[0].Filename != "report.pdf" || intent.Attachments[1].Filename != "receipt.pdf" {
		t.Errorf("Expected non-PDFs filtered out in order, got %v", intent.Attachments)
	}
}

func TestAdvancedUpload_OpensDialogWithAllPDFs(t *testing.T) {
	f := newFixture(t, multiPDFHost(), nil)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action:    bridge.ActionAdvancedUploadFromDisplay,
		MessageID: "msg-2",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success, got error %q", resp.Error)
	}
	if len(f.windows.advancedIDs) != 1 {
		t.Fatalf("Expected 1 advanced dialog, got %d", len(f.windows.advancedIDs))
	}

	intent, ok := f.sessions.Take(f.windows.advancedIDs[0])
	if !ok {
		t.Fatal("Expected the session to be retrievable")
	}
	if intent.Mode != upload.ModeAdvanced {
		t.Errorf("Expected advanced mode, got %v", intent.Mode)
	}
	if len(intent.Attachments) != 2 {
		t.Errorf("Expected every PDF included, got %d", len(intent.Attachments))
	}
	if intent.Message.Subject != "Quarterly documents" {
		t.Errorf("Expected message context carried, got %q", intent.Message.Subject)
	}
}

func TestQuickUpload_NoPDFsEndsWithNotice(t *testing.T) {
	host := &fakeHost{messages: map[string]*gmail.Message{
		"msg-3": {
			ID: "msg-3",
			Attachments: []gmail.Attachment{
				{Filename: "photo.jpg", MimeType: "image/jpeg", AttachmentID: "att-1"},
			},
		},
	}}
	f := newFixture(t, host, nil)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action:    bridge.ActionQuickUploadFromDisplay,
		MessageID: "msg-3",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected a non-error end, got %q", resp.Error)
	}
	if got := f.uploads.Load(); got != 0 {
		t.Errorf("Expected no uploads, got %d", got)
	}
	found := false
	for _, text := range f.notifier.texts {
		if text == "No PDF attachments found in selected message" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected the no-PDF notice, got %v", f.notifier.texts)
	}
}

func TestQuickUpload_UnconfiguredServiceNeverTouchesMail(t *testing.T) {
	host := singlePDFHost()
	sessions := bridge.NewSessions()
	windows := &fakeWindows{}
	notifier := &fakeNotifier{}
	dispatcher := bridge.NewDispatcher()

	docs := paperless.NewClient("", "", nil)
	coord := coordinator.New(
		[]coordinator.MailHost{host},
		docs, sessions, nil, notifier, windows,
	)
	coord.Register(dispatcher)

	resp, err := dispatcher.Send(context.Background(), bridge.Request{
		Action:    bridge.ActionQuickUploadFromDisplay,
		MessageID: "msg-1",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Success {
		t.Fatal("Expected failure when the service is unconfigured")
	}
	if resp.Error != paperless.ErrNotConfigured.Error() {
		t.Errorf("Expected the not-configured error, got %q", resp.Error)
	}
	found := false
	for _, text := range notifier.texts {
		if text == "Please configure Paperless settings first" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected the configuration prompt, got %v", notifier.texts)
	}
}

func TestQuickUpload_MessageFetchErrorFails(t *testing.T) {
	f := newFixture(t, &fakeHost{getErr: errors.New("gmail unavailable")}, nil)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action:    bridge.ActionQuickUploadFromDisplay,
		MessageID: "msg-1",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Success {
		t.Fatal("Expected failure when the message cannot be read")
	}
	found := false
	for _, text := range f.notifier.texts {
		if text == "Error reading message attachments" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected the read-error notice, got %v", f.notifier.texts)
	}
}

func TestQuickUpload_UnknownAccountFails(t *testing.T) {
	f := newFixture(t, singlePDFHost(), nil)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action:    bridge.ActionQuickUploadFromDisplay,
		Account:   4,
		MessageID: "msg-1",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Success {
		t.Fatal("Expected failure for an out-of-range account index")
	}
}

func TestQuickUploadSelected_UploadsExactlyTheSubset(t *testing.T) {
	f := newFixture(t, multiPDFHost(), nil)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action:  bridge.ActionQuickUploadSelected,
		Message: upload.MessageRef{ID: "msg-2", Subject: "Quarterly documents"},
		Attachments: []gmail.Attachment{
			{Filename: "receipt.pdf", MimeType: "application/pdf", AttachmentID: "att-3"},
		},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success, got error %q", resp.Error)
	}
	if resp.Summary == nil {
		t.Fatal("Expected a batch summary")
	}
	if resp.Summary.Succeeded != 1 || resp.Summary.Failed != 0 {
		t.Errorf("Expected 1 success and 0 failures, got %+v", resp.Summary)
	}
	if got := f.uploads.Load(); got != 1 {
		t.Errorf("Expected exactly 1 upload, got %d", got)
	}
}

func TestQuickUploadSelected_EmptySelectionFails(t *testing.T) {
	f := newFixture(t, multiPDFHost(), nil)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action:  bridge.ActionQuickUploadSelected,
		Message: upload.MessageRef{ID: "msg-2"},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Success {
		t.Fatal("Expected failure for an empty selection")
	}
	if got := f.uploads.Load(); got != 0 {
		t.Errorf("Expected no uploads, got %d", got)
	}
}

func TestUploadWithOptions_ReturnsPerAttachmentResult(t *testing.T) {
	f := newFixture(t, multiPDFHost(), nil)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action:     bridge.ActionUploadWithOptions,
		Message:    upload.MessageRef{ID: "msg-2", Subject: "Quarterly documents"},
		Attachment: gmail.Attachment{Filename: "report.pdf", MimeType: "application/pdf", AttachmentID: "att-1"},
		Options:    upload.Options{Title: "Q1 Report", Tags: []string{"email"}},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success, got error %q", resp.Error)
	}
	if resp.Result == nil || resp.Result.AttachmentName != "report.pdf" {
		t.Fatalf("Expected a result for report.pdf, got %+v", resp.Result)
	}
	if resp.Result.Document == "" {
		t.Error("Expected a document reference in the result")
	}
}

func TestGetLists_FetchesAndCaches(t *testing.T) {
	f := newFixture(t, singlePDFHost(), nil)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action: bridge.ActionGetCorrespondents,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success, got error %q", resp.Error)
	}
	if len(resp.Correspondents) != 1 || resp.Correspondents[0].Name != "Utility Co" {
		t.Fatalf("Expected the served correspondent list, got %v", resp.Correspondents)
	}

	var cached []paperless.Correspondent
	if _, ok := f.lists.Get(cache.KindCorrespondents, &cached); !ok {
		t.Fatal("Expected the list to be cached after a fetch")
	}
	if len(cached) != 1 || cached[0].Name != "Utility Co" {
		t.Errorf("Expected the cached copy to match, got %v", cached)
	}
}

func TestGetLists_ServesCacheWhenFetchFails(t *testing.T) {
	var listFail atomic.Bool
	f := newFixture(t, singlePDFHost(), &listFail)
	ctx := context.Background()

	if _, err := f.dispatcher.Send(ctx, bridge.Request{Action: bridge.ActionGetTags}); err != nil {
		t.Fatalf("Warm-up Send failed: %v", err)
	}

	listFail.Store(true)
	resp, err := f.dispatcher.Send(ctx, bridge.Request{Action: bridge.ActionGetTags})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected the cached fallback to succeed, got %q", resp.Error)
	}
	if len(resp.Tags) != 1 || resp.Tags[0].Name != "email" {
		t.Errorf("Expected the cached tags, got %v", resp.Tags)
	}
}

func TestGetLists_FailsWithoutCache(t *testing.T) {
	var listFail atomic.Bool
	listFail.Store(true)
	f := newFixture(t, singlePDFHost(), &listFail)

	resp, err := f.dispatcher.Send(context.Background(), bridge.Request{
		Action: bridge.ActionGetDocumentTypes,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Success {
		t.Fatal("Expected failure with no cache to fall back on")
	}
	if resp.Error == "" {
		t.Error("Expected an error message")
	}
}
