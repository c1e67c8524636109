// Package coordinator is the long-lived process behind the dialogs: it owns
// the document service client, resolves attachment bytes from the mail host,
// and serves every bridge action. Dialogs only ever see bridge responses.
package coordinator

import (
	"context"
	"errors"
	"fmt"

	"go.withmatt.com/paperdrop/internal/bridge"
	"go.withmatt.com/paperdrop/internal/cache"
	"go.withmatt.com/paperdrop/internal/gmail"
	"go.withmatt.com/paperdrop/internal/log"
	"go.withmatt.com/paperdrop/internal/paperless"
	"go.withmatt.com/paperdrop/internal/upload"
)

// MailHost is the surface consumed from the mail side: message lookup and
// attachment byte resolution. *gmail.Client satisfies it.
type MailHost interface {
	GetMessage(ctx context.Context, messageID string) (*gmail.Message, error)
	DownloadAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// WindowOpener opens a transient dialog for a pending session. The session id
// is the only thing the dialog needs to hydrate itself.
type WindowOpener interface {
	OpenSelectionDialog(sessionID string)
	OpenAdvancedDialog(sessionID string)
}

// Coordinator registers and serves the bridge handlers.
type Coordinator struct {
	mail     []MailHost
	docs     *paperless.Client
	sessions *bridge.Sessions
	lists    *cache.Store
	notify   upload.Notifier
	windows  WindowOpener
}

func New(
	mail []MailHost,
	docs *paperless.Client,
	sessions *bridge.Sessions,
	lists *cache.Store,
	notify upload.Notifier,
	windows WindowOpener,
) *Coordinator {
	return &Coordinator{
		mail:     mail,
		docs:     docs,
		sessions: sessions,
		lists:    lists,
		notify:   notify,
		windows:  windows,
	}
}

// Register installs a handler for every recognized action. Anything else the
// dispatcher refuses on its own.
func (c *Coordinator) Register(d *bridge.Dispatcher) {
	d.Handle(bridge.ActionQuickUploadFromDisplay, c.handleQuickUpload)
	d.Handle(bridge.ActionAdvancedUploadFromDisplay, c.handleAdvancedUpload)
	d.Handle(bridge.ActionQuickUploadSelected, c.handleQuickUploadSelected)
	d.Handle(bridge.ActionUploadWithOptions, c.handleUploadWithOptions)
	d.Handle(bridge.ActionGetCorrespondents, c.handleGetCorrespondents)
	d.Handle(bridge.ActionGetDocumentTypes, c.handleGetDocumentTypes)
	d.Handle(bridge.ActionGetTags, c.handleGetTags)
}

func (c *Coordinator) host(account int) (MailHost, error) {
	if account < 0 || account >= len(c.mail) {
		return nil, fmt.Errorf("no mail account at index %d", account)
	}
	return c.mail[account], nil
}

// handleQuickUpload drives the quick path for a displayed message: a single
// PDF uploads immediately, several open the selection dialog.
func (c *Coordinator) handleQuickUpload(ctx context.Context, req bridge.Request) bridge.Response {
	host, intent, resp := c.collect(ctx, req, upload.ModeQuick)
	if host == nil {
		return resp
	}

	if len(intent.Attachments) == 1 {
		orch := upload.NewOrchestrator(host, c.docs, c.notify)
		outcome := orch.UploadOne(ctx, intent, intent.Attachments[0])
		return bridge.Response{Success: true, Result: &outcome}
	}

	sessionID := c.sessions.Put(intent)
	c.windows.OpenSelectionDialog(sessionID)
	return bridge.Ok()
}

// handleAdvancedUpload always opens the metadata dialog; every PDF in the
// message is included, selection is implicit.
func (c *Coordinator) handleAdvancedUpload(ctx context.Context, req bridge.Request) bridge.Response {
	host, intent, resp := c.collect(ctx, req, upload.ModeAdvanced)
	if host == nil {
		return resp
	}

	sessionID := c.sessions.Put(intent)
	c.windows.OpenAdvancedDialog(sessionID)
	return bridge.Ok()
}

// collect is the shared entry step: configuration gate, message lookup, PDF
// filtering. A nil host in the return means the response is already final.
func (c *Coordinator) collect(
	ctx context.Context,
	req bridge.Request,
	mode upload.Mode,
) (MailHost, upload.Intent, bridge.Response) {
	if !c.docs.Configured() {
		c.notifyText("Please configure Paperless settings first")
		return nil, upload.Intent{}, bridge.Fail(paperless.ErrNotConfigured)
	}

	host, err := c.host(req.Account)
	if err != nil {
		return nil, upload.Intent{}, bridge.Fail(err)
	}

	msg, err := host.GetMessage(ctx, req.MessageID)
	if err != nil {
		c.notifyText("Error reading message attachments")
		return nil, upload.Intent{}, bridge.Fail(err)
	}

	pdfs := upload.FilterPDF(msg.Attachments)
	if len(pdfs) == 0 {
		// Informational, not an error; the batch just ends here.
		c.notifyText("No PDF attachments found in selected message")
		return nil, upload.Intent{}, bridge.Ok()
	}

	intent := upload.Intent{
		Mode: mode,
		Message: upload.MessageRef{
			ID:      msg.ID,
			Subject: msg.Subject,
			Author:  msg.From,
			Date:    msg.Date,
		},
		Attachments: pdfs,
		Account:     req.Account,
	}
	return host, intent, bridge.Response{}
}

// handleQuickUploadSelected fans out over the subset a selection dialog chose
// and answers with the aggregate counts.
func (c *Coordinator) handleQuickUploadSelected(
	ctx context.Context,
	req bridge.Request,
) bridge.Response {
	if !c.docs.Configured() {
		c.notifyText("Please configure Paperless settings first")
		return bridge.Fail(paperless.ErrNotConfigured)
	}
	host, err := c.host(req.Account)
	if err != nil {
		return bridge.Fail(err)
	}
	if len(req.Attachments) == 0 {
		return bridge.Fail(errors.New("no attachments selected"))
	}

	intent := upload.Intent{
		Mode:        upload.ModeQuick,
		Message:     req.Message,
		Attachments: req.Attachments,
		Account:     req.Account,
	}

	orch := upload.NewOrchestrator(host, c.docs, c.notify)
	summary, _ := orch.Run(ctx, intent)
	return bridge.Response{Success: true, Summary: &summary}
}

// handleUploadWithOptions uploads one attachment with the metadata the
// advanced dialog submitted and returns that single result.
func (c *Coordinator) handleUploadWithOptions(
	ctx context.Context,
	req bridge.Request,
) bridge.Response {
	if !c.docs.Configured() {
		return bridge.Fail(paperless.ErrNotConfigured)
	}
	host, err := c.host(req.Account)
	if err != nil {
		return bridge.Fail(err)
	}

	intent := upload.Intent{
		Mode:    upload.ModeAdvanced,
		Message: req.Message,
		Options: req.Options,
		Account: req.Account,
	}

	orch := upload.NewOrchestrator(host, c.docs, c.notify)
	outcome := orch.UploadOne(ctx, intent, req.Attachment)
	return bridge.Response{
		Success: outcome.Success,
		Error:   outcome.Err,
		Result:  &outcome,
	}
}

func (c *Coordinator) handleGetCorrespondents(
	ctx context.Context,
	req bridge.Request,
) bridge.Response {
	items, err := c.docs.ListCorrespondents(ctx)
	if err == nil {
		c.cacheList(cache.KindCorrespondents, items)
		return bridge.Response{Success: true, Correspondents: items}
	}

	var cached []paperless.Correspondent
	if _, ok := c.lists.Get(cache.KindCorrespondents, &cached); ok {
		log.Printf("serving cached correspondents after fetch error: %v", err)
		return bridge.Response{Success: true, Correspondents: cached}
	}
	return bridge.Fail(err)
}

func (c *Coordinator) handleGetDocumentTypes(
	ctx context.Context,
	req bridge.Request,
) bridge.Response {
	items, err := c.docs.ListDocumentTypes(ctx)
	if err == nil {
		c.cacheList(cache.KindDocumentTypes, items)
		return bridge.Response{Success: true, DocumentTypes: items}
	}

	var cached []paperless.DocumentType
	if _, ok := c.lists.Get(cache.KindDocumentTypes, &cached); ok {
		log.Printf("serving cached document types after fetch error: %v", err)
		return bridge.Response{Success: true, DocumentTypes: cached}
	}
	return bridge.Fail(err)
}

func (c *Coordinator) handleGetTags(ctx context.Context, req bridge.Request) bridge.Response {
	items, err := c.docs.ListTags(ctx)
	if err == nil {
		c.cacheList(cache.KindTags, items)
		return bridge.Response{Success: true, Tags: items}
	}

	var cached []paperless.Tag
	if _, ok := c.lists.Get(cache.KindTags, &cached); ok {
		log.Printf("serving cached tags after fetch error: %v", err)
		return bridge.Response{Success: true, Tags: cached}
	}
	return bridge.Fail(err)
}

// CreateCorrespondent creates a correspondent on behalf of a child dialog.
func (c *Coordinator) CreateCorrespondent(
	ctx context.Context,
	name string,
	autoMatch bool,
) (*paperless.Correspondent, error) {
	return c.docs.CreateCorrespondent(ctx, name, autoMatch)
}

// CreateDocumentType creates a document type on behalf of a child dialog.
func (c *Coordinator) CreateDocumentType(
	ctx context.Context,
	name string,
	autoMatch bool,
) (*paperless.DocumentType, error) {
	return c.docs.CreateDocumentType(ctx, name, autoMatch)
}

func (c *Coordinator) cacheList(kind string, value any) {
	if err := c.lists.Set(kind, value); err != nil {
		log.Printf("unable to cache %s: %v", kind, err)
	}
}

func (c *Coordinator) notifyText(text string) {
	if c.notify != nil {
		c.notify.Notify(text)
	}
}
