// Package bridge carries typed requests from transient dialog views to the
// long-lived upload coordinator and returns exactly one correlated response
// per recognized request. Dialogs never talk to the document service directly;
// the coordinator stays the single point of truth for the auth token and
// upload policy.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.withmatt.com/paperdrop/internal/gmail"
	"go.withmatt.com/paperdrop/internal/log"
	"go.withmatt.com/paperdrop/internal/paperless"
	"go.withmatt.com/paperdrop/internal/upload"
)

// Action discriminates request payloads.
type Action string

const (
	ActionQuickUploadFromDisplay    Action = "quickUploadFromDisplay"
	ActionAdvancedUploadFromDisplay Action = "advancedUploadFromDisplay"
	ActionQuickUploadSelected       Action = "quickUploadSelected"
	ActionUploadWithOptions         Action = "uploadWithOptions"
	ActionGetCorrespondents         Action = "getCorrespondents"
	ActionGetDocumentTypes          Action = "getDocumentTypes"
	ActionGetTags                   Action = "getTags"
)

// ErrUnhandled is returned for actions no handler claims. Unrecognized
// requests are not acknowledged; no response is fabricated for them.
var ErrUnhandled = errors.New("bridge: unhandled action")

// Request is one dialog-originated message. Only the fields relevant to the
// action are populated.
type Request struct {
	Action Action

	// Account indexes the mail account the message belongs to.
	Account int

	// quickUploadFromDisplay / advancedUploadFromDisplay
	MessageID string

	// quickUploadSelected / uploadWithOptions
	Message     upload.MessageRef
	Attachments []gmail.Attachment

	// uploadWithOptions
	Attachment gmail.Attachment
	Options    upload.Options
}

// Response always carries a success flag; on failure an error string, and for
// domain actions the action-specific payload.
type Response struct {
	Success bool
	Error   string

	Correspondents []paperless.Correspondent
	DocumentTypes  []paperless.DocumentType
	Tags           []paperless.Tag

	Result  *upload.Outcome
	Summary *upload.Summary
}

// Ok builds a bare success response.
func Ok() Response {
	return Response{Success: true}
}

// Fail builds an error response from err.
func Fail(err error) Response {
	return Response{Error: err.Error()}
}

// Handler processes one request. Handlers run on the caller's goroutine;
// multiple in-flight requests interleave freely and must not share mutable
// batch state.
type Handler func(ctx context.Context, req Request) Response

// Dispatcher routes requests through an explicit per-action handler table.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Action]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Action]Handler)}
}

// Handle registers the handler for an action, replacing any previous one.
func (d *Dispatcher) Handle(action Action, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[action] = handler
}

// Send delivers a request and returns its single response. A recognized action
// always yields exactly one response, even when the handler panics; an
// unrecognized action yields ErrUnhandled and nothing else.
func (d *Dispatcher) Send(ctx context.Context, req Request) (Response, error) {
	d.mu.RLock()
	handler := d.handlers[req.Action]
	d.mu.RUnlock()

	if handler == nil {
		return Response{}, ErrUnhandled
	}

	return normalize(run(ctx, handler, req)), nil
}

func run(ctx context.Context, handler Handler, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("bridge handler panic for %s: %v", req.Action, r)
			resp = Response{Error: fmt.Sprintf("internal error handling %s", req.Action)}
		}
	}()
	return handler(ctx, req)
}

// normalize guards against handlers that report failure without saying why;
// the caller always sees a usable error string.
func normalize(resp Response) Response {
	if !resp.Success && resp.Error == "" {
		resp.Error = "invalid response from handler"
	}
	return resp
}
