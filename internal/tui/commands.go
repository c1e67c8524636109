package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"golang.org/x/sync/errgroup"

	"go.withmatt.com/paperdrop/internal/bridge"
	"go.withmatt.com/paperdrop/internal/gmail"
	"go.withmatt.com/paperdrop/internal/paperless"
	"go.withmatt.com/paperdrop/internal/upload"
)

type inboxLoadSource int

const (
	inboxLoadInit inboxLoadSource = iota
	inboxLoadManual
	inboxLoadPage
)

type inboxLoadedMsg struct {
	threads       []gmail.Thread
	nextPageToken string
	append        bool // If true, append to existing threads instead of replacing
	source        inboxLoadSource
	err           error
}

type threadMetadataLoadedMsg struct {
	index        int
	threadID     string
	accountIndex int
	thread       *gmail.Thread
	err          error
}

// notificationMsg carries coordinator status text into the toast stack.
type notificationMsg struct {
	text string
}

type openSelectionDialogMsg struct {
	sessionID string
}

type openAdvancedDialogMsg struct {
	sessionID string
}

// quickUploadSentMsg is the response to a quick upload request. A nil err with
// a nil result means the coordinator took over (opened a dialog or found
// nothing to do).
type quickUploadSentMsg struct {
	resp bridge.Response
	err  error
}

type advancedUploadSentMsg struct {
	resp bridge.Response
	err  error
}

// selectionDoneMsg ends the selection dialog's upload run.
type selectionDoneMsg struct {
	resp bridge.Response
	err  error
}

// advancedDoneMsg ends the advanced dialog's upload run with per-attachment
// outcomes.
type advancedDoneMsg struct {
	outcomes []upload.Outcome
	err      error
}

type referenceListsLoadedMsg struct {
	correspondents []paperless.Correspondent
	documentTypes  []paperless.DocumentType
	tags           []paperless.Tag
	err            error
}

// entityCreatedMsg is posted back to the advanced form when a child creation
// dialog finishes. id is the server primary key of the created record.
type entityCreatedMsg struct {
	kind entityKind
	id   int64
	name string
	err  error
}

// loadInboxCmd loads the inbox asynchronously from all accounts and merges them
func (m *Model) loadInboxCmd(source inboxLoadSource) tea.Cmd {
	pageSize := int64(m.uiConfig.PageSize)
	return func() tea.Msg {
		m.logf("LoadInbox start accounts=%d", len(m.clients))
		if len(m.clients) == 0 {
			return inboxLoadedMsg{
				source: source,
				err:    errors.New("no accounts configured"),
			}
		}

		// Load from all accounts in parallel
		g, ctx := errgroup.WithContext(m.ctx)

		type accountResult struct {
			threads   []gmail.Thread
			pageToken string
			err       error
		}

		results := make([]accountResult, len(m.clients))

		for i := range m.clients {
			accountIndex := i
			g.Go(func() error {
				m.logf("ListInbox start account=%d", accountIndex)
				inbox, err := m.clients[accountIndex].ListInbox(ctx, pageSize, "")
				if err != nil {
					m.logf("ListInbox error account=%d err=%v", accountIndex, err)
					results[accountIndex] = accountResult{err: err}
					return nil // Don't fail entire group on single account error
				}
				results[accountIndex] = accountResult{
					threads:   inbox.Threads,
					pageToken: inbox.NextPageToken,
				}
				m.logf(
					"ListInbox done account=%d threads=%d next=%s",
					accountIndex,
					len(inbox.Threads),
					inbox.NextPageToken,
				)
				return nil
			})
		}

		g.Wait()

		for _, result := range results {
			if result.err != nil {
				return inboxLoadedMsg{source: source, err: result.err}
			}
		}

		// Merge threads from all accounts and tag with account info
		var allThreads []gmail.Thread
		for accountIndex, result := range results {
			for i := range result.threads {
				result.threads[i].AccountIndex = accountIndex
				result.threads[i].AccountName = m.accountNames[accountIndex]
			}
			allThreads = append(allThreads, result.threads...)
		}

		// Pagination past the first page only follows the first account.
		nextPageToken := ""
		if len(results) == 1 {
			nextPageToken = results[0].pageToken
		}

		return inboxLoadedMsg{
			threads:       allThreads,
			nextPageToken: nextPageToken,
			append:        false,
			source:        source,
		}
	}
}

// loadMoreThreadsCmd loads the next page of threads
func (m *Model) loadMoreThreadsCmd() tea.Cmd {
	if m.inbox.nextPageToken == "" {
		return nil
	}

	pageToken := m.inbox.nextPageToken
	pageSize := int64(m.uiConfig.PageSize)
	return func() tea.Msg {
		inbox, err := m.clients[0].ListInbox(m.ctx, pageSize, pageToken)
		if err != nil {
			return inboxLoadedMsg{err: err, append: true, source: inboxLoadPage}
		}
		for i := range inbox.Threads {
			inbox.Threads[i].AccountIndex = 0
			inbox.Threads[i].AccountName = m.accountNames[0]
		}
		return inboxLoadedMsg{
			threads:       inbox.Threads,
			nextPageToken: inbox.NextPageToken,
			append:        true,
			source:        inboxLoadPage,
		}
	}
}

type loadRequest struct {
	index        int
	threadID     string
	accountIndex int
}

// loadAllThreadsMetadataCmd loads metadata for every unloaded thread,
// streaming results back as they complete
func (m *Model) loadAllThreadsMetadataCmd(force bool) tea.Cmd {
	var toLoad []loadRequest
	for i := range m.inbox.threads {
		if !m.inbox.threads[i].Loaded || force {
			toLoad = append(toLoad, loadRequest{
				index:        i,
				threadID:     m.inbox.threads[i].ThreadID,
				accountIndex: m.inbox.threads[i].AccountIndex,
			})
		}
	}

	if len(toLoad) == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(toLoad))
	for _, req := range toLoad {
		cmds = append(cmds, m.loadSingleThreadMetadataCmd(req))
	}

	return tea.Batch(cmds...)
}

func (m *Model) loadSingleThreadMetadataCmd(req loadRequest) tea.Cmd {
	return func() tea.Msg {
		thread, err := m.clients[req.accountIndex].GetThreadMetadata(m.ctx, req.threadID)
		return threadMetadataLoadedMsg{
			index:        req.index,
			threadID:     req.threadID,
			accountIndex: req.accountIndex,
			thread:       thread,
			err:          err,
		}
	}
}

// displayMessageID resolves the thread to the message a user would act on:
// the newest message carrying attachments, else the newest message.
func (m *Model) displayMessageID(thread gmail.Thread) (string, error) {
	messages, err := m.clients[thread.AccountIndex].GetThread(m.ctx, thread.ThreadID)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", errors.New("thread has no messages")
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if len(messages[i].Attachments) > 0 {
			return messages[i].ID, nil
		}
	}
	return messages[len(messages)-1].ID, nil
}

// quickUploadCmd asks the coordinator to quick-upload from the highlighted
// thread. The coordinator decides between direct upload and the selection
// dialog; progress comes back as notifications either way.
func (m *Model) quickUploadCmd(thread gmail.Thread) tea.Cmd {
	return func() tea.Msg {
		messageID, err := m.displayMessageID(thread)
		if err != nil {
			return quickUploadSentMsg{err: err}
		}
		resp, err := m.dispatcher.Send(m.ctx, bridge.Request{
			Action:    bridge.ActionQuickUploadFromDisplay,
			Account:   thread.AccountIndex,
			MessageID: messageID,
		})
		return quickUploadSentMsg{resp: resp, err: err}
	}
}

func (m *Model) advancedUploadCmd(thread gmail.Thread) tea.Cmd {
	return func() tea.Msg {
		messageID, err := m.displayMessageID(thread)
		if err != nil {
			return advancedUploadSentMsg{err: err}
		}
		resp, err := m.dispatcher.Send(m.ctx, bridge.Request{
			Action:    bridge.ActionAdvancedUploadFromDisplay,
			Account:   thread.AccountIndex,
			MessageID: messageID,
		})
		return advancedUploadSentMsg{resp: resp, err: err}
	}
}

// uploadSelectedCmd uploads the subset the selection dialog picked.
func (m *Model) uploadSelectedCmd(
	intent upload.Intent,
	picked []gmail.Attachment,
) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.dispatcher.Send(m.ctx, bridge.Request{
			Action:      bridge.ActionQuickUploadSelected,
			Account:     intent.Account,
			Message:     intent.Message,
			Attachments: picked,
		})
		return selectionDoneMsg{resp: resp, err: err}
	}
}

// uploadWithOptionsCmd uploads every attachment in the advanced batch, one
// request per attachment, and gathers the outcomes.
func (m *Model) uploadWithOptionsCmd(intent upload.Intent, opts upload.Options) tea.Cmd {
	return func() tea.Msg {
		outcomes := make([]upload.Outcome, 0, len(intent.Attachments))
		for _, att := range intent.Attachments {
			resp, err := m.dispatcher.Send(m.ctx, bridge.Request{
				Action:     bridge.ActionUploadWithOptions,
				Account:    intent.Account,
				Message:    intent.Message,
				Attachment: att,
				Options:    opts,
			})
			if err != nil {
				return advancedDoneMsg{outcomes: outcomes, err: err}
			}
			if resp.Result != nil {
				outcomes = append(outcomes, *resp.Result)
				continue
			}
			outcomes = append(outcomes, upload.Outcome{
				AttachmentName: att.Filename,
				Success:        resp.Success,
				Err:            resp.Error,
			})
		}
		return advancedDoneMsg{outcomes: outcomes}
	}
}

// loadReferenceListsCmd fetches correspondents, document types and tags in
// parallel for the advanced form.
func (m *Model) loadReferenceListsCmd() tea.Cmd {
	return func() tea.Msg {
		var loaded referenceListsLoadedMsg

		g, ctx := errgroup.WithContext(m.ctx)
		g.Go(func() error {
			resp, err := m.dispatcher.Send(ctx, bridge.Request{
				Action: bridge.ActionGetCorrespondents,
			})
			if err != nil {
				return err
			}
			if !resp.Success {
				return errors.New(resp.Error)
			}
			loaded.correspondents = resp.Correspondents
			return nil
		})
		g.Go(func() error {
			resp, err := m.dispatcher.Send(ctx, bridge.Request{
				Action: bridge.ActionGetDocumentTypes,
			})
			if err != nil {
				return err
			}
			if !resp.Success {
				return errors.New(resp.Error)
			}
			loaded.documentTypes = resp.DocumentTypes
			return nil
		})
		g.Go(func() error {
			resp, err := m.dispatcher.Send(ctx, bridge.Request{
				Action: bridge.ActionGetTags,
			})
			if err != nil {
				return err
			}
			if !resp.Success {
				return errors.New(resp.Error)
			}
			loaded.tags = resp.Tags
			return nil
		})

		loaded.err = g.Wait()
		return loaded
	}
}

// createEntityCmd creates a correspondent or document type from a child
// dialog.
func (m *Model) createEntityCmd(kind entityKind, name string, autoMatch bool) tea.Cmd {
	return func() tea.Msg {
		switch kind {
		case entityCorrespondent:
			created, err := m.coord.CreateCorrespondent(m.ctx, name, autoMatch)
			if err != nil {
				return entityCreatedMsg{kind: kind, name: name, err: err}
			}
			return entityCreatedMsg{kind: kind, id: created.ID, name: created.Name}
		case entityDocumentType:
			created, err := m.coord.CreateDocumentType(m.ctx, name, autoMatch)
			if err != nil {
				return entityCreatedMsg{kind: kind, name: name, err: err}
			}
			return entityCreatedMsg{kind: kind, id: created.ID, name: created.Name}
		default:
			return entityCreatedMsg{kind: kind, name: name, err: errors.New("unknown entity kind")}
		}
	}
}

// openWebCmd opens the Paperless web UI in the system browser.
func (m *Model) openWebCmd() tea.Cmd {
	url := m.serviceURL
	return func() tea.Msg {
		if err := browser.OpenURL(url); err != nil {
			return notificationMsg{text: "Could not open browser: " + err.Error()}
		}
		return nil
	}
}
