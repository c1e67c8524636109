package gmail

import (
	"context"
	"encoding/base64"

	"google.golang.org/api/gmail/v1"
)

// attachmentQuery restricts inbox listings to threads that carry attachments;
// the PDF filter still runs per message since filename: matching is lossy.
const attachmentQuery = "has:attachment"

// Client wraps the Gmail API service
type Client struct {
	srv *gmail.Service
}

// NewClient creates a new Gmail client
func NewClient(srv *gmail.Service) *Client {
	return &Client{srv: srv}
}

// ListInbox fetches inbox thread IDs for threads with attachments (without
// metadata for efficiency)
func (c *Client) ListInbox(
	ctx context.Context,
	limit int64,
	pageToken string,
) (*InboxResponse, error) {
	req := c.srv.Users.Threads.List("me").
		LabelIds("INBOX").
		Q(attachmentQuery).
		MaxResults(limit)

	if pageToken != "" {
		req = req.PageToken(pageToken)
	}

	res, err := req.Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	// Return thread stubs with just IDs (metadata not loaded)
	threads := make([]Thread, 0, len(res.Threads))
	for _, threadRef := range res.Threads {
		threads = append(threads, Thread{
			ThreadID: threadRef.Id,
			Loaded:   false,
		})
	}

	return &InboxResponse{
		Threads:       threads,
		NextPageToken: res.NextPageToken,
	}, nil
}

// GetThreadMetadata fetches metadata for a single thread (for lazy loading)
func (c *Client) GetThreadMetadata(ctx context.Context, threadID string) (*Thread, error) {
	thread, err := c.srv.Users.Threads.Get("me", threadID).
		Format("metadata").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	t := ThreadFromAPI(thread.Messages)
	if t != nil {
		t.Loaded = true
	}
	return t, nil
}

// GetThread fetches all messages in a thread with attachment metadata
func (c *Client) GetThread(ctx context.Context, threadID string) ([]Message, error) {
	thread, err := c.srv.Users.Threads.Get("me", threadID).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		messages = append(messages, *MessageFromAPI(msg))
	}

	return messages, nil
}

// GetMessage fetches a single message with attachment metadata
func (c *Client) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	msg, err := c.srv.Users.Messages.Get("me", messageID).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	return MessageFromAPI(msg), nil
}

// DownloadAttachment downloads an attachment and returns the raw bytes
func (c *Client) DownloadAttachment(
	ctx context.Context,
	messageID, attachmentID string,
) ([]byte, error) {
	attachment, err := c.srv.Users.Messages.Attachments.Get("me", messageID, attachmentID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	// Decode the base64 data
	data, err := base64.URLEncoding.DecodeString(attachment.Data)
	if err != nil {
		return base64.RawURLEncoding.DecodeString(attachment.Data)
	}

	return data, nil
}
