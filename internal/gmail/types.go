package gmail

import "time"

// Thread represents a conversation thread in the inbox
type Thread struct {
	ThreadID      string    `json:"thread_id"`
	Subject       string    `json:"subject"`
	From          string    `json:"from"`
	Snippet       string    `json:"snippet"`
	Date          time.Time `json:"date"`
	MessageCount  int       `json:"message_count"`
	Unread        bool      `json:"unread"`
	HasAttachment bool      `json:"has_attachment"`

	// Account tracking
	AccountIndex int    `json:"account_index"`
	AccountName  string `json:"account_name"`

	// Loaded indicates if metadata has been fetched (not serialized)
	Loaded bool `json:"-"`
}

// Message represents a single email message
type Message struct {
	ID          string       `json:"id"`
	ThreadID    string       `json:"thread_id"`
	From        string       `json:"from"`
	Subject     string       `json:"subject"`
	Date        time.Time    `json:"date"`
	Snippet     string       `json:"snippet"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment represents a file attachment. AttachmentID is the opaque handle
// the Gmail API needs to resolve the actual bytes later; nothing else
// interprets it.
type Attachment struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	AttachmentID string `json:"attachment_id,omitempty"`
}

// InboxResponse is returned from ListInbox
type InboxResponse struct {
	Threads       []Thread `json:"threads"`
	NextPageToken string   `json:"next_page_token,omitempty"`
}
