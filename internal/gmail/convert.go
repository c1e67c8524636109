package gmail

import (
	"slices"
	"time"

	"google.golang.org/api/gmail/v1"
)

// ThreadFromAPI converts Gmail API messages to our Thread type
func ThreadFromAPI(messages []*gmail.Message) *Thread {
	if len(messages) == 0 {
		return nil
	}

	// Use the latest message for most fields
	latest := messages[0]
	for _, msg := range messages {
		if msg.InternalDate > latest.InternalDate {
			latest = msg
		}
	}

	thread := &Thread{
		ThreadID:     latest.ThreadId,
		Snippet:      latest.Snippet,
		Date:         time.UnixMilli(latest.InternalDate),
		MessageCount: len(messages),
	}

	for _, msg := range messages {
		if slices.Contains(msg.LabelIds, "UNREAD") {
			thread.Unread = true
		}
	}

	if latest.Payload != nil {
		for _, header := range latest.Payload.Headers {
			switch header.Name {
			case "Subject":
				thread.Subject = header.Value
			case "From":
				thread.From = header.Value
			}
		}

		thread.HasAttachment = hasAttachments(latest.Payload)
	}

	return thread
}

// MessageFromAPI converts a Gmail API message to our Message type
func MessageFromAPI(msg *gmail.Message) *Message {
	message := &Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		Date:     time.UnixMilli(msg.InternalDate),
	}

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			switch header.Name {
			case "From":
				message.From = header.Value
			case "Subject":
				message.Subject = header.Value
			}
		}

		message.Attachments = extractAttachments(msg.Payload)
	}

	return message
}

// hasAttachments checks if a message payload has attachments
func hasAttachments(payload *gmail.MessagePart) bool {
	if payload.Filename != "" && payload.Body != nil && payload.Body.AttachmentId != "" {
		return true
	}

	return slices.ContainsFunc(payload.Parts, hasAttachments)
}

// extractAttachments walks the MIME parts and collects attachment metadata
func extractAttachments(payload *gmail.MessagePart) []Attachment {
	var attachments []Attachment

	if payload.Filename != "" && payload.Body != nil {
		if payload.Body.AttachmentId != "" {
			attachments = append(attachments, Attachment{
				Filename:     payload.Filename,
				MimeType:     payload.MimeType,
				Size:         payload.Body.Size,
				AttachmentID: payload.Body.AttachmentId,
			})
		}
		return attachments
	}

	for _, part := range payload.Parts {
		attachments = append(attachments, extractAttachments(part)...)
	}

	return attachments
}
