package upload

import (
	"strings"

	"go.withmatt.com/paperdrop/internal/gmail"
)

const pdfMimeType = "application/pdf"

// IsPDF reports whether an attachment qualifies for upload: declared PDF MIME
// type, or a .pdf filename suffix (case-insensitive).
func IsPDF(att gmail.Attachment) bool {
	if strings.EqualFold(att.MimeType, pdfMimeType) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(att.Filename), ".pdf")
}

// FilterPDF selects the PDF attachments from a list, preserving order. Empty
// input yields empty output.
func FilterPDF(attachments []gmail.Attachment) []gmail.Attachment {
	pdfs := make([]gmail.Attachment, 0, len(attachments))
	for _, att := range attachments {
		if IsPDF(att) {
			pdfs = append(pdfs, att)
		}
	}
	return pdfs
}

// DeriveTitle strips a trailing .pdf suffix (case-insensitive) from a filename
// to produce the default document title.
func DeriveTitle(filename string) string {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return filename[:len(filename)-len(".pdf")]
	}
	return filename
}
