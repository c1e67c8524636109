package paperless

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
)

// ErrNotConfigured is returned before any network I/O when the service URL or
// API token is missing.
var ErrNotConfigured = errors.New("paperless service not configured")

// Client talks to a Paperless-ngx instance. Transport failures and non-2xx
// responses are converted to errors at this layer; callers never see a raw
// *http.Response.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given base URL and API token. Either may
// be empty, in which case every operation fails with ErrNotConfigured.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   token,
		http:    httpClient,
	}
}

// Configured reports whether the client has both a URL and a token.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.token != ""
}

// UploadDocument posts a document with its metadata to the ingestion endpoint.
func (c *Client) UploadDocument(
	ctx context.Context,
	data []byte,
	filename string,
	meta Metadata,
) (*Document, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("building upload body: %w", err)
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"title", meta.Title},
		{"correspondent", meta.CorrespondentID},
		{"document_type", meta.DocumentTypeID},
		{"created", meta.Created},
		{"source", meta.Source},
	} {
		if field.value == "" {
			continue
		}
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, fmt.Errorf("building upload body: %w", err)
		}
	}
	for _, tag := range meta.Tags {
		if tag == "" {
			continue
		}
		if err := writer.WriteField("tags", tag); err != nil {
			return nil, fmt.Errorf("building upload body: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/documents/post_document/",
		&body,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", filename, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", filename, err)
	}
	if !is2xx(res.StatusCode) {
		return nil, statusError(res.StatusCode, raw)
	}

	// The endpoint answers with the consumption task id, either as a bare
	// JSON string or wrapped in an object.
	doc := &Document{}
	var taskID string
	if err := json.Unmarshal(raw, &taskID); err == nil {
		doc.TaskID = taskID
		return doc, nil
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("unexpected upload response: %s", strings.TrimSpace(string(raw)))
	}
	return doc, nil
}

// ListCorrespondents fetches all correspondents.
func (c *Client) ListCorrespondents(ctx context.Context) ([]Correspondent, error) {
	return list[Correspondent](ctx, c, "/api/correspondents/")
}

// ListDocumentTypes fetches all document types.
func (c *Client) ListDocumentTypes(ctx context.Context) ([]DocumentType, error) {
	return list[DocumentType](ctx, c, "/api/document_types/")
}

// ListTags fetches all tags.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	return list[Tag](ctx, c, "/api/tags/")
}

// CreateCorrespondent creates a correspondent. With autoMatch the server is
// told to match documents automatically (matching_algorithm 6).
func (c *Client) CreateCorrespondent(
	ctx context.Context,
	name string,
	autoMatch bool,
) (*Correspondent, error) {
	out := &Correspondent{}
	if err := c.create(ctx, "/api/correspondents/", name, autoMatch, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDocumentType creates a document type, same shape as correspondents.
func (c *Client) CreateDocumentType(
	ctx context.Context,
	name string,
	autoMatch bool,
) (*DocumentType, error) {
	out := &DocumentType{}
	if err := c.create(ctx, "/api/document_types/", name, autoMatch, out); err != nil {
		return nil, err
	}
	return out, nil
}

// TestConnection probes the document listing endpoint. It reports false on any
// failure and never returns an error.
func (c *Client) TestConnection(ctx context.Context) bool {
	if !c.Configured() {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/documents/", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Token "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return is2xx(res.StatusCode)
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	if !is2xx(res.StatusCode) {
		return nil, statusError(res.StatusCode, raw)
	}

	var envelope listResponse[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return envelope.Results, nil
}

func (c *Client) create(
	ctx context.Context,
	path string,
	name string,
	autoMatch bool,
	out any,
) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	matching := 0
	if autoMatch {
		matching = 6
	}
	payload, err := json.Marshal(createRequest{
		Name:              name,
		MatchingAlgorithm: matching,
		IsInsensitive:     true,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("creating %q: %w", name, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("creating %q: %w", name, err)
	}
	if !is2xx(res.StatusCode) {
		return statusError(res.StatusCode, raw)
	}

	return json.Unmarshal(raw, out)
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

// statusError builds the user-visible error for a non-2xx response, embedding
// both the status code and whatever body text the server sent.
func statusError(status int, body []byte) error {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return errors.New("HTTP " + strconv.Itoa(status))
	}
	return errors.New("HTTP " + strconv.Itoa(status) + ": " + text)
}
