package paperless

// Correspondent is a Paperless-ngx correspondent record.
type Correspondent struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DocumentType is a Paperless-ngx document type record.
type DocumentType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Tag is a Paperless-ngx tag record.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Document is the record returned for a successfully ingested document. The
// ingestion endpoint returns a consumption task identifier; depending on
// server version the body is either a bare JSON string or an object.
type Document struct {
	TaskID string `json:"task_id,omitempty"`
}

// Metadata carries the optional fields attached to an uploaded document.
// Empty fields are omitted from the request entirely, never sent blank.
// CorrespondentID and DocumentTypeID are decimal primary keys; the ingestion
// endpoint rejects names for these fields.
type Metadata struct {
	Title           string
	CorrespondentID string
	DocumentTypeID  string
	Tags            []string
	Created         string
	Source          string
}

// listResponse is the paginated envelope every listing endpoint returns.
type listResponse[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

// createRequest is the body for correspondent and document type creation.
// matching_algorithm 6 is "auto", 0 is "none".
type createRequest struct {
	Name              string `json:"name"`
	MatchingAlgorithm int    `json:"matching_algorithm"`
	IsInsensitive     bool   `json:"is_insensitive"`
}
