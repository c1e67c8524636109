// Package cache keeps a local copy of the Paperless reference lists
// (correspondents, document types, tags) so dialogs can still populate their
// pickers when the service is unreachable.
package cache

import (
	"context"
	"database/sql"
	json "encoding/json/v2"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"
)

const cacheFileName = "reference_cache.sqlite"

// List kinds stored in the cache.
const (
	KindCorrespondents = "correspondents"
	KindDocumentTypes  = "document_types"
	KindTags           = "tags"
)

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the reference cache in the XDG cache dir.
func Open() (*Store, error) {
	path, err := xdg.CacheFile(filepath.Join("paperdrop", cacheFileName))
	if err != nil {
		return nil, err
	}
	return OpenPath(path)
}

// OpenPath opens a reference cache at an explicit path.
func OpenPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `
		CREATE TABLE IF NOT EXISTS reference_lists (
			kind TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Get loads the cached list of a kind into out. The second return reports
// whether an entry existed; the time is when it was fetched.
func (s *Store) Get(kind string, out any) (time.Time, bool) {
	if s == nil || s.db == nil {
		return time.Time{}, false
	}

	var payload string
	var fetchedAt int64
	err := s.db.QueryRowContext(
		context.Background(),
		`SELECT payload, fetched_at FROM reference_lists WHERE kind = ?`,
		kind,
	).Scan(&payload, &fetchedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false
		}
		return time.Time{}, false
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return time.Time{}, false
	}
	return time.Unix(fetchedAt, 0).UTC(), true
}

// Set stores the list of a kind, replacing any previous entry.
func (s *Store) Set(kind string, value any) error {
	if s == nil || s.db == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(
		context.Background(),
		`INSERT INTO reference_lists (kind, payload, fetched_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(kind) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`,
		kind, string(payload), time.Now().UTC().Unix(),
	)
	return err
}

// Close closes the backing database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
