package cache_test

import (
	"path/filepath"
	"testing"
	"time"

	"go.withmatt.com/paperdrop/internal/cache"
	"go.withmatt.com/paperdrop/internal/paperless"
)

func openTestStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.OpenPath(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSetGetRoundtrip(t *testing.T) {
	store := openTestStore(t)

	want := []paperless.Correspondent{
		{ID: 1, Name: "Utility Co"},
		{ID: 2, Name: "City Hall"},
	}
	if err := store.Set(cache.KindCorrespondents, want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got []paperless.Correspondent
	fetchedAt, ok := store.Get(cache.KindCorrespondents, &got)
	if !ok {
		t.Fatal("Expected a cache hit")
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 correspondents, got %d", len(got))
	}
	if got[0].Name != "Utility Co" || got[1].Name != "City Hall" {
		t.Errorf("Expected stored names back, got %v", got)
	}
	if fetchedAt.IsZero() {
		t.Error("Expected a fetch timestamp")
	}
	if time.Since(fetchedAt) > time.Minute {
		t.Errorf("Expected a recent fetch timestamp, got %v", fetchedAt)
	}
}

func TestGetMiss(t *testing.T) {
	store := openTestStore(t)

	var got []paperless.Tag
	if _, ok := store.Get(cache.KindTags, &got); ok {
		t.Error("Expected a miss for an unwritten kind")
	}
}

func TestSetReplacesPreviousEntry(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(cache.KindTags, []paperless.Tag{{ID: 1, Name: "old"}}); err != nil {
		t.Fatalf("First Set failed: %v", err)
	}
	if err := store.Set(cache.KindTags, []paperless.Tag{{ID: 2, Name: "new"}}); err != nil {
		t.Fatalf("Second Set failed: %v", err)
	}

	var got []paperless.Tag
	if _, ok := store.Get(cache.KindTags, &got); !ok {
		t.Fatal("Expected a cache hit")
	}
	if len(got) != 1 || got[0].Name != "new" {
		t.Errorf("Expected the replacement entry, got %v", got)
	}
}

func TestKindsAreIndependent(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(cache.KindCorrespondents, []paperless.Correspondent{{ID: 1, Name: "Utility Co"}}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var docTypes []paperless.DocumentType
	if _, ok := store.Get(cache.KindDocumentTypes, &docTypes); ok {
		t.Error("Expected document types to be unaffected by correspondent writes")
	}
}

func TestNilStoreIsSafe(t *testing.T) {
	var store *cache.Store

	if err := store.Set(cache.KindTags, []paperless.Tag{{ID: 1, Name: "x"}}); err != nil {
		t.Errorf("Expected nil-store Set to be a no-op, got %v", err)
	}
	var got []paperless.Tag
	if _, ok := store.Get(cache.KindTags, &got); ok {
		t.Error("Expected nil-store Get to miss")
	}
	if err := store.Close(); err != nil {
		t.Errorf("Expected nil-store Close to succeed, got %v", err)
	}
}
