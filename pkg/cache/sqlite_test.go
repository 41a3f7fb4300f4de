package cache

import (
	"path/filepath"
	"testing"
	"time"

	"vidmux/pkg/core"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close cache: %v", err)
		}
	})
	return store
}

func testBundle(query string, savedAt time.Time, titles ...string) Bundle {
	videos := make([]core.Video, 0, len(titles))
	for i, title := range titles {
		videos = append(videos, core.Video{
			ID:          title,
			Title:       title,
			URL:         "https://example.org/watch?v=" + title,
			Source:      "static",
			ContentType: core.TypeVideo,
			Rank:        i,
			Duration:    90 * time.Second,
		})
	}
	return Bundle{
		Query:            query,
		Results:          videos,
		AvailableSources: []string{"static"},
		SavedAt:          savedAt,
	}
}

func TestLoadEmptyCache(t *testing.T) {
	store := newTestStore(t)

	bundle, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if bundle != nil {
		t.Errorf("Expected nil bundle from empty cache, got %+v", bundle)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	saved := testBundle("dogs", time.Now().UTC(), "a", "b", "c")
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected a bundle, got nil")
	}
	if loaded.Query != "dogs" {
		t.Errorf("Query = %q, want dogs", loaded.Query)
	}
	if len(loaded.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(loaded.Results))
	}
	if loaded.Results[1].Title != "b" || loaded.Results[1].Rank != 1 {
		t.Errorf("Result order or fields lost: %+v", loaded.Results[1])
	}
	if loaded.Results[0].Duration != 90*time.Second {
		t.Errorf("Duration lost in round trip: %v", loaded.Results[0].Duration)
	}
	if len(loaded.AvailableSources) != 1 || loaded.AvailableSources[0] != "static" {
		t.Errorf("Sources lost in round trip: %v", loaded.AvailableSources)
	}
}

func TestLoadReturnsNewest(t *testing.T) {
	store := newTestStore(t)

	older := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	if err := store.Save(testBundle("old query", older, "a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(testBundle("new query", newer, "b")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Query != "new query" {
		t.Errorf("Expected newest bundle, got %q", loaded.Query)
	}
	if !loaded.SavedAt.Equal(newer) {
		t.Errorf("SavedAt = %v, want %v", loaded.SavedAt, newer)
	}
}

func TestSaveReplacesSameQuery(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	if err := store.Save(testBundle("cats", base, "first")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(testBundle("cats", base.Add(time.Minute), "second", "third")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Results) != 2 || loaded.Results[0].Title != "second" {
		t.Errorf("Expected the replacement bundle, got %+v", loaded.Results)
	}
}

func TestSaveEmptyResults(t *testing.T) {
	store := newTestStore(t)

	bundle := Bundle{Query: "nothing found", Results: nil, AvailableSources: []string{"static"}}
	if err := store.Save(bundle); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Results) != 0 {
		t.Errorf("Expected empty results, got %d", len(loaded.Results))
	}
	if loaded.SavedAt.IsZero() {
		t.Error("Save should stamp SavedAt when zero")
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(testBundle("cats", time.Now(), "a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	bundle, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if bundle != nil {
		t.Errorf("Expected empty cache after Clear, got %+v", bundle)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")

	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	if err := store.Save(testBundle("persisted", time.Now().UTC(), "a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to reopen cache: %v", err)
	}
	defer func() {
		if err := reopened.Close(); err != nil {
			t.Errorf("Failed to close reopened cache: %v", err)
		}
	}()

	loaded, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil || loaded.Query != "persisted" {
		t.Errorf("Bundle did not survive reopen: %+v", loaded)
	}
}
