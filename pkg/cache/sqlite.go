package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"vidmux/pkg/core"
	"vidmux/pkg/log"
)

// SQLite stores bundles in a single-table SQLite database. Results are
// JSON-marshaled and zstd-compressed into a BLOB; result sets repeat the
// same field names and URLs over and over, which compresses well.
type SQLite struct {
	db      *sql.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	logger  *log.Logger
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens (and if needed creates) the cache database at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// Apply performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			closeQuietly(db)
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS search_cache (
		query TEXT PRIMARY KEY,
		results BLOB NOT NULL,
		sources TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	return &SQLite{
		db:      db,
		encoder: encoder,
		decoder: decoder,
		logger:  log.ForComponent("cache"),
	}, nil
}

// Load returns the most recently saved bundle, or nil on an empty cache.
func (s *SQLite) Load() (*Bundle, error) {
	row := s.db.QueryRow(`SELECT query, results, sources, saved_at
		FROM search_cache ORDER BY saved_at DESC LIMIT 1`)

	var (
		query      string
		compressed []byte
		sourcesRaw string
		savedAt    int64
	)
	if err := row.Scan(&query, &compressed, &sourcesRaw, &savedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cached bundle: %w", err)
	}

	raw, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing cached results for %q: %w", query, err)
	}

	var results []core.Video
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("decoding cached results for %q: %w", query, err)
	}

	var sources []string
	if err := json.Unmarshal([]byte(sourcesRaw), &sources); err != nil {
		return nil, fmt.Errorf("decoding cached sources for %q: %w", query, err)
	}

	bundle := &Bundle{
		Query:            query,
		Results:          results,
		AvailableSources: sources,
		SavedAt:          time.Unix(0, savedAt).UTC(),
	}
	s.logger.Debugf("loaded bundle for %q: %d results from %d sources", query, len(results), len(sources))
	return bundle, nil
}

// Save stores a bundle, replacing any previous bundle for the same query.
func (s *SQLite) Save(bundle Bundle) error {
	if bundle.SavedAt.IsZero() {
		bundle.SavedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(bundle.Results)
	if err != nil {
		return fmt.Errorf("encoding results for %q: %w", bundle.Query, err)
	}
	compressed := s.encoder.EncodeAll(raw, nil)

	sourcesRaw, err := json.Marshal(bundle.AvailableSources)
	if err != nil {
		return fmt.Errorf("encoding sources for %q: %w", bundle.Query, err)
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO search_cache (query, results, sources, saved_at)
		VALUES (?, ?, ?, ?)`,
		bundle.Query, compressed, string(sourcesRaw), bundle.SavedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving bundle for %q: %w", bundle.Query, err)
	}

	s.logger.Debugf("saved bundle for %q: %d results (%d -> %d bytes)",
		bundle.Query, len(bundle.Results), len(raw), len(compressed))
	return nil
}

// Clear removes all cached bundles.
func (s *SQLite) Clear() error {
	if _, err := s.db.Exec("DELETE FROM search_cache"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Close releases the database and codec resources.
func (s *SQLite) Close() error {
	if err := s.encoder.Close(); err != nil {
		s.logger.Warnf("failed to close zstd encoder: %v", err)
	}
	s.decoder.Close()
	return s.db.Close()
}

func closeQuietly(db *sql.DB) {
	_ = db.Close()
}
