// Package cache is the incremental build store: per-file transform output
// plus the registry registrations the file made, keyed by content digest.
// A hit replays the registrations and skips parsing entirely. Every failure
// mode degrades to a cold build; a cache can never fail a build.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/statewire/statewire/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS files (
	path          TEXT PRIMARY KEY,
	digest        TEXT NOT NULL,
	output        TEXT NOT NULL,
	registrations BLOB NOT NULL
);`

type Cache struct {
	db *sql.DB
}

// Open opens or creates the store at path. An unreadable or corrupt store
// is an error the caller treats as "no cache".
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Digest is the cache key for file content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Entry is one cached transform result.
type Entry struct {
	Output        string
	Registrations []pipeline.Registration
}

// Get returns the cached result for path if its digest still matches.
func (c *Cache) Get(path, digest string) (Entry, bool) {
	var (
		storedDigest string
		output       string
		blob         []byte
	)
	row := c.db.QueryRow(`SELECT digest, output, registrations FROM files WHERE path = ?`, path)
	if err := row.Scan(&storedDigest, &output, &blob); err != nil {
		return Entry{}, false
	}
	if storedDigest != digest {
		return Entry{}, false
	}
	var regs []pipeline.Registration
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &regs); err != nil {
			return Entry{}, false
		}
	}
	return Entry{Output: output, Registrations: regs}, true
}

// Put stores or replaces the result for path.
func (c *Cache) Put(path, digest string, entry Entry) error {
	blob, err := json.Marshal(entry.Registrations)
	if err != nil {
		return fmt.Errorf("encode registrations: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT INTO files (path, digest, output, registrations) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET digest = excluded.digest,
		   output = excluded.output, registrations = excluded.registrations`,
		path, digest, entry.Output, blob)
	if err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}
