// Package cache implements a content-addressed result cache: a directory
// of small files keyed by a hash over the file content (exactly as read,
// with no normalization), the resolved config, and a binary fingerprint,
// fronted by a bounded
// in-memory LRU. A cache hit substitutes the full diagnostic list for a
// file, skipping the pipeline entirely.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/fastcop/fastcop/internal/config"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// memEntries bounds the in-memory LRU front, independent of how many
// entries live on disk.
const memEntries = 2048

// Key identifies one cache entry. It is the hex-encoded combination of the
// content hash, config fingerprint, and binary fingerprint; invalidation
// is implicit, falling out of Key changing whenever any of the three
// inputs do.
type Key string

// Entry is the persisted unit: the full diagnostic list produced for one
// file, plus the three fingerprints it was computed from. The
// fingerprints are stored alongside the key's hash so a hash collision on
// Key can still be detected and treated as a miss.
type Entry struct {
	ContentHash       uint64                  `json:"content_hash"`
	ConfigFingerprint uint64                  `json:"config_fingerprint"`
	BinaryFingerprint string                  `json:"binary_fingerprint"`
	Diagnostics       []diagnostic.Diagnostic `json:"diagnostics"`
}

// matches reports whether e was computed from exactly the given three
// fingerprints: an entry is only a valid hit when all three match.
func (e *Entry) matches(contentHash, configFingerprint uint64, binaryFingerprint string) bool {
	return e.ContentHash == contentHash &&
		e.ConfigFingerprint == configFingerprint &&
		e.BinaryFingerprint == binaryFingerprint
}

// Cache is a directory of small files keyed by hash prefix, fronted by an
// in-memory LRU. The zero value is not usable; construct
// with New.
type Cache struct {
	dir string
	mem *lru.Cache[Key, *Entry]
}

// New opens (creating if necessary) a result cache rooted at dir.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", dir, err)
	}
	mem, err := lru.New[Key, *Entry](memEntries)
	if err != nil {
		return nil, fmt.Errorf("cache: init memory front: %w", err)
	}
	return &Cache{dir: dir, mem: mem}, nil
}

// ContentHash hashes the file bytes exactly as given with xxhash; no
// normalization (line endings, encoding, trailing whitespace) is applied,
// so byte-different but otherwise equivalent files get different keys.
func ContentHash(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// ConfigFingerprint produces a stable hash of the resolved config view
// applicable to one file, so any change to the cascade that affects that
// file invalidates its cache entries.
func ConfigFingerprint(raw config.Raw) (uint64, error) {
	h, err := hashstructure.Hash(raw, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("cache: fingerprint config: %w", err)
	}
	return h, nil
}

// MakeKey combines the three fingerprints into the cache's lookup Key.
func MakeKey(contentHash, configFingerprint uint64, binaryFingerprint string) Key {
	h := xxhash.New()
	_, _ = fmt.Fprintf(h, "%x:%x:%s", contentHash, configFingerprint, binaryFingerprint)
	return Key(fmt.Sprintf("%016x", h.Sum64()))
}

// Get returns the cached diagnostics for (contentHash, configFingerprint,
// binaryFingerprint), or false on a miss — including the case where the
// key collides but the stored fingerprints don't all match.
func (c *Cache) Get(contentHash, configFingerprint uint64, binaryFingerprint string) ([]diagnostic.Diagnostic, bool) {
	key := MakeKey(contentHash, configFingerprint, binaryFingerprint)

	if entry, ok := c.mem.Get(key); ok {
		if !entry.matches(contentHash, configFingerprint, binaryFingerprint) {
			return nil, false
		}
		return entry.Diagnostics, true
	}

	entry, err := c.readDisk(key)
	if err != nil || entry == nil {
		return nil, false
	}
	if !entry.matches(contentHash, configFingerprint, binaryFingerprint) {
		return nil, false
	}
	c.mem.Add(key, entry)
	return entry.Diagnostics, true
}

// Put records diagnostics for (contentHash, configFingerprint,
// binaryFingerprint), writing through to disk via a temp-file-then-rename
// so concurrent writers to the same key never observe a partial file.
func (c *Cache) Put(contentHash, configFingerprint uint64, binaryFingerprint string, diagnostics []diagnostic.Diagnostic) error {
	key := MakeKey(contentHash, configFingerprint, binaryFingerprint)
	entry := &Entry{
		ContentHash:       contentHash,
		ConfigFingerprint: configFingerprint,
		BinaryFingerprint: binaryFingerprint,
		Diagnostics:       diagnostics,
	}

	if err := c.writeDisk(key, entry); err != nil {
		return err
	}
	c.mem.Add(key, entry)
	return nil
}

// Clear removes every entry, on disk and in memory.
func (c *Cache) Clear() error {
	c.mem.Purge()
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cache: clear %s: %w", c.dir, err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("cache: clear %s: %w", c.dir, err)
		}
	}
	return nil
}

// path shards entries two hex characters deep to avoid dumping thousands
// of files into one directory.
func (c *Cache) path(key Key) string {
	s := string(key)
	if len(s) < 2 {
		return filepath.Join(c.dir, s)
	}
	return filepath.Join(c.dir, s[:2], s)
}

func (c *Cache) readDisk(key Key) (*Entry, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt cache file degrades to a miss, not an error; it
		// never aborts a run.
		return nil, nil
	}
	return &entry, nil
}

func (c *Cache) writeDisk(key Key, entry *Entry) error {
	dest := c.path(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("cache: create %s: %w", filepath.Dir(dest), err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache: marshal entry: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return fmt.Errorf("cache: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("cache: write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cache: close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cache: rename into %s: %w", dest, err)
	}
	return nil
}
