package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fastcop/fastcop/internal/cop"
)

// metadataFileName names the one-time per-project cache of rule-catalog-
// derived metadata, so subsequent runs do not repeat computing it.
const metadataFileName = "catalog-metadata.json"

// Metadata is rule-catalog-derived information that is expensive only in
// the sense that recomputing it means walking the whole registry; once
// computed for a given binary it never changes until the binary does.
type Metadata struct {
	BinaryFingerprint string   `json:"binary_fingerprint"`
	Departments       []string `json:"departments"`
	CopCount          int      `json:"cop_count"`
}

// LoadOrBuildMetadata reads the cached catalog metadata for the registry's
// current binary fingerprint, recomputing and persisting it on a miss or a
// fingerprint mismatch (a rebuilt binary invalidates it just like any
// other cache entry keyed on binary fingerprint).
func (c *Cache) LoadOrBuildMetadata(reg *cop.Registry, binaryFingerprint string) (*Metadata, error) {
	path := filepath.Join(c.dir, metadataFileName)

	if data, err := os.ReadFile(path); err == nil {
		var m Metadata
		if json.Unmarshal(data, &m) == nil && m.BinaryFingerprint == binaryFingerprint {
			return &m, nil
		}
	}

	m := &Metadata{
		BinaryFingerprint: binaryFingerprint,
		Departments:       reg.Departments(),
		CopCount:          len(reg.All()),
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("cache: marshal catalog metadata: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", c.dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("cache: write catalog metadata: %w", err)
	}
	return m, nil
}
