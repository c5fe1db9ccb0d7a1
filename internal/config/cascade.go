package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Resolver loads, parses, and deep-merges the config cascade for files
// under discovery, caching per-directory merged views until it is
// discarded (spec.md §4.D: "caches per-directory merged views and evicts
// only on re-invocation of the tool").
type Resolver struct {
	mu           sync.RWMutex
	fileCache    map[string]Raw // parsed single-file layers, keyed by absolute config path
	dirCache     map[string]Raw // fully merged cascade (file layers only), keyed by absolute directory
	cliOverrides map[string]any // set via SetCLIOverrides; nil means no --cop-option flags given
}

// NewResolver creates an empty, unpopulated Resolver. A fresh Resolver per
// tool invocation gives the "evicts only on re-invocation" cache lifetime.
func NewResolver() *Resolver {
	return &Resolver{
		fileCache: make(map[string]Raw),
		dirCache:  make(map[string]Raw),
	}
}

// SetCLIOverrides installs the run's --cop-option overrides (see
// ParseCopOptionFlag), applied by every subsequent Resolve call as the
// highest-precedence layer, above environment variables. Passing nil or
// an empty map disables CLI overrides.
func (r *Resolver) SetCLIOverrides(overrides map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cliOverrides = overrides
}

// Resolve returns the deep-merged Raw config applicable to targetPath: the
// project-root config at the bottom, per-directory overrides layered on
// top in ascending order so the directory closest to targetPath wins,
// then environment-variable overrides (ApplyEnvOverrides), then any
// --cop-option CLI overrides (ApplyCLIOverrides) — the two run-level
// layers spec.md §4.D's precedence list puts above every file-based one.
func (r *Resolver) Resolve(targetPath string) (Raw, error) {
	abs, err := filepath.Abs(targetPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config for %s: %w", targetPath, err)
	}
	dir := filepath.Dir(abs)

	merged, err := r.cascadeForDir(dir)
	if err != nil {
		return nil, err
	}

	out := ApplyEnvOverrides(merged)

	r.mu.RLock()
	overrides := r.cliOverrides
	r.mu.RUnlock()
	if len(overrides) > 0 {
		out = ApplyCLIOverrides(out, overrides)
	}

	return out, nil
}

// cascadeForDir returns the deep-merged file-based cascade for dir
// (excluding env/CLI overrides), computing and caching it on first use.
func (r *Resolver) cascadeForDir(dir string) (Raw, error) {
	r.mu.RLock()
	if cached, ok := r.dirCache[dir]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	chain := discoverChain(dir)

	merged := Raw{}
	for _, configPath := range chain {
		layer, err := r.loadLayer(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		for _, inherited := range layer.InheritFrom() {
			inheritedPath := inherited
			if !filepath.IsAbs(inheritedPath) {
				inheritedPath = filepath.Join(filepath.Dir(configPath), inheritedPath)
			}
			inheritedLayer, err := r.loadLayer(inheritedPath)
			if err != nil {
				return nil, fmt.Errorf("load inherited config %s (from %s): %w", inheritedPath, configPath, err)
			}
			merged = deepMerge(merged, inheritedLayer)
		}
		merged = deepMerge(merged, layer)
	}

	r.mu.Lock()
	r.dirCache[dir] = merged
	r.mu.Unlock()

	return merged, nil
}

// loadLayer parses a single config file into a Raw section map, caching
// the result by absolute path since the same file commonly appears in
// many directories' cascades.
func (r *Resolver) loadLayer(configPath string) (Raw, error) {
	r.mu.RLock()
	if cached, ok := r.fileCache[configPath]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	k := koanf.New(".")
	if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
		return nil, err
	}

	raw := Raw{}
	for key, val := range k.Raw() {
		section, ok := val.(map[string]any)
		if !ok {
			continue
		}
		raw[key] = section
	}

	r.mu.Lock()
	r.fileCache[configPath] = raw
	r.mu.Unlock()

	return raw, nil
}

// discoverChain ascends from dir to the filesystem root (or the first
// project-root marker, inclusive), collecting every directory's config
// file. The result is ordered root-first, closest-to-targetPath last, so
// a caller merging in order gets "closer wins".
func discoverChain(dir string) []string {
	var found []string
	for {
		if p := findConfigFile(dir); p != "" {
			found = append(found, p)
		}
		if hasProjectRootMarker(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	// found is deepest-first; reverse so root-most is first.
	for i, j := 0, len(found)-1; i < j; i, j = i+1, j-1 {
		found[i], found[j] = found[j], found[i]
	}
	return found
}

func findConfigFile(dir string) string {
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func hasProjectRootMarker(dir string) bool {
	for _, marker := range ProjectRootMarkers {
		if fileExists(filepath.Join(dir, marker)) || dirExists(filepath.Join(dir, marker)) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// deepMerge layers src over dst: scalars and sequences in src replace
// dst's, maps merge key-wise recursively.
func deepMerge(dst, src Raw) Raw {
	out := make(Raw, len(dst))
	for k, v := range dst {
		out[k] = cloneSection(v)
	}
	for k, v := range src {
		if existing, ok := out[k]; ok {
			out[k] = mergeSection(existing, v)
		} else {
			out[k] = cloneSection(v)
		}
	}
	return out
}

func mergeSection(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if ev, ok := out[k]; ok {
			if em, emOK := ev.(map[string]any); emOK {
				if sm, smOK := v.(map[string]any); smOK {
					out[k] = mergeSection(em, sm)
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}

func cloneSection(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
