package config

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// reservedOptionKeys are section keys interpreted by the resolver itself
// rather than passed through as cop-specific options.
var reservedOptionKeys = map[string]struct{}{
	"Enabled":  {},
	"Severity": {},
	"Include":  {},
	"Exclude":  {},
}

// ResolveCop builds the effective cop.Config for one (cop, directory)
// pair from a merged Raw cascade and the cop's own built-in defaults
// (spec.md §4.D: "Resolution yields, for every (rule, file) pair: an
// effective CopConfig"). AllCops.Exclude is unioned onto every cop's
// exclude set; AllCops.Include only seeds a cop's include set when the
// cop declares none of its own.
func ResolveCop(raw Raw, c cop.Cop) cop.Config {
	cfg := cop.Config{
		Enabled: c.DefaultEnabled(),
		Include: append([]string{}, c.DefaultInclude()...),
		Exclude: append([]string{}, c.DefaultExclude()...),
		Options: map[string]any{},
	}

	all := raw.AllCops()
	if v := toStringSlice(all["Exclude"]); len(v) > 0 {
		cfg.Exclude = append(cfg.Exclude, v...)
	}
	if len(cfg.Include) == 0 {
		if v := toStringSlice(all["Include"]); len(v) > 0 {
			cfg.Include = v
		}
	}

	section := raw.Section(c.Name())
	if section == nil {
		return cfg
	}

	if v, ok := section["Enabled"].(bool); ok {
		cfg.Enabled = v
	}
	if v, ok := section["Severity"].(string); ok {
		if strings.EqualFold(v, "off") {
			cfg.Enabled = false
		} else if sev, err := diagnostic.ParseSeverity(v); err == nil {
			cfg.SeverityOverride = &sev
		}
	}
	if v := toStringSlice(section["Include"]); v != nil {
		cfg.Include = v
	}
	if v := toStringSlice(section["Exclude"]); v != nil {
		cfg.Exclude = append(cfg.Exclude, v...)
	}

	for k, v := range section {
		if _, reserved := reservedOptionKeys[k]; reserved {
			continue
		}
		cfg.Options[k] = v
	}

	return cfg
}

// Applies reports whether a cop with the given resolved config runs
// against path: enabled, path matches its effective include set (or the
// set is empty, meaning "everything"), and path does not match its
// exclude set.
func Applies(cfg cop.Config, path string) bool {
	if !cfg.Enabled {
		return false
	}
	if len(cfg.Include) > 0 && !matchesAny(cfg.Include, path) {
		return false
	}
	return !matchesAny(cfg.Exclude, path)
}

// matchesAny reports whether path matches any glob in patterns. A pattern
// containing "/" is matched against the full path; otherwise it is
// matched against the base name only (spec.md §4.D: "path globs that are
// directory-rooted if they contain '/', name-rooted otherwise").
func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if matchGlob(p, path) {
			return true
		}
	}
	return false
}

func matchGlob(pattern, path string) bool {
	if strings.Contains(pattern, "/") {
		ok, _ := doublestar.Match(pattern, filepath.ToSlash(path))
		return ok
	}
	ok, _ := doublestar.Match(pattern, filepath.Base(path))
	return ok
}
