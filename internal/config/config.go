// Package config resolves layered configuration into per-(cop, file) views
//. Unlike a struct-shaped application config, sections are
// named by cop ("Department/Name") plus one distinguished AllCops section,
// so the decoded shape is a nested map rather than a fixed Go struct — cops
// own their own option schemas.
package config

import (
	"strconv"
)

// AllCopsSection is the distinguished global section name: target-language
// version, run-wide include/exclude, and inheritance.
const AllCopsSection = "AllCops"

// ConfigFileNames are the config file names searched for at each directory
// level, in priority order (first match wins per directory).
var ConfigFileNames = []string{".fastcop.toml", "fastcop.toml"}

// ProjectRootMarkers name files whose presence marks a directory as the
// project root for the purpose of halting the upward config search even
// when no config file lives there.
var ProjectRootMarkers = []string{".git", ".hg"}

// Raw is a deep-merged configuration tree. Top-level keys are either
// AllCopsSection or a qualified cop name; values are that section's option
// map, which cops interpret against their own schema.
type Raw map[string]map[string]any

// Section returns the raw option map for a key, or nil if absent.
func (r Raw) Section(key string) map[string]any {
	return r[key]
}

// AllCops returns the distinguished global section, or an empty map.
func (r Raw) AllCops() map[string]any {
	if m := r[AllCopsSection]; m != nil {
		return m
	}
	return map[string]any{}
}

// TargetLanguageVersion reads AllCops.TargetLanguageVersion, accepting
// either a bare float (3.1) or a quoted string ("3.1") in the source TOML —
// both normalize to the same string form, per spec.md §4.D.
func (r Raw) TargetLanguageVersion() (string, bool) {
	v, ok := r.AllCops()["TargetLanguageVersion"]
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	default:
		return "", false
	}
}

// InheritFrom returns AllCops.InheritFrom, the explicit inheritance list
// named in spec.md §6 (additional config files merged before this one, in
// listed order, lowest priority first).
func (r Raw) InheritFrom() []string {
	return toStringSlice(r.AllCops()["InheritFrom"])
}

func toStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	default:
		return nil
	}
}
