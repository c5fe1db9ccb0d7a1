package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

// canonicalOptionKeys maps the lowercase form of a resolver-reserved or
// AllCops-level key back to the exact case ResolveCop and Raw's accessors
// expect ("Severity", not "severity"). Environment variable names are
// conventionally all-uppercase, so the original case of a reserved key is
// unrecoverable from the env var name alone; arbitrary per-cop option
// keys (Max, CountComments, ...) have no such fixed set and are left
// lowercase, which Config's option accessors match case-insensitively.
var canonicalOptionKeys = map[string]string{
	"severity":              "Severity",
	"enabled":               "Enabled",
	"include":               "Include",
	"exclude":               "Exclude",
	"targetlanguageversion": "TargetLanguageVersion",
	"inheritfrom":           "InheritFrom",
}

func canonicalOptionKey(lower string) string {
	if canon, ok := canonicalOptionKeys[lower]; ok {
		return canon
	}
	return lower
}

// EnvPrefix is the prefix environment-variable overrides must carry to be
// picked up by ApplyEnvOverrides. This exists for CI environments that
// need to flip a cop's severity or enablement without touching a checked-
// in config file.
const EnvPrefix = "FASTCOP_"

// ApplyEnvOverrides layers environment-variable overrides on top of an
// already-merged cascade; only CLI overrides (ApplyCLIOverrides) rank
// above this layer. A
// variable name maps to a section/key pair by splitting on "__":
//
//	FASTCOP_ALLCOPS__TARGETLANGUAGEVERSION=3.2
//	FASTCOP_METRICS_PARAMETERLISTS__SEVERITY=error
//
// Department/Name separators within a section name are not recoverable
// from the flattened env form, so the section key is matched
// case-insensitively against already-known sections in raw; an override
// naming a section not already present in raw is dropped rather than
// guessed into existence. Overrides are read from the process
// environment (os.Environ), matching the provider's own behavior.
func ApplyEnvOverrides(raw Raw) Raw {
	k := koanf.New(".")
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyToPath,
	}), nil); err != nil {
		return raw
	}

	flat := k.All()
	if len(flat) == 0 {
		return raw
	}

	out := make(Raw, len(raw))
	for k2, v := range raw {
		out[k2] = cloneSection(v)
	}

	bySection := make(map[string]string, len(out))
	for name := range out {
		bySection[strings.ToLower(strings.ReplaceAll(name, "/", "_"))] = name
	}

	for flatKey, value := range flat {
		sectionPart, optKey, ok := splitSectionKey(flatKey)
		if !ok {
			continue
		}
		sectionName, known := bySection[sectionPart]
		if !known {
			if sectionPart == strings.ToLower(AllCopsSection) {
				sectionName = AllCopsSection
			} else {
				continue
			}
		}
		section := out[sectionName]
		if section == nil {
			section = map[string]any{}
		} else {
			section = cloneSection(section)
		}
		section[canonicalOptionKey(optKey)] = value
		out[sectionName] = section
	}

	return out
}

// envKeyToPath converts FASTCOP_METRICS_PARAMETERLISTS__SEVERITY into
// metrics_parameterlists.severity so koanf's "." delimiter splits it into
// section and key.
func envKeyToPath(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	return strings.Replace(key, "__", ".", 1)
}

func splitSectionKey(flatKey string) (section, key string, ok bool) {
	i := strings.LastIndex(flatKey, ".")
	if i < 0 {
		return "", "", false
	}
	return flatKey[:i], flatKey[i+1:], true
}

// ApplyCLIOverrides layers explicit section.key overrides (as produced by
// a command-line flag such as --cop-option Department/Name.key=value) on
// top of an already-merged cascade, at even higher precedence than
// environment variables. Unlike ApplyEnvOverrides, a CLI override may
// name a section that does not yet exist in raw, since it comes from an
// explicit, unambiguous Department/Name string rather than a flattened
// env var.
func ApplyCLIOverrides(raw Raw, overrides map[string]any) Raw {
	if len(overrides) == 0 {
		return raw
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
		return raw
	}

	out := make(Raw, len(raw))
	for name, section := range raw {
		out[name] = cloneSection(section)
	}

	for flatKey, value := range k.All() {
		sectionName, optKey, ok := splitSectionKey(flatKey)
		if !ok {
			continue
		}
		section := out[sectionName]
		if section == nil {
			section = map[string]any{}
		} else {
			section = cloneSection(section)
		}
		section[optKey] = value
		out[sectionName] = section
	}

	return out
}

// ParseCopOptionFlag builds the overrides map ApplyCLIOverrides expects
// from one or more repetitions of a "--cop-option Department/Name.Key=Value"
// flag. Each entry's section (the part before the last "." preceding the
// "=") is matched verbatim, so the caller must spell the cop name and
// option key exactly as they appear in a config file (e.g.
// "Metrics/ParameterLists.Max=3"); unlike ApplyEnvOverrides there is no
// case folding to undo, since a CLI argument is typed directly.
func ParseCopOptionFlag(values []string) (map[string]any, error) {
	overrides := make(map[string]any)
	for _, v := range values {
		eq := strings.IndexByte(v, '=')
		if eq < 0 {
			return nil, fmt.Errorf("invalid --cop-option %q: expected Department/Name.Key=Value", v)
		}
		left, right := v[:eq], v[eq+1:]
		dot := strings.LastIndexByte(left, '.')
		if dot < 0 {
			return nil, fmt.Errorf("invalid --cop-option %q: missing \".\" separating cop name from option key", v)
		}
		section, key := left[:dot], left[dot+1:]
		if section == "" || key == "" {
			return nil, fmt.Errorf("invalid --cop-option %q: empty cop name or option key", v)
		}

		entry, _ := overrides[section].(map[string]any)
		if entry == nil {
			entry = map[string]any{}
		}
		entry[key] = parseScalarValue(right)
		overrides[section] = entry
	}
	return overrides, nil
}

// parseScalarValue coerces a raw CLI argument value into a bool, int, or
// float64 when it unambiguously looks like one, falling back to the
// original string otherwise (e.g. "error" for a Severity override).
func parseScalarValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return int(i)
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
