package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_RootThenDirectoryOverrideCascade(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/main\n")
	writeFile(t, filepath.Join(root, ".fastcop.toml"), `
[AllCops]
TargetLanguageVersion = 3.1

["Metrics/ParameterLists"]
Severity = "warning"
Max = 2
`)

	sub := filepath.Join(root, "lib")
	writeFile(t, filepath.Join(sub, ".fastcop.toml"), `
["Metrics/ParameterLists"]
Max = 4
`)

	r := NewResolver()
	raw, err := r.Resolve(filepath.Join(sub, "thing.rb"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if v, ok := raw.TargetLanguageVersion(); !ok || v != "3.1" {
		t.Errorf("TargetLanguageVersion = %q, %v", v, ok)
	}

	section := raw.Section("Metrics/ParameterLists")
	if section["Severity"] != "warning" {
		t.Errorf("Severity = %v, want warning (inherited from root)", section["Severity"])
	}
	if section["Max"] != int64(4) {
		t.Errorf("Max = %v, want 4 (overridden by closer directory)", section["Max"])
	}
}

func TestResolve_CachesByDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".fastcop.toml"), `
["Layout/TrailingWhitespace"]
Enabled = true
`)

	r := NewResolver()
	first, err := r.Resolve(filepath.Join(root, "a.rb"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(filepath.Join(root, "b.rb"))
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Errorf("expected same cached merge for files in the same directory")
	}
}

func TestResolve_EnvOverrideLayersOverCascade(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".fastcop.toml"), `
["Metrics/ParameterLists"]
Severity = "warning"
Max = 2
`)
	t.Setenv("FASTCOP_METRICS_PARAMETERLISTS__SEVERITY", "error")

	r := NewResolver()
	raw, err := r.Resolve(filepath.Join(root, "thing.rb"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	section := raw.Section("Metrics/ParameterLists")
	if section["Severity"] != "error" {
		t.Errorf("Severity = %v, want error (env override should win over the file cascade)", section["Severity"])
	}
	if section["Max"] != int64(2) {
		t.Errorf("Max = %v, want 2 (untouched by the env override)", section["Max"])
	}
}

func TestResolve_CLIOverrideWinsOverEnvAndCascade(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".fastcop.toml"), `
["Metrics/ParameterLists"]
Severity = "warning"
`)
	t.Setenv("FASTCOP_METRICS_PARAMETERLISTS__SEVERITY", "error")

	r := NewResolver()
	overrides, err := ParseCopOptionFlag([]string{"Metrics/ParameterLists.Severity=convention"})
	if err != nil {
		t.Fatalf("ParseCopOptionFlag() error = %v", err)
	}
	r.SetCLIOverrides(overrides)

	raw, err := r.Resolve(filepath.Join(root, "thing.rb"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	section := raw.Section("Metrics/ParameterLists")
	if section["Severity"] != "convention" {
		t.Errorf("Severity = %v, want convention (CLI override is highest precedence)", section["Severity"])
	}
}

func TestDiscoverChain_OrdersRootFirstClosestLast(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "x")
	writeFile(t, filepath.Join(root, ".fastcop.toml"), "")
	nested := filepath.Join(root, "a", "b")
	writeFile(t, filepath.Join(nested, ".fastcop.toml"), "")

	chain := discoverChain(nested)
	if len(chain) != 2 {
		t.Fatalf("discoverChain() = %v, want 2 entries", chain)
	}
	if chain[0] != filepath.Join(root, ".fastcop.toml") {
		t.Errorf("chain[0] = %q, want root config first", chain[0])
	}
	if chain[1] != filepath.Join(nested, ".fastcop.toml") {
		t.Errorf("chain[1] = %q, want nested config last", chain[1])
	}
}

func TestDeepMerge_MapsMergeSequencesReplace(t *testing.T) {
	dst := Raw{"Metrics/ParameterLists": {"Max": 2, "Include": []string{"a/**"}}}
	src := Raw{"Metrics/ParameterLists": {"Severity": "error", "Include": []string{"b/**"}}}

	merged := deepMerge(dst, src)
	section := merged["Metrics/ParameterLists"]
	if section["Max"] != 2 {
		t.Errorf("Max should survive from dst, got %v", section["Max"])
	}
	if section["Severity"] != "error" {
		t.Errorf("Severity should be added from src, got %v", section["Severity"])
	}
	include, _ := section["Include"].([]string)
	if len(include) != 1 || include[0] != "b/**" {
		t.Errorf("Include = %v, want replaced (not concatenated) with [b/**]", include)
	}
}
