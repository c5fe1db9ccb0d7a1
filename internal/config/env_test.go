package config

import "testing"

func TestApplyEnvOverrides_KnownSection(t *testing.T) {
	t.Setenv("FASTCOP_METRICS_PARAMETERLISTS__SEVERITY", "error")

	raw := Raw{"Metrics/ParameterLists": {"Max": 2}}
	out := ApplyEnvOverrides(raw)

	section := out.Section("Metrics/ParameterLists")
	if section["Severity"] != "error" {
		t.Errorf("Severity = %v, want error", section["Severity"])
	}
	if section["Max"] != 2 {
		t.Errorf("Max should be preserved, got %v", section["Max"])
	}
}

func TestApplyEnvOverrides_UnknownSectionDropped(t *testing.T) {
	t.Setenv("FASTCOP_NONEXISTENT_COP__SEVERITY", "error")

	out := ApplyEnvOverrides(Raw{})
	if len(out) != 0 {
		t.Errorf("expected unknown section to be dropped, got %v", out)
	}
}

func TestApplyEnvOverrides_AllCopsSection(t *testing.T) {
	t.Setenv("FASTCOP_ALLCOPS__TARGETLANGUAGEVERSION", "3.2")

	out := ApplyEnvOverrides(Raw{})
	v, ok := out.TargetLanguageVersion()
	if !ok || v != "3.2" {
		t.Errorf("TargetLanguageVersion = %q, %v", v, ok)
	}
}

func TestApplyCLIOverrides_CreatesSection(t *testing.T) {
	raw := Raw{}
	overrides := map[string]any{
		"Metrics/ParameterLists": map[string]any{"severity": "error"},
	}

	out := ApplyCLIOverrides(raw, overrides)
	section := out.Section("Metrics/ParameterLists")
	if section["severity"] != "error" {
		t.Errorf("severity = %v, want error", section["severity"])
	}
}

func TestParseCopOptionFlag_BuildsNestedOverrides(t *testing.T) {
	overrides, err := ParseCopOptionFlag([]string{
		"Metrics/ParameterLists.Severity=error",
		"Metrics/ParameterLists.Max=3",
		"Layout/TrailingWhitespace.Enabled=false",
	})
	if err != nil {
		t.Fatalf("ParseCopOptionFlag() error = %v", err)
	}

	params, ok := overrides["Metrics/ParameterLists"].(map[string]any)
	if !ok {
		t.Fatalf("overrides[Metrics/ParameterLists] = %v, want a map", overrides["Metrics/ParameterLists"])
	}
	if params["Severity"] != "error" {
		t.Errorf("Severity = %v, want error", params["Severity"])
	}
	if params["Max"] != 3 {
		t.Errorf("Max = %v, want 3 (int)", params["Max"])
	}

	layout, ok := overrides["Layout/TrailingWhitespace"].(map[string]any)
	if !ok {
		t.Fatalf("overrides[Layout/TrailingWhitespace] = %v, want a map", overrides["Layout/TrailingWhitespace"])
	}
	if layout["Enabled"] != false {
		t.Errorf("Enabled = %v, want false (bool)", layout["Enabled"])
	}
}

func TestParseCopOptionFlag_RejectsMalformedEntries(t *testing.T) {
	cases := []string{"no-equals-sign", "NoDot=value", ".Key=value", "Dept/Name.=value"}
	for _, c := range cases {
		if _, err := ParseCopOptionFlag([]string{c}); err == nil {
			t.Errorf("ParseCopOptionFlag(%q) expected an error, got nil", c)
		}
	}
}

func TestApplyEnvOverrides_CanonicalizesReservedKeyCase(t *testing.T) {
	// Environment variable names are conventionally all-uppercase, so the
	// flattened key arrives lowercase; the reserved Severity key must be
	// restored to its exact case for ResolveCop to recognize it.
	t.Setenv("FASTCOP_METRICS_PARAMETERLISTS__SEVERITY", "error")

	raw := Raw{"Metrics/ParameterLists": {"Max": 2}}
	out := ApplyEnvOverrides(raw)

	section := out.Section("Metrics/ParameterLists")
	if _, lowercase := section["severity"]; lowercase {
		t.Error("Severity should not be stored under its lowercase env-derived key")
	}
	if section["Severity"] != "error" {
		t.Errorf("Severity = %v, want error under its canonical key", section["Severity"])
	}
}
