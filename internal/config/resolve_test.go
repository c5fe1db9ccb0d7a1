package config

import (
	"testing"

	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

type stubCop struct {
	cop.Base
	name    string
	enabled bool
	sev     diagnostic.Severity
	include []string
	exclude []string
}

func (s stubCop) Name() string                        { return s.name }
func (s stubCop) DefaultSeverity() diagnostic.Severity { return s.sev }
func (s stubCop) DefaultEnabled() bool                 { return s.enabled }
func (s stubCop) DefaultInclude() []string             { return s.include }
func (s stubCop) DefaultExclude() []string             { return s.exclude }

var _ cop.Cop = stubCop{}

func TestResolveCop_UsesDefaultsWhenSectionAbsent(t *testing.T) {
	c := stubCop{name: "Metrics/ParameterLists", enabled: true, sev: diagnostic.SeverityConvention}
	cfg := ResolveCop(Raw{}, c)
	if !cfg.Enabled || cfg.SeverityOverride != nil {
		t.Errorf("ResolveCop() with empty raw = %+v", cfg)
	}
}

func TestResolveCop_SeverityOffDisablesCop(t *testing.T) {
	c := stubCop{name: "Metrics/ParameterLists", enabled: true}
	raw := Raw{"Metrics/ParameterLists": {"Severity": "off"}}
	cfg := ResolveCop(raw, c)
	if cfg.Enabled {
		t.Error("Severity = off should disable the cop")
	}
}

func TestResolveCop_SeverityOverride(t *testing.T) {
	c := stubCop{name: "Metrics/ParameterLists", enabled: true}
	raw := Raw{"Metrics/ParameterLists": {"Severity": "error"}}
	cfg := ResolveCop(raw, c)
	if cfg.SeverityOverride == nil || *cfg.SeverityOverride != diagnostic.SeverityError {
		t.Errorf("SeverityOverride = %v, want error", cfg.SeverityOverride)
	}
}

func TestResolveCop_OptionsExcludeReservedKeys(t *testing.T) {
	c := stubCop{name: "Metrics/ParameterLists", enabled: true}
	raw := Raw{"Metrics/ParameterLists": {"Severity": "warning", "Max": 2}}
	cfg := ResolveCop(raw, c)
	if _, ok := cfg.Options["Severity"]; ok {
		t.Error("Severity should not leak into Options")
	}
	if cfg.Options["Max"] != 2 {
		t.Errorf("Options[Max] = %v, want 2", cfg.Options["Max"])
	}
}

func TestResolveCop_AllCopsExcludeIsUnioned(t *testing.T) {
	c := stubCop{name: "Metrics/ParameterLists", enabled: true}
	raw := Raw{"AllCops": {"Exclude": []string{"vendor/**"}}}
	cfg := ResolveCop(raw, c)
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "vendor/**" {
		t.Errorf("Exclude = %v, want [vendor/**]", cfg.Exclude)
	}
}

func TestApplies_IncludeExcludeAndEnabled(t *testing.T) {
	cfg := cop.Config{Enabled: true, Include: []string{"app/**/*.rb"}, Exclude: []string{"*_spec.rb"}}

	if !Applies(cfg, "app/models/user.rb") {
		t.Error("expected app/models/user.rb to match include")
	}
	if Applies(cfg, "lib/thing.rb") {
		t.Error("expected lib/thing.rb to miss include")
	}
	if Applies(cfg, "app/models/user_spec.rb") {
		t.Error("expected *_spec.rb to be excluded")
	}

	disabled := cfg
	disabled.Enabled = false
	if Applies(disabled, "app/models/user.rb") {
		t.Error("disabled cop should never apply")
	}
}

func TestApplies_NameRootedGlobMatchesBasenameOnly(t *testing.T) {
	cfg := cop.Config{Enabled: true, Exclude: []string{"*_spec.rb"}}
	if Applies(cfg, "spec/models/user_spec.rb") {
		t.Error("name-rooted exclude glob should match by basename regardless of directory")
	}
}
