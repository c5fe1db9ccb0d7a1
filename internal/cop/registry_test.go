package cop

import (
	"testing"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/diagnostic"
	"github.com/fastcop/fastcop/internal/source"
)

type fakeCop struct {
	Base
	name        string
	enabled     bool
	sev         diagnostic.Severity
	correctable bool
}

func (f fakeCop) Name() string                        { return f.name }
func (f fakeCop) DefaultSeverity() diagnostic.Severity { return f.sev }
func (f fakeCop) DefaultEnabled() bool                 { return f.enabled }
func (f fakeCop) SupportsAutocorrect() bool            { return f.correctable }

var _ Cop = fakeCop{}
var _ AutoCorrectable = fakeCop{}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeCop{name: "Layout/TrailingWhitespace", enabled: true, sev: diagnostic.SeverityConvention})
	r.Register(fakeCop{name: "Metrics/ParameterLists", enabled: true, sev: diagnostic.SeverityConvention})
	r.Register(fakeCop{name: "Lint/UselessAssignment", enabled: false, sev: diagnostic.SeverityWarning})

	if !r.Has("Layout/TrailingWhitespace") {
		t.Fatal("expected registered cop to be found")
	}
	if r.Get("Nonexistent/Cop") != nil {
		t.Fatal("expected nil for unregistered cop")
	}

	names := r.Names()
	want := []string{"Layout/TrailingWhitespace", "Lint/UselessAssignment", "Metrics/ParameterLists"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v", names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], n)
		}
	}
}

func TestRegistry_Register_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeCop{name: "Style/RedundantSelf"})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	r.Register(fakeCop{name: "Style/RedundantSelf"})
}

func TestRegistry_ByDepartment(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeCop{name: "Layout/TrailingWhitespace", enabled: true})
	r.Register(fakeCop{name: "Layout/SpaceAroundOperators", enabled: true})
	r.Register(fakeCop{name: "Metrics/ParameterLists", enabled: true})

	layout := r.ByDepartment("Layout")
	if len(layout) != 2 {
		t.Fatalf("ByDepartment(Layout) = %d cops, want 2", len(layout))
	}

	depts := r.Departments()
	if len(depts) != 2 || depts[0] != "Layout" || depts[1] != "Metrics" {
		t.Errorf("Departments() = %v", depts)
	}
}

func TestRegistry_EnabledByDefault(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeCop{name: "A/One", enabled: true})
	r.Register(fakeCop{name: "A/Two", enabled: false})

	enabled := r.EnabledByDefault()
	if len(enabled) != 1 || enabled[0].Name() != "A/One" {
		t.Errorf("EnabledByDefault() = %v", enabled)
	}
}

func TestRegistry_AutoCorrectable(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeCop{name: "Layout/TrailingWhitespace", enabled: true, correctable: true})
	r.Register(fakeCop{name: "Lint/UselessAssignment", enabled: true, correctable: false})

	got := r.AutoCorrectable()
	if len(got) != 1 || got[0].Name() != "Layout/TrailingWhitespace" {
		t.Errorf("AutoCorrectable() = %v, want only Layout/TrailingWhitespace", got)
	}
}

func TestDepartment(t *testing.T) {
	if got := Department("Metrics/ParameterLists"); got != "Metrics" {
		t.Errorf("Department = %q, want Metrics", got)
	}
	if got := Department("no-slash"); got != "" {
		t.Errorf("Department with no slash = %q, want empty", got)
	}
}

func TestContext_ReportUsesOverrideSeverity(t *testing.T) {
	f := source.New("a.rb", []byte("def foo(a, b, c)\nend\n"))
	var diags []diagnostic.Diagnostic
	var corrections []diagnostic.Correction
	override := diagnostic.SeverityError
	c := fakeCop{name: "Metrics/ParameterLists", sev: diagnostic.SeverityConvention}
	ctx := NewContext(f, &ast.Tree{}, nil, Config{SeverityOverride: &override}, c, &diags, &corrections)

	ctx.Report(0, "Avoid parameter lists longer than 2 parameters. [3/2]")

	if len(diags) != 1 {
		t.Fatalf("len(diags) = %d, want 1", len(diags))
	}
	if diags[0].Severity != diagnostic.SeverityError {
		t.Errorf("Severity = %v, want override SeverityError", diags[0].Severity)
	}
	if diags[0].CopName != "Metrics/ParameterLists" {
		t.Errorf("CopName = %q", diags[0].CopName)
	}
}

func TestContext_ReportFallsBackToCopDefaultSeverity(t *testing.T) {
	f := source.New("a.rb", []byte("x = 1\n"))
	var diags []diagnostic.Diagnostic
	var corrections []diagnostic.Correction
	c := fakeCop{name: "Layout/TrailingWhitespace", sev: diagnostic.SeverityConvention}
	ctx := NewContext(f, &ast.Tree{}, nil, Config{}, c, &diags, &corrections)

	ctx.Report(0, "trailing whitespace")

	if len(diags) != 1 || diags[0].Severity != diagnostic.SeverityConvention {
		t.Fatalf("diags = %v, want one diagnostic at the cop's default severity", diags)
	}
}
