package testutil

import (
	"testing"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// noopCop is a minimal cop used only to exercise the test harness itself.
type noopCop struct{ cop.Base }

func (noopCop) Name() string                        { return "Test/Noop" }
func (noopCop) DefaultSeverity() diagnostic.Severity { return diagnostic.SeverityConvention }
func (noopCop) DefaultEnabled() bool                 { return true }

func (noopCop) InterestedNodeTypes() []ast.Kind { return []ast.Kind{ast.KindDef} }

func (noopCop) CheckNode(ctx *cop.Context, n ast.Node) {
	ctx.Report(n.Location().StartOffset, "saw a def")
}

func TestParseFile(t *testing.T) {
	file, tree, m := ParseFile(t, "test.rb", "def foo\nend\n")
	if file.Path() != "test.rb" {
		t.Errorf("Path() = %q, want test.rb", file.Path())
	}
	if tree.Root == nil {
		t.Fatal("tree.Root is nil")
	}
	if m == nil {
		t.Fatal("CodeMap is nil")
	}
}

func TestRunCop(t *testing.T) {
	diags := RunCop(t, noopCop{}, "def foo\nend\n")
	AssertDiagnosticCount(t, diags, 1)
}

func TestRunCop_NoMatchingNodes(t *testing.T) {
	diags := RunCop(t, noopCop{}, "x = 1\n")
	AssertNoDiagnostics(t, diags)
}

func TestAssertDiagnosticCount(t *testing.T) {
	AssertDiagnosticCount(t, nil, 0)
	AssertDiagnosticCount(t, []diagnostic.Diagnostic{}, 0)
}
