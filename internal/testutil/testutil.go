// Package testutil provides shared test helpers for exercising cops
// (internal/cops/...) against source fixtures without going through the
// full pipeline/config-resolution machinery.
package testutil

import (
	"testing"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/codemap"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
	"github.com/fastcop/fastcop/internal/source"
)

// ParseFile parses content with the reference parser and returns the
// resulting File/Tree/Map triple, which every RunCop-style helper shares.
func ParseFile(tb testing.TB, path, content string) (*source.File, *ast.Tree, *codemap.Map) {
	tb.Helper()

	src := []byte(content)
	file := source.New(path, src)
	tree := ast.NewReferenceParser().Parse(path, src)
	m := codemap.Build(tree, len(src))
	return file, tree, m
}

// RunCop dispatches c against content the way internal/pipeline's
// single-file dispatch would (node-visitor pass filtered by
// InterestedNodeTypes, then CheckLines, then CheckSource), using an
// always-enabled default Config, and returns the diagnostics produced.
func RunCop(tb testing.TB, c cop.Cop, content string) []diagnostic.Diagnostic {
	tb.Helper()
	return RunCopWithConfig(tb, c, content, cop.Config{Enabled: true})
}

// RunCopWithConfig is RunCop with an explicit resolved cop.Config, for
// tests exercising Options (Max, CountKeywordArgs, ...).
func RunCopWithConfig(tb testing.TB, c cop.Cop, content string, cfg cop.Config) []diagnostic.Diagnostic {
	tb.Helper()

	file, tree, m := ParseFile(tb, "test.rb", content)

	var diagnostics []diagnostic.Diagnostic
	var corrections []diagnostic.Correction
	ctx := cop.NewContext(file, tree, m, cfg, c, &diagnostics, &corrections)

	interested := c.InterestedNodeTypes()
	if len(interested) > 0 {
		want := make(map[ast.Kind]bool, len(interested))
		for _, k := range interested {
			want[k] = true
		}
		if tree.Root != nil {
			ast.Walk(tree.Root, func(n ast.Node) {
				if want[n.Kind()] {
					c.CheckNode(ctx, n)
				}
			})
		}
	}

	c.CheckLines(ctx)
	c.CheckSource(ctx)

	return diagnostics
}

// RunCopWithCorrections is RunCopWithConfig but also returns the
// Corrections sink, for autocorrect-capable cops.
func RunCopWithCorrections(tb testing.TB, c cop.Cop, content string, cfg cop.Config) ([]diagnostic.Diagnostic, []diagnostic.Correction) {
	tb.Helper()

	file, tree, m := ParseFile(tb, "test.rb", content)

	var diagnostics []diagnostic.Diagnostic
	var corrections []diagnostic.Correction
	ctx := cop.NewContext(file, tree, m, cfg, c, &diagnostics, &corrections)

	interested := c.InterestedNodeTypes()
	if len(interested) > 0 {
		want := make(map[ast.Kind]bool, len(interested))
		for _, k := range interested {
			want[k] = true
		}
		if tree.Root != nil {
			ast.Walk(tree.Root, func(n ast.Node) {
				if want[n.Kind()] {
					c.CheckNode(ctx, n)
				}
			})
		}
	}

	c.CheckLines(ctx)
	c.CheckSource(ctx)

	return diagnostics, corrections
}

// AssertNoDiagnostics fails the test if diagnostics is non-empty.
func AssertNoDiagnostics(tb testing.TB, diagnostics []diagnostic.Diagnostic) {
	tb.Helper()
	if len(diagnostics) > 0 {
		tb.Errorf("expected no diagnostics, got %d:", len(diagnostics))
		for _, d := range diagnostics {
			tb.Logf("  - %s at line %d: %s", d.CopName, d.Location.Line, d.Message)
		}
	}
}

// AssertDiagnosticCount fails the test if the diagnostic count doesn't match.
func AssertDiagnosticCount(tb testing.TB, diagnostics []diagnostic.Diagnostic, want int) {
	tb.Helper()
	if len(diagnostics) != want {
		tb.Errorf("got %d diagnostics, want %d", len(diagnostics), want)
		for _, d := range diagnostics {
			tb.Logf("  - %s at line %d: %s", d.CopName, d.Location.Line, d.Message)
		}
	}
}
