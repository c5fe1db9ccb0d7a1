// Package integration exercises the pipeline end-to-end against real files
// on disk, the way the teacher's own integration suite drives its linter
// through full file discovery and config resolution rather than poking
// individual packages.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastcop/fastcop/internal/config"
	_ "github.com/fastcop/fastcop/internal/cops"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/pipeline"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	return pipeline.New(cop.DefaultRegistry(), config.NewResolver())
}

func TestPipeline_FlagsOffensesAcrossCops(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.rb", ""+
		"class Widget\n"+
		"  def fooBar(a, b, c, d, e, f)\n"+
		"    x=1\n"+
		"    self.name\n"+
		"  end\n"+
		"end\n")

	p := newPipeline(t)
	result, err := p.Run(path, mustRead(t, path))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, d := range result.Diagnostics {
		names[d.CopName] = true
	}

	assert.True(t, names["Naming/MethodName"], "expected a MethodName offense, got %v", result.Diagnostics)
	assert.True(t, names["Metrics/ParameterLists"], "expected a ParameterLists offense, got %v", result.Diagnostics)
	assert.True(t, names["Layout/SpaceAroundOperators"], "expected a SpaceAroundOperators offense, got %v", result.Diagnostics)
	assert.True(t, names["Style/RedundantSelf"], "expected a RedundantSelf offense, got %v", result.Diagnostics)
}

func TestPipeline_CleanFileHasNoOffenses(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clean.rb", ""+
		"class Widget\n"+
		"  def initialize(name)\n"+
		"    @name = name\n"+
		"  end\n"+
		"end\n")

	p := newPipeline(t)
	result, err := p.Run(path, mustRead(t, path))
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func TestPipeline_DirectiveSuppressesOffense(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.rb", ""+
		"def foo_bar\n"+
		"  x = 1 # fastcop:disable Lint/UselessAssignment\n"+
		"end\n")

	p := newPipeline(t)
	result, err := p.Run(path, mustRead(t, path))
	require.NoError(t, err)

	for _, d := range result.Diagnostics {
		assert.NotEqual(t, "Lint/UselessAssignment", d.CopName, "directive should have suppressed this offense")
	}
}

func TestPipeline_FixCorrectsRedundantSelfAndTrailingWhitespace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.rb", "def foo\n  self.bar   \nend\n")

	p := newPipeline(t)
	p.Autocorrect = true
	result, err := p.Run(path, mustRead(t, path))
	require.NoError(t, err)
	require.True(t, result.Stable)

	fixed := string(result.Source)
	assert.NotContains(t, fixed, "self.bar")
	assert.Contains(t, fixed, "bar")
	assert.NotContains(t, fixed, "   \n")
}

func TestPipeline_ConfigDisablesCop(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".fastcop.toml", "[\"Naming/MethodName\"]\nEnabled = false\n")
	path := writeFile(t, dir, "app.rb", "def fooBar\nend\n")

	p := newPipeline(t)
	result, err := p.Run(path, mustRead(t, path))
	require.NoError(t, err)

	for _, d := range result.Diagnostics {
		assert.NotEqual(t, "Naming/MethodName", d.CopName, "cop should have been disabled by config")
	}
}

func TestPipeline_UnknownDirectiveDepartmentSurfacesDiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.rb", "# fastcop:disable NotADepartment\nfoo()\n")

	p := newPipeline(t)
	result, err := p.Run(path, mustRead(t, path))
	require.NoError(t, err)

	found := false
	for _, d := range result.Diagnostics {
		if d.CopName == "Migration/DepartmentName" {
			found = true
			assert.Contains(t, d.Message, "NotADepartment")
		}
	}
	assert.True(t, found, "expected a Migration/DepartmentName diagnostic, got %v", result.Diagnostics)
}

func TestPipeline_RunAllPreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.rb", "def foo_bar\nend\n")
	b := writeFile(t, dir, "b.rb", "def bazQux\nend\n")

	p := newPipeline(t)
	results := p.RunAll(context.Background(), []pipeline.FileInput{
		{Path: a},
		{Path: b},
	})

	require.Len(t, results, 2)
	assert.Equal(t, a, results[0].Input.Path)
	assert.Equal(t, b, results[1].Input.Path)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
