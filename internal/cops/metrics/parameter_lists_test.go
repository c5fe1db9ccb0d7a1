package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/testutil"
)

func TestParameterLists_OffenseOverDefaultMax(t *testing.T) {
	src := "def foo(a, b, c, d, e, f)\nend\n"
	diags := testutil.RunCop(t, ParameterLists, src)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "[6/5]")
	assert.Equal(t, "Metrics/ParameterLists", diags[0].CopName)
}

func TestParameterLists_NoOffenseWithinDefaultMax(t *testing.T) {
	src := "def foo(a, b)\nend\n"
	diags := testutil.RunCop(t, ParameterLists, src)
	testutil.AssertNoDiagnostics(t, diags)
}

func TestParameterLists_ConfiguredMax(t *testing.T) {
	src := "def foo(a, b, c)\nend\n"
	cfg := cop.Config{Enabled: true, Options: map[string]any{"Max": 2}}
	diags := testutil.RunCopWithConfig(t, ParameterLists, src, cfg)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "[3/2]")
}

func TestParameterLists_CountKeywordArgsFalse(t *testing.T) {
	src := "def foo(a, b:, c:)\nend\n"
	cfg := cop.Config{Enabled: true, Options: map[string]any{"Max": 1, "CountKeywordArgs": false}}
	diags := testutil.RunCopWithConfig(t, ParameterLists, src, cfg)
	require.Len(t, diags, 0, "keyword args excluded from the count should leave only 1 positional param")
}

func TestParameterLists_DefsNode(t *testing.T) {
	src := "def self.foo(a, b, c, d, e, f)\nend\n"
	diags := testutil.RunCop(t, ParameterLists, src)
	require.Len(t, diags, 1)
}
