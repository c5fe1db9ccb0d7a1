package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/testutil"
)

func TestMethodLength_NoOffenseWithinDefaultMax(t *testing.T) {
	src := "def foo\n  x = 1\n  y = 2\nend\n"
	diags := testutil.RunCop(t, MethodLength, src)
	testutil.AssertNoDiagnostics(t, diags)
}

func TestMethodLength_OffenseOverConfiguredMax(t *testing.T) {
	var b strings.Builder
	b.WriteString("def foo\n")
	for i := 0; i < 5; i++ {
		b.WriteString("  x = 1\n")
	}
	b.WriteString("end\n")

	cfg := cop.Config{Enabled: true, Options: map[string]any{"Max": 3}}
	diags := testutil.RunCopWithConfig(t, MethodLength, b.String(), cfg)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "[5/3]")
}

func TestMethodLength_CommentsExcludedByDefault(t *testing.T) {
	src := "def foo\n  # a comment\n  # another\n  x = 1\nend\n"
	cfg := cop.Config{Enabled: true, Options: map[string]any{"Max": 1}}
	diags := testutil.RunCopWithConfig(t, MethodLength, src, cfg)
	testutil.AssertNoDiagnostics(t, diags)
}

func TestMethodLength_CountCommentsTrue(t *testing.T) {
	src := "def foo\n  # a comment\n  x = 1\nend\n"
	cfg := cop.Config{Enabled: true, Options: map[string]any{"Max": 1, "CountComments": true}}
	diags := testutil.RunCopWithConfig(t, MethodLength, src, cfg)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "[2/1]")
}
