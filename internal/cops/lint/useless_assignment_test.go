package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastcop/fastcop/internal/testutil"
)

func TestUselessAssignment_Offense(t *testing.T) {
	src := "def foo\n  x = 1\nend\n"
	diags := testutil.RunCop(t, UselessAssignment, src)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "x")
}

func TestUselessAssignment_NoOffenseWhenRead(t *testing.T) {
	src := "def foo\n  x = 1\n  puts x\nend\n"
	diags := testutil.RunCop(t, UselessAssignment, src)
	testutil.AssertNoDiagnostics(t, diags)
}

func TestUselessAssignment_ReassignmentSupersedesEarlierWrite(t *testing.T) {
	src := "def foo\n  x = 1\n  x = 2\n  puts x\nend\n"
	diags := testutil.RunCop(t, UselessAssignment, src)
	testutil.AssertNoDiagnostics(t, diags)
}

func TestUselessAssignment_NestedDefIsOwnScope(t *testing.T) {
	src := "def foo\n  def bar\n    y = 1\n  end\nend\n"
	diags := testutil.RunCop(t, UselessAssignment, src)
	require.Len(t, diags, 1, "inner def's useless y is still reported once, from its own CheckNode call")
}

func TestRedundantCopDisableDirective_Registered(t *testing.T) {
	assert.Equal(t, "Lint/RedundantCopDisableDirective", RedundantCopDisableDirective.Name())
}
