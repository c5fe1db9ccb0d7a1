package layout

import (
	"testing"

	"github.com/fastcop/fastcop/internal/testutil"
)

func TestSpaceAroundOperators_Offense(t *testing.T) {
	diags := testutil.RunCop(t, SpaceAroundOperators, "x=1\n")
	testutil.AssertDiagnosticCount(t, diags, 1)
}

func TestSpaceAroundOperators_NoOffense(t *testing.T) {
	diags := testutil.RunCop(t, SpaceAroundOperators, "x = 1\n")
	testutil.AssertNoDiagnostics(t, diags)
}

func TestSpaceAroundOperators_EqualityNotFlaggedAsAssign(t *testing.T) {
	diags := testutil.RunCop(t, SpaceAroundOperators, "x = (a == b)\n")
	testutil.AssertNoDiagnostics(t, diags)
}

func TestSpaceAroundOperators_IgnoresStringBody(t *testing.T) {
	diags := testutil.RunCop(t, SpaceAroundOperators, "x = \"a=b\"\n")
	testutil.AssertNoDiagnostics(t, diags)
}

func TestSpaceAroundOperators_UnaryMinusAfterAssignment(t *testing.T) {
	diags := testutil.RunCop(t, SpaceAroundOperators, "x = -1\n")
	testutil.AssertNoDiagnostics(t, diags)
}

func TestSpaceAroundOperators_UnaryMinusAfterReturnKeyword(t *testing.T) {
	diags := testutil.RunCop(t, SpaceAroundOperators, "return -1\n")
	testutil.AssertNoDiagnostics(t, diags)
}

func TestSpaceAroundOperators_UnaryMinusInArrayLiteral(t *testing.T) {
	diags := testutil.RunCop(t, SpaceAroundOperators, "x = [-1, -2]\n")
	testutil.AssertNoDiagnostics(t, diags)
}

func TestSpaceAroundOperators_UnaryMinusAfterBinaryOperator(t *testing.T) {
	diags := testutil.RunCop(t, SpaceAroundOperators, "x = a * -1\n")
	testutil.AssertNoDiagnostics(t, diags)
}

func TestSpaceAroundOperators_SplatInCallArguments(t *testing.T) {
	diags := testutil.RunCop(t, SpaceAroundOperators, "foo(*args)\n")
	testutil.AssertNoDiagnostics(t, diags)
}

func TestSpaceAroundOperators_StillFlagsMissingSpaceAroundPlus(t *testing.T) {
	diags := testutil.RunCop(t, SpaceAroundOperators, "x = a+b\n")
	testutil.AssertDiagnosticCount(t, diags, 1)
}
