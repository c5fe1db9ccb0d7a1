package diagnostic

import "testing"

func TestNewDiagnostic(t *testing.T) {
	loc := Location{Path: "a.rb", Line: 1, Column: 0}
	d := NewDiagnostic(loc, "Metrics/ParameterLists", "Avoid parameter lists longer than 2 parameters. [3/2]", SeverityConvention)
	if d.CopName != "Metrics/ParameterLists" || d.Severity != SeverityConvention {
		t.Errorf("NewDiagnostic = %+v", d)
	}
	if d.CorrectionID() != "" {
		t.Error("expected no correction id by default")
	}
}

func TestCorrection_Range(t *testing.T) {
	c := NewCorrection(10, 15, []byte("x"), "Layout/TrailingWhitespace")
	other := NewCorrection(12, 18, []byte("y"), "Layout/TrailingWhitespace")
	if !c.Range.Overlaps(other.Range) {
		t.Error("expected overlap between [10,15) and [12,18)")
	}
	disjoint := NewCorrection(20, 25, nil, "Layout/TrailingWhitespace")
	if c.Range.Overlaps(disjoint.Range) {
		t.Error("expected no overlap between [10,15) and [20,25)")
	}
}
