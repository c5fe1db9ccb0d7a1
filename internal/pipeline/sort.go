package pipeline

import (
	"sort"

	"github.com/fastcop/fastcop/internal/diagnostic"
)

// sortDiagnostics orders diagnostics by (line, column, cop_name) for a
// deterministic output order.
func sortDiagnostics(diagnostics []diagnostic.Diagnostic) []diagnostic.Diagnostic {
	out := make([]diagnostic.Diagnostic, len(diagnostics))
	copy(out, diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return out[i].CopName < out[j].CopName
	})
	return out
}
