// Package lint holds cops that flag likely-incorrect code and directive
// hygiene.
package lint

import (
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// redundantCopDisableDirective is intentionally a no-op in
// CheckLines/CheckNode/CheckSource. Grounded on
// original_source/src/cop/lint/redundant_cop_disable_directive.rs: detecting
// a redundant disable directive requires post-processing knowledge of which
// cops actually fired, which spec.md §4.F step 8 assigns to the pipeline
// (see internal/pipeline/redundant.go), not to any single cop's entry
// points. This struct exists only so the name is registered with a
// severity and config section like any other cop.
type redundantCopDisableDirective struct{ cop.Base }

// RedundantCopDisableDirective is the registered
// Lint/RedundantCopDisableDirective cop.
var RedundantCopDisableDirective cop.Cop = redundantCopDisableDirective{}

func (redundantCopDisableDirective) Name() string { return "Lint/RedundantCopDisableDirective" }
func (redundantCopDisableDirective) DefaultSeverity() diagnostic.Severity {
	return diagnostic.SeverityWarning
}
func (redundantCopDisableDirective) DefaultEnabled() bool { return true }
