package metrics

import (
	"fmt"
	"strings"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// methodLength flags Def/Defs bodies spanning more lines than Max,
// optionally not counting comment-only lines. Adapted from the teacher's
// deleted Dockerfile maxlines-style rule (see DESIGN.md), reworked as a
// method-body line counter instead of a whole-stage counter.
type methodLength struct{ cop.Base }

// MethodLength is the registered Metrics/MethodLength cop instance.
var MethodLength cop.Cop = methodLength{}

func (methodLength) Name() string                        { return "Metrics/MethodLength" }
func (methodLength) DefaultSeverity() diagnostic.Severity { return diagnostic.SeverityConvention }
func (methodLength) DefaultEnabled() bool                 { return true }

func (methodLength) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindDef, ast.KindDefs}
}

func (c methodLength) CheckNode(ctx *cop.Context, n ast.Node) {
	max := ctx.Config.IntOption("Max", 10)
	countComments := ctx.Config.BoolOption("CountComments", false)

	start := ctx.File.OffsetToPosition(n.Location().StartOffset).Line
	end := ctx.File.OffsetToPosition(n.Location().EndOffset).Line

	lines := 0
	for l := start + 1; l < end; l++ {
		if !countComments {
			trimmed := strings.TrimSpace(ctx.File.LineString(l))
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
		}
		lines++
	}

	if lines > max {
		ctx.Report(n.Location().StartOffset,
			fmt.Sprintf("Method has too many lines. [%d/%d]", lines, max))
	}
}
