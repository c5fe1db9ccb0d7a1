// Package metrics holds cops that flag methods exceeding a size or
// complexity threshold.
package metrics

import (
	"fmt"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// parameterLists flags Def/Defs nodes whose parameter count exceeds Max.
// Grounded on original_source/src/cop/metrics/parameter_lists.rs: same
// Max/CountKeywordArgs options and "[count/max]" message shape.
type parameterLists struct{ cop.Base }

// ParameterLists is the registered Metrics/ParameterLists cop instance.
var ParameterLists cop.Cop = parameterLists{}

func (parameterLists) Name() string                        { return "Metrics/ParameterLists" }
func (parameterLists) DefaultSeverity() diagnostic.Severity { return diagnostic.SeverityConvention }
func (parameterLists) DefaultEnabled() bool                 { return true }

func (parameterLists) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindDef, ast.KindDefs}
}

func (c parameterLists) CheckNode(ctx *cop.Context, n ast.Node) {
	b, ok := n.(*ast.Basic)
	if !ok {
		return
	}
	argsNode := b.Field(ast.FieldArgsKey)
	if argsNode == nil {
		return
	}
	args, ok := argsNode.(*ast.Basic)
	if !ok {
		return
	}

	max := ctx.Config.IntOption("Max", 5)
	countKeywordArgs := ctx.Config.BoolOption("CountKeywordArgs", true)

	count := 0
	for _, p := range args.Params() {
		switch p.Kind() {
		case ast.KindKeywordParam, ast.KindKeywordRestParam:
			if countKeywordArgs {
				count++
			}
		default:
			count++
		}
	}

	if count > max {
		ctx.Report(n.Location().StartOffset,
			fmt.Sprintf("Avoid parameter lists longer than %d parameters. [%d/%d]", max, count, max))
	}
}
