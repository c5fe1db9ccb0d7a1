package lint

import (
	"fmt"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// uselessAssignment flags a local variable's last assignment within one
// method when no read of that name follows it; an earlier write that is
// overwritten before any read is not reported on its own - single-
// method, single-file scope only, per spec.md §9's Open Question (no
// cross-method or cross-file data-flow).
type uselessAssignment struct{ cop.Base }

// UselessAssignment is the registered Lint/UselessAssignment cop.
var UselessAssignment cop.Cop = uselessAssignment{}

func (uselessAssignment) Name() string                        { return "Lint/UselessAssignment" }
func (uselessAssignment) DefaultSeverity() diagnostic.Severity { return diagnostic.SeverityWarning }
func (uselessAssignment) DefaultEnabled() bool                 { return true }

func (uselessAssignment) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindDef, ast.KindDefs}
}

// localWrite records the most recent assignment to a local name, so that
// a later write without an intervening read supersedes the earlier one
// (only the assignment never followed by any read is reported).
type localWrite struct {
	offset int
	read   bool
}

func (c uselessAssignment) CheckNode(ctx *cop.Context, n ast.Node) {
	body := n.(*ast.Basic).Body()
	if body == nil {
		return
	}

	locals := make(map[string]*localWrite)
	var visit func(ast.Node, bool)
	visit = func(node ast.Node, lhsPosition bool) {
		if node == nil {
			return
		}
		switch node.Kind() {
		case ast.KindDef, ast.KindDefs, ast.KindClass, ast.KindModule, ast.KindBlock:
			// Nested scopes get their own analysis; don't attribute their
			// local variables to the outer method.
			return
		case ast.KindAssign:
			b := node.(*ast.Basic)
			lhs := b.Field(ast.FieldLHS)
			rhs := b.Field(ast.FieldRHS)
			visit(rhs, false)
			if lhs != nil && lhs.Kind() == ast.KindIdentifier {
				locals[lhs.(*ast.Basic).Name()] = &localWrite{offset: lhs.Location().StartOffset}
				return
			}
			visit(lhs, true)
			return
		case ast.KindIdentifier:
			if !lhsPosition {
				if w, ok := locals[node.(*ast.Basic).Name()]; ok {
					w.read = true
				}
			}
		}
		for _, child := range node.Children() {
			visit(child, false)
		}
	}
	visit(body, false)

	for name, w := range locals {
		if !w.read {
			ctx.Report(w.offset, fmt.Sprintf("Useless assignment to variable - %s.", name))
		}
	}
}
