// Package naming holds cops that check identifier casing conventions
//.
package naming

import (
	"strings"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// methodName flags a Def/Defs identifier that isn't snake_case - an
// operator method (redefining +, ==, []=, ...), a bare setter (ending in
// =), or a predicate (ending in ? or !) is exempt from the casing check
// on its suffix but the stem must still be snake_case.
type methodName struct{ cop.Base }

// MethodName is the registered Naming/MethodName cop.
var MethodName cop.Cop = methodName{}

func (methodName) Name() string                        { return "Naming/MethodName" }
func (methodName) DefaultSeverity() diagnostic.Severity { return diagnostic.SeverityConvention }
func (methodName) DefaultEnabled() bool                 { return true }

func (methodName) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindDef, ast.KindDefs}
}

func (c methodName) CheckNode(ctx *cop.Context, n ast.Node) {
	name := n.(*ast.Basic).Name()
	stem := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(name, "="), "?"), "!")
	if stem == "" || isOperatorMethodName(stem) {
		return
	}
	if !isSnakeCase(stem) {
		ctx.Report(n.Location().StartOffset, "Use snake_case for method names.")
	}
}

func isSnakeCase(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return false
		}
	}
	return true
}

// isOperatorMethodName reports whether stem names an operator method
// (e.g. `+`, `<=>`, `[]`), which has no casing convention to violate.
func isOperatorMethodName(stem string) bool {
	for _, r := range stem {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || (r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
