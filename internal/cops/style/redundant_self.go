// Package style holds cops that flag constructs with a preferred,
// behavior-equivalent idiom.
package style

import (
	"strings"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// redundantSelf flags `self.foo` where a bare `foo` would resolve to the
// same method: a zero-argument, blockless call with an explicit self
// receiver that isn't a setter (setters need the explicit receiver to
// avoid being parsed as a local assignment).
type redundantSelf struct{ cop.Base }

// RedundantSelf is the registered Style/RedundantSelf cop.
var RedundantSelf cop.Cop = redundantSelf{}

func (redundantSelf) Name() string                        { return "Style/RedundantSelf" }
func (redundantSelf) DefaultSeverity() diagnostic.Severity { return diagnostic.SeverityConvention }
func (redundantSelf) DefaultEnabled() bool                 { return true }
func (redundantSelf) SupportsAutocorrect() bool             { return true }

func (redundantSelf) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindSend}
}

func (c redundantSelf) CheckNode(ctx *cop.Context, n ast.Node) {
	send := n.(*ast.Basic)
	recv := send.Receiver()
	if recv == nil || recv.Kind() != ast.KindSelf {
		return
	}
	name := send.Name()
	if name == "" || strings.HasSuffix(name, "=") {
		return
	}
	if len(send.Arguments()) > 0 {
		return
	}
	if send.Field("block") != nil {
		return
	}
	ctx.ReportWithCorrection(
		n.Location().StartOffset,
		"Redundant use of self.",
		send.Location().StartOffset,
		send.Location().EndOffset,
		[]byte(name),
	)
}
