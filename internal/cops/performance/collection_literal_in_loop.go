// Package performance holds cops that flag code constructs with a cheap,
// equivalent-behavior replacement (spec.md §2 component J, department
// Performance).
package performance

import (
	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// collectionLiteralInLoop flags an array or hash literal built directly
// inside a loop body (a while/until, or a block-taking call like
// `arr.each do ... end`), since the literal is reconstructed every
// iteration instead of once.
type collectionLiteralInLoop struct{ cop.Base }

// CollectionLiteralInLoop is the registered
// Performance/CollectionLiteralInLoop cop.
var CollectionLiteralInLoop cop.Cop = collectionLiteralInLoop{}

func (collectionLiteralInLoop) Name() string { return "Performance/CollectionLiteralInLoop" }
func (collectionLiteralInLoop) DefaultSeverity() diagnostic.Severity {
	return diagnostic.SeverityWarning
}
func (collectionLiteralInLoop) DefaultEnabled() bool { return true }

func (collectionLiteralInLoop) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindWhile, ast.KindUntil, ast.KindSend}
}

func (c collectionLiteralInLoop) CheckNode(ctx *cop.Context, n ast.Node) {
	body := loopBody(n)
	if body == nil {
		return
	}

	var visit func(ast.Node)
	visit = func(node ast.Node) {
		if node == nil {
			return
		}
		switch {
		case node.Kind() == ast.KindArray, node.Kind() == ast.KindHash:
			ctx.Report(node.Location().StartOffset, "Avoid allocating a collection literal on every loop iteration.")
			return
		case isLoopNode(node) && node != body:
			// A nested loop reports its own literals from its own
			// CheckNode call; don't double-report here.
			return
		case node.Kind() == ast.KindDef, node.Kind() == ast.KindDefs:
			// A nested method body has its own execution cadence.
			return
		}
		for _, child := range node.Children() {
			visit(child)
		}
	}
	visit(body)
}

// loopBody returns the statement body a node introduces a loop over, or
// nil if n isn't (or doesn't carry) a loop.
func loopBody(n ast.Node) ast.Node {
	b, ok := n.(*ast.Basic)
	if !ok {
		return nil
	}
	switch n.Kind() {
	case ast.KindWhile, ast.KindUntil:
		return b.Body()
	case ast.KindSend:
		blk := b.Field("block")
		if blk == nil {
			return nil
		}
		if blkBasic, ok := blk.(*ast.Basic); ok {
			return blkBasic.Body()
		}
	}
	return nil
}

func isLoopNode(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindWhile, ast.KindUntil:
		return true
	case ast.KindSend:
		return loopBody(n) != nil
	default:
		return false
	}
}
