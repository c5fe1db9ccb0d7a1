package pipeline

import (
	"fmt"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/codemap"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
	"github.com/fastcop/fastcop/internal/source"
)

// dispatch runs the analysis passes over the selected cops: a single
// depth-first pre-order walk invoking CheckNode through a
// kind-indexed dispatch table, then one CheckLines call per cop, then one
// CheckSource call per cop (Base's no-op default makes the latter free for
// cops that don't implement it). Every cop call is wrapped so a panic
// degrades only that cop for this file.
func (p *Pipeline) dispatch(
	file *source.File,
	tree *ast.Tree,
	m *codemap.Map,
	cops []cop.Cop,
	selected map[string]cop.Config,
	diagnostics *[]diagnostic.Diagnostic,
	corrections *[]diagnostic.Correction,
) {
	index := buildDispatchIndex(cops)

	if tree.Root != nil && len(index) > 0 {
		ast.Walk(tree.Root, func(n ast.Node) {
			for _, c := range index[n.Kind()] {
				p.invoke(c, file, tree, m, selected[c.Name()], diagnostics, corrections, func(ctx *cop.Context) {
					c.CheckNode(ctx, n)
				})
			}
		})
	}

	for _, c := range cops {
		p.invoke(c, file, tree, m, selected[c.Name()], diagnostics, corrections, func(ctx *cop.Context) {
			c.CheckLines(ctx)
		})
		p.invoke(c, file, tree, m, selected[c.Name()], diagnostics, corrections, func(ctx *cop.Context) {
			c.CheckSource(ctx)
		})
	}
}

// buildDispatchIndex maps each node.Kind() to the cops interested in it,
// built once per file from the selected cop set.
func buildDispatchIndex(cops []cop.Cop) map[ast.Kind][]cop.Cop {
	index := make(map[ast.Kind][]cop.Cop)
	for _, c := range cops {
		for _, k := range c.InterestedNodeTypes() {
			index[k] = append(index[k], c)
		}
	}
	return index
}

// invoke calls fn with a fresh per-call Context, recovering a panic from
// fn into an operational diagnostic naming the cop. Per-cop
// state must not survive this call: ctx is constructed and discarded here.
func (p *Pipeline) invoke(
	c cop.Cop,
	file *source.File,
	tree *ast.Tree,
	m *codemap.Map,
	cfg cop.Config,
	diagnostics *[]diagnostic.Diagnostic,
	corrections *[]diagnostic.Correction,
	fn func(ctx *cop.Context),
) {
	defer func() {
		if r := recover(); r != nil {
			if p.Logger != nil {
				p.Logger.WithField("cop", c.Name()).WithField("file", file.Path()).
					Errorf("recovered panic: %v", r)
			}
			*diagnostics = append(*diagnostics, diagnostic.NewDiagnostic(
				diagnostic.Location{Path: file.Path()}, c.Name(),
				fmt.Sprintf("cop panicked: %v", r), diagnostic.SeverityError))
		}
	}()
	ctx := cop.NewContext(file, tree, m, cfg, c, diagnostics, corrections)
	fn(ctx)
}
