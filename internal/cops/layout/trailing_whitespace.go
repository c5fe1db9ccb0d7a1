// Package layout holds line-oriented formatting cops that use the
// CodeMap to avoid false positives inside string/heredoc bodies
//.
package layout

import (
	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// trailingWhitespace is a line-scan cop flagging trailing spaces/tabs,
// skipping bytes the CodeMap classifies as heredoc body (spec.md §4.A's
// stated motivation for CodeMap: "line-oriented rules that need to skip
// string bodies").
type trailingWhitespace struct{ cop.Base }

// TrailingWhitespace is the registered Layout/TrailingWhitespace cop.
var TrailingWhitespace cop.Cop = trailingWhitespace{}

func (trailingWhitespace) Name() string                        { return "Layout/TrailingWhitespace" }
func (trailingWhitespace) DefaultSeverity() diagnostic.Severity { return diagnostic.SeverityConvention }
func (trailingWhitespace) DefaultEnabled() bool                 { return true }
func (trailingWhitespace) SupportsAutocorrect() bool            { return true }

func (c trailingWhitespace) CheckLines(ctx *cop.Context) {
	for line := 1; line <= ctx.File.LineCount(); line++ {
		offset := ctx.File.LineOffset(line)
		if offset < 0 {
			continue
		}
		raw := ctx.File.Line(line)
		end := len(raw)
		trimmed := end
		for trimmed > 0 && (raw[trimmed-1] == ' ' || raw[trimmed-1] == '\t') {
			trimmed--
		}
		if trimmed == end {
			continue
		}
		// A heredoc body is allowed to carry trailing whitespace the
		// author put there on purpose; skip it.
		if ctx.Map.IsHeredoc(offset + trimmed) {
			continue
		}
		startOffset := offset + trimmed
		ctx.ReportWithCorrection(startOffset, "Trailing whitespace detected.",
			startOffset, offset+end, nil)
	}
}

func (trailingWhitespace) InterestedNodeTypes() []ast.Kind { return nil }
