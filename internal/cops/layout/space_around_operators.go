package layout

import (
	"strings"

	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// spaceAroundOperators is a line-scan cop flagging a handful of common
// binary operators (=, ==, +, -, *, /) missing surrounding whitespace,
// using the CodeMap so operator-shaped text inside a string literal is
// never mistaken for code.
type spaceAroundOperators struct{ cop.Base }

// SpaceAroundOperators is the registered Layout/SpaceAroundOperators cop.
var SpaceAroundOperators cop.Cop = spaceAroundOperators{}

func (spaceAroundOperators) Name() string { return "Layout/SpaceAroundOperators" }
func (spaceAroundOperators) DefaultSeverity() diagnostic.Severity {
	return diagnostic.SeverityConvention
}
func (spaceAroundOperators) DefaultEnabled() bool { return true }

var watchedOperators = []string{"==", "=", "+", "-", "*", "/"}

func (c spaceAroundOperators) CheckLines(ctx *cop.Context) {
	for line := 1; line <= ctx.File.LineCount(); line++ {
		raw := ctx.File.Line(line)
		offset := ctx.File.LineOffset(line)
		if offset < 0 {
			continue
		}
		c.scanLine(ctx, raw, offset)
	}
}

func (c spaceAroundOperators) scanLine(ctx *cop.Context, raw []byte, lineOffset int) {
	i := 0
	for i < len(raw) {
		if !ctx.Map.IsCode(lineOffset + i) {
			i++
			continue
		}
		opLen := 0
		matched := ""
		for _, op := range watchedOperators {
			if matchesOperatorAt(raw, i, op) {
				opLen = len(op)
				matched = op
				break
			}
		}
		if opLen == 0 {
			i++
			continue
		}
		if isUnaryOperand(matched) && isUnaryOperatorContext(raw, i) {
			i += opLen
			continue
		}
		missingBefore := i > 0 && !isSpace(raw[i-1])
		missingAfter := i+opLen < len(raw) && !isSpace(raw[i+opLen])
		if missingBefore || missingAfter {
			ctx.Report(lineOffset+i, "Surrounding space missing for operator.")
		}
		i += opLen
	}
}

// isUnaryOperand reports whether op can appear in unary/splat position
// (+x, -x, *args, a / the division op never does, but the spec's own
// examples list it alongside the others, so it is treated the same way
// for symmetry).
func isUnaryOperand(op string) bool {
	switch op {
	case "+", "-", "*", "/":
		return true
	default:
		return false
	}
}

// unaryContextPunct are bytes that, as the nearest non-space byte before
// an operator, mark it as a unary/splat operand rather than an infix
// operator: an assignment, an opening delimiter, a separator, or another
// operator sitting right before it ("a * -1").
const unaryContextPunct = "=([{,|+-*/"

// unaryContextKeywords are Ruby keywords that, like an opening delimiter,
// are followed by an operand rather than a value ("return -1", "yield
// -x"): the keyword is not itself an expression an infix operator could
// apply to.
var unaryContextKeywords = map[string]struct{}{
	"return": {}, "yield": {}, "break": {}, "next": {},
	"when": {}, "in": {}, "and": {}, "or": {}, "not": {},
	"if": {}, "unless": {}, "while": {}, "until": {}, "then": {},
}

// isUnaryOperatorContext reports whether the operator at raw[i] sits in
// unary/splat position: the nearest preceding non-space byte is one of
// unaryContextPunct, the final word of a unaryContextKeywords keyword, or
// there is no preceding byte at all (start of line).
func isUnaryOperatorContext(raw []byte, i int) bool {
	j := i - 1
	for j >= 0 && isSpace(raw[j]) {
		j--
	}
	if j < 0 {
		return true
	}
	if strings.IndexByte(unaryContextPunct, raw[j]) >= 0 {
		return true
	}
	if !isWordByte(raw[j]) {
		return false
	}
	wordEnd := j + 1
	wordStart := wordEnd
	for wordStart > 0 && isWordByte(raw[wordStart-1]) {
		wordStart--
	}
	_, isKeyword := unaryContextKeywords[string(raw[wordStart:wordEnd])]
	return isKeyword
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

// matchesOperatorAt reports whether op appears at raw[i:] as a maximal
// match: a 1-byte candidate like "=" must not actually be part of "==",
// "!=", "<=", ">=", or "=>" at that position.
func matchesOperatorAt(raw []byte, i int, op string) bool {
	if i+len(op) > len(raw) || string(raw[i:i+len(op)]) != op {
		return false
	}
	if op == "=" {
		if i+1 < len(raw) && (raw[i+1] == '=' || raw[i+1] == '>') {
			return false
		}
		if i > 0 && (raw[i-1] == '!' || raw[i-1] == '<' || raw[i-1] == '>' || raw[i-1] == '=') {
			return false
		}
	}
	return true
}
