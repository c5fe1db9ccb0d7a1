package ast

import "fmt"

// Parser is the contract the pipeline depends on; the parser itself is an
// external collaborator behind this interface. Parse never returns a nil
// Tree: on malformed input it returns the best-effort tree built so far
// plus Tree.Diagnostics, since a parse error never aborts the run.
type Parser interface {
	Parse(path string, src []byte) *Tree
}

// ReferenceParser is a small hand-written recursive-descent parser for a
// representative subset of a Ruby-shaped grammar: method/class/module
// definitions, conditionals, loops, begin/rescue/ensure, literals, and
// method calls with parenthesized or bare arguments and an optional
// trailing block. It exists to give the engine something real to dispatch
// against; it is not a complete implementation of the target language's
// grammar (full grammar coverage is explicitly out of scope — see
// DESIGN.md's internal/ast notes).
type ReferenceParser struct{}

func NewReferenceParser() *ReferenceParser { return &ReferenceParser{} }

type parser struct {
	lx     *lexer
	toks   []token
	pos    int
	diags  []ParseDiagnostic
	source []byte
}

func (p *ReferenceParser) Parse(path string, src []byte) *Tree {
	lx := newLexer(src)
	ps := &parser{lx: lx, source: src}
	ps.fill()

	end := len(src)
	root := NewNode(KindProgram, Location{0, end})
	var stmts []Node
	for !ps.atEOF() {
		ps.skipNewlines()
		if ps.atEOF() {
			break
		}
		stmt := ps.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if !ps.atEOF() && !ps.atNewlineOrEOF() {
			// Couldn't make progress cleanly; skip a token to avoid
			// looping forever on unrecognized input.
			ps.advance()
		}
	}
	root.children = stmts

	heredocLocs := make([]Location, len(lx.heredocs))
	copy(heredocLocs, lx.heredocs)
	return &Tree{Root: root, Comments: lx.comments, Diagnostics: ps.diags, HeredocRanges: heredocLocs}
}

// fill pulls the entire token stream up front; source files analyzed by a
// linter are small enough that this is simpler than on-demand lexing with
// an explicit pushback buffer.
func (p *parser) fill() {
	for {
		t := p.lx.next()
		p.toks = append(p.toks, t)
		if t.kind == tokEOF {
			break
		}
	}
}

func (p *parser) cur() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token {
	i := p.pos + n
	if i >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[i]
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks)-1 || t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) atEOF() bool { return p.cur().kind == tokEOF }

func (p *parser) atNewlineOrEOF() bool {
	k := p.cur().kind
	return k == tokNewline || k == tokEOF
}

func (p *parser) skipNewlines() {
	for p.cur().kind == tokNewline {
		p.advance()
	}
}

func (p *parser) isKeyword(kw string) bool {
	t := p.cur()
	return t.kind == tokKeyword && t.text == kw
}

func (p *parser) isOp(op string) bool {
	t := p.cur()
	return t.kind == tokOp && t.text == op
}

func (p *parser) errorf(loc Location, format string, args ...any) {
	p.diags = append(p.diags, ParseDiagnostic{Location: loc, Message: sprintf(format, args...)})
}

func sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// ---- statements ----

func (p *parser) parseStatement() Node {
	switch {
	case p.isKeyword("def"):
		return p.parseDef()
	case p.isKeyword("class"):
		return p.parseClass()
	case p.isKeyword("module"):
		return p.parseModule()
	case p.isKeyword("if"), p.isKeyword("unless"):
		return p.parseIf()
	case p.isKeyword("while"), p.isKeyword("until"):
		return p.parseWhile()
	case p.isKeyword("begin"):
		return p.parseBegin()
	case p.isKeyword("case"):
		return p.parseCase()
	case p.isKeyword("return"), p.isKeyword("break"), p.isKeyword("next"),
		p.isKeyword("redo"), p.isKeyword("retry"), p.isKeyword("yield"):
		return p.parseJumpOrYield()
	case p.isKeyword("alias"):
		return p.parseAlias()
	default:
		return p.parseExpressionStatementWithModifier()
	}
}

func (p *parser) parseStatementsUntil(terminators ...string) (Node, Location) {
	start := p.cur().loc
	var stmts []Node
	for {
		p.skipNewlines()
		if p.atEOF() || p.atAnyKeyword(terminators...) {
			break
		}
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		} else {
			break
		}
	}
	end := p.cur().loc
	body := NewNode(KindBegin, Location{start.StartOffset, end.StartOffset}, stmts...)
	return body, end
}

func (p *parser) atAnyKeyword(kws ...string) bool {
	for _, kw := range kws {
		if p.isKeyword(kw) {
			return true
		}
	}
	return false
}

func (p *parser) expectKeyword(kw string) Location {
	if p.isKeyword(kw) {
		return p.advance().loc
	}
	loc := p.cur().loc
	p.errorf(loc, "expected keyword %q", kw)
	return loc
}

// parseDef parses `def name(params) ... end` and `def self.name(params) ... end`.
func (p *parser) parseDef() Node {
	start := p.expectKeyword("def")
	kind := KindDef
	var recvSelf bool
	if p.isKeyword("self") && p.peekAt(1).kind == tokOp && p.peekAt(1).text == "." {
		recvSelf = true
		kind = KindDefs
		p.advance() // self
		p.advance() // .
	}
	name := p.parseMethodNameToken()
	n := NewNode(kind, Location{})
	n.SetName(name)
	if recvSelf {
		n.WithField(FieldReceiver, NewNode(KindSelf, Location{}))
	}
	n.WithField(FieldArgsKey, p.parseOptionalParamList())
	p.skipToNewline()
	body, _ := p.parseStatementsUntil("end", "rescue", "ensure")
	if p.isKeyword("rescue") || p.isKeyword("ensure") {
		body = p.parseRescueEnsureWrapping(body)
	}
	end := p.expectKeyword("end")
	n.loc = Location{start.StartOffset, end.EndOffset}
	n.WithField(FieldBody, body)
	return n
}

const FieldArgsKey = "params_node"

func (p *parser) parseMethodNameToken() string {
	t := p.cur()
	switch t.kind {
	case tokIdent, tokConstant, tokKeyword:
		p.advance()
		return t.text
	case tokOp:
		p.advance()
		return t.text
	default:
		p.errorf(t.loc, "expected method name")
		return "?"
	}
}

// parseOptionalParamList parses `(a, b = 1, *rest, k:, **kw, &blk)` or the
// parenthesis-less form `a, b` up to end of line.
func (p *parser) parseOptionalParamList() Node {
	hasParens := p.isOp("(")
	if hasParens {
		p.advance()
	} else if p.cur().kind != tokIdent && !p.isOp("*") && !p.isOp("**") && !p.isOp("&") {
		return NewNode(KindArgs, Location{})
	}
	start := p.cur().loc
	var params []Node
	for {
		if hasParens && p.isOp(")") {
			break
		}
		if !hasParens && (p.atNewlineOrEOF()) {
			break
		}
		params = append(params, p.parseOneParam())
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().loc
	if hasParens {
		if p.isOp(")") {
			end = p.advance().loc
		} else {
			p.errorf(p.cur().loc, "expected ) to close parameter list")
		}
	}
	n := NewNode(KindArgs, Location{start.StartOffset, end.EndOffset})
	n.WithList(ListParams, params)
	return n
}

func (p *parser) parseOneParam() Node {
	t := p.cur()
	switch {
	case p.isOp("*"):
		p.advance()
		name := ""
		if p.cur().kind == tokIdent {
			name = p.advance().text
		}
		return NewNode(KindRestParam, t.loc).SetName(name)
	case p.isOp("**"):
		p.advance()
		name := ""
		if p.cur().kind == tokIdent {
			name = p.advance().text
		}
		return NewNode(KindKeywordRestParam, t.loc).SetName(name)
	case p.isOp("&"):
		p.advance()
		name := ""
		if p.cur().kind == tokIdent {
			name = p.advance().text
		}
		return NewNode(KindBlockParam, t.loc).SetName(name)
	case t.kind == tokIdent:
		p.advance()
		if p.isOp(":") {
			p.advance()
			if p.atParamSeparator() {
				return NewNode(KindKeywordParam, t.loc).SetName(t.text)
			}
			val := p.parseExpression()
			n := NewNode(KindKeywordParam, t.loc).SetName(t.text)
			n.WithField(FieldSuperclassOrValue, val)
			return n
		}
		if p.isOp("=") {
			p.advance()
			val := p.parseExpression()
			n := NewNode(KindOptParam, t.loc).SetName(t.text)
			n.WithField(FieldSuperclassOrValue, val)
			return n
		}
		return NewNode(KindParam, t.loc).SetName(t.text)
	default:
		p.errorf(t.loc, "unexpected token in parameter list")
		p.advance()
		return NewNode(KindParam, t.loc)
	}
}

func (p *parser) atParamSeparator() bool {
	return p.isOp(",") || p.isOp(")") || p.atNewlineOrEOF()
}

func (p *parser) skipToNewline() {
	for !p.atNewlineOrEOF() {
		p.advance()
	}
	p.skipNewlines()
}

func (p *parser) parseRescueEnsureWrapping(body Node) Node {
	n := NewNode(KindBegin, body.Location())
	n.children = []Node{body}
	var rescues []Node
	for p.isKeyword("rescue") {
		start := p.advance().loc
		// optional exception class list and => var, ignored in detail
		for !p.atNewlineOrEOF() && !p.isKeyword("then") {
			p.advance()
		}
		if p.isKeyword("then") {
			p.advance()
		}
		p.skipNewlines()
		rbody, _ := p.parseStatementsUntil("end", "rescue", "ensure")
		rn := NewNode(KindRescue, Location{start.StartOffset, rbody.Location().EndOffset})
		rn.WithField(FieldBody, rbody)
		rescues = append(rescues, rn)
	}
	if len(rescues) > 0 {
		n.WithList(ListRescues, rescues)
	}
	if p.isKeyword("ensure") {
		p.advance()
		p.skipNewlines()
		ebody, _ := p.parseStatementsUntil("end")
		ens := NewNode(KindEnsure, ebody.Location())
		ens.WithField(FieldBody, ebody)
		n.WithField("ensure", ens)
	}
	return n
}

func (p *parser) parseClass() Node {
	start := p.expectKeyword("class")
	if p.isOp("<<") {
		p.advance()
		p.parseExpression()
		p.skipToNewline()
		body, _ := p.parseStatementsUntil("end")
		end := p.expectKeyword("end")
		n := NewNode(KindSingletonClass, Location{start.StartOffset, end.EndOffset})
		n.WithField(FieldBody, body)
		return n
	}
	name := p.parseMethodNameToken()
	n := NewNode(KindClass, Location{})
	n.SetName(name)
	if p.isOp("<") {
		p.advance()
		super := p.parseExpression()
		n.WithField(FieldSuperclassOrValue, super)
	}
	p.skipToNewline()
	body, _ := p.parseStatementsUntil("end", "rescue", "ensure")
	if p.isKeyword("rescue") || p.isKeyword("ensure") {
		body = p.parseRescueEnsureWrapping(body)
	}
	end := p.expectKeyword("end")
	n.loc = Location{start.StartOffset, end.EndOffset}
	n.WithField(FieldBody, body)
	return n
}

func (p *parser) parseModule() Node {
	start := p.expectKeyword("module")
	name := p.parseMethodNameToken()
	n := NewNode(KindModule, Location{})
	n.SetName(name)
	p.skipToNewline()
	body, _ := p.parseStatementsUntil("end")
	end := p.expectKeyword("end")
	n.loc = Location{start.StartOffset, end.EndOffset}
	n.WithField(FieldBody, body)
	return n
}

func (p *parser) parseIf() Node {
	isUnless := p.isKeyword("unless")
	start := p.advance().loc
	cond := p.parseExpression()
	if p.isKeyword("then") {
		p.advance()
	}
	p.skipNewlines()
	thenBody, _ := p.parseStatementsUntil("elsif", "else", "end")
	kind := KindIf
	if isUnless {
		kind = KindUnless
	}
	n := NewNode(kind, Location{})
	n.WithField(FieldCond, cond)
	n.WithField(FieldThen, thenBody)
	if p.isKeyword("elsif") {
		n.WithField(FieldElse, p.parseElsif())
	} else if p.isKeyword("else") {
		p.advance()
		p.skipNewlines()
		elseBody, _ := p.parseStatementsUntil("end")
		n.WithField(FieldElse, elseBody)
	}
	end := p.expectKeyword("end")
	n.loc = Location{start.StartOffset, end.EndOffset}
	return n
}

func (p *parser) parseElsif() Node {
	start := p.advance().loc // consumes "elsif"
	cond := p.parseExpression()
	if p.isKeyword("then") {
		p.advance()
	}
	p.skipNewlines()
	thenBody, _ := p.parseStatementsUntil("elsif", "else", "end")
	n := NewNode(KindIf, Location{start.StartOffset, thenBody.Location().EndOffset})
	n.WithField(FieldCond, cond)
	n.WithField(FieldThen, thenBody)
	if p.isKeyword("elsif") {
		n.WithField(FieldElse, p.parseElsif())
	} else if p.isKeyword("else") {
		p.advance()
		p.skipNewlines()
		elseBody, _ := p.parseStatementsUntil("end")
		n.WithField(FieldElse, elseBody)
	}
	return n
}

func (p *parser) parseWhile() Node {
	isUntil := p.isKeyword("until")
	start := p.advance().loc
	cond := p.parseExpression()
	if p.isKeyword("do") {
		p.advance()
	}
	p.skipNewlines()
	body, _ := p.parseStatementsUntil("end")
	end := p.expectKeyword("end")
	kind := KindWhile
	if isUntil {
		kind = KindUntil
	}
	n := NewNode(kind, Location{start.StartOffset, end.EndOffset})
	n.WithField(FieldCond, cond)
	n.WithField(FieldBody, body)
	return n
}

func (p *parser) parseBegin() Node {
	start := p.expectKeyword("begin")
	body, _ := p.parseStatementsUntil("end", "rescue", "ensure")
	if p.isKeyword("rescue") || p.isKeyword("ensure") {
		body = p.parseRescueEnsureWrapping(body)
	}
	end := p.expectKeyword("end")
	body.(*Basic).loc = Location{start.StartOffset, end.EndOffset}
	return body
}

func (p *parser) parseCase() Node {
	start := p.expectKeyword("case")
	var subject Node
	if !p.atNewlineOrEOF() {
		subject = p.parseExpression()
	}
	p.skipNewlines()
	n := NewNode(KindCase, Location{})
	if subject != nil {
		n.WithField(FieldCond, subject)
	}
	var whens []Node
	for p.isKeyword("when") {
		wstart := p.advance().loc
		var conds []Node
		for {
			conds = append(conds, p.parseExpression())
			if p.isOp(",") {
				p.advance()
				continue
			}
			break
		}
		if p.isKeyword("then") {
			p.advance()
		}
		p.skipNewlines()
		wbody, _ := p.parseStatementsUntil("when", "else", "end")
		wn := NewNode(KindWhen, Location{wstart.StartOffset, wbody.Location().EndOffset})
		wn.WithList(ListElements, conds)
		wn.WithField(FieldBody, wbody)
		whens = append(whens, wn)
	}
	n.WithList("whens", whens)
	if p.isKeyword("else") {
		p.advance()
		p.skipNewlines()
		ebody, _ := p.parseStatementsUntil("end")
		n.WithField(FieldElse, ebody)
	}
	end := p.expectKeyword("end")
	n.loc = Location{start.StartOffset, end.EndOffset}
	return n
}

func (p *parser) parseJumpOrYield() Node {
	t := p.advance()
	kind := map[string]Kind{
		"return": KindReturn, "break": KindBreak, "next": KindNext,
		"redo": KindRedo, "retry": KindRetry, "yield": KindYield,
	}[t.text]
	n := NewNode(kind, t.loc)
	if !p.atNewlineOrEOF() && !p.isKeyword("if") && !p.isKeyword("unless") {
		var args []Node
		for {
			args = append(args, p.parseExpression())
			if p.isOp(",") {
				p.advance()
				continue
			}
			break
		}
		n.WithList(ListArguments, args)
		if len(args) > 0 {
			n.loc = Location{t.loc.StartOffset, args[len(args)-1].Location().EndOffset}
		}
	}
	return p.wrapModifier(n)
}

func (p *parser) parseAlias() Node {
	start := p.advance().loc
	newName := p.parseMethodNameToken()
	oldName := p.parseMethodNameToken()
	n := NewNode(KindAlias, Location{start.StartOffset, p.cur().loc.StartOffset})
	n.SetName(newName)
	n.WithField(FieldSuperclassOrValue, NewNode(KindIdentifier, Location{}).SetName(oldName))
	return n
}

// parseExpressionStatementWithModifier parses one expression statement and
// applies a trailing `if`/`unless`/`while`/`until` modifier if present.
func (p *parser) parseExpressionStatementWithModifier() Node {
	expr := p.parseExpression()
	return p.wrapModifier(expr)
}

func (p *parser) wrapModifier(expr Node) Node {
	switch {
	case p.isKeyword("if"):
		p.advance()
		cond := p.parseExpression()
		n := NewNode(KindIf, Location{expr.Location().StartOffset, cond.Location().EndOffset})
		n.WithField(FieldCond, cond)
		n.WithField(FieldThen, expr)
		return n
	case p.isKeyword("unless"):
		p.advance()
		cond := p.parseExpression()
		n := NewNode(KindUnless, Location{expr.Location().StartOffset, cond.Location().EndOffset})
		n.WithField(FieldCond, cond)
		n.WithField(FieldThen, expr)
		return n
	case p.isKeyword("while"):
		p.advance()
		cond := p.parseExpression()
		n := NewNode(KindWhile, Location{expr.Location().StartOffset, cond.Location().EndOffset})
		n.WithField(FieldCond, cond)
		n.WithField(FieldBody, expr)
		return n
	case p.isKeyword("until"):
		p.advance()
		cond := p.parseExpression()
		n := NewNode(KindUntil, Location{expr.Location().StartOffset, cond.Location().EndOffset})
		n.WithField(FieldCond, cond)
		n.WithField(FieldBody, expr)
		return n
	}
	return expr
}

// ---- expressions ----

func (p *parser) parseExpression() Node { return p.parseAssignment() }

func (p *parser) parseAssignment() Node {
	lhs := p.parseOrKeyword()
	if p.isOp("=") {
		p.advance()
		rhs := p.parseAssignment()
		if b, ok := lhs.(*Basic); ok && b.Kind() == KindSend && b.Receiver() != nil {
			// `recv.attr = v` is a call to the setter `attr=`.
			b.SetName(b.Name() + "=")
		}
		n := NewNode(KindAssign, Location{lhs.Location().StartOffset, rhs.Location().EndOffset})
		n.WithField(FieldLHS, lhs)
		n.WithField(FieldRHS, rhs)
		return n
	}
	for _, op := range []string{"+=", "-=", "*=", "/=", "%=", "**=", "||=", "&&="} {
		if p.isOp(op) {
			p.advance()
			rhs := p.parseAssignment()
			n := NewNode(KindOpAssign, Location{lhs.Location().StartOffset, rhs.Location().EndOffset})
			n.SetName(op)
			n.WithField(FieldLHS, lhs)
			n.WithField(FieldRHS, rhs)
			return n
		}
	}
	return lhs
}

func (p *parser) parseOrKeyword() Node {
	left := p.parseNotKeyword()
	for p.isKeyword("or") || p.isOp("||") {
		p.advance()
		right := p.parseNotKeyword()
		n := NewNode(KindOr, Location{left.Location().StartOffset, right.Location().EndOffset}, left, right)
		left = n
	}
	return left
}

func (p *parser) parseNotKeyword() Node {
	if p.isKeyword("not") || p.isOp("!") {
		start := p.advance().loc
		operand := p.parseNotKeyword()
		return NewNode(KindNot, Location{start.StartOffset, operand.Location().EndOffset}, operand)
	}
	return p.parseAndKeyword()
}

func (p *parser) parseAndKeyword() Node {
	left := p.parseTernary()
	for p.isKeyword("and") || p.isOp("&&") {
		p.advance()
		right := p.parseTernary()
		left = NewNode(KindAnd, Location{left.Location().StartOffset, right.Location().EndOffset}, left, right)
	}
	return left
}

func (p *parser) parseTernary() Node {
	cond := p.parseRange()
	if p.isOp("?") {
		p.advance()
		t := p.parseTernary()
		if p.isOp(":") {
			p.advance()
		}
		f := p.parseTernary()
		n := NewNode(KindTernary, Location{cond.Location().StartOffset, f.Location().EndOffset})
		n.WithField(FieldCond, cond)
		n.WithField(FieldThen, t)
		n.WithField(FieldElse, f)
		return n
	}
	return cond
}

func (p *parser) parseRange() Node {
	left := p.parseEquality()
	if p.isOp("..") || p.isOp("...") {
		p.advance()
		right := p.parseEquality()
		return NewNode(KindRange, Location{left.Location().StartOffset, right.Location().EndOffset}, left, right)
	}
	return left
}

var equalityOps = []string{"==", "!=", "<=>", "===", "=~"}
var relOps = []string{"<=", ">=", "<", ">"}
var addOps = []string{"+", "-"}
var mulOps = []string{"*", "/", "%"}

func (p *parser) parseEquality() Node { return p.parseBinaryLevel(equalityOps, p.parseRelational) }
func (p *parser) parseRelational() Node { return p.parseBinaryLevel(relOps, p.parseAdditive) }
func (p *parser) parseAdditive() Node   { return p.parseBinaryLevel(addOps, p.parseMultiplicative) }
func (p *parser) parseMultiplicative() Node { return p.parseBinaryLevel(mulOps, p.parseUnary) }

func (p *parser) parseBinaryLevel(ops []string, next func() Node) Node {
	left := next()
	for {
		matched := ""
		for _, op := range ops {
			if p.isOp(op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return left
		}
		p.advance()
		right := next()
		n := NewNode(KindSend, Location{left.Location().StartOffset, right.Location().EndOffset})
		n.SetName(matched)
		n.WithField(FieldReceiver, left)
		n.WithList(ListArguments, []Node{right})
		left = n
	}
}

func (p *parser) parseUnary() Node {
	if p.isOp("-") || p.isOp("+") || p.isOp("~") {
		t := p.advance()
		operand := p.parseUnary()
		n := NewNode(KindSend, Location{t.loc.StartOffset, operand.Location().EndOffset}, operand)
		n.SetName("unary" + t.text)
		return n
	}
	if p.isKeyword("defined?") {
		t := p.advance()
		operand := p.parseUnary()
		return NewNode(KindDefined, Location{t.loc.StartOffset, operand.Location().EndOffset}, operand)
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *parser) parsePostfix(n Node) Node {
	for {
		switch {
		case p.isOp(".") || p.isOp("&."):
			p.advance()
			name := p.parseMethodNameToken()
			call := NewNode(KindSend, Location{n.Location().StartOffset, p.cur().loc.StartOffset})
			call.SetName(name)
			call.WithField(FieldReceiver, n)
			if p.isOp("(") {
				call.WithList(ListArguments, p.parseCallArgs())
			}
			if blk := p.parseOptionalBlock(); blk != nil {
				call.WithField("block", blk)
				call.loc.EndOffset = blk.Location().EndOffset
			} else {
				call.loc.EndOffset = p.prevEnd()
			}
			n = call
		case p.isOp("::"):
			p.advance()
			name := p.parseMethodNameToken()
			cp := NewNode(KindConstPath, Location{n.Location().StartOffset, p.prevEnd()})
			cp.SetName(name)
			cp.WithField(FieldReceiver, n)
			n = cp
		case p.isOp("["):
			start := p.advance().loc
			var idx []Node
			for !p.isOp("]") && !p.atNewlineOrEOF() {
				idx = append(idx, p.parseExpression())
				if p.isOp(",") {
					p.advance()
				}
			}
			end := p.cur().loc
			if p.isOp("]") {
				end = p.advance().loc
			}
			call := NewNode(KindSend, Location{start.StartOffset, end.EndOffset})
			call.SetName("[]")
			call.WithField(FieldReceiver, n)
			call.WithList(ListArguments, idx)
			n = call
		default:
			return n
		}
	}
}

func (p *parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].loc.EndOffset
}

func (p *parser) parseCallArgs() []Node {
	p.advance() // (
	var args []Node
	for !p.isOp(")") && !p.atEOF() {
		args = append(args, p.parseCallArg())
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	if p.isOp(")") {
		p.advance()
	}
	return args
}

func (p *parser) parseCallArg() Node {
	if p.isOp("*") {
		start := p.advance().loc
		v := p.parseExpression()
		return NewNode(KindSplat, Location{start.StartOffset, v.Location().EndOffset}, v)
	}
	if p.isOp("&") {
		start := p.advance().loc
		v := p.parseExpression()
		n := NewNode(KindBlockArg, Location{start.StartOffset, v.Location().EndOffset}, v)
		return n
	}
	return p.parseExpression()
}

// parseOptionalBlock parses a trailing `{ ... }` or `do ... end` block
// attached to the call just parsed.
func (p *parser) parseOptionalBlock() Node {
	if p.isOp("{") {
		start := p.advance().loc
		params := p.parseOptionalBlockParams()
		body, _ := p.parseStatementsUntilOp("}")
		end := p.cur().loc
		if p.isOp("}") {
			end = p.advance().loc
		}
		n := NewNode(KindBlock, Location{start.StartOffset, end.EndOffset})
		n.WithField(FieldArgsKey, params)
		n.WithField(FieldBody, body)
		return n
	}
	if p.isKeyword("do") {
		start := p.advance().loc
		params := p.parseOptionalBlockParams()
		p.skipNewlines()
		body, _ := p.parseStatementsUntil("end")
		end := p.expectKeyword("end")
		n := NewNode(KindBlock, Location{start.StartOffset, end.EndOffset})
		n.WithField(FieldArgsKey, params)
		n.WithField(FieldBody, body)
		return n
	}
	return nil
}

func (p *parser) parseOptionalBlockParams() Node {
	if !p.isOp("|") {
		return NewNode(KindArgs, Location{})
	}
	p.advance()
	var params []Node
	for !p.isOp("|") && !p.atEOF() {
		params = append(params, p.parseOneParam())
		if p.isOp(",") {
			p.advance()
		}
	}
	if p.isOp("|") {
		p.advance()
	}
	n := NewNode(KindArgs, Location{})
	n.WithList(ListParams, params)
	return n
}

func (p *parser) parseStatementsUntilOp(op string) (Node, Location) {
	start := p.cur().loc
	var stmts []Node
	for {
		p.skipNewlines()
		if p.atEOF() || p.isOp(op) {
			break
		}
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		} else {
			break
		}
	}
	end := p.cur().loc
	return NewNode(KindBegin, Location{start.StartOffset, end.StartOffset}, stmts...), end
}

func (p *parser) parsePrimary() Node {
	t := p.cur()
	switch t.kind {
	case tokInt:
		p.advance()
		return NewNode(KindInteger, t.loc).SetName(t.text)
	case tokFloat:
		p.advance()
		return NewNode(KindFloat, t.loc).SetName(t.text)
	case tokString:
		p.advance()
		return NewNode(KindString, t.loc).SetName(t.text)
	case tokSymbol:
		p.advance()
		return NewNode(KindSymbol, t.loc).SetName(t.text)
	case tokIvar:
		p.advance()
		return NewNode(KindInstanceVar, t.loc).SetName(t.text)
	case tokCvar:
		p.advance()
		return NewNode(KindClassVar, t.loc).SetName(t.text)
	case tokGvar:
		p.advance()
		return NewNode(KindGlobalVar, t.loc).SetName(t.text)
	case tokHeredocBody:
		p.advance()
		return NewNode(KindHeredocBody, t.loc).SetName(t.text)
	case tokConstant:
		p.advance()
		n := NewNode(KindConstant, t.loc).SetName(t.text)
		if p.isOp("(") {
			args := p.parseCallArgs()
			call := NewNode(KindSend, Location{t.loc.StartOffset, p.prevEnd()})
			call.SetName(t.text)
			call.WithList(ListArguments, args)
			return call
		}
		return n
	case tokKeyword:
		switch t.text {
		case "true":
			p.advance()
			return NewNode(KindTrue, t.loc)
		case "false":
			p.advance()
			return NewNode(KindFalse, t.loc)
		case "nil":
			p.advance()
			return NewNode(KindNil, t.loc)
		case "self":
			p.advance()
			return NewNode(KindSelf, t.loc)
		case "begin":
			return p.parseBegin()
		case "if", "unless":
			return p.parseIf()
		case "case":
			return p.parseCase()
		case "yield", "return", "break", "next", "redo", "retry":
			return p.parseJumpOrYield()
		case "lambda":
			p.advance()
			n := NewNode(KindLambda, t.loc)
			if blk := p.parseOptionalBlock(); blk != nil {
				n.WithField(FieldBody, blk)
				n.loc.EndOffset = blk.Location().EndOffset
			}
			return n
		default:
			p.advance()
			return NewNode(KindIdentifier, t.loc).SetName(t.text)
		}
	case tokIdent:
		p.advance()
		var n Node = NewNode(KindIdentifier, t.loc).SetName(t.text)
		if p.isOp("(") {
			args := p.parseCallArgs()
			call := NewNode(KindSend, Location{t.loc.StartOffset, p.prevEnd()})
			call.SetName(t.text)
			call.WithList(ListArguments, args)
			n = call
		} else if p.canStartBareArgs() {
			args := p.parseBareArgs()
			call := NewNode(KindSend, Location{t.loc.StartOffset, p.prevEnd()})
			call.SetName(t.text)
			call.WithList(ListArguments, args)
			n = call
		}
		if blk := p.parseOptionalBlock(); blk != nil {
			if n.Kind() != KindSend {
				call := NewNode(KindSend, n.Location())
				call.SetName(t.text)
				n = call
			}
			n.(*Basic).WithField("block", blk)
			n.(*Basic).loc.EndOffset = blk.Location().EndOffset
		}
		return n
	case tokOp:
		switch t.text {
		case "(":
			p.advance()
			inner := p.parseExpression()
			if p.isOp(")") {
				p.advance()
			}
			return inner
		case "[":
			start := p.advance().loc
			var elems []Node
			for !p.isOp("]") && !p.atEOF() {
				elems = append(elems, p.parseExpression())
				if p.isOp(",") {
					p.advance()
				}
			}
			end := p.cur().loc
			if p.isOp("]") {
				end = p.advance().loc
			}
			n := NewNode(KindArray, Location{start.StartOffset, end.EndOffset})
			n.WithList(ListElements, elems)
			return n
		case "{":
			start := p.advance().loc
			var pairs []Node
			for !p.isOp("}") && !p.atEOF() {
				pairs = append(pairs, p.parseHashPair())
				if p.isOp(",") {
					p.advance()
				}
			}
			end := p.cur().loc
			if p.isOp("}") {
				end = p.advance().loc
			}
			n := NewNode(KindHash, Location{start.StartOffset, end.EndOffset})
			n.WithList(ListElements, pairs)
			return n
		case "->":
			start := p.advance().loc
			var params Node = NewNode(KindArgs, Location{})
			if p.isOp("(") {
				params = p.parseOptionalParamList()
			}
			blk := p.parseOptionalBlock()
			n := NewNode(KindLambda, Location{start.StartOffset, p.prevEnd()})
			n.WithField(FieldArgsKey, params)
			if blk != nil {
				n.WithField(FieldBody, blk)
			}
			return n
		default:
			p.errorf(t.loc, "unexpected token %q", t.text)
			p.advance()
			return NewNode(KindInvalid, t.loc)
		}
	default:
		p.errorf(t.loc, "unexpected end of input")
		return NewNode(KindInvalid, t.loc)
	}
}

func (p *parser) parseHashPair() Node {
	start := p.cur().loc
	if p.cur().kind == tokIdent && p.peekAt(1).kind == tokOp && p.peekAt(1).text == ":" {
		key := p.advance().text
		p.advance() // :
		val := p.parseExpression()
		n := NewNode(KindPair, Location{start.StartOffset, val.Location().EndOffset})
		n.WithField(FieldKey, NewNode(KindSymbol, start).SetName(key))
		n.WithField(FieldSuperclassOrValue, val)
		return n
	}
	key := p.parseExpression()
	if p.isOp("=>") {
		p.advance()
	}
	val := p.parseExpression()
	n := NewNode(KindPair, Location{start.StartOffset, val.Location().EndOffset})
	n.WithField(FieldKey, key)
	n.WithField(FieldSuperclassOrValue, val)
	return n
}

// canStartBareArgs decides whether the upcoming token can begin a
// parenthesis-less argument list for a bare identifier call (`puts x`).
// Deliberately conservative: only literals/identifiers/unary-minus numbers
// immediately after the ident, on the same line, count.
func (p *parser) canStartBareArgs() bool {
	t := p.cur()
	switch t.kind {
	case tokInt, tokFloat, tokString, tokSymbol, tokIvar, tokGvar, tokCvar, tokConstant:
		return true
	case tokIdent:
		return true
	case tokKeyword:
		return t.text == "true" || t.text == "false" || t.text == "nil" || t.text == "self"
	case tokOp:
		return t.text == ":" || t.text == "-" || t.text == "["
	default:
		return false
	}
}

func (p *parser) parseBareArgs() []Node {
	var args []Node
	for {
		args = append(args, p.parseCallArg())
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	return args
}

