// Package ast defines the closed contract the core engine expects from a
// parser: a tagged node-kind enum, byte-offset locations, and typed child
// access. The parser itself is an external collaborator (see package doc in
// parser.go); this file only fixes the shape every node must present.
package ast

// Kind discriminates the closed set of node kinds the engine dispatches on.
// Cops declare interest in a sorted slice of these; the pipeline never adds
// a kind a cop did not ask for.
type Kind int

const (
	KindInvalid Kind = iota

	KindProgram
	KindDef
	KindDefs // def self.foo — singleton method definition
	KindClass
	KindSingletonClass // class << self
	KindModule
	KindBlock // do...end or { }
	KindBegin // implicit statement sequence / begin...end
	KindIf
	KindUnless
	KindWhile
	KindUntil
	KindCase
	KindWhen
	KindElse
	KindRescue
	KindEnsure
	KindAssign
	KindOpAssign
	KindMultipleAssign
	KindSend // method call, with or without explicit receiver
	KindYield
	KindReturn
	KindBreak
	KindNext
	KindRedo
	KindRetry
	KindArray
	KindHash
	KindPair
	KindString
	KindDString // interpolated string, holds String/Send children
	KindSymbol
	KindInteger
	KindFloat
	KindRegexp
	KindIdentifier // local variable reference or bare call
	KindInstanceVar
	KindClassVar
	KindGlobalVar
	KindConstant
	KindConstPath
	KindSelf
	KindTrue
	KindFalse
	KindNil
	KindArgs // a Def's parameter list
	KindParam
	KindOptParam
	KindRestParam
	KindKeywordParam
	KindKeywordRestParam
	KindBlockParam
	KindBlockArg // &block at a call site
	KindSplat
	KindAnd
	KindOr
	KindNot
	KindTernary
	KindRange
	KindDefined
	KindAlias
	KindUndef
	KindLambda
	KindHeredocBody

	kindSentinel // always last; len(kindNames) below must track this
)

var kindNames = [...]string{
	KindInvalid:          "invalid",
	KindProgram:          "program",
	KindDef:              "def",
	KindDefs:             "defs",
	KindClass:            "class",
	KindSingletonClass:   "sclass",
	KindModule:           "module",
	KindBlock:            "block",
	KindBegin:            "begin",
	KindIf:               "if",
	KindUnless:           "unless",
	KindWhile:            "while",
	KindUntil:            "until",
	KindCase:             "case",
	KindWhen:             "when",
	KindElse:             "else",
	KindRescue:           "rescue",
	KindEnsure:           "ensure",
	KindAssign:           "assign",
	KindOpAssign:         "op_assign",
	KindMultipleAssign:   "masgn",
	KindSend:             "send",
	KindYield:            "yield",
	KindReturn:           "return",
	KindBreak:            "break",
	KindNext:             "next",
	KindRedo:             "redo",
	KindRetry:            "retry",
	KindArray:            "array",
	KindHash:             "hash",
	KindPair:             "pair",
	KindString:           "str",
	KindDString:          "dstr",
	KindSymbol:           "sym",
	KindInteger:          "int",
	KindFloat:            "float",
	KindRegexp:           "regexp",
	KindIdentifier:       "ident",
	KindInstanceVar:      "ivar",
	KindClassVar:         "cvar",
	KindGlobalVar:        "gvar",
	KindConstant:         "const",
	KindConstPath:        "const_path",
	KindSelf:             "self",
	KindTrue:             "true",
	KindFalse:            "false",
	KindNil:              "nil",
	KindArgs:             "args",
	KindParam:            "param",
	KindOptParam:         "opt_param",
	KindRestParam:        "rest_param",
	KindKeywordParam:     "kwparam",
	KindKeywordRestParam: "kwrestparam",
	KindBlockParam:       "blockparam",
	KindBlockArg:         "block_arg",
	KindSplat:            "splat",
	KindAnd:              "and",
	KindOr:               "or",
	KindNot:              "not",
	KindTernary:          "ternary",
	KindRange:            "range",
	KindDefined:          "defined",
	KindAlias:            "alias",
	KindUndef:            "undef",
	KindLambda:           "lambda",
	KindHeredocBody:      "heredoc_body",
}

// String renders the node kind's stable lowercase name, used in config
// bitset debugging and test fixtures.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// NumKinds is the number of valid discriminants, for sizing dispatch
// tables indexed by kind.
const NumKinds = int(kindSentinel)

// Location is a half-open byte range into the owning SourceFile.
type Location struct {
	StartOffset int
	EndOffset   int
}

// Len reports the byte length of the range.
func (l Location) Len() int { return l.EndOffset - l.StartOffset }

// Node is the opaque contract every AST node satisfies. Typed accessors
// for receiver/arguments/body live on the concrete node types in nodes.go;
// Children/Kind/Location is all the generic walker and dispatch index need.
type Node interface {
	Kind() Kind
	Location() Location
	Children() []Node
}

// Comment is a single `#...` comment, tracked alongside the tree rather
// than as a node, matching most Ruby-family parsers (comments are not part
// of the expression grammar).
type Comment struct {
	Location Location
	Text     string // text following the leading '#', not including it
}

// ParseDiagnostic is a single best-effort parser complaint; the parser
// never aborts on these.
type ParseDiagnostic struct {
	Location Location
	Message  string
}

// Tree is the result of parsing one SourceFile: a root node, the full
// comment list (used by both the directive scanner and CodeMap), and any
// parse diagnostics collected along the way.
type Tree struct {
	Root        Node
	Comments    []Comment
	Diagnostics []ParseDiagnostic

	// HeredocRanges holds the byte range of every heredoc body the lexer
	// recognized, for CodeMap construction.
	HeredocRanges []Location
}

// Walk performs a depth-first pre-order traversal for the node-visitor
// dispatch pass, invoking visit for every node including the root.
func Walk(root Node, visit func(Node)) {
	if root == nil {
		return
	}
	visit(root)
	for _, c := range root.Children() {
		Walk(c, visit)
	}
}
