// Package codemap classifies every byte offset of a source file as code,
// string-literal body, heredoc body, comment, or regex. It is built once
// per file directly from the parser's Tree (comment list plus
// string/heredoc/regex node locations), never by an independent lexer
// pass.
package codemap

import (
	"sort"

	"github.com/fastcop/fastcop/internal/ast"
)

// Classification is one of the five byte-range categories a CodeMap
// partitions a file into.
type Classification int

const (
	Code Classification = iota
	StringBody
	HeredocBody
	Comment
	Regexp
)

type span struct {
	start, end int
	class      Classification
}

// Map is an immutable, sorted set of non-overlapping spans covering
// [0, len(source)) plus an implicit Code default for any offset not
// otherwise covered.
type Map struct {
	spans []span
	size  int
}

// Build walks the parsed Tree once, recording the byte range of every
// string/heredoc/regexp node and every comment, then returns the resulting
// Map. size is the length of the source buffer the tree was parsed from.
func Build(tree *ast.Tree, size int) *Map {
	m := &Map{size: size}

	for _, c := range tree.Comments {
		m.add(c.Location, Comment)
	}
	for _, h := range tree.HeredocRanges {
		m.add(h, HeredocBody)
	}
	if tree.Root != nil {
		ast.Walk(tree.Root, func(n ast.Node) {
			switch n.Kind() {
			case ast.KindString, ast.KindDString:
				m.add(n.Location(), StringBody)
			case ast.KindRegexp:
				m.add(n.Location(), Regexp)
			}
		})
	}

	sort.Slice(m.spans, func(i, j int) bool { return m.spans[i].start < m.spans[j].start })
	return m
}

func (m *Map) add(loc ast.Location, class Classification) {
	if loc.EndOffset <= loc.StartOffset {
		return
	}
	m.spans = append(m.spans, span{start: loc.StartOffset, end: loc.EndOffset, class: class})
}

// Kind classifies a single byte offset. Offsets outside any recorded span
// are Code; the classification is deliberately last-span-wins when two
// recorded spans overlap (e.g. a comment dropped inside a string's
// recorded range from an earlier pass), since a more specific node is
// always visited after its ancestor by ast.Walk's pre-order traversal and
// spans are sorted by start offset.
//
// Lookup narrows to the candidate set with a binary search on start
// offset (spans are sorted ascending by start, so every span that could
// possibly contain offset sits at or before the search's insertion
// point), then scans backward from there: since starts are
// non-decreasing, the first span hit walking backward is exactly the
// one a forward last-span-wins scan would have settled on, and in the
// common case of non-overlapping spans that first hit is immediate.
func (m *Map) Kind(offset int) Classification {
	if offset < 0 || offset >= m.size {
		return Code
	}
	idx := sort.Search(len(m.spans), func(i int) bool { return m.spans[i].start > offset })
	for i := idx - 1; i >= 0; i-- {
		if s := m.spans[i]; offset < s.end {
			return s.class
		}
	}
	return Code
}

// IsCode reports whether offset lies outside any string/heredoc/comment/
// regexp span.
func (m *Map) IsCode(offset int) bool { return m.Kind(offset) == Code }

// IsHeredoc reports whether offset lies inside a heredoc body.
func (m *Map) IsHeredoc(offset int) bool { return m.Kind(offset) == HeredocBody }

// IsComment reports whether offset lies inside a comment.
func (m *Map) IsComment(offset int) bool { return m.Kind(offset) == Comment }

// IsString reports whether offset lies inside a string-literal body.
func (m *Map) IsString(offset int) bool { return m.Kind(offset) == StringBody }
