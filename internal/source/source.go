// Package source holds the immutable byte buffer for one analyzed file and
// the line/column index built over it.
//
// A [File] is created once per file analysis and dropped when analysis
// completes; it never outlives the worker that owns it (see the
// single-writer-per-file rule in the pipeline package).
package source

import (
	"sort"
	"strings"
)

// Position is a 1-based line, 0-based column pair, matching the coordinate
// system rules report diagnostics in.
type Position struct {
	Line   int
	Column int
}

// File owns the raw bytes of one source file plus a precomputed line-start
// table for fast offset-to-position conversion.
type File struct {
	path string
	data []byte

	// lineStarts[i] is the byte offset of the first byte of line i (0-based
	// index here; reported line numbers are i+1).
	lineStarts []int
}

// New builds a File over path/data. The line-start table is computed eagerly
// since nearly every cop ends up asking for at least one position.
func New(path string, data []byte) *File {
	f := &File{path: path, data: data}
	f.lineStarts = []int{0}
	for i, b := range data {
		if b == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// Path returns the file's logical path as given to New.
func (f *File) Path() string { return f.path }

// Bytes returns the raw source buffer. Callers must not modify it.
func (f *File) Bytes() []byte { return f.data }

// Len returns the number of bytes in the source buffer.
func (f *File) Len() int { return len(f.data) }

// OffsetToPosition converts a byte offset into a 1-based line, 0-based
// column position in O(log N) via binary search over the line-start table.
func (f *File) OffsetToPosition(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.data) {
		offset = len(f.data)
	}
	// Largest i such that lineStarts[i] <= offset.
	i := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	if i < 0 {
		i = 0
	}
	return Position{Line: i + 1, Column: offset - f.lineStarts[i]}
}

// LineCount returns the number of lines in the file. A file is never
// reported as having zero lines; an empty buffer counts as one empty line.
func (f *File) LineCount() int { return len(f.lineStarts) }

// Line returns the raw bytes of a 1-based line, excluding the line
// terminator. Returns nil for an out-of-range line.
func (f *File) Line(line int) []byte {
	if line < 1 || line > len(f.lineStarts) {
		return nil
	}
	start := f.lineStarts[line-1]
	end := len(f.data)
	if line < len(f.lineStarts) {
		end = f.lineStarts[line] - 1 // exclude the \n
	}
	if end > start && end <= len(f.data) && f.data[end-1] == '\r' {
		end--
	}
	if end < start {
		end = start
	}
	return f.data[start:end]
}

// LineString is a convenience wrapper around Line returning a string.
func (f *File) LineString(line int) string { return string(f.Line(line)) }

// Lines returns every line as a string slice, in source order. Rules that
// scan the whole file (check_lines entry points) use this directly.
func (f *File) Lines() []string {
	out := make([]string, f.LineCount())
	for i := range out {
		out[i] = f.LineString(i + 1)
	}
	return out
}

// LineOffset returns the byte offset where a 1-based line starts, or -1 if
// the line is out of range.
func (f *File) LineOffset(line int) int {
	if line < 1 || line > len(f.lineStarts) {
		return -1
	}
	return f.lineStarts[line-1]
}

// Snippet joins lines [start, end] (1-based, inclusive) with newlines.
// Out-of-range bounds are clamped; an empty result is returned for an
// inverted or fully out-of-range request.
func (f *File) Snippet(start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > f.LineCount() {
		end = f.LineCount()
	}
	if start > end {
		return ""
	}
	lines := make([]string, 0, end-start+1)
	for l := start; l <= end; l++ {
		lines = append(lines, f.LineString(l))
	}
	return strings.Join(lines, "\n")
}

// EndsWithNewline reports whether the buffer's last byte is a newline.
// Several Layout cops special-case the final line of a file that doesn't
// end in one.
func (f *File) EndsWithNewline() bool {
	return len(f.data) > 0 && f.data[len(f.data)-1] == '\n'
}
