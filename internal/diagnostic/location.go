package diagnostic

import "github.com/fastcop/fastcop/internal/source"

// Location is a reported position in one file: a path plus a 1-based line
// and 0-based column, derived from a byte offset via source.File's
// offset-to-position index.
type Location struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// NewLocation builds a Location for the given byte offset within file.
func NewLocation(file *source.File, offset int) Location {
	p := file.OffsetToPosition(offset)
	return Location{Path: file.Path(), Line: p.Line, Column: p.Column}
}
