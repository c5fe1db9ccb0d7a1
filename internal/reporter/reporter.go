// Package reporter provides output formatters for analysis results
//: plain text, JSON, and GitHub Actions workflow annotations.
package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fastcop/fastcop/internal/diagnostic"
)

// Metadata carries contextual information about the run alongside the
// diagnostics themselves.
type Metadata struct {
	// FilesScanned is the total number of files that were analyzed.
	FilesScanned int
	// CopsEnabled is the total number of cops that were active (not
	// disabled by configuration) during the run.
	CopsEnabled int
}

// Reporter formats and writes a run's diagnostics.
type Reporter interface {
	Report(diagnostics []diagnostic.Diagnostic, metadata Metadata) error
}

// Format names one of the supported output formats.
type Format string

const (
	FormatText          Format = "text"
	FormatJSON          Format = "json"
	FormatGitHubActions Format = "github-actions"
)

// ParseFormat parses a format string into a Format, defaulting an empty
// string to FormatText.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "github-actions", "github":
		return FormatGitHubActions, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, github-actions)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	Format Format
	Writer io.Writer
	// Color enables/disables colored severity labels in text output.
	// nil means auto-detect from the writer (a terminal gets color).
	Color *bool
}

// DefaultOptions returns sensible defaults for reporter options.
func DefaultOptions() Options {
	return Options{Format: FormatText, Writer: os.Stdout}
}

// New creates a Reporter for the format named in opts.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		return NewTextReporter(opts.Writer, opts.Color), nil
	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil
	case FormatGitHubActions:
		return NewGitHubActionsReporter(opts.Writer), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// GetWriter returns an io.Writer for the given output destination.
// Supports "stdout", "stderr", or a file path.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("create output file: %w", err)
		}
		return f, f.Close, nil
	}
}

// sortDiagnostics orders diagnostics by (path, line, column, cop_name) for
// stable, reproducible output across formats. Within one file this agrees
// with the pipeline's own (line, column, cop_name) ordering;
// the path comparison only matters when a reporter is handed diagnostics
// from more than one file at once.
func sortDiagnostics(diagnostics []diagnostic.Diagnostic) []diagnostic.Diagnostic {
	out := make([]diagnostic.Diagnostic, len(diagnostics))
	copy(out, diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return out[i].CopName < out[j].CopName
	})
	return out
}
