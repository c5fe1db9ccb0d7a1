package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/fastcop/fastcop/internal/diagnostic"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains diagnostics grouped by file.
	Files []FileResult `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesScanned is the total number of files scanned.
	FilesScanned int `json:"files_scanned"`
	// CopsEnabled is the total number of cops that were active.
	CopsEnabled int `json:"cops_enabled"`
}

// FileResult contains the diagnostics for a single file.
type FileResult struct {
	File        string                   `json:"file"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
}

// Summary contains aggregate statistics about diagnostics.
type Summary struct {
	Total      int `json:"total"`
	Fatal      int `json:"fatal"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
	Convention int `json:"convention"`
	Refactor   int `json:"refactor"`
	Info       int `json:"info"`
	Files      int `json:"files"`
}

// JSONReporter formats diagnostics as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(diagnostics []diagnostic.Diagnostic, metadata Metadata) error {
	byFile := make(map[string][]diagnostic.Diagnostic)
	filesOrder := make([]string, 0)

	for _, d := range sortDiagnostics(diagnostics) {
		d.Location.Path = filepath.ToSlash(d.Location.Path)
		file := d.Location.Path
		if _, exists := byFile[file]; !exists {
			filesOrder = append(filesOrder, file)
		}
		byFile[file] = append(byFile[file], d)
	}

	output := JSONOutput{
		Files:        make([]FileResult, 0, len(filesOrder)),
		Summary:      calculateSummary(diagnostics, len(filesOrder)),
		FilesScanned: metadata.FilesScanned,
		CopsEnabled:  metadata.CopsEnabled,
	}

	for _, file := range filesOrder {
		output.Files = append(output.Files, FileResult{
			File:        file,
			Diagnostics: byFile[file],
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// calculateSummary computes aggregate statistics from diagnostics.
func calculateSummary(diagnostics []diagnostic.Diagnostic, fileCount int) Summary {
	summary := Summary{
		Total: len(diagnostics),
		Files: fileCount,
	}

	for _, d := range diagnostics {
		switch d.Severity {
		case diagnostic.SeverityFatal:
			summary.Fatal++
		case diagnostic.SeverityError:
			summary.Errors++
		case diagnostic.SeverityWarning:
			summary.Warnings++
		case diagnostic.SeverityConvention:
			summary.Convention++
		case diagnostic.SeverityRefactor:
			summary.Refactor++
		case diagnostic.SeverityInfo:
			summary.Info++
		}
	}

	return summary
}
