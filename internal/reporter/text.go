package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/fastcop/fastcop/internal/diagnostic"
)

// severityColor maps a Severity to its ANSI color code for text output.
var severityColor = map[diagnostic.Severity]string{
	diagnostic.SeverityFatal:      "31", // red
	diagnostic.SeverityError:      "31", // red
	diagnostic.SeverityWarning:    "33", // yellow
	diagnostic.SeverityConvention: "36", // cyan
	diagnostic.SeverityRefactor:   "36", // cyan
	diagnostic.SeverityInfo:       "34", // blue
}

// TextReporter writes one line per diagnostic in the fixed format
// `path:line:col: <S>: [cop] message`.
type TextReporter struct {
	writer io.Writer
	color  bool
}

// NewTextReporter creates a text reporter writing to w. color nil
// auto-detects from w (colored only when w is a terminal); a non-nil
// value forces it on or off.
func NewTextReporter(w io.Writer, color *bool) *TextReporter {
	enabled := false
	if color != nil {
		enabled = *color
	} else if f, ok := w.(*os.File); ok {
		enabled = isatty.IsTerminal(f.Fd())
	}
	return &TextReporter{writer: w, color: enabled}
}

// Report implements Reporter.
func (r *TextReporter) Report(diagnostics []diagnostic.Diagnostic, metadata Metadata) error {
	for _, d := range sortDiagnostics(diagnostics) {
		if err := r.printOne(d); err != nil {
			return err
		}
	}
	fmt.Fprintf(r.writer, "\n%d file(s) scanned, %d cop(s) enabled, %d offense(s) found\n",
		metadata.FilesScanned, metadata.CopsEnabled, len(diagnostics))
	return nil
}

func (r *TextReporter) printOne(d diagnostic.Diagnostic) error {
	label := string(d.Severity.Letter())
	if r.color {
		code, ok := severityColor[d.Severity]
		if !ok {
			code = "37"
		}
		label = fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, label)
	}
	_, err := fmt.Fprintf(r.writer, "%s:%d:%d: %s: [%s] %s\n",
		d.Location.Path, d.Location.Line, d.Location.Column, label, d.CopName, d.Message)
	return err
}
