package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fastcop/fastcop/internal/diagnostic"
)

func TestGitHubActionsReporter(t *testing.T) {
	diagnostics := []diagnostic.Diagnostic{
		diagnostic.NewDiagnostic(
			diagnostic.Location{Path: "app.rb", Line: 5, Column: 0},
			"Layout/TrailingWhitespace", "Trailing whitespace detected.", diagnostic.SeverityWarning),
		diagnostic.NewDiagnostic(
			diagnostic.Location{Path: "app.rb", Line: 10, Column: 4},
			"Lint/UselessAssignment", "Useless assignment to variable - x.", diagnostic.SeverityError),
	}

	var buf bytes.Buffer
	reporter := NewGitHubActionsReporter(&buf)

	err := reporter.Report(diagnostics, Metadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), output)
	}

	if !strings.HasPrefix(lines[0], "::warning ") {
		t.Errorf("Expected first line to be warning, got: %s", lines[0])
	}
	if !strings.Contains(lines[0], "file=app.rb") {
		t.Errorf("Expected file=app.rb in: %s", lines[0])
	}
	if !strings.Contains(lines[0], "line=5") {
		t.Errorf("Expected line=5 in: %s", lines[0])
	}
	if !strings.Contains(lines[0], "col=1") {
		t.Errorf("Expected col=1 (column 0 becomes 1-based) in: %s", lines[0])
	}
	if !strings.Contains(lines[0], "title=Layout/TrailingWhitespace") {
		t.Errorf("Expected title=Layout/TrailingWhitespace in: %s", lines[0])
	}

	if !strings.HasPrefix(lines[1], "::error ") {
		t.Errorf("Expected second line to be error, got: %s", lines[1])
	}
	if !strings.Contains(lines[1], "col=5") {
		t.Errorf("Expected col=5 (1-based) in: %s", lines[1])
	}
}

func TestGitHubActionsReporterSeverityMapping(t *testing.T) {
	tests := []struct {
		name     string
		severity diagnostic.Severity
		expected string
	}{
		{"fatal", diagnostic.SeverityFatal, "error"},
		{"error", diagnostic.SeverityError, "error"},
		{"warning", diagnostic.SeverityWarning, "warning"},
		{"convention", diagnostic.SeverityConvention, "notice"},
		{"refactor", diagnostic.SeverityRefactor, "notice"},
		{"info", diagnostic.SeverityInfo, "notice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := severityToGitHubLevel(tt.severity)
			if result != tt.expected {
				t.Errorf("severityToGitHubLevel(%v) = %q, want %q", tt.severity, result, tt.expected)
			}
		})
	}
}

func TestGitHubActionsReporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewGitHubActionsReporter(&buf)

	err := reporter.Report(nil, Metadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("Expected empty output, got: %q", buf.String())
	}
}

func TestGitHubActionsReporterMessageEscaping(t *testing.T) {
	diagnostics := []diagnostic.Diagnostic{
		diagnostic.NewDiagnostic(
			diagnostic.Location{Path: "app.rb", Line: 1, Column: 0},
			"Lint/Test", "Line 1\nLine 2\r\nLine 3", diagnostic.SeverityWarning),
	}

	var buf bytes.Buffer
	reporter := NewGitHubActionsReporter(&buf)

	err := reporter.Report(diagnostics, Metadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 1 {
		t.Errorf("Expected single line output, got %d lines: %q", len(lines), output)
	}

	if !strings.Contains(output, "%0A") {
		t.Errorf("Expected %%0A (escaped newline) in: %s", output)
	}
}

func TestGitHubActionsReporterPropertyEscaping(t *testing.T) {
	diagnostics := []diagnostic.Diagnostic{
		diagnostic.NewDiagnostic(
			diagnostic.Location{Path: "path/to:file,with:special.rb", Line: 1, Column: 0},
			"Cop:With,Special", "Message with : and , should NOT be escaped", diagnostic.SeverityWarning),
	}

	var buf bytes.Buffer
	reporter := NewGitHubActionsReporter(&buf)

	err := reporter.Report(diagnostics, Metadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "file=path/to%3Afile%2Cwith%3Aspecial.rb") {
		t.Errorf("Expected escaped file path, got: %s", output)
	}

	if !strings.Contains(output, "title=Cop%3AWith%2CSpecial") {
		t.Errorf("Expected escaped title, got: %s", output)
	}

	if !strings.Contains(output, "::Message with : and , should NOT be escaped") {
		t.Errorf("Message should not escape : or , - got: %s", output)
	}
}

func TestGitHubActionsReporterSorting(t *testing.T) {
	diagnostics := []diagnostic.Diagnostic{
		diagnostic.NewDiagnostic(
			diagnostic.Location{Path: "b.rb", Line: 10, Column: 0},
			"Lint/Test", "B line 10", diagnostic.SeverityWarning),
		diagnostic.NewDiagnostic(
			diagnostic.Location{Path: "a.rb", Line: 5, Column: 0},
			"Lint/Test", "A line 5", diagnostic.SeverityWarning),
		diagnostic.NewDiagnostic(
			diagnostic.Location{Path: "a.rb", Line: 1, Column: 0},
			"Lint/Test", "A line 1", diagnostic.SeverityWarning),
	}

	var buf bytes.Buffer
	reporter := NewGitHubActionsReporter(&buf)

	err := reporter.Report(diagnostics, Metadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	if !strings.Contains(lines[0], "a.rb") || !strings.Contains(lines[0], "line=1") {
		t.Errorf("First line should be a.rb:1, got: %s", lines[0])
	}
	if !strings.Contains(lines[1], "a.rb") || !strings.Contains(lines[1], "line=5") {
		t.Errorf("Second line should be a.rb:5, got: %s", lines[1])
	}
	if !strings.Contains(lines[2], "b.rb") || !strings.Contains(lines[2], "line=10") {
		t.Errorf("Third line should be b.rb:10, got: %s", lines[2])
	}
}
