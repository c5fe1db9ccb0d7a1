package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fastcop/fastcop/internal/diagnostic"
)

// GitHubActionsReporter formats diagnostics as GitHub Actions workflow
// commands. These commands appear as annotations in the GitHub Actions UI.
//
// Format: ::{level} file={file},line={line},col={col},title={cop}::{message}
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(diagnostics []diagnostic.Diagnostic, _ Metadata) error {
	for _, d := range sortDiagnostics(diagnostics) {
		level := severityToGitHubLevel(d.Severity)

		filePath := filepath.ToSlash(d.Location.Path)

		var parts []string
		parts = append(parts, "file="+escapeGitHubProperty(filePath))
		parts = append(parts, fmt.Sprintf("line=%d", d.Location.Line))
		parts = append(parts, fmt.Sprintf("col=%d", d.Location.Column+1)) // 1-based
		parts = append(parts, "title="+escapeGitHubProperty(d.CopName))

		message := escapeGitHubMessage(d.Message)

		if _, err := fmt.Fprintf(r.writer, "::%s %s::%s\n",
			level,
			strings.Join(parts, ","),
			message,
		); err != nil {
			return err
		}
	}

	return nil
}

// GitHub Actions annotation levels.
const (
	ghLevelError   = "error"
	ghLevelWarning = "warning"
	ghLevelNotice  = "notice"
)

// severityToGitHubLevel maps our Severity to GitHub Actions levels.
// GitHub supports: "error", "warning", "notice", "debug"
func severityToGitHubLevel(s diagnostic.Severity) string {
	switch s {
	case diagnostic.SeverityFatal, diagnostic.SeverityError:
		return ghLevelError
	case diagnostic.SeverityWarning:
		return ghLevelWarning
	case diagnostic.SeverityConvention, diagnostic.SeverityRefactor, diagnostic.SeverityInfo:
		return ghLevelNotice
	default:
		return ghLevelWarning
	}
}

// escapeGitHubMessage escapes special characters in GitHub Actions workflow command messages.
// Messages use escapeData() rules which escape "%", "\r", "\n" but NOT ":" or ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeGitHubProperty escapes special characters in GitHub Actions workflow command properties.
// Properties (file, title, etc.) use escapeProperty() rules which escape "%", "\r", "\n", ":", and ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubProperty(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
