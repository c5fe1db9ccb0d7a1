package pipeline

import (
	"fmt"

	"github.com/fastcop/fastcop/internal/config"
	"github.com/fastcop/fastcop/internal/diagnostic"
	"github.com/fastcop/fastcop/internal/directive"
	"github.com/fastcop/fastcop/internal/source"
)

// redundantCopDisableDirective is the cop name registered for the
// redundant-disable diagnostic. Detection lives here, in the pipeline,
// because it needs knowledge of which cops actually fired; the
// registered cop is otherwise a no-op, existing only so the name has a
// severity and config section like any other cop.
const redundantCopDisableDirective = "Lint/RedundantCopDisableDirective"

// migrationDepartmentName is the cop name for the directive-validator
// diagnostic emitted for unknown cop-list tokens.
const migrationDepartmentName = "Migration/DepartmentName"

// redundantDisableDiagnostics flags a disable (or todo) directive region
// as redundant when no diagnostic from its cop (or,
// for an `all` region, no diagnostic at all) would have survived anywhere
// in its line range absent the directive.
func (p *Pipeline) redundantDisableDiagnostics(
	file *source.File, table *directive.Table, rawDiagnostics []diagnostic.Diagnostic, raw config.Raw,
) []diagnostic.Diagnostic {
	sev, ok := p.severityFor(redundantCopDisableDirective, raw, file.Path())
	if !ok {
		return nil
	}

	var out []diagnostic.Diagnostic
	for _, region := range table.Regions {
		if regionFired(region, rawDiagnostics) {
			continue
		}
		out = append(out, diagnostic.NewDiagnostic(
			diagnostic.NewLocation(file, file.LineOffset(region.DirectiveLine)),
			redundantCopDisableDirective,
			fmt.Sprintf("Unnecessary disabling of %s, which is not offended by this line's contents.", region.Cop),
			sev,
		))
	}
	return out
}

func regionFired(region directive.Region, diagnostics []diagnostic.Diagnostic) bool {
	for _, d := range diagnostics {
		if d.Location.Line < region.Start || d.Location.Line > region.End {
			continue
		}
		if region.Cop == directive.AllCops || d.CopName == region.Cop {
			return true
		}
	}
	return false
}

// unknownTokenDiagnostics implements the Migration/DepartmentName side of
// directive handling: an unqualified cop-list token that names neither
// "all" nor a known department is still honored as a suppression (see
// internal/directive) but also flagged here. Qualified "Department/Name"
// tokens are never flagged, whether or not such a cop is registered.
func (p *Pipeline) unknownTokenDiagnostics(file *source.File, table *directive.Table, raw config.Raw) []diagnostic.Diagnostic {
	sev, ok := p.severityFor(migrationDepartmentName, raw, file.Path())
	if !ok || len(table.UnknownTokens) == 0 {
		return nil
	}

	out := make([]diagnostic.Diagnostic, 0, len(table.UnknownTokens))
	for _, tok := range table.UnknownTokens {
		out = append(out, diagnostic.NewDiagnostic(
			diagnostic.NewLocation(file, file.LineOffset(tok.Line)),
			migrationDepartmentName,
			fmt.Sprintf("%s is not a department or cop name recognized by this registry.", tok.Token),
			sev,
		))
	}
	return out
}

// severityFor resolves the effective severity for a pipeline-synthesized
// cop name, honoring the registered cop's config if one is present
// (severity override, enabled=false, include/exclude) and falling back to
// SeverityWarning/always-enabled when the cop hasn't been registered yet.
func (p *Pipeline) severityFor(copName string, raw config.Raw, path string) (diagnostic.Severity, bool) {
	c := p.Registry.Get(copName)
	if c == nil {
		return diagnostic.SeverityWarning, true
	}
	cfg := config.ResolveCop(raw, c)
	if !config.Applies(cfg, path) {
		return 0, false
	}
	if cfg.SeverityOverride != nil {
		return *cfg.SeverityOverride, true
	}
	return c.DefaultSeverity(), true
}
