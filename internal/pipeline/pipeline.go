// Package pipeline drives the per-file analysis pipeline: parse, build
// CodeMap, scan directives, resolve config, select applicable cops,
// dispatch, filter by directive, compute redundant-disable, optionally
// autocorrect, emit.
package pipeline

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/autocorrect"
	"github.com/fastcop/fastcop/internal/cache"
	"github.com/fastcop/fastcop/internal/codemap"
	"github.com/fastcop/fastcop/internal/config"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
	"github.com/fastcop/fastcop/internal/directive"
	"github.com/fastcop/fastcop/internal/source"
	"github.com/fastcop/fastcop/internal/version"
)

// Parser is the external collaborator that turns source bytes into a Tree.
// The pipeline depends only on this interface.
type Parser interface {
	Parse(path string, src []byte) *ast.Tree
}

// Pipeline drives the per-file analysis from raw bytes to a final
// diagnostic/correction set. A Pipeline is immutable after construction and
// safe to share across the worker pool in run.go.
type Pipeline struct {
	Registry *cop.Registry
	Resolver *config.Resolver
	Parser   Parser
	Logger   *logrus.Logger

	// Autocorrect requests the fixed-point autocorrect loop.
	// When false, Run performs exactly one analysis pass.
	Autocorrect bool

	// Cache is the result cache. Nil disables caching
	// entirely; Run then always performs a full analysis.
	Cache *cache.Cache

	// BinaryFingerprint is mixed into every cache key. Defaults to
	// version.BinaryFingerprint() when empty.
	BinaryFingerprint string
}

func (p *Pipeline) binaryFingerprint() string {
	if p.BinaryFingerprint != "" {
		return p.BinaryFingerprint
	}
	return version.BinaryFingerprint()
}

// New builds a Pipeline with the given registry and resolver, a default
// reference parser, and the standard logrus logger.
func New(registry *cop.Registry, resolver *config.Resolver) *Pipeline {
	return &Pipeline{
		Registry: registry,
		Resolver: resolver,
		Parser:   ast.NewReferenceParser(),
		Logger:   logrus.StandardLogger(),
	}
}

// Result is the outcome of analyzing one file to a stable state (or to the
// iteration cap).
type Result struct {
	Path        string
	Source      []byte
	Diagnostics []diagnostic.Diagnostic
	Iterations  int
	// Stable reports whether the final pass applied zero corrections.
	// Always true when Autocorrect is false, since no correction was
	// attempted.
	Stable bool
}

// Run analyzes one file, iterating the autocorrect fixed-point loop when
// p.Autocorrect is set, bounded by autocorrect.MaxIterations.
//
// A non-autocorrect run first consults the result cache and returns a hit
// verbatim, skipping analysis entirely. An autocorrect
// run always bypasses the cache read (its disposition depends on the
// fixed-point loop, not just the input bytes) but still writes a fresh
// entry once it reaches its final state, so a subsequent plain lint run
// can hit on the corrected file.
func (p *Pipeline) Run(path string, src []byte) (*Result, error) {
	originalContentHash := cache.ContentHash(src)

	if p.Cache != nil && !p.Autocorrect {
		if raw, err := p.Resolver.Resolve(path); err == nil {
			if configFP, err := cache.ConfigFingerprint(raw); err == nil {
				if diags, ok := p.Cache.Get(originalContentHash, configFP, p.binaryFingerprint()); ok {
					return &Result{Path: path, Source: src, Diagnostics: diags, Iterations: 0, Stable: true}, nil
				}
			}
		}
	}

	iterations := 0
	for {
		iterations++
		pass, err := p.runOnce(path, src)
		if err != nil {
			return nil, err
		}

		if !p.Autocorrect || len(pass.nonSuppressedCorrections) == 0 {
			p.writeCache(path, src, pass.diagnostics)
			return &Result{Path: path, Source: src, Diagnostics: pass.diagnostics, Iterations: iterations, Stable: true}, nil
		}

		fixed := autocorrect.Apply(src, pass.nonSuppressedCorrections)
		if len(fixed.Applied) == 0 {
			// Nothing could be accepted this pass (every correction
			// overlapped another); no progress is possible.
			p.writeCache(path, src, pass.diagnostics)
			return &Result{Path: path, Source: src, Diagnostics: pass.diagnostics, Iterations: iterations, Stable: true}, nil
		}

		src = fixed.Source
		if iterations >= autocorrect.MaxIterations {
			diags := append([]diagnostic.Diagnostic{}, pass.diagnostics...)
			diags = append(diags, diagnostic.NewDiagnostic(
				diagnostic.Location{Path: path}, nonConvergenceCopName,
				fmt.Sprintf("autocorrect did not converge within %d iterations; %d correction(s) still deferred",
					autocorrect.MaxIterations, len(fixed.Deferred)),
				diagnostic.SeverityWarning))
			p.writeCache(path, src, diags)
			return &Result{Path: path, Source: src, Diagnostics: diags, Iterations: iterations, Stable: false}, nil
		}
		// Re-parse and re-run from step 1 against the
		// corrected buffer.
	}
}

// writeCache persists diagnostics for the final state src reached, keyed
// on src's own content hash so a later plain run against the same bytes
// can hit. Cache errors are logged, never surfaced to the caller: cache
// corruption or failure degrades a run, it doesn't abort one.
func (p *Pipeline) writeCache(path string, src []byte, diagnostics []diagnostic.Diagnostic) {
	if p.Cache == nil {
		return
	}
	raw, err := p.Resolver.Resolve(path)
	if err != nil {
		return
	}
	configFP, err := cache.ConfigFingerprint(raw)
	if err != nil {
		return
	}
	if err := p.Cache.Put(cache.ContentHash(src), configFP, p.binaryFingerprint(), diagnostics); err != nil {
		if p.Logger != nil {
			p.Logger.WithField("file", path).Warnf("cache: write failed: %v", err)
		}
	}
}

// ConfigError reports a config parse/merge failure for one file. This is
// the one error kind that aborts the whole run rather than being
// skipped-and-continued; RunAll still records it per-file (so
// the worker pool structure stays uniform) and leaves it to the caller
// (cmd/fastcop) to recognize this type and abort instead of moving on to
// the next file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error resolving %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// nonConvergenceCopName is a synthetic, unregistered cop name used only for
// the operational diagnostic emitted when the autocorrect loop hits its
// iteration cap.
const nonConvergenceCopName = "Lint/AutocorrectNonConvergence"

// pass is the raw output of one single analysis pass, before the autocorrect
// decision in Run.
type pass struct {
	diagnostics              []diagnostic.Diagnostic
	nonSuppressedCorrections []diagnostic.Correction
}

// runOnce performs one full analysis pass over src: parse, build CodeMap,
// scan directives, resolve config, select cops, dispatch, filter, emit.
func (p *Pipeline) runOnce(path string, src []byte) (*pass, error) {
	// 1. Parse.
	tree := p.Parser.Parse(path, src)
	file := source.New(path, src)

	// 2. Build CodeMap.
	m := codemap.Build(tree, len(src))

	// 3. Scan directives.
	table := directive.Scan(file, tree, p.Registry)

	// 4. Resolve config.
	raw, err := p.Resolver.Resolve(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	// 5. Select applicable cops.
	selected := make(map[string]cop.Config, len(p.Registry.Names()))
	var cops []cop.Cop
	for _, c := range p.Registry.All() {
		cfg := config.ResolveCop(raw, c)
		if !config.Applies(cfg, path) {
			continue
		}
		selected[c.Name()] = cfg
		cops = append(cops, c)
	}

	var diagnostics []diagnostic.Diagnostic
	var corrections []diagnostic.Correction

	// 6. Dispatch: node-visitor pass + line-scan pass.
	p.dispatch(file, tree, m, cops, selected, &diagnostics, &corrections)

	rawDiagnostics := append([]diagnostic.Diagnostic{}, diagnostics...)

	// 7. Filter diagnostics by DirectiveTable.
	diagnostics = filterSuppressed(diagnostics, table)

	// 8. Compute redundant-disable / unknown-token diagnostics.
	diagnostics = append(diagnostics, p.redundantDisableDiagnostics(file, table, rawDiagnostics, raw)...)
	diagnostics = append(diagnostics, p.unknownTokenDiagnostics(file, table, raw)...)

	// Parser diagnostics always surface as offenses; a parse error never
	// aborts the run.
	for _, d := range tree.Diagnostics {
		diagnostics = append(diagnostics, diagnostic.NewDiagnostic(
			diagnostic.NewLocation(file, d.Location.StartOffset), "Lint/Syntax", d.Message, diagnostic.SeverityError))
	}

	diagnostics = sortDiagnostics(diagnostics)

	// 9. Non-suppressed corrections for the (possible) autocorrect step.
	nonSuppressed := make([]diagnostic.Correction, 0, len(corrections))
	for _, c := range corrections {
		line := file.OffsetToPosition(c.Range.Start).Line
		if !table.Suppresses(c.OriginCop, line) {
			nonSuppressed = append(nonSuppressed, c)
		}
	}

	return &pass{diagnostics: diagnostics, nonSuppressedCorrections: nonSuppressed}, nil
}

func filterSuppressed(diagnostics []diagnostic.Diagnostic, table *directive.Table) []diagnostic.Diagnostic {
	out := make([]diagnostic.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if table.Suppresses(d.CopName, d.Location.Line) {
			continue
		}
		out = append(out, d)
	}
	return out
}
