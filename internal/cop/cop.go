// Package cop defines the contract every inspection rule implements
// and the process-lifetime registry that catalogs them.
package cop

import (
	"strings"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/codemap"
	"github.com/fastcop/fastcop/internal/diagnostic"
	"github.com/fastcop/fastcop/internal/source"
)

// Config is the per-(cop, file) resolved view: whether the cop runs, its
// severity override, its effective include/exclude globs, and an
// arbitrary options map. One instance exists per (cop, file) pair after
// the config resolver runs.
type Config struct {
	Enabled          bool
	SeverityOverride *diagnostic.Severity
	Include          []string
	Exclude          []string
	Options          map[string]any
}

// option looks up key in Options, falling back to a case-insensitive scan
// when the exact key is absent. The fallback exists because an
// environment-variable override (FASTCOP_DEPT_NAME__MAX=3) can only ever
// recover a lowercase option key, while a cop itself always asks with its
// own config-file casing ("Max").
func (c Config) option(key string) (any, bool) {
	if v, ok := c.Options[key]; ok {
		return v, true
	}
	for k, v := range c.Options {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// StringOption returns Options[key] as a string, or def if absent or of
// the wrong type.
func (c Config) StringOption(key, def string) string {
	if v, ok := c.option(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// IntOption returns Options[key] as an int, or def if absent or of the
// wrong type. Accepts float64 too, since config values loaded through
// koanf's generic map decoding commonly arrive as float64.
func (c Config) IntOption(key string, def int) int {
	v, ok := c.option(key)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	default:
		return def
	}
}

// BoolOption returns Options[key] as a bool, or def if absent or of the
// wrong type.
func (c Config) BoolOption(key string, def bool) bool {
	if v, ok := c.option(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Context is the mutable, per-file, per-cop request state passed to every
// entry point: the source and its CodeMap, the cop's resolved Config, and
// shared access to the diagnostics/corrections sinks.
type Context struct {
	File    *source.File
	Tree    *ast.Tree
	Map     *codemap.Map
	Config  Config
	CopName string

	defaultSeverity diagnostic.Severity
	diagnostics     *[]diagnostic.Diagnostic
	corrections     *[]diagnostic.Correction
}

// NewContext builds a Context sharing the given diagnostics/corrections
// sinks, as the pipeline does once per file across all dispatched cops. c
// supplies the fallback severity used when the config resolver left
// Config.SeverityOverride nil.
func NewContext(file *source.File, tree *ast.Tree, m *codemap.Map, cfg Config, c Cop,
	diagnostics *[]diagnostic.Diagnostic, corrections *[]diagnostic.Correction) *Context {
	return &Context{
		File: file, Tree: tree, Map: m, Config: cfg, CopName: c.Name(),
		defaultSeverity: c.DefaultSeverity(),
		diagnostics:     diagnostics, corrections: corrections,
	}
}

// Report emits a Diagnostic at the given byte offset, using the cop's
// severity override when the config resolver set one.
func (c *Context) Report(offset int, message string) {
	sev := c.severity()
	*c.diagnostics = append(*c.diagnostics, diagnostic.NewDiagnostic(
		diagnostic.NewLocation(c.File, offset), c.CopName, message, sev))
}

// ReportWithCorrection emits a Diagnostic linked to a newly added
// Correction in one call.
func (c *Context) ReportWithCorrection(offset int, message string, corrStart, corrEnd int, replacement []byte) {
	corr := diagnostic.NewCorrection(corrStart, corrEnd, replacement, c.CopName)
	*c.corrections = append(*c.corrections, corr)
	d := diagnostic.NewDiagnostic(diagnostic.NewLocation(c.File, offset), c.CopName, message, c.severity()).
		WithCorrectionID(c.CopName)
	*c.diagnostics = append(*c.diagnostics, d)
}

func (c *Context) severity() diagnostic.Severity {
	if c.Config.SeverityOverride != nil {
		return *c.Config.SeverityOverride
	}
	return c.defaultSeverity
}

// AddCorrection records a standalone Correction not tied to a specific
// diagnostic call (rarer entry points like CheckSource may want this).
func (c *Context) AddCorrection(corr diagnostic.Correction) {
	*c.corrections = append(*c.corrections, corr)
}

// Cop is the contract every inspection rule implements.
// A cop implements whichever subset of entry points applies; Base (below)
// supplies no-op defaults for the rest, so a cop is really a capability
// set rather than a fixed interface every rule must fill out in full.
type Cop interface {
	// Name is the stable "Department/Name" identifier, used as the
	// config key and in diagnostics.
	Name() string

	// DefaultSeverity is used when config does not override it.
	DefaultSeverity() diagnostic.Severity

	// DefaultEnabled reports whether the cop runs when no configuration
	// mentions it.
	DefaultEnabled() bool

	// DefaultInclude/DefaultExclude are the cop's default path-glob lists.
	DefaultInclude() []string
	DefaultExclude() []string

	// InterestedNodeTypes is the closed list of AST node kinds this cop
	// wants CheckNode calls for. An empty slice means "no node interest"
	// (the cop relies on CheckLines/CheckSource instead).
	InterestedNodeTypes() []ast.Kind

	// CheckLines is the whole-file line-scan entry point.
	CheckLines(ctx *Context)

	// CheckNode is the per-node entry point, called once per matching
	// node during the single node-visitor walk.
	CheckNode(ctx *Context, n ast.Node)

	// CheckSource is the whole-AST entry point for cops that need their
	// own visitor rather than the pipeline's dispatch index.
	CheckSource(ctx *Context)
}

// AutoCorrectable is an optional interface a cop implements when it ever
// proposes Corrections. It is checked via type assertion (like
// io.ReaderFrom), not embedded in Cop, since most cops never correct
// anything; --list-auto-correctable and EnabledByDefault-style listings
// use it to report which cops support the --fix flag.
type AutoCorrectable interface {
	SupportsAutocorrect() bool
}

// Base provides no-op implementations of every Cop entry point, so a
// concrete cop only needs to override the ones it uses, and of
// DefaultInclude/DefaultExclude, which most cops leave at "everything."
type Base struct{}

func (Base) DefaultInclude() []string       { return nil }
func (Base) DefaultExclude() []string       { return nil }
func (Base) InterestedNodeTypes() []ast.Kind { return nil }
func (Base) CheckLines(*Context)            {}
func (Base) CheckNode(*Context, ast.Node)   {}
func (Base) CheckSource(*Context)           {}
