package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/fastcop/fastcop/internal/cache"
	"github.com/fastcop/fastcop/internal/config"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
	"github.com/fastcop/fastcop/internal/pipeline"
	"github.com/fastcop/fastcop/internal/reporter"
)

// Exit codes: a stable small set of process exit statuses rather than
// bare 0/1.
const (
	ExitSuccess     = 0 // No offenses (or none at/above the configured fail level)
	ExitViolations  = 1 // Offenses found
	ExitConfigError = 2 // Config parse/resolve error
	ExitNoFiles     = 3 // No target files found
)

// sourceExtension is the file extension fastcop treats as analyzable
// source when walking a directory argument.
const sourceExtension = ".rb"

func lintFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "fix",
			Usage: "Automatically correct offenses that support autocorrect",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, github-actions",
			Sources: cli.EnvVars("FASTCOP_FORMAT"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output path: stdout, stderr, or file path",
			Sources: cli.EnvVars("FASTCOP_OUTPUT_PATH"),
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Usage:   "Disable colored output",
			Sources: cli.EnvVars("NO_COLOR"),
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Bypass the result cache entirely for this run",
		},
		&cli.BoolFlag{
			Name:  "clear-cache",
			Usage: "Clear the result cache and exit",
		},
		&cli.BoolFlag{
			Name:  "list-cops",
			Usage: "List every registered cop grouped by department, and exit",
		},
		&cli.BoolFlag{
			Name:  "list-auto-correctable",
			Usage: "List every cop that supports --fix, and exit",
		},
		&cli.StringSliceFlag{
			Name:  "cop-option",
			Usage: "Override one cop option, repeatable: Department/Name.Key=Value",
		},
	}
}

func runLint(ctx context.Context, cmd *cli.Command) error {
	cacheDir, err := defaultCacheDir()
	if err != nil {
		return cli.Exit(fmt.Sprintf("fastcop: %v", err), ExitConfigError)
	}

	if cmd.Bool("clear-cache") {
		c, err := cache.New(cacheDir)
		if err != nil {
			return cli.Exit(fmt.Sprintf("fastcop: %v", err), ExitConfigError)
		}
		if err := c.Clear(); err != nil {
			return cli.Exit(fmt.Sprintf("fastcop: clear cache: %v", err), ExitConfigError)
		}
		fmt.Println("cache cleared")
		return nil
	}

	registry := cop.DefaultRegistry()

	if cmd.Bool("list-cops") {
		printCopList(registry)
		return nil
	}

	if cmd.Bool("list-auto-correctable") {
		for _, c := range registry.AutoCorrectable() {
			fmt.Println(c.Name())
		}
		return nil
	}

	format, err := reporter.ParseFormat(cmd.String("format"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("fastcop: %v", err), ExitConfigError)
	}

	writer, closeWriter, err := reporter.GetWriter(cmd.String("output"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("fastcop: %v", err), ExitConfigError)
	}
	defer closeWriter()

	var color *bool
	if cmd.Bool("no-color") {
		off := false
		color = &off
	}

	rep, err := reporter.New(reporter.Options{Format: format, Writer: writer, Color: color})
	if err != nil {
		return cli.Exit(fmt.Sprintf("fastcop: %v", err), ExitConfigError)
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := discoverFiles(paths)
	if err != nil {
		return cli.Exit(fmt.Sprintf("fastcop: %v", err), ExitConfigError)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "fastcop: no source files found")
		return cli.Exit("", ExitNoFiles)
	}

	resolver := config.NewResolver()
	if copOptions := cmd.StringSlice("cop-option"); len(copOptions) > 0 {
		overrides, err := config.ParseCopOptionFlag(copOptions)
		if err != nil {
			return cli.Exit(fmt.Sprintf("fastcop: %v", err), ExitConfigError)
		}
		resolver.SetCLIOverrides(overrides)
	}

	p := pipeline.New(registry, resolver)
	p.Autocorrect = cmd.Bool("fix")
	p.Logger = logrus.StandardLogger()

	if !cmd.Bool("no-cache") {
		c, err := cache.New(cacheDir)
		if err != nil {
			p.Logger.WithError(err).Warn("result cache unavailable; continuing without it")
		} else {
			p.Cache = c
		}
	}

	inputs := make([]pipeline.FileInput, len(files))
	for i, f := range files {
		inputs[i] = pipeline.FileInput{Path: f}
	}

	results := p.RunAll(ctx, inputs)

	var diagnostics []diagnostic.Diagnostic
	for _, r := range results {
		if r.Err != nil {
			var cfgErr *pipeline.ConfigError
			if errors.As(r.Err, &cfgErr) {
				return cli.Exit(fmt.Sprintf("fastcop: %v", cfgErr), ExitConfigError)
			}
			fmt.Fprintf(os.Stderr, "fastcop: %s: %v\n", r.Input.Path, r.Err)
			continue
		}
		if r.Result == nil {
			continue
		}
		diagnostics = append(diagnostics, r.Result.Diagnostics...)
		if p.Autocorrect {
			if err := os.WriteFile(r.Input.Path, r.Result.Source, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "fastcop: writing corrected %s: %v\n", r.Input.Path, err)
			}
		}
	}

	metadata := reporter.Metadata{FilesScanned: len(files), CopsEnabled: len(registry.EnabledByDefault())}
	if err := rep.Report(diagnostics, metadata); err != nil {
		return cli.Exit(fmt.Sprintf("fastcop: report: %v", err), ExitConfigError)
	}

	if hasFailingSeverity(diagnostics) {
		return cli.Exit("", ExitViolations)
	}
	return nil
}

// hasFailingSeverity reports whether any diagnostic meets the default
// fail threshold (warning or above).
func hasFailingSeverity(diagnostics []diagnostic.Diagnostic) bool {
	for _, d := range diagnostics {
		if d.Severity.IsAtLeast(diagnostic.SeverityWarning) {
			return true
		}
	}
	return false
}

// discoverFiles expands paths into a sorted, deduplicated list of files to
// analyze: files are taken as-is, directories are walked recursively for
// sourceExtension files, hidden directories are skipped.
func discoverFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				files = append(files, p)
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() != "." && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != sourceExtension {
				return nil
			}
			if _, ok := seen[path]; !ok {
				seen[path] = struct{}{}
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// defaultCacheDir returns the result cache's on-disk root, rooted under
// the user's cache directory.
func defaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, "fastcop"), nil
}

// printCopList implements --list-cops: every registered cop grouped by
// department, in alphabetical order within each group.
func printCopList(registry *cop.Registry) {
	for _, dept := range registry.Departments() {
		fmt.Printf("%s:\n", dept)
		for _, c := range registry.ByDepartment(dept) {
			status := "enabled"
			if !c.DefaultEnabled() {
				status = "disabled"
			}
			fmt.Printf("  %s (%s by default, severity: %s)\n", c.Name(), status, c.DefaultSeverity())
		}
	}
}
