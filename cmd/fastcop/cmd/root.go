package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	// Registers the built-in cop catalog (internal/cops/*) at import time;
	// each department package self-registers its cops via init().
	_ "github.com/fastcop/fastcop/internal/cops"
	"github.com/fastcop/fastcop/internal/version"
)

// NewApp creates the CLI application.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "fastcop",
		Usage:   "A static analyzer and formatter for Ruby-family scripts",
		Version: version.Version(),
		Description: `fastcop analyzes source files against a configurable catalog of
cops (style, lint, metrics, naming, performance, layout checks) and can
automatically correct a subset of what it finds.

Examples:
  fastcop app.rb
  fastcop --fix lib/
  fastcop --format json .
  fastcop --list-cops`,
		ArgsUsage: "[PATH...]",
		Flags:     lintFlags(),
		Action:    runLint,
		Commands: []*cli.Command{
			versionCommand(),
		},
	}
}

// Execute runs the CLI application.
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
