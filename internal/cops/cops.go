// Package cops aggregates every department package's init-time
// registration into a single import for consumers (cmd/fastcop,
// internal/integration) that want the full built-in catalog without
// naming each department.
package cops

import (
	_ "github.com/fastcop/fastcop/internal/cops/layout"
	_ "github.com/fastcop/fastcop/internal/cops/lint"
	_ "github.com/fastcop/fastcop/internal/cops/metrics"
	_ "github.com/fastcop/fastcop/internal/cops/migration"
	_ "github.com/fastcop/fastcop/internal/cops/naming"
	_ "github.com/fastcop/fastcop/internal/cops/performance"
	_ "github.com/fastcop/fastcop/internal/cops/style"
)
