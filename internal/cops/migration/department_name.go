// Package migration holds cops that flag stale or malformed directive
// usage.
package migration

import (
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

// departmentName is a no-op in CheckLines/CheckNode/CheckSource. Grounded
// on original_source/src/cop/migration/department_name.rs, but the actual
// "department name missing" detection happens in internal/directive's scan
// (recording an UnknownToken) and internal/pipeline/redundant.go's
// unknownTokenDiagnostics, since spec.md §4.E resolves department tokens
// against the live registry as part of the directive scan itself - this
// cop exists only to give the diagnostic a name, severity, and config
// section like any other cop.
type departmentName struct{ cop.Base }

// DepartmentName is the registered Migration/DepartmentName cop.
var DepartmentName cop.Cop = departmentName{}

func (departmentName) Name() string                        { return "Migration/DepartmentName" }
func (departmentName) DefaultSeverity() diagnostic.Severity { return diagnostic.SeverityWarning }
func (departmentName) DefaultEnabled() bool                 { return true }
