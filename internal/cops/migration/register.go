package migration

import "github.com/fastcop/fastcop/internal/cop"

func init() {
	cop.Register(DepartmentName)
}
