package naming

import "github.com/fastcop/fastcop/internal/cop"

func init() {
	cop.Register(MethodName)
}
