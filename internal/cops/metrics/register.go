package metrics

import "github.com/fastcop/fastcop/internal/cop"

func init() {
	cop.Register(ParameterLists)
	cop.Register(MethodLength)
}
