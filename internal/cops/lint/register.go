package lint

import "github.com/fastcop/fastcop/internal/cop"

func init() {
	cop.Register(RedundantCopDisableDirective)
	cop.Register(UselessAssignment)
}
