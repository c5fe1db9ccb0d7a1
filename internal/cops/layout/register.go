package layout

import "github.com/fastcop/fastcop/internal/cop"

func init() {
	cop.Register(TrailingWhitespace)
	cop.Register(SpaceAroundOperators)
}
