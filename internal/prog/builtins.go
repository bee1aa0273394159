package prog

import (
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Builtins returns a fresh map of the functions available to every
// expression, both at the top level of a file and inside function bodies.
func Builtins() map[string]function.Function {
	return map[string]function.Function{
		"abs":    stdlib.AbsoluteFunc,
		"ceil":   stdlib.CeilFunc,
		"concat": stdlib.ConcatFunc,
		"floor":  stdlib.FloorFunc,
		"format": stdlib.FormatFunc,
		"join":   stdlib.JoinFunc,
		"length": stdlib.LengthFunc,
		"lower":  stdlib.LowerFunc,
		"max":    stdlib.MaxFunc,
		"min":    stdlib.MinFunc,
		"mod":    stdlib.ModuloFunc,
		"strlen": stdlib.StrlenFunc,
		"upper":  stdlib.UpperFunc,
	}
}
