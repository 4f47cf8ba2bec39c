package buffer

import "github.com/ardnew/laddr/addr"

// Predefined errors (sentinel values).
var (
	ErrReadInput = addr.ErrReadInput
	ErrMarks     = addr.NewError("invalid mark table")
	ErrStrategy  = addr.NewError("unknown block strategy")
)
