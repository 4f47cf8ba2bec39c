package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds     = errors.New("index out of range")
	ErrUnknownCommand  = errors.New("unknown command (try :help)")
	ErrUsage           = errors.New("usage")
	ErrNoResult        = errors.New("no result to store (evaluate an address first)")
	ErrInvalidMarkName = errors.New("invalid mark name")
)
