package addr

import "github.com/ardnew/laddr/log"

const (
	// DefaultMaxDepth is the default limit on expression nesting.
	DefaultMaxDepth = 256

	// DefaultMaxLines is the default limit on the number of lines the block
	// operator looks up one at a time.
	DefaultMaxLines = 1 << 24
)

// options holds the settings that change how source text is parsed.
// It is part of the parse cache key.
type options struct {
	strict   bool
	maxDepth int
}

// Option configures parsing or evaluation behavior.
type Option func(*Address)

// WithStrict rejects input that is not entirely consumed by the expression.
// By default trailing input is ignored and available from [Address.Rest].
func WithStrict(strict bool) Option {
	return func(a *Address) {
		a.opts.strict = strict
	}
}

// WithMaxDepth sets the maximum nesting of parenthesized and inverted
// sub-expressions. Non-positive values select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(a *Address) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}

		a.opts.maxDepth = depth
	}
}

// WithMaxLines sets the maximum number of lines whose blocks one block
// operator may look up. Zero selects [DefaultMaxLines].
func WithMaxLines(lines uint64) Option {
	return func(a *Address) {
		if lines == 0 {
			lines = DefaultMaxLines
		}

		a.maxLines = lines
	}
}

// WithCache controls whether parse results are shared through the
// process-wide cache. It is enabled by default.
func WithCache(enable bool) Option {
	return func(a *Address) {
		a.cache = enable
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(a *Address) {
		a.logger = logger
	}
}

// applyDefaults sets default option values on an Address.
func applyDefaults(a *Address) {
	a.opts.maxDepth = DefaultMaxDepth
	a.maxLines = DefaultMaxLines
	a.cache = true
}

// applyOptions applies functional options to an Address.
func applyOptions(a *Address, opts ...Option) {
	for _, opt := range opts {
		opt(a)
	}
}
