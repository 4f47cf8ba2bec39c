package addr

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/laddr/log"
)

// Address is a parsed address expression. It is immutable and may be
// evaluated any number of times, concurrently, against any [Buffer].
type Address struct {
	root     *Node
	src      string
	rest     string
	opts     options
	maxLines uint64
	cache    bool
	logger   log.Logger
}

// Parse parses src into an Address.
//
// Parsing is total: text that does not begin with a valid expression parses
// as the empty expression, which selects the cursor. Input after the longest
// valid expression is returned by [Address.Rest] unless [WithStrict] is set.
// The only failures are [ErrInvalidPattern] when a malformed search pattern
// leaves input unconsumed, [ErrTrailingInput] in strict mode, and
// [ErrMaxDepthExceeded].
func Parse(ctx context.Context, src string, opts ...Option) (*Address, error) {
	a := &Address{src: src}

	applyDefaults(a)
	applyOptions(a, opts...)

	a.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(src)),
		slog.Bool("strict", a.opts.strict),
		slog.Bool("cache", a.cache))

	var err error

	if a.cache {
		a.root, a.rest, err = parseCached(ctx, src, a.opts, a.logger)
	} else {
		a.root, a.rest, err = parseSource(ctx, src, a.opts, a.logger)
	}

	if err != nil {
		return nil, WrapError(err).With(slog.String("source", src))
	}

	return a, nil
}

// ParseReader reads all of r and parses it as an address.
// Surrounding whitespace, such as a trailing newline, is removed first.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Address, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(ctx, strings.TrimSpace(string(data)), opts...)
}

// Evaluate parses src and evaluates it against buf.
func Evaluate(
	ctx context.Context,
	src string,
	buf Buffer,
	opts ...Option,
) (Range, error) {
	a, err := Parse(ctx, src, opts...)
	if err != nil {
		return Range{}, err
	}

	return a.Eval(ctx, buf)
}

// Source returns the text a was parsed from.
func (a *Address) Source() string { return a.src }

// Rest returns the input that followed the parsed expression.
func (a *Address) Rest() string { return a.rest }

// Root returns the root of the syntax tree, always a [TypeUnion] node.
func (a *Address) Root() *Node { return a.root }

// String returns the canonical source form of a.
func (a *Address) String() string { return a.root.String() }
