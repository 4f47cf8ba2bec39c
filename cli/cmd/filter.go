package cmd

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/laddr/addr"
	"github.com/ardnew/laddr/buffer"
)

// lineEnv is the environment a --where expression is evaluated in, once per
// selected line.
type lineEnv struct {
	Index  uint64 `expr:"index"`  // zero-based line index
	Line   uint64 `expr:"line"`   // one-based line number
	Text   string `expr:"text"`   // line content, empty past the end of the buffer
	Length int    `expr:"length"` // len(text) in bytes
}

// filter keeps the lines of a Range for which a boolean expression holds.
type filter struct {
	src     string
	program *vm.Program
}

// compileFilter compiles src as a boolean expression over [lineEnv].
// An empty src yields a nil filter, which keeps every line.
func compileFilter(src string) (*filter, error) {
	if src == "" {
		return nil, nil
	}

	program, err := expr.Compile(src, expr.Env(lineEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("where", src))
	}

	return &filter{src: src, program: program}, nil
}

// apply returns the lines of r selected by f. Each index is tested, so r
// may hold at most limit of them.
func (f *filter) apply(
	ctx context.Context,
	snap *buffer.Snapshot,
	r addr.Range,
	limit uint64,
) (addr.Range, error) {
	if f == nil {
		return r, nil
	}

	if err := checkWalk(r, limit, "where"); err != nil {
		return addr.Range{}, err
	}

	var keep []uint64

	for i := range r.All() {
		if err := ctx.Err(); err != nil {
			return addr.Range{}, err
		}

		text, _ := snap.Line(i)

		out, err := vm.Run(f.program, lineEnv{
			Index:  i,
			Line:   i + 1,
			Text:   text,
			Length: len(text),
		})
		if err != nil {
			return addr.Range{}, ErrFilter.Wrap(err).With(
				slog.String("where", f.src),
				slog.Uint64("index", i),
			)
		}

		if ok, _ := out.(bool); ok {
			keep = append(keep, i)
		}
	}

	return addr.NewRange(keep...), nil
}
