package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/laddr/addr"
	"github.com/ardnew/laddr/log"
)

// Eval evaluates an address against a buffer and prints the selected lines.
type Eval struct {
	Source `embed:""`

	Expr   string `arg:"" help:"Address expression (empty selects the cursor)" name:"expr" optional:""`
	Where  string `       help:"Keep only lines for which the expression holds (env: index, line, text, length)" short:"w"`
	Output string `       help:"Output format (${enum})" default:"lines" enum:"${outputEnum}" short:"o"`

	stdout io.Writer
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	where, err := compileFilter(e.Where)
	if err != nil {
		return err
	}

	a, err := addr.Parse(ctx, e.Expr, e.options()...)
	if err != nil {
		return err
	}

	if rest := a.Rest(); rest != "" {
		log.WarnContext(ctx, "ignoring trailing input",
			slog.String("address", a.Source()),
			slog.String("rest", rest),
		)
	}

	snap, err := e.snapshot(ctx)
	if err != nil {
		return err
	}

	r, err := a.Eval(ctx, snap)
	if err != nil {
		return addr.WrapError(err).With(slog.String("command", "eval"))
	}

	r, err = where.apply(ctx, snap, r, e.MaxLines)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "evaluated address",
		slog.String("address", a.String()),
		slog.Int("lines", snap.Len()),
		slog.Int("selected", r.Len()),
	)

	return writeResult(ctx, e.output(), e.Output, a, snap, r, e.MaxLines)
}

func (e *Eval) output() io.Writer {
	if e.stdout != nil {
		return e.stdout
	}

	return os.Stdout
}
