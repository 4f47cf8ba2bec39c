package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/laddr/addr"
	"github.com/ardnew/laddr/log"
)

// Fmt parses an address and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical address syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Format as indented syntax tree."`
}

// FmtInput holds the address argument common to every fmt subcommand.
type FmtInput struct {
	Expr   string `arg:"" default:"-" help:"Address expression or '-' to read it from stdin." name:"expr"`
	Strict bool   `                   help:"Fail unless the address consumes all of its input"`

	stdin  io.Reader
	stdout io.Writer
}

// parse parses the address named by the Expr argument.
func (f *FmtInput) parse(ctx context.Context, format string) (*addr.Address, error) {
	opts := []addr.Option{
		addr.WithStrict(f.Strict),
		addr.WithLogger(log.Default()),
	}

	var (
		a   *addr.Address
		err error
	)

	if f.Expr == stdinSource {
		in := f.stdin
		if in == nil {
			in = os.Stdin
		}

		a, err = addr.ParseReader(ctx, in, opts...)
	} else {
		a, err = addr.Parse(ctx, strings.TrimSpace(f.Expr), opts...)
	}

	if err != nil {
		return nil, addr.WrapError(err).With(slog.String("format", format))
	}

	return a, nil
}

func (f *FmtInput) output() io.Writer {
	if f.stdout != nil {
		return f.stdout
	}

	return os.Stdout
}

// Native formats an address in canonical syntax.
type Native struct {
	FmtInput `embed:""`
}

// Run executes the native command.
func (n *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	a, err := n.parse(ctx, "native")
	if err != nil {
		return err
	}

	return a.Format(ctx, n.output())
}

// JSON formats the syntax tree of an address as JSON.
type JSON struct {
	FmtInput `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	a, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	return a.FormatJSON(ctx, j.output(), j.Indent)
}

// YAML formats the syntax tree of an address as YAML.
type YAML struct {
	FmtInput `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	a, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return a.FormatYAML(ctx, y.output(), y.Indent)
}

// AST prints the syntax tree of an address.
type AST struct {
	FmtInput `embed:""`
}

// Run executes the ast command.
func (t *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	a, err := t.parse(ctx, "ast")
	if err != nil {
		return err
	}

	a.Print(t.output())

	return nil
}
