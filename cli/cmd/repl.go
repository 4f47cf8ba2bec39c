package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/laddr/cli/cmd/repl"
	"github.com/ardnew/laddr/log"
)

// Repl starts an interactive session for exploring addresses in a file.
type Repl struct {
	Source `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	if !r.hasFile() {
		// Standard input belongs to the terminal.
		return ErrNoSource.With(slog.String("command", "repl"))
	}

	snap, err := r.snapshot(ctx)
	if err != nil {
		return err
	}

	cacheDir, _ := kongVar(ctx, CacheIdentifier)

	return repl.Run(ctx, snap, cacheDir, log.Default(), r.options()...)
}
