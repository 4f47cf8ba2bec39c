package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/laddr/addr"
	"github.com/ardnew/laddr/log"
)

// Watch re-evaluates an address each time its input file changes.
type Watch struct {
	Source `embed:""`

	Expr     string        `arg:"" help:"Address expression (empty selects the cursor)" name:"expr" optional:""`
	Where    string        `       help:"Keep only lines for which the expression holds (env: index, line, text, length)" short:"w"`
	Output   string        `       help:"Output format (${enum})" default:"lines" enum:"${outputEnum}" short:"o"`
	Debounce time.Duration `       help:"Quiet period after a change before re-evaluating" default:"100ms"`

	stdout io.Writer
}

// Run executes the watch command. It returns when interrupted.
func (w *Watch) Run(ctx context.Context) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if !w.hasFile() {
		return ErrNoSource.With(slog.String("command", "watch"))
	}

	where, err := compileFilter(w.Where)
	if err != nil {
		return err
	}

	a, err := addr.Parse(ctx, w.Expr, w.options()...)
	if err != nil {
		return err
	}

	fw, err := newFileWatcher(w.File, w.Debounce)
	if err != nil {
		return err
	}

	out := w.stdout
	if out == nil {
		out = os.Stdout
	}

	update := func(ctx context.Context) error {
		snap, err := w.snapshot(ctx)
		if err != nil {
			log.WarnContext(ctx, "reload failed", slog.Any("error", err))

			return nil
		}

		r, err := a.Eval(ctx, snap)
		if err == nil {
			r, err = where.apply(ctx, snap, r, w.MaxLines)
		}

		if err != nil {
			log.WarnContext(ctx, "evaluation failed", slog.Any("error", err))

			return nil
		}

		return writeResult(ctx, out, w.Output, a, snap, r, w.MaxLines)
	}

	if err := update(ctx); err != nil {
		fw.close()

		return err
	}

	return fw.run(ctx, update)
}

// fileWatcher reports changes to a single file. It watches the parent
// directory so that files replaced by rename are still seen.
type fileWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

func newFileWatcher(path string, debounce time.Duration) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ErrWatch.Wrap(err).With(slog.String("path", path))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ErrWatch.Wrap(err).With(slog.String("path", abs))
	}

	err = watcher.Add(filepath.Dir(abs))
	if err != nil {
		_ = watcher.Close()

		return nil, ErrWatch.Wrap(err).With(slog.String("path", abs))
	}

	return &fileWatcher{
		path:     filepath.Clean(abs),
		debounce: debounce,
		watcher:  watcher,
	}, nil
}

func (fw *fileWatcher) close() {
	if err := fw.watcher.Close(); err != nil {
		log.Warn("close watcher", slog.Any("error", err))
	}
}

// run calls fn once the file has been quiet for the debounce period after
// each change. It returns when ctx is done or fn fails, and closes the
// watcher before returning.
func (fw *fileWatcher) run(
	ctx context.Context,
	fn func(context.Context) error,
) error {
	defer fw.close()

	timer := time.NewTimer(fw.debounce)
	timer.Stop()

	defer timer.Stop()

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			log.DebugContext(ctx, "watch stopped", slog.String("path", fw.path))

			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != fw.path ||
				event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			log.TraceContext(ctx, "watch event",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			timer.Reset(fw.debounce)
			pending = timer.C

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))

		case <-pending:
			pending = nil

			if err := fn(ctx); err != nil {
				return err
			}
		}
	}
}
