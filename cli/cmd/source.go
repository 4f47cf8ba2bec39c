package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/laddr/addr"
	"github.com/ardnew/laddr/buffer"
	"github.com/ardnew/laddr/log"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source holds the flags describing the buffer an address is evaluated
// against and the limits applied while doing so.
type Source struct {
	File     string     `default:"-"           help:"Input file or '-' for stdin"                                           short:"f"`
	Cursor   addr.Range `                      help:"Cursor line(s), e.g. 4 or 2-5,9"                                                    placeholder:"RANGE"`
	Mark     []string   `                      help:"Define a mark (repeatable)"                                           short:"m" placeholder:"NAME=RANGE" sep:"none"`
	Marks    string     `                      help:"Mark table file, searched along ${marksPathEnv} and the config directory"           placeholder:"FILE"`
	Block    string     `default:"indent"      help:"Block detection strategy (${enum})"               enum:"${blockEnum}"`
	Strict   bool       `                      help:"Fail unless the address consumes all of its input"`
	MaxLines uint64     `default:"${maxLines}" help:"Maximum number of lines walked one at a time by the block operator and by --where"`
	MaxDepth int        `default:"${maxDepth}" help:"Maximum nesting depth of an address"`
}

// options returns the parse and evaluation options selected by s.
func (s *Source) options() []addr.Option {
	return []addr.Option{
		addr.WithStrict(s.Strict),
		addr.WithMaxLines(s.MaxLines),
		addr.WithMaxDepth(s.MaxDepth),
		addr.WithLogger(log.Default()),
	}
}

// snapshot loads the buffer described by s.
// Marks given on the command line override those read from a mark table.
func (s *Source) snapshot(ctx context.Context) (*buffer.Snapshot, error) {
	marks, err := s.loadMarks(ctx)
	if err != nil {
		return nil, err
	}

	for _, def := range s.Mark {
		name, text, ok := strings.Cut(def, "=")
		if !ok || !addr.IsMarkName(name) {
			return nil, ErrMarkFlag.With(slog.String("mark", def))
		}

		r, err := addr.ParseRange(text)
		if err != nil {
			return nil, ErrMarkFlag.Wrap(err).With(slog.String("mark", def))
		}

		marks[name] = r
	}

	blocks, err := buffer.BlockStrategy(s.Block)
	if err != nil {
		return nil, err
	}

	opts := []buffer.Option{
		buffer.WithCursor(s.Cursor),
		buffer.WithMarks(marks),
		buffer.WithBlocks(blocks),
		buffer.WithLogger(log.Default()),
	}

	if s.File == "" || s.File == stdinSource {
		return buffer.Read(ctx, os.Stdin, opts...)
	}

	return buffer.Open(ctx, s.File, opts...)
}

// hasFile reports whether s names a regular input file.
func (s *Source) hasFile() bool {
	return s.File != "" && s.File != stdinSource
}

// loadMarks reads the mark table named by the --marks flag, if any.
func (s *Source) loadMarks(ctx context.Context) (map[string]addr.Range, error) {
	if s.Marks == "" {
		return make(map[string]addr.Range), nil
	}

	path, err := findMarks(ctx, s.Marks)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, buffer.ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer file.Close()

	marks, err := buffer.LoadMarks(file)
	if err != nil {
		return nil, addr.WrapError(err).With(slog.String("path", path))
	}

	log.DebugContext(ctx, "loaded mark table",
		slog.String("path", path),
		slog.Int("count", len(marks)),
	)

	return marks, nil
}

// findMarks locates a mark table file. Names that exist relative to the
// working directory, and absolute paths, are used as given. Otherwise each
// directory of [MarksPathEnv] is searched, followed by the configuration
// directory.
func findMarks(ctx context.Context, name string) (string, error) {
	if _, err := os.Stat(name); err == nil || filepath.IsAbs(name) {
		return name, nil
	}

	dirs := marksSearchPath(ctx)

	for _, dir := range dirs {
		path := filepath.Join(dir, name)

		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}

		if !errors.Is(err, os.ErrNotExist) {
			log.TraceContext(ctx, "skip mark directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
		}
	}

	return "", ErrMarksFile.With(
		slog.String("name", name),
		slog.Any("search", dirs),
	)
}

// marksSearchPath returns the directories searched for mark table files.
func marksSearchPath(ctx context.Context) []string {
	confDir, _ := kongVar(ctx, MarksIdentifier)

	path := mung.Make(
		mung.WithSubjectItems(confDir),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(filepath.SplitList(os.Getenv(MarksPathEnv))...),
		mung.WithFilter(func(dir string) bool { return dir != "" }),
	).String()

	return filepath.SplitList(path)
}
