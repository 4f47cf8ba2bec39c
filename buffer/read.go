package buffer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/laddr/addr"
)

// Read loads every line of r into a new Snapshot. Line terminators ("\n" or
// "\r\n") are removed. A final line without a terminator is kept.
func Read(ctx context.Context, r io.Reader, opts ...Option) (*Snapshot, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	lines, err := readLines(ctx, ra)
	if err != nil {
		return nil, err
	}

	s := New(nil, opts...)
	s.lines = lines

	s.logger.TraceContext(ctx, "read complete",
		slog.Int("lines", len(lines)),
		slog.Bool("read_ahead", true))

	return s, nil
}

// Open loads the file at path into a new Snapshot.
func Open(ctx context.Context, path string, opts ...Option) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	s, err := Read(ctx, f, opts...)
	if err != nil {
		return nil, addr.WrapError(err).With(slog.String("path", path))
	}

	return s, nil
}

func readLines(ctx context.Context, r io.Reader) ([]string, error) {
	var (
		lines []string
		br    = bufio.NewReader(r)
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			lines = append(lines, line)
		}

		if errors.Is(err, io.EOF) {
			return lines, nil
		}

		if err != nil {
			return nil, ErrReadInput.Wrap(err)
		}
	}
}
