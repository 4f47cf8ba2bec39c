package repl

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/ardnew/laddr/addr"
	"github.com/ardnew/laddr/buffer"
	"github.com/ardnew/laddr/log"
)

// testModel returns a model over a five-line buffer with marks top and tail.
func testModel(t *testing.T) model {
	t.Helper()

	snap := buffer.New(
		[]string{"alpha", "beta", "gamma", "delta", "epsilon"},
		buffer.WithCursor(addr.NewRange(2)),
		buffer.WithMark("top", addr.NewRange(0)),
		buffer.WithMark("tail", addr.Span(3, 4)),
	)

	return newModel(
		context.Background(),
		snap,
		NewHistory(""),
		log.Make(io.Discard),
	)
}

// withInput returns m with its input set to s and the cursor at the end.
func withInput(m model, s string) model {
	m.input.SetValue(s)
	m.input.SetCursor(len(s))

	return m
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// containsPlain reports whether s contains sub once styling is removed.
func containsPlain(s, sub string) bool {
	return strings.Contains(ansi.ReplaceAllString(s, ""), sub)
}
