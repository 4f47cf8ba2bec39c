package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/laddr/addr"
)

// sample is the four-line file used throughout the tests.
const sample = "foo\nbar\nbaz\nqux\n"

// writeTemp writes content to a new file named name in a test directory.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// kongContext returns a context carrying a kong.Context with vars.
func kongContext(t *testing.T, vars kong.Vars) context.Context {
	t.Helper()

	var cli struct{}

	parser, err := kong.New(&cli, vars)
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), kctx)
}

// newSource returns a Source reading file with default flag values.
func newSource(file string) Source {
	return Source{
		File:     file,
		Block:    "line",
		MaxLines: addr.DefaultMaxLines,
		MaxDepth: addr.DefaultMaxDepth,
	}
}
