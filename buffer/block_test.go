package buffer

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var source = []string{
	"func a() {",  // 0
	"\tif x {",    // 1
	"\t\ty(1)",    // 2
	"",            // 3
	"\t\tz()",     // 4
	"\t}",         // 5
	"}",           // 6
	"",            // 7
	"var v = [",   // 8
	"\t1, 2,",     // 9
	"]",           // 10
	"tail",        // 11
}

func TestIndentBlock(t *testing.T) {
	tests := []struct {
		line uint64
		want []uint64
	}{
		{2, []uint64{2, 3, 4}},
		{3, []uint64{3}},
		{1, []uint64{1, 2, 3, 4, 5}},
		{9, []uint64{9}},
		{0, []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
	}

	table := IndentBlock(source)
	if len(table) != len(source) {
		t.Fatalf("len(IndentBlock) = %d, want %d", len(table), len(source))
	}

	for _, tt := range tests {
		got := table[tt.line].Span()
		if diff := cmp.Diff(tt.want, got.Sorted()); diff != "" {
			t.Errorf("IndentBlock(%d) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

func TestBracketBlock(t *testing.T) {
	tests := []struct {
		line uint64
		want []uint64
	}{
		{0, []uint64{0, 1, 2, 3, 4, 5, 6}},
		{1, []uint64{1, 2, 3, 4, 5}},
		{2, []uint64{1, 2, 3, 4, 5}},
		{5, []uint64{1, 2, 3, 4, 5}},
		{6, []uint64{0, 1, 2, 3, 4, 5, 6}},
		{7, []uint64{7}},
		{9, []uint64{8, 9, 10}},
		{10, []uint64{8, 9, 10}},
		{11, []uint64{11}},
	}

	table := BracketBlock(source)
	if len(table) != len(source) {
		t.Fatalf("len(BracketBlock) = %d, want %d", len(table), len(source))
	}

	for _, tt := range tests {
		got := table[tt.line].Span()
		if diff := cmp.Diff(tt.want, got.Sorted()); diff != "" {
			t.Errorf("BracketBlock(%d) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

func TestBracketBlock_Unclosed(t *testing.T) {
	lines := []string{"x", "f(", "a", "b"}

	want := []Bounds{{0, 0}, {1, 3}, {1, 3}, {1, 3}}
	if diff := cmp.Diff(want, BracketBlock(lines)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBracketBlock_Kinds(t *testing.T) {
	lines := []string{
		"call(a, [",   // 0
		"	x) ]",      // 1
		"} stray",     // 2
		"f(g(",        // 3
		"	h",         // 4
		"	)",         // 5
		")",           // 6
		"ü{",          // 7
		"}",           // 8
	}

	want := []Bounds{
		{0, 1}, {0, 1},
		{2, 2},
		{3, 5}, {3, 5}, {3, 5}, {3, 6},
		{7, 8}, {7, 8},
	}

	if diff := cmp.Diff(want, BracketBlock(lines)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockFuncs_Empty(t *testing.T) {
	for name, fn := range strategies {
		if got := fn(nil); len(got) != 0 {
			t.Errorf("%s(nil) = %v, want empty", name, got)
		}
	}
}

func TestBlockStrategy(t *testing.T) {
	names := slices.Collect(Strategies())
	if diff := cmp.Diff([]string{"bracket", "indent", "line"}, names); diff != "" {
		t.Errorf("Strategies mismatch (-want +got):\n%s", diff)
	}

	for _, name := range names {
		if _, err := BlockStrategy(name); err != nil {
			t.Errorf("BlockStrategy(%q): %v", name, err)
		}
	}

	fn, err := BlockStrategy(" Line ")
	if err != nil {
		t.Fatal(err)
	}

	if got := fn(source)[1].Span().Sorted(); !slices.Equal(got, []uint64{1}) {
		t.Errorf("line strategy = %v", got)
	}

	if _, err := BlockStrategy("paragraph"); !errors.Is(err, ErrStrategy) {
		t.Errorf("unknown strategy error = %v", err)
	}
}
