package addr

import (
	"context"
	"errors"
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func eval(t *testing.T, src string, buf Buffer, opts ...Option) Range {
	t.Helper()

	r, err := Evaluate(context.Background(), src, buf, opts...)
	if err != nil {
		t.Fatalf("Evaluate(%q) error = %v", src, err)
	}

	return r
}

func TestEvaluate_Scenario(t *testing.T) {
	tests := []struct {
		src  string
		want []uint64
	}{
		{".", lines(1)},
		{"1-2", lines(1, 2)},
		{"'a+1-2", lines(0, 1, 2, 3)},
		{"!1-2", lines(0, 3)},
		{"0#1", lines(0, 1)},
		{"2#-1", lines(1, 2)},
		{"/ba/", lines(1, 2)},

		{"", lines(1)},
		{"%", lines(0, 1, 2, 3)},
		{"!%", lines()},
		{"$", lines(3)},
		{"1-$", lines(1, 2, 3)},
		{"1^2", lines(3)},
		{"3^-5", lines(0)},
		{"1^-9223372036854775808", lines(0)},
		{"5-2", lines()},
		{"'nope", lines()},
		{"(1-2)^-2", lines(0)},
		{"(1-2)^1", lines(2, 3)},
		{"'a^1", lines(1, 4)},
		{"1##1", lines(0, 1, 2)},
		{"0##1", lines(0, 1, math.MaxUint64)},
		{"0#-5", lines(0)},
		{"/ba/*2-3", lines(2)},
		{"(1+2)*2-3", lines(2)},
		{"1+2*3", lines(1)},
		{"!1-2+3", lines(0)},
		{"!", lines(0, 2, 3)},
		{"()", lines(1)},
		{"1&", lines(0, 1)},
		{"2&", lines(2, 3)},
		{"'a&", lines(0, 1, 2, 3)},
		{"/^q/+/^f/", lines(0, 3)},
		{"/o+/", lines(0)},
		{"/z$/", lines(2)},
		{"/nomatch/", lines()},
		{"1)", lines(1)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := eval(t, tt.src, scenario())

			if diff := cmp.Diff(tt.want, got.Sorted()); diff != "" {
				t.Errorf("Evaluate(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestEvaluate_Properties(t *testing.T) {
	buf := scenario()
	exprs := []string{"1", "1-2", "/ba/", "'a", ".", "%", "(0+3)", "1&", "2#-1", "0##1", "'nope"}

	for _, a := range exprs {
		ra := eval(t, a, buf)

		if got := eval(t, a+"+"+a, buf); !got.Equal(ra) {
			t.Errorf("%s+%s = %v, want %v", a, a, got, ra)
		}

		for _, b := range exprs {
			ab := eval(t, a+"+"+b, buf)
			ba := eval(t, b+"+"+a, buf)

			if !ab.Equal(ba) {
				t.Errorf("%s+%s = %v but %s+%s = %v", a, b, ab, b, a, ba)
			}
		}

		if hi, ok := ra.Max(); !ok || hi < uint64(buf.Len()) {
			if got := eval(t, "!!"+a, buf); !got.Equal(ra) {
				t.Errorf("!!%s = %v, want %v", a, got, ra)
			}
		}
	}

	for _, a := range []string{"1", "1-2", "/ba/", "'a", ".", "%", "(0+3)"} {
		if got := eval(t, a+"*"+a, buf); !got.Equal(eval(t, a, buf)) {
			t.Errorf("%s*%s = %v", a, a, got)
		}
	}

	for _, r := range []string{"1", "(0+3)", "'a", "/ba/"} {
		base := eval(t, r, buf)

		for n := range 4 {
			for _, op := range []string{"#", "#-"} {
				grown := eval(t, r+op+strconv.Itoa(n), buf)

				if !grown.Intersect(base).Equal(base) {
					t.Errorf("%s%s%d = %v does not contain %v", r, op, n, grown, base)
				}
			}
		}
	}
}

func TestEvaluate_Totality(t *testing.T) {
	for _, src := range []string{"", "?", " 1", "-3", ")(", "'", "//"} {
		got := eval(t, src, scenario())

		if !got.Equal(NewRange(1)) {
			t.Errorf("Evaluate(%q) = %v, want cursor", src, got)
		}
	}
}

func TestEvaluate_EmptyBuffer(t *testing.T) {
	buf := &testBuffer{cursor: NewRange(0)}

	for _, src := range []string{"$", "0-$", "1+$^1"} {
		_, err := Evaluate(context.Background(), src, buf)
		if !errors.Is(err, ErrEmptyBuffer) {
			t.Errorf("Evaluate(%q) error = %v, want ErrEmptyBuffer", src, err)
		}
	}

	if got := eval(t, "%", buf); !got.IsEmpty() {
		t.Errorf("%% on empty buffer = %v", got)
	}

	if got := eval(t, "!.", buf); !got.IsEmpty() {
		t.Errorf("!. on empty buffer = %v", got)
	}

	if got := eval(t, "", buf); !got.Equal(NewRange(0)) {
		t.Errorf("empty expression = %v, want cursor", got)
	}
}

// sizedBuffer reports n lines without storing their text.
type sizedBuffer struct {
	testBuffer

	n int
}

func (b *sizedBuffer) Len() int { return b.n }

func TestEvaluate_LargeRanges(t *testing.T) {
	buf := scenario()

	tests := []struct {
		src  string
		want Range
	}{
		{"0-18446744073709551615", Span(0, math.MaxUint64)},
		{"0-20000000", Span(0, 20000000)},
		{"5#20000000", Span(5, 20000005)},
		{"(0#20000000)*5", NewRange(5)},
		{"!(0-20000000)", Range{}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := eval(t, tt.src, buf, WithMaxLines(10)); !got.Equal(tt.want) {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}

	big := &sizedBuffer{testBuffer: *scenario(), n: DefaultMaxLines + 1}

	if got := eval(t, "%", big); !got.Equal(Span(0, DefaultMaxLines)) {
		t.Errorf("%% on %d lines = %v", big.n, got)
	}

	if got := eval(t, "!0", big); !got.Equal(Span(1, DefaultMaxLines)) {
		t.Errorf("!0 on %d lines = %v", big.n, got)
	}
}

func TestEvaluate_MaxLines(t *testing.T) {
	buf := scenario()

	tests := []struct {
		src  string
		opts []Option
	}{
		{"(0#100)&", []Option{WithMaxLines(10)}},
		{"(0-1000)&", []Option{WithMaxLines(10)}},
		{"1+(0##9223372036854775807)&", nil},
		{"(0-18446744073709551615)&", nil},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Evaluate(context.Background(), tt.src, buf, tt.opts...)
			if !errors.Is(err, ErrRangeTooLarge) {
				t.Errorf("error = %v, want ErrRangeTooLarge", err)
			}
		})
	}

	if got := eval(t, "(0#9)&", buf, WithMaxLines(10)); got.Len() != 10 {
		t.Errorf("limit is not inclusive: %v", got)
	}
}

func TestEvaluate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Evaluate(ctx, "1", scenario())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestEvaluate_CursorAndMarksAreCopied(t *testing.T) {
	buf := scenario()

	dot := eval(t, ".", buf)
	mark := eval(t, "'a", buf)

	dot.spans[0].lo = 99
	mark.spans[0].lo = 99

	if !buf.cursor.Equal(NewRange(1)) || !buf.marks["a"].Equal(NewRange(0, 3)) {
		t.Error("evaluation result aliases buffer state")
	}
}

func TestAddress_EvalConcurrent(t *testing.T) {
	a, err := Parse(context.Background(), "/ba/&+'a##1")
	if err != nil {
		t.Fatal(err)
	}

	want := eval(t, a.Source(), scenario())
	buf := scenario()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			got, err := a.Eval(context.Background(), buf)
			if err != nil || !got.Equal(want) {
				t.Errorf("concurrent Eval = %v, %v", got, err)
			}
		}()
	}

	wg.Wait()
}
