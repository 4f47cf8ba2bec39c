package addr

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

func TestNewRange_DeduplicatesAndMerges(t *testing.T) {
	r := NewRange(5, 1, 2, 2, 3, 9, 8)

	if diff := cmp.Diff([]uint64{1, 2, 3, 5, 8, 9}, r.Sorted()); diff != "" {
		t.Errorf("Sorted() mismatch (-want +got):\n%s", diff)
	}

	if got := r.String(); got != "1-3,5,8-9" {
		t.Errorf("String() = %q", got)
	}

	if r.Len() != 6 {
		t.Errorf("Len() = %d, want 6", r.Len())
	}
}

func TestSpan(t *testing.T) {
	if !Span(5, 2).IsEmpty() {
		t.Error("reversed span is not empty")
	}

	r := Span(math.MaxUint64-1, math.MaxUint64)
	if diff := cmp.Diff([]uint64{math.MaxUint64 - 1, math.MaxUint64}, r.Sorted()); diff != "" {
		t.Errorf("top span mismatch (-want +got):\n%s", diff)
	}

	if got := Span(0, math.MaxUint64).Len(); got != math.MaxInt {
		t.Errorf("Len() of universe = %d, want saturation", got)
	}
}

func TestRange_SetAlgebra(t *testing.T) {
	a := NewRange(0, 1, 2, 7)
	b := NewRange(2, 3, 7, 9)

	tests := []struct {
		name string
		got  Range
		want []uint64
	}{
		{"union", a.Union(b), lines(0, 1, 2, 3, 7, 9)},
		{"union none", a.Union(), lines(0, 1, 2, 7)},
		{"intersect", a.Intersect(b), lines(2, 7)},
		{"intersect empty", a.Intersect(Range{}), lines()},
		{"complement", a.Complement(9), lines(3, 4, 5, 6, 8)},
		{"complement ignores beyond", NewRange(1, 50).Complement(3), lines(0, 2)},
		{"complement of empty", Range{}.Complement(3), lines(0, 1, 2)},
		{"complement zero length", a.Complement(0), lines()},
		{"complement covering", Span(0, 10).Complement(4), lines()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got.Sorted()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRange_ContainsMinMax(t *testing.T) {
	r := NewRange(3, 4, 5, 10)

	for _, i := range []uint64{3, 4, 5, 10} {
		if !r.Contains(i) {
			t.Errorf("Contains(%d) = false", i)
		}
	}

	for _, i := range []uint64{0, 2, 6, 9, 11} {
		if r.Contains(i) {
			t.Errorf("Contains(%d) = true", i)
		}
	}

	if lo, ok := r.Min(); !ok || lo != 3 {
		t.Errorf("Min() = %d, %v", lo, ok)
	}

	if hi, ok := r.Max(); !ok || hi != 10 {
		t.Errorf("Max() = %d, %v", hi, ok)
	}

	if _, ok := (Range{}).Min(); ok {
		t.Error("Min() of empty range reported ok")
	}
}

func TestRange_AllStopsEarly(t *testing.T) {
	var seen []uint64

	for i := range Span(0, math.MaxUint64).All() {
		seen = append(seen, i)
		if len(seen) == 3 {
			break
		}
	}

	if diff := cmp.Diff([]uint64{0, 1, 2}, seen); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRange_Spans(t *testing.T) {
	var got [][2]uint64
	for lo, hi := range NewRange(1, 2, 3, 6, 8, 9).Spans() {
		got = append(got, [2]uint64{lo, hi})
	}

	want := [][2]uint64{{1, 3}, {6, 6}, {8, 9}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    []uint64
		wantErr bool
	}{
		{"", lines(), false},
		{"5", lines(5), false},
		{"0-2,5", lines(0, 1, 2, 5), false},
		{" 3 - 4 , 1 ", lines(1, 3, 4), false},
		{"4-2", lines(), false},
		{"1,,2", lines(1, 2), false},
		{"x", nil, true},
		{"1-", nil, true},
		{"-1", nil, true},
		{"18446744073709551616", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseRange(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("ParseRange(%q) error = %v, want ErrInvalidRange", tt.in, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseRange(%q) error = %v", tt.in, err)
			}

			if diff := cmp.Diff(tt.want, r.Sorted()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}

			again, err := ParseRange(r.String())
			if err != nil || !again.Equal(r) {
				t.Errorf("String() %q does not round-trip", r.String())
			}
		})
	}
}

func TestRange_Text(t *testing.T) {
	data, err := json.Marshal(map[string]Range{"sel": NewRange(0, 1, 2, 5)})
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != `{"sel":"0-2,5"}` {
		t.Errorf("json = %s", got)
	}

	var back map[string]Range
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}

	if !back["sel"].Equal(NewRange(0, 1, 2, 5)) {
		t.Errorf("round trip = %v", back["sel"])
	}
}

func TestRange_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []uint64
	}{
		{"string", `r: "0-2,5"`, lines(0, 1, 2, 5)},
		{"integer", `r: 7`, lines(7)},
		{"sequence", "r:\n  - 1\n  - 3-4\n", lines(1, 3, 4)},
		{"null", `r: null`, lines()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				R Range `yaml:"r"`
			}

			if err := yaml.Unmarshal([]byte(tt.doc), &v); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if diff := cmp.Diff(tt.want, v.R.Sorted()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	var v struct {
		R Range `yaml:"r"`
	}

	if err := yaml.Unmarshal([]byte(`r: -1`), &v); err == nil {
		t.Error("negative index accepted")
	}
}

func TestRange_CloneIsIndependent(t *testing.T) {
	r := NewRange(1, 2)
	c := r.Clone()

	c.spans[0].hi = 9

	if !r.Equal(NewRange(1, 2)) {
		t.Errorf("Clone shares memory: %v", r)
	}
}
