package addr

import (
	"cmp"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// span is an inclusive run of line indices.
type span struct{ lo, hi uint64 }

// size returns the number of indices in s, saturating at math.MaxUint64.
func (s span) size() uint64 {
	if s.hi-s.lo == math.MaxUint64 {
		return math.MaxUint64
	}

	return s.hi - s.lo + 1
}

// Range is an immutable set of line indices.
//
// The zero value is the empty set. Every operation returns a new Range and
// never modifies its receiver or arguments, so a Range may be shared freely
// between goroutines.
type Range struct {
	// sorted, disjoint and non-adjacent
	spans []span
}

// NewRange returns the set containing each of lines.
func NewRange(lines ...uint64) Range {
	spans := make([]span, len(lines))
	for i, n := range lines {
		spans[i] = span{n, n}
	}

	return makeRange(spans)
}

// Span returns the inclusive set [lo, hi]. It is empty if hi < lo.
func Span(lo, hi uint64) Range {
	if hi < lo {
		return Range{}
	}

	return Range{spans: []span{{lo, hi}}}
}

// makeRange normalizes spans, which it may reorder in place.
func makeRange(spans []span) Range {
	spans = slices.DeleteFunc(spans, func(s span) bool { return s.hi < s.lo })
	if len(spans) == 0 {
		return Range{}
	}

	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Or(cmp.Compare(a.lo, b.lo), cmp.Compare(a.hi, b.hi))
	})

	out := make([]span, 0, len(spans))
	cur := spans[0]

	for _, s := range spans[1:] {
		if s.lo <= cur.hi || (cur.hi != math.MaxUint64 && s.lo == cur.hi+1) {
			cur.hi = max(cur.hi, s.hi)

			continue
		}

		out = append(out, cur)
		cur = s
	}

	return Range{spans: append(out, cur)}
}

// count returns the number of indices, saturating at math.MaxUint64.
func (r Range) count() uint64 {
	var n uint64

	for _, s := range r.spans {
		z := s.size()
		if n > math.MaxUint64-z {
			return math.MaxUint64
		}

		n += z
	}

	return n
}

// Len returns the number of indices in r, saturating at math.MaxInt.
func (r Range) Len() int {
	if n := r.count(); n < math.MaxInt {
		return int(n)
	}

	return math.MaxInt
}

// IsEmpty reports whether r contains no indices.
func (r Range) IsEmpty() bool { return len(r.spans) == 0 }

// Contains reports whether line is in r.
func (r Range) Contains(line uint64) bool {
	i := sort.Search(len(r.spans), func(i int) bool { return r.spans[i].hi >= line })

	return i < len(r.spans) && r.spans[i].lo <= line
}

// Min returns the smallest index in r, or false if r is empty.
func (r Range) Min() (uint64, bool) {
	if r.IsEmpty() {
		return 0, false
	}

	return r.spans[0].lo, true
}

// Max returns the largest index in r, or false if r is empty.
func (r Range) Max() (uint64, bool) {
	if r.IsEmpty() {
		return 0, false
	}

	return r.spans[len(r.spans)-1].hi, true
}

// All returns an iterator over the indices of r in ascending order.
func (r Range) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for _, s := range r.spans {
			for i := s.lo; ; i++ {
				if !yield(i) {
					return
				}

				if i == s.hi {
					break
				}
			}
		}
	}
}

// Spans returns an iterator over the maximal contiguous runs of r as
// inclusive (lo, hi) pairs in ascending order.
func (r Range) Spans() iter.Seq2[uint64, uint64] {
	return func(yield func(uint64, uint64) bool) {
		for _, s := range r.spans {
			if !yield(s.lo, s.hi) {
				return
			}
		}
	}
}

// Sorted returns the indices of r in ascending order.
func (r Range) Sorted() []uint64 {
	out := make([]uint64, 0, min(r.Len(), 1<<16))
	for i := range r.All() {
		out = append(out, i)
	}

	return out
}

// Equal reports whether r and o contain the same indices.
func (r Range) Equal(o Range) bool { return slices.Equal(r.spans, o.spans) }

// Clone returns a copy of r that shares no memory with it.
func (r Range) Clone() Range {
	if r.IsEmpty() {
		return Range{}
	}

	return Range{spans: slices.Clone(r.spans)}
}

// Union returns the set of indices in r or any of others.
func (r Range) Union(others ...Range) Range {
	n := len(r.spans)
	for _, o := range others {
		n += len(o.spans)
	}

	spans := make([]span, 0, n)
	spans = append(spans, r.spans...)

	for _, o := range others {
		spans = append(spans, o.spans...)
	}

	return makeRange(spans)
}

// Intersect returns the set of indices in both r and o.
func (r Range) Intersect(o Range) Range {
	var out []span

	for i, j := 0, 0; i < len(r.spans) && j < len(o.spans); {
		a, b := r.spans[i], o.spans[j]

		if lo, hi := max(a.lo, b.lo), min(a.hi, b.hi); lo <= hi {
			out = append(out, span{lo, hi})
		}

		if a.hi < b.hi {
			i++
		} else {
			j++
		}
	}

	return Range{spans: out}
}

// Complement returns the indices in [0, length) that are not in r.
// Indices of r at or beyond length are ignored.
func (r Range) Complement(length uint64) Range {
	if length == 0 {
		return Range{}
	}

	var (
		out  []span
		next uint64
		last = length - 1
	)

	for _, s := range r.spans {
		if s.lo > last {
			break
		}

		if s.lo > next {
			out = append(out, span{next, s.lo - 1})
		}

		if s.hi >= last {
			return Range{spans: out}
		}

		next = s.hi + 1
	}

	return Range{spans: append(out, span{next, last})}
}

// String returns the compact form of r, such as "0-2,5". The empty set is
// the empty string.
func (r Range) String() string {
	var sb strings.Builder

	for i, s := range r.spans {
		if i > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(strconv.FormatUint(s.lo, 10))

		if s.hi != s.lo {
			sb.WriteByte('-')
			sb.WriteString(strconv.FormatUint(s.hi, 10))
		}
	}

	return sb.String()
}

// ParseRange parses the compact form produced by [Range.String]: a
// comma-separated list of indices and inclusive "lo-hi" runs. Whitespace
// around elements is ignored. A reversed run is empty.
func ParseRange(text string) (Range, error) {
	var spans []span

	for part := range strings.SplitSeq(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isSpan := strings.Cut(part, "-")

		a, err := strconv.ParseUint(strings.TrimSpace(lo), 10, 64)
		if err != nil {
			return Range{}, ErrInvalidRange.Wrap(err).
				With(slog.String("input", text))
		}

		b := a
		if isSpan {
			b, err = strconv.ParseUint(strings.TrimSpace(hi), 10, 64)
			if err != nil {
				return Range{}, ErrInvalidRange.Wrap(err).
					With(slog.String("input", text))
			}
		}

		spans = append(spans, span{a, b})
	}

	return makeRange(spans), nil
}

// MarshalText implements encoding.TextMarshaler using the compact form.
func (r Range) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler using [ParseRange].
func (r *Range) UnmarshalText(text []byte) error {
	v, err := ParseRange(string(text))
	if err != nil {
		return err
	}

	*r = v

	return nil
}

// MarshalYAML encodes r in its compact string form.
func (r Range) MarshalYAML() (any, error) { return r.String(), nil }

// UnmarshalYAML decodes a compact string, a single index, or a sequence of
// either.
func (r *Range) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}

	out, err := rangeOf(v)
	if err != nil {
		return err
	}

	*r = out

	return nil
}

func rangeOf(v any) (Range, error) {
	switch v := v.(type) {
	case nil:
		return Range{}, nil

	case string:
		return ParseRange(v)

	case uint64:
		return NewRange(v), nil

	case int:
		return rangeOfInt(int64(v))

	case int64:
		return rangeOfInt(v)

	case []any:
		parts := make([]Range, 0, len(v))

		for _, e := range v {
			p, err := rangeOf(e)
			if err != nil {
				return Range{}, err
			}

			parts = append(parts, p)
		}

		return Range{}.Union(parts...), nil

	default:
		return Range{}, ErrInvalidRange.
			With(slog.String("type", fmt.Sprintf("%T", v)))
	}
}

func rangeOfInt(n int64) (Range, error) {
	if n < 0 {
		return Range{}, ErrInvalidRange.With(slog.Int64("index", n))
	}

	return NewRange(uint64(n)), nil
}
