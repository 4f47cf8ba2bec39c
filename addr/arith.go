package addr

import "math"

// magnitude returns |n| without overflowing on math.MinInt64.
func magnitude(n int64) uint64 {
	if n >= 0 {
		return uint64(n)
	}

	return uint64(-(n + 1)) + 1
}

// subFloor returns i-d, or 0 if that would underflow.
func subFloor(i, d uint64) uint64 {
	if i < d {
		return 0
	}

	return i - d
}

// shift moves line i by n: wrapping when n >= 0, saturating at 0 when n < 0.
func shift(i uint64, n int64) uint64 {
	if n >= 0 {
		return i + uint64(n)
	}

	return subFloor(i, magnitude(n))
}

// wrapped returns the run of extra+1 indices beginning at start, continuing
// past math.MaxUint64 back to 0.
func wrapped(start, extra uint64) []span {
	end := start + extra
	if end >= start {
		return []span{{start, end}}
	}

	return []span{{start, math.MaxUint64}, {0, end}}
}

var universe = []span{{0, math.MaxUint64}}

// offsetRange moves every index of r by n (see shift).
func offsetRange(r Range, n int64) Range {
	out := make([]span, 0, len(r.spans)+1)

	for _, s := range r.spans {
		if n >= 0 {
			out = append(out, wrapped(s.lo+uint64(n), s.hi-s.lo)...)
		} else {
			d := magnitude(n)
			out = append(out, span{subFloor(s.lo, d), subFloor(s.hi, d)})
		}
	}

	return makeRange(out)
}

// expandRange grows each index i of r to [i, i+n] (wrapping) when n >= 0, or
// to [i-|n|, i] (saturating at 0) when n < 0.
func expandRange(r Range, n int64) Range {
	out := make([]span, 0, len(r.spans)+1)

	for _, s := range r.spans {
		if n < 0 {
			out = append(out, span{subFloor(s.lo, magnitude(n)), s.hi})

			continue
		}

		width := s.hi - s.lo
		if width > math.MaxUint64-uint64(n) {
			return Range{spans: universe}
		}

		out = append(out, wrapped(s.lo, width+uint64(n))...)
	}

	return makeRange(out)
}

// expandBothRange grows each index i of r to [i-|n|, i+|n|], wrapping in both
// directions.
func expandBothRange(r Range, n int64) Range {
	d := magnitude(n)
	if d > math.MaxInt64 {
		return Range{spans: universe}
	}

	out := make([]span, 0, len(r.spans)+1)

	for _, s := range r.spans {
		width := s.hi - s.lo
		if width > math.MaxUint64-2*d {
			return Range{spans: universe}
		}

		out = append(out, wrapped(s.lo-d, width+2*d)...)
	}

	return makeRange(out)
}
