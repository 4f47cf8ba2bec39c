package buffer

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/laddr/addr"
)

// Bounds is the first and last line of a block.
type Bounds struct {
	Lo, Hi int
}

// Span returns b as a range of line indices.
func (b Bounds) Span() addr.Range { return addr.Span(uint64(b.Lo), uint64(b.Hi)) }

// BlockFunc returns the block of every line of lines, indexed by line. The
// result must have one entry per line, each containing its own line.
type BlockFunc func(lines []string) []Bounds

// tabWidth is the column width of a tab when measuring indentation.
const tabWidth = 8

var strategies = map[string]BlockFunc{
	"indent":  IndentBlock,
	"bracket": BracketBlock,
	"line":    LineBlock,
}

// Strategies returns an iterator over the names accepted by [BlockStrategy].
func Strategies() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(strategies)))
}

// BlockStrategy returns the strategy registered under name.
func BlockStrategy(name string) (BlockFunc, error) {
	fn, ok := strategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrStrategy.With(slog.String("name", name))
	}

	return fn, nil
}

// LineBlock treats every line as its own block.
func LineBlock(lines []string) []Bounds {
	table := make([]Bounds, len(lines))
	for i := range table {
		table[i] = Bounds{i, i}
	}

	return table
}

// IndentBlock finds, for each line, the run of lines around it that are
// indented at least as deeply as it is. Blank lines inside the run belong to
// it; blank lines at its edges do not. A blank line is a block by itself.
func IndentBlock(lines []string) []Bounds {
	n := len(lines)
	depth := make([]int, n)
	blank := make([]bool, n)

	for i, s := range lines {
		depth[i], blank[i] = indentOf(s)
	}

	// nextText[i] and prevText[i] are the nearest non-blank lines at or
	// after and at or before i.
	nextText := make([]int, n+1)
	prevText := make([]int, n)
	nextText[n] = n

	for i := n - 1; i >= 0; i-- {
		nextText[i] = nextText[i+1]
		if !blank[i] {
			nextText[i] = i
		}
	}

	last := -1
	for i := range n {
		if !blank[i] {
			last = i
		}

		prevText[i] = last
	}

	// lo and hi first hold the nearest shallower non-blank lines before and
	// after each line, found with a stack of strictly increasing depths.
	lo := make([]int, n)
	hi := make([]int, n)

	var stack []int

	for i := range n {
		if blank[i] {
			continue
		}

		for len(stack) > 0 && depth[stack[len(stack)-1]] >= depth[i] {
			stack = stack[:len(stack)-1]
		}

		lo[i] = -1
		if len(stack) > 0 {
			lo[i] = stack[len(stack)-1]
		}

		stack = append(stack, i)
	}

	stack = stack[:0]

	for i := n - 1; i >= 0; i-- {
		if blank[i] {
			continue
		}

		for len(stack) > 0 && depth[stack[len(stack)-1]] >= depth[i] {
			stack = stack[:len(stack)-1]
		}

		hi[i] = n
		if len(stack) > 0 {
			hi[i] = stack[len(stack)-1]
		}

		stack = append(stack, i)
	}

	table := make([]Bounds, n)

	for i := range n {
		if blank[i] {
			table[i] = Bounds{i, i}

			continue
		}

		table[i] = Bounds{nextText[lo[i]+1], prevText[hi[i]-1]}
	}

	return table
}

// indentOf returns the display column of the first non-space character of
// s, and whether s has none.
func indentOf(s string) (int, bool) {
	col := 0

	for _, r := range s {
		switch r {
		case ' ':
			col++
		case '\t':
			col += tabWidth - col%tabWidth
		case '\v', '\f':
		default:
			return col, false
		}
	}

	return col, true
}

// bracketKind returns which of "()", "[]" and "{}" r belongs to, and
// whether it opens.
func bracketKind(r rune) (kind int, open, ok bool) {
	switch r {
	case '(':
		return 0, true, true
	case ')':
		return 0, false, true
	case '[':
		return 1, true, true
	case ']':
		return 1, false, true
	case '{':
		return 2, true, true
	case '}':
		return 2, false, true
	}

	return 0, false, false
}

// BracketBlock finds, for each line, the lines spanned by the innermost
// bracket pair enclosing it, where "{}", "[]" and "()" are matched
// independently. A line that leaves a bracket open starts the block of that
// bracket, so a "}" line belongs to the block it closes. An unclosed bracket
// extends to the last line. A line outside every bracket is a block by
// itself.
func BracketBlock(lines []string) []Bounds {
	type opener struct {
		line, close int
	}

	var (
		opens  []opener
		stacks [3][]int
	)

	// innermost returns the latest opener still open, or -1.
	innermost := func() int {
		top := -1

		for _, st := range stacks {
			if len(st) > 0 {
				top = max(top, st[len(st)-1])
			}
		}

		return top
	}

	owner := make([]int, len(lines))

	for i, text := range lines {
		outer := innermost()

		for _, r := range text {
			kind, open, ok := bracketKind(r)

			switch {
			case !ok:
			case open:
				stacks[kind] = append(stacks[kind], len(opens))
				opens = append(opens, opener{line: i, close: -1})
			case len(stacks[kind]) > 0:
				st := stacks[kind]
				opens[st[len(st)-1]].close = i
				stacks[kind] = st[:len(st)-1]
			}
		}

		owner[i] = outer
		if top := innermost(); top >= 0 && opens[top].line == i {
			owner[i] = top
		}
	}

	table := make([]Bounds, len(lines))

	for i, id := range owner {
		if id < 0 {
			table[i] = Bounds{i, i}

			continue
		}

		o := opens[id]
		if o.close < 0 {
			o.close = len(lines) - 1
		}

		table[i] = Bounds{o.line, o.close}
	}

	return table
}
