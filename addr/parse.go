package addr

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/laddr/log"
)

// markDelims are the characters that end a mark name, besides Unicode space.
const markDelims = "+*^&#()"

// parser is a backtracking recursive-descent parser. Each rule either
// succeeds and advances pos, or fails and leaves pos where it found it.
type parser struct {
	src      string
	pos      int
	depth    int
	maxDepth int
	logger   log.Logger

	// err aborts the parse; every rule fails once it is set.
	err error

	// patternErr is the first search pattern that failed to compile.
	patternErr error
}

// parseSource parses src into its syntax tree, returning the tree and the
// unconsumed remainder of src.
func parseSource(
	ctx context.Context,
	src string,
	opts options,
	logger log.Logger,
) (*Node, string, error) {
	p := &parser{
		src:      src,
		maxDepth: opts.maxDepth,
		logger:   logger,
	}

	root := p.parseExpr()
	if p.err != nil {
		return nil, "", p.err
	}

	rest := src[p.pos:]

	logger.TraceContext(ctx, "parse complete",
		slog.Int("source_length", len(src)),
		slog.Int("consumed", p.pos),
		slog.Int("terms", len(root.Terms)))

	if rest != "" {
		if p.patternErr != nil {
			return nil, rest, p.patternErr
		}

		if opts.strict {
			return nil, rest, ErrTrailingInput.With(
				slog.Int("offset", p.pos),
				slog.String("rest", rest),
			)
		}
	}

	return root, rest, nil
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() != c || p.eof() {
		return false
	}

	p.pos++

	return true
}

func (p *parser) consumeString(s string) bool {
	if !strings.HasPrefix(p.src[p.pos:], s) {
		return false
	}

	p.pos += len(s)

	return true
}

// enter records one level of primary nesting and reports whether parsing
// may go on.
func (p *parser) enter() bool {
	if p.err != nil {
		return false
	}

	p.depth++
	if p.depth > p.maxDepth {
		p.err = ErrMaxDepthExceeded.With(
			slog.Int("max_depth", p.maxDepth),
			slog.Int("offset", p.pos),
		)

		return false
	}

	return true
}

func (p *parser) leave() { p.depth-- }

// parseExpr parses Term ('+' Term)*. It never fails: when no term matches
// it consumes nothing and yields the empty union, which selects the cursor.
func (p *parser) parseExpr() *Node {
	union := &Node{Type: TypeUnion}

	first, ok := p.parseTerm()
	if !ok {
		return union
	}

	union.Terms = append(union.Terms, first)

	for {
		save := p.pos

		if !p.consume('+') {
			break
		}

		term, ok := p.parseTerm()
		if !ok {
			p.pos = save

			break
		}

		union.Terms = append(union.Terms, term)
	}

	return union
}

// parseTerm parses a primary followed by at most one postfix operator,
// tried in order: offset, block, double expand, expand, intersection.
func (p *parser) parseTerm() (*Node, bool) {
	prim, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}

	save := p.pos

	if p.consume('^') {
		if n, ok := p.parseInt(); ok {
			return &Node{Type: TypeOffset, Operand: prim, Count: n}, true
		}

		p.pos = save
	}

	if p.consume('&') {
		return &Node{Type: TypeBlock, Operand: prim}, true
	}

	if p.consumeString("##") {
		if n, ok := p.parseInt(); ok {
			return &Node{Type: TypeExpandBoth, Operand: prim, Count: n}, true
		}

		p.pos = save
	}

	if p.consume('#') {
		if n, ok := p.parseInt(); ok {
			return &Node{Type: TypeExpand, Operand: prim, Count: n}, true
		}

		p.pos = save
	}

	if p.consume('*') {
		if right, ok := p.parsePrimary(); ok {
			return &Node{Type: TypeIntersect, Operand: prim, Right: right}, true
		}

		p.pos = save
	}

	return prim, true
}

// parsePrimary tries, in order: search, line or span, invert, whole, dot,
// mark, and a parenthesized expression.
func (p *parser) parsePrimary() (*Node, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	if n, ok := p.parseSearch(); ok {
		return n, true
	}

	if start, ok := p.parseLine(); ok {
		save := p.pos

		if p.consume('-') {
			if end, ok := p.parseLine(); ok {
				return &Node{Type: TypeSpan, Start: start, End: end}, true
			}

			p.pos = save
		}

		return &Node{Type: TypeSingle, Start: start}, true
	}

	if p.consume('!') {
		inner := p.parseExpr()
		if p.err != nil {
			return nil, false
		}

		return &Node{Type: TypeInvert, Operand: inner}, true
	}

	if p.consume('%') {
		return &Node{Type: TypeWhole}, true
	}

	if p.consume('.') {
		return &Node{Type: TypeDot}, true
	}

	if n, ok := p.parseMark(); ok {
		return n, true
	}

	return p.parseGroup()
}

// parseSearch parses '/' pattern '/'. A pattern that does not compile fails
// the alternative and is remembered for error reporting.
func (p *parser) parseSearch() (*Node, bool) {
	if p.peek() != '/' || p.eof() {
		return nil, false
	}

	end := strings.IndexByte(p.src[p.pos+1:], '/')
	if end <= 0 {
		return nil, false
	}

	pattern := p.src[p.pos+1 : p.pos+1+end]

	re, err := regexp.Compile(pattern)
	if err != nil {
		if p.patternErr == nil {
			p.patternErr = ErrInvalidPattern.Wrap(err).With(
				slog.String("pattern", pattern),
				slog.Int("offset", p.pos),
			)
		}

		return nil, false
	}

	p.pos += end + 2

	return &Node{Type: TypeSearch, Pattern: re}, true
}

// parseMark parses a quote followed by a name. The name ends at the first
// Unicode space or operator character.
func (p *parser) parseMark() (*Node, bool) {
	save := p.pos

	if !p.consume('\'') {
		return nil, false
	}

	start := p.pos
	p.pos += markNameLen(p.src[start:])

	if p.pos == start {
		p.pos = save

		return nil, false
	}

	return &Node{Type: TypeMark, Name: p.src[start:p.pos]}, true
}

func (p *parser) parseGroup() (*Node, bool) {
	save := p.pos

	if !p.consume('(') {
		return nil, false
	}

	inner := p.parseExpr()
	if p.err != nil || !p.consume(')') {
		p.pos = save

		return nil, false
	}

	return &Node{Type: TypeGroup, Operand: inner}, true
}

// parseLine parses UInt '^' Int, UInt, or '$'.
func (p *parser) parseLine() (Line, bool) {
	if p.consume('$') {
		return Line{Type: LineLast}, true
	}

	base, ok := p.parseUint()
	if !ok {
		return Line{}, false
	}

	save := p.pos

	if p.consume('^') {
		if delta, ok := p.parseInt(); ok {
			return Line{Type: LineRelative, Index: base, Delta: delta}, true
		}

		p.pos = save
	}

	return Line{Type: LineAbsolute, Index: base}, true
}

func (p *parser) digits() string {
	start := p.pos
	for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}

	return p.src[start:p.pos]
}

// parseUint parses one or more decimal digits. Values that overflow uint64
// fail the rule.
func (p *parser) parseUint() (uint64, bool) {
	save := p.pos

	n, err := strconv.ParseUint(p.digits(), 10, 64)
	if err != nil {
		p.pos = save

		return 0, false
	}

	return n, true
}

// parseInt parses an optional '-' followed by decimal digits. Values that
// overflow int64 fail the rule.
func (p *parser) parseInt() (int64, bool) {
	save := p.pos
	p.consume('-')

	if p.digits() == "" {
		p.pos = save

		return 0, false
	}

	n, err := strconv.ParseInt(p.src[save:p.pos], 10, 64)
	if err != nil {
		p.pos = save

		return 0, false
	}

	return n, true
}

// IsMarkName reports whether name can be referenced as 'name in an address:
// it is not empty and has no Unicode space or operator character.
func IsMarkName(name string) bool {
	return name != "" && markNameLen(name) == len(name)
}

// markNameLen returns the length in bytes of the mark name that s begins
// with.
func markNameLen(s string) int {
	for i, r := range s {
		if unicode.IsSpace(r) || strings.ContainsRune(markDelims, r) {
			return i
		}
	}

	return len(s)
}
