package addr

import (
	"context"
	"log/slog"

	"github.com/ardnew/laddr/log"
)

// evaluator walks a syntax tree against one buffer snapshot.
type evaluator struct {
	ctx      context.Context
	buf      Buffer
	maxLines uint64
	logger   log.Logger
}

// Eval evaluates a against buf.
//
// It fails with [ErrEmptyBuffer] if "$" is used on a buffer with no lines,
// and with [ErrRangeTooLarge] if a block operator would look up more lines
// than the limit set by [WithMaxLines]. Every other operator works on spans
// and has no size limit.
func (a *Address) Eval(ctx context.Context, buf Buffer) (Range, error) {
	e := evaluator{
		ctx:      ctx,
		buf:      buf,
		maxLines: a.maxLines,
		logger:   a.logger,
	}

	r, err := e.eval(a.root)
	if err != nil {
		return Range{}, WrapError(err).With(slog.String("source", a.src))
	}

	a.logger.TraceContext(ctx, "eval complete",
		slog.String("source", a.src),
		slog.String("range", r.String()))

	return r, nil
}

func (e *evaluator) length() uint64 {
	if n := e.buf.Len(); n > 0 {
		return uint64(n)
	}

	return 0
}

func (e *evaluator) eval(n *Node) (Range, error) {
	if err := e.ctx.Err(); err != nil {
		return Range{}, err
	}

	return e.evalNode(n)
}

func (e *evaluator) evalNode(n *Node) (Range, error) {
	switch n.Type {
	case TypeUnion:
		if len(n.Terms) == 0 {
			return e.buf.Cursor().Clone(), nil
		}

		parts := make([]Range, 0, len(n.Terms))

		for _, t := range n.Terms {
			r, err := e.eval(t)
			if err != nil {
				return Range{}, err
			}

			parts = append(parts, r)
		}

		return Range{}.Union(parts...), nil

	case TypeSearch:
		var spans []span

		for i, text := range e.buf.Lines() {
			if n.Pattern.MatchString(text) {
				spans = append(spans, span{uint64(i), uint64(i)})
			}
		}

		return makeRange(spans), nil

	case TypeSingle:
		i, err := e.line(n.Start)
		if err != nil {
			return Range{}, err
		}

		return NewRange(i), nil

	case TypeSpan:
		lo, err := e.line(n.Start)
		if err != nil {
			return Range{}, err
		}

		hi, err := e.line(n.End)
		if err != nil {
			return Range{}, err
		}

		return Span(lo, hi), nil

	case TypeInvert:
		r, err := e.eval(n.Operand)
		if err != nil {
			return Range{}, err
		}

		return r.Complement(e.length()), nil

	case TypeWhole:
		return Range{}.Complement(e.length()), nil

	case TypeDot:
		return e.buf.Cursor().Clone(), nil

	case TypeMark:
		r, ok := e.buf.Mark(n.Name)
		if !ok {
			return Range{}, nil
		}

		return r.Clone(), nil

	case TypeGroup:
		return e.eval(n.Operand)

	case TypeOffset:
		r, err := e.eval(n.Operand)
		if err != nil {
			return Range{}, err
		}

		return offsetRange(r, n.Count), nil

	case TypeBlock:
		return e.block(n.Operand)

	case TypeExpand:
		r, err := e.eval(n.Operand)
		if err != nil {
			return Range{}, err
		}

		return expandRange(r, n.Count), nil

	case TypeExpandBoth:
		r, err := e.eval(n.Operand)
		if err != nil {
			return Range{}, err
		}

		return expandBothRange(r, n.Count), nil

	case TypeIntersect:
		left, err := e.eval(n.Operand)
		if err != nil {
			return Range{}, err
		}

		right, err := e.eval(n.Right)
		if err != nil {
			return Range{}, err
		}

		return left.Intersect(right), nil

	default:
		return Range{}, NewError("unknown node type").
			With(slog.Int("type", int(n.Type)))
	}
}

// checkInterval is how many block lookups run between cancellation checks.
const checkInterval = 1 << 12

// block replaces every line of operand with the block containing it.
func (e *evaluator) block(operand *Node) (Range, error) {
	r, err := e.eval(operand)
	if err != nil {
		return Range{}, err
	}

	if c := r.count(); c > e.maxLines {
		return Range{}, ErrRangeTooLarge.With(
			slog.String("operator", TypeBlock.String()),
			slog.Uint64("lines", c),
			slog.Uint64("max_lines", e.maxLines),
		)
	}

	parts := make([]Range, 0, min(r.Len(), 1<<10))

	for i := range r.All() {
		if i%checkInterval == 0 {
			if err := e.ctx.Err(); err != nil {
				return Range{}, err
			}
		}

		parts = append(parts, e.buf.Block(i))
	}

	return Range{}.Union(parts...), nil
}

// line resolves a line reference to an index.
func (e *evaluator) line(l Line) (uint64, error) {
	switch l.Type {
	case LineRelative:
		return shift(l.Index, l.Delta), nil

	case LineLast:
		n := e.length()
		if n == 0 {
			return 0, ErrEmptyBuffer
		}

		return n - 1, nil

	default:
		return l.Index, nil
	}
}
