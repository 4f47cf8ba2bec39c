package buffer

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/ardnew/laddr/addr"
	"github.com/ardnew/laddr/log"
)

// Snapshot is a read-only view of a line buffer. It is safe for concurrent
// use; derived snapshots made with [Snapshot.With] share its lines.
type Snapshot struct {
	lines  []string
	cursor addr.Range
	marks  map[string]addr.Range
	blocks BlockFunc
	table  func() []Bounds
	logger log.Logger
}

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithCursor sets the current selection.
func WithCursor(r addr.Range) Option {
	return func(s *Snapshot) {
		s.cursor = r.Clone()
	}
}

// WithMarks replaces the mark table with a copy of marks.
func WithMarks(marks map[string]addr.Range) Option {
	return func(s *Snapshot) {
		s.marks = make(map[string]addr.Range, len(marks))
		for name, r := range marks {
			s.marks[name] = r.Clone()
		}
	}
}

// WithMark adds or replaces one mark.
func WithMark(name string, r addr.Range) Option {
	return func(s *Snapshot) {
		s.marks = maps.Clone(s.marks)
		if s.marks == nil {
			s.marks = make(map[string]addr.Range)
		}

		s.marks[name] = r.Clone()
	}
}

// WithBlocks sets the block detection strategy. A nil strategy selects
// [IndentBlock].
func WithBlocks(fn BlockFunc) Option {
	return func(s *Snapshot) {
		if fn == nil {
			fn = IndentBlock
		}

		s.blocks = fn
		s.table = nil
	}
}

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(s *Snapshot) {
		s.logger = logger
	}
}

// New returns a Snapshot of a copy of lines.
func New(lines []string, opts ...Option) *Snapshot {
	s := &Snapshot{
		lines:  slices.Clone(lines),
		blocks: IndentBlock,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.index()

	return s
}

// With returns a copy of s with opts applied. The lines are shared.
func (s *Snapshot) With(opts ...Option) *Snapshot {
	c := *s

	for _, opt := range opts {
		opt(&c)
	}

	if c.table == nil {
		c.index()
	}

	return &c
}

// index arranges for the block table to be built by the first call to
// [Snapshot.Block]. Snapshots derived with the same strategy share it.
func (s *Snapshot) index() {
	lines, blocks, logger := s.lines, s.blocks, s.logger

	s.table = sync.OnceValue(func() []Bounds {
		table := blocks(lines)

		logger.Trace("block table",
			slog.Int("lines", len(lines)),
			slog.Int("entries", len(table)))

		return table
	})
}

// Lines returns the text of every line. The caller must not modify it.
func (s *Snapshot) Lines() []string { return s.lines }

// Len returns the number of lines.
func (s *Snapshot) Len() int { return len(s.lines) }

// Line returns the text of line i, or false if it is out of range.
func (s *Snapshot) Line(i uint64) (string, bool) {
	if i >= uint64(len(s.lines)) {
		return "", false
	}

	return s.lines[i], true
}

// Clip returns the indices of r that name lines of s.
func (s *Snapshot) Clip(r addr.Range) addr.Range {
	return r.Intersect(addr.Range{}.Complement(uint64(len(s.lines))))
}

// Cursor returns the current selection.
func (s *Snapshot) Cursor() addr.Range { return s.cursor.Clone() }

// Mark returns the range stored under name.
func (s *Snapshot) Mark(name string) (addr.Range, bool) {
	r, ok := s.marks[name]
	if !ok {
		return addr.Range{}, false
	}

	return r.Clone(), true
}

// Marks returns a copy of the mark table.
func (s *Snapshot) Marks() map[string]addr.Range {
	out := make(map[string]addr.Range, len(s.marks))
	for name, r := range s.marks {
		out[name] = r.Clone()
	}

	return out
}

// MarkNames returns the names of all marks in sorted order.
func (s *Snapshot) MarkNames() []string {
	return slices.Sorted(maps.Keys(s.marks))
}

// Block returns the block containing line, as found by the snapshot's block
// strategy. The blocks of all lines are found together on first use. Lines
// beyond the end of the buffer have no block.
func (s *Snapshot) Block(line uint64) addr.Range {
	if line >= uint64(len(s.lines)) {
		return addr.Range{}
	}

	return s.table()[line].Span()
}

var _ addr.Buffer = (*Snapshot)(nil)
