package addr

type testBuffer struct {
	lines  []string
	cursor Range
	marks  map[string]Range
	block  func(uint64) Range
}

func (b *testBuffer) Lines() []string { return b.lines }
func (b *testBuffer) Len() int        { return len(b.lines) }
func (b *testBuffer) Cursor() Range   { return b.cursor }

func (b *testBuffer) Mark(name string) (Range, bool) {
	r, ok := b.marks[name]

	return r, ok
}

func (b *testBuffer) Block(line uint64) Range {
	if b.block == nil {
		return NewRange(line)
	}

	return b.block(line)
}

// scenario returns the four-line buffer used throughout the tests.
func scenario() *testBuffer {
	return &testBuffer{
		lines:  []string{"foo", "bar", "baz", "qux"},
		cursor: NewRange(1),
		marks:  map[string]Range{"a": NewRange(0, 3)},
		// Lines pair up into blocks: {0,1}, {2,3}, ...
		block: func(i uint64) Range { return Span(i&^1, i|1) },
	}
}

func lines(v ...uint64) []uint64 { return NewRange(v...).Sorted() }
