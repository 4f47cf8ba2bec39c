package addr

// Buffer is a read-only snapshot of a line-oriented text buffer.
//
// Implementations must not change between the start and end of an
// evaluation. The evaluator only reads from a Buffer, so one snapshot may
// serve concurrent evaluations.
type Buffer interface {
	// Lines returns the text of every line, in order.
	Lines() []string

	// Len returns the number of lines.
	Len() int

	// Cursor returns the current selection.
	Cursor() Range

	// Mark returns the range stored under name, if any.
	Mark(name string) (Range, bool)

	// Block returns the structural block containing line.
	Block(line uint64) Range
}
