// Package buffer provides [Snapshot], an immutable line buffer that
// implements [addr.Buffer].
//
// A Snapshot is loaded from a file or reader with [Open] or [Read], or built
// from lines with [New]. Its cursor, mark table, and block strategy are set
// with options:
//
//	snap, err := buffer.Open(ctx, "main.go",
//		buffer.WithCursor(addr.NewRange(10)),
//		buffer.WithMark("top", addr.NewRange(0)),
//		buffer.WithBlocks(buffer.BracketBlock))
//
// The block strategy finds the blocks of every line in one pass the first
// time [Snapshot.Block] is called, so the block operator costs a lookup per
// line.
//
// Mark tables are persisted as YAML with [LoadMarks] and [SaveMarks].
package buffer
