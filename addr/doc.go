// Package addr parses and evaluates line address expressions.
//
// An address selects a set of zero-based line indices from a read-only
// [Buffer] snapshot. The language is a small ordered-choice grammar in the
// tradition of ed, sam and acme addresses:
//
//	Expr    := Term ('+' Term)*        union; empty input selects the cursor
//	Term    := Primary '^' Int         offset every line
//	         | Primary '&'             widen to enclosing blocks
//	         | Primary '##' Int        grow in both directions
//	         | Primary '#' Int         grow forward, or backward if negative
//	         | Primary '*' Primary     intersection
//	         | Primary
//	Primary := '/' re '/'              lines matching re
//	         | Line '-' Line | Line    inclusive span, or one line
//	         | '!' Expr                complement within the buffer
//	         | '%' | '.'               whole buffer, cursor
//	         | "'" name                named mark; empty if undefined
//	         | '(' Expr ')'
//	Line    := UInt '^' Int | UInt | '$'
//
// Alternatives are tried in the order shown and the first that matches wins.
// Source text is parsed once into a tree of [Node] values held by an
// [Address], which is then evaluated as often as needed:
//
//	a, err := addr.Parse(ctx, "/func/&+$")
//	if err != nil {
//		return err
//	}
//	lines, err := a.Eval(ctx, buf)
//
// Arithmetic on indices never traps. Moving forward wraps at the top of the
// uint64 range and moving backward stops at line 0, except for "##", which
// wraps in both directions. A reversed span such as "5-2" is empty.
package addr
