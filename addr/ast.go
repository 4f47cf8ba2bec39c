package addr

import (
	"regexp"
	"strconv"
	"strings"
)

// Type identifies the kind of a [Node].
type Type int

const (
	// TypeUnion is a "+"-joined list of terms. With no terms it selects the
	// cursor.
	TypeUnion Type = iota

	// TypeSearch selects lines matching a pattern: /re/.
	TypeSearch

	// TypeSpan selects an inclusive run of lines: a-b.
	TypeSpan

	// TypeSingle selects one line.
	TypeSingle

	// TypeInvert selects the lines not selected by its operand: !e.
	TypeInvert

	// TypeWhole selects every line: %.
	TypeWhole

	// TypeDot selects the cursor: ".".
	TypeDot

	// TypeMark selects a named mark: 'name.
	TypeMark

	// TypeGroup is a parenthesized expression: (e).
	TypeGroup

	// TypeOffset moves its operand: t^n.
	TypeOffset

	// TypeBlock widens its operand to enclosing blocks: t&.
	TypeBlock

	// TypeExpand grows its operand in one direction: t#n.
	TypeExpand

	// TypeExpandBoth grows its operand in both directions: t##n.
	TypeExpandBoth

	// TypeIntersect selects lines common to two primaries: a*b.
	TypeIntersect
)

// String returns the name of the node type.
func (t Type) String() string {
	switch t {
	case TypeUnion:
		return "Union"
	case TypeSearch:
		return "Search"
	case TypeSpan:
		return "Span"
	case TypeSingle:
		return "Single"
	case TypeInvert:
		return "Invert"
	case TypeWhole:
		return "Whole"
	case TypeDot:
		return "Dot"
	case TypeMark:
		return "Mark"
	case TypeGroup:
		return "Group"
	case TypeOffset:
		return "Offset"
	case TypeBlock:
		return "Block"
	case TypeExpand:
		return "Expand"
	case TypeExpandBoth:
		return "ExpandBoth"
	case TypeIntersect:
		return "Intersect"
	default:
		return "Unknown"
	}
}

// LineType identifies how a [Line] resolves to an index.
type LineType int

const (
	// LineAbsolute is a literal zero-based index.
	LineAbsolute LineType = iota

	// LineRelative is a literal index moved by a signed delta: n^d.
	LineRelative

	// LineLast is the final line of the buffer: $.
	LineLast
)

// String returns the name of the line type.
func (t LineType) String() string {
	switch t {
	case LineAbsolute:
		return "Absolute"
	case LineRelative:
		return "Relative"
	case LineLast:
		return "Last"
	default:
		return "Unknown"
	}
}

// Line is a reference to a single line.
type Line struct {
	Type  LineType
	Index uint64 // LineAbsolute, LineRelative
	Delta int64  // LineRelative
}

// String returns the source form of l.
func (l Line) String() string {
	switch l.Type {
	case LineRelative:
		return strconv.FormatUint(l.Index, 10) + "^" + strconv.FormatInt(l.Delta, 10)
	case LineLast:
		return "$"
	default:
		return strconv.FormatUint(l.Index, 10)
	}
}

// Node is one element of a parsed address. Only the fields relevant to its
// Type are set. Nodes are never modified after parsing.
type Node struct {
	Type Type

	Terms   []*Node        // TypeUnion
	Operand *Node          // TypeInvert, TypeGroup, TypeOffset, TypeBlock, TypeExpand*, and the left of TypeIntersect
	Right   *Node          // TypeIntersect
	Start   Line           // TypeSingle, TypeSpan
	End     Line           // TypeSpan
	Count   int64          // TypeOffset, TypeExpand, TypeExpandBoth
	Name    string         // TypeMark
	Pattern *regexp.Regexp // TypeSearch
}

// String returns the canonical source form of n.
func (n *Node) String() string {
	var sb strings.Builder

	n.write(&sb)

	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch n.Type {
	case TypeUnion:
		for i, t := range n.Terms {
			if i > 0 {
				sb.WriteByte('+')
			}

			t.write(sb)
		}

	case TypeSearch:
		sb.WriteByte('/')
		sb.WriteString(n.Pattern.String())
		sb.WriteByte('/')

	case TypeSpan:
		sb.WriteString(n.Start.String())
		sb.WriteByte('-')
		sb.WriteString(n.End.String())

	case TypeSingle:
		sb.WriteString(n.Start.String())

	case TypeInvert:
		sb.WriteByte('!')
		n.Operand.write(sb)

	case TypeWhole:
		sb.WriteByte('%')

	case TypeDot:
		sb.WriteByte('.')

	case TypeMark:
		sb.WriteByte('\'')
		sb.WriteString(n.Name)

	case TypeGroup:
		sb.WriteByte('(')
		n.Operand.write(sb)
		sb.WriteByte(')')

	case TypeOffset:
		n.Operand.write(sb)
		sb.WriteByte('^')
		sb.WriteString(strconv.FormatInt(n.Count, 10))

	case TypeBlock:
		n.Operand.write(sb)
		sb.WriteByte('&')

	case TypeExpand:
		n.Operand.write(sb)
		sb.WriteByte('#')
		sb.WriteString(strconv.FormatInt(n.Count, 10))

	case TypeExpandBoth:
		n.Operand.write(sb)
		sb.WriteString("##")
		sb.WriteString(strconv.FormatInt(n.Count, 10))

	case TypeIntersect:
		n.Operand.write(sb)
		sb.WriteByte('*')
		n.Right.write(sb)
	}
}
