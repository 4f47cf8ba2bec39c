package addr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the canonical source form of a, followed by a newline.
func (a *Address) Format(_ context.Context, w io.Writer) error {
	_, err := fmt.Fprintln(w, a.String())

	return err
}

// FormatJSON writes the syntax tree of a as JSON.
func (a *Address) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(a.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(a.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the syntax tree of a as YAML.
func (a *Address) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, a.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// MarshalJSON implements json.Marshaler for Address.
func (a *Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToMap())
}

// ToMap converts the syntax tree of a to native Go maps and slices.
func (a *Address) ToMap() map[string]any { return a.root.ToMap() }

// Print writes an indented tree of a's syntax to w.
func (a *Address) Print(w io.Writer) { a.root.Print(w, 0) }

// ToMap converts n and its descendants to native Go maps and slices.
func (n *Node) ToMap() map[string]any {
	m := map[string]any{"type": n.Type.String()}

	switch n.Type {
	case TypeUnion:
		terms := make([]any, len(n.Terms))
		for i, t := range n.Terms {
			terms[i] = t.ToMap()
		}

		m["terms"] = terms

	case TypeSearch:
		m["pattern"] = n.Pattern.String()

	case TypeSingle:
		m["line"] = n.Start.toMap()

	case TypeSpan:
		m["start"] = n.Start.toMap()
		m["end"] = n.End.toMap()

	case TypeMark:
		m["name"] = n.Name

	case TypeInvert, TypeGroup, TypeBlock:
		m["operand"] = n.Operand.ToMap()

	case TypeOffset, TypeExpand, TypeExpandBoth:
		m["operand"] = n.Operand.ToMap()
		m["count"] = n.Count

	case TypeIntersect:
		m["left"] = n.Operand.ToMap()
		m["right"] = n.Right.ToMap()
	}

	return m
}

func (l Line) toMap() map[string]any {
	m := map[string]any{"type": l.Type.String()}

	switch l.Type {
	case LineAbsolute:
		m["index"] = l.Index

	case LineRelative:
		m["index"] = l.Index
		m["delta"] = l.Delta
	}

	return m
}

// Print writes an indented tree of n to w, one node per line.
func (n *Node) Print(w io.Writer, indent int) {
	prefix := strings.Repeat("  ", indent)

	label := n.Type.String()

	switch n.Type {
	case TypeUnion:
		if len(n.Terms) == 0 {
			label += " (cursor)"
		}

	case TypeSearch:
		label += " /" + n.Pattern.String() + "/"

	case TypeSingle:
		label += " " + n.Start.String()

	case TypeSpan:
		label += " " + n.Start.String() + "-" + n.End.String()

	case TypeMark:
		label += " " + strconv.Quote(n.Name)

	case TypeOffset, TypeExpand, TypeExpandBoth:
		label += " " + strconv.FormatInt(n.Count, 10)
	}

	_, _ = io.WriteString(w, prefix+label+"\n")

	for _, c := range n.children() {
		c.Print(w, indent+1)
	}
}

func (n *Node) children() []*Node {
	switch n.Type {
	case TypeUnion:
		return n.Terms
	case TypeIntersect:
		return []*Node{n.Operand, n.Right}
	case TypeInvert, TypeGroup, TypeOffset, TypeBlock, TypeExpand, TypeExpandBoth:
		return []*Node{n.Operand}
	default:
		return nil
	}
}
