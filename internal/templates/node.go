package templates

import (
	"fmt"
	"strings"
)

// NodeKind identifies the variant held by a Node.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeFor
	NodeIf
	NodePartial
)

func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodeFor:
		return "for"
	case NodeIf:
		return "if"
	case NodePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Node is one element of a parsed template.
//
// Siblings are chained through Next. For and If nodes own the body starting
// at Child. Partial nodes point at the root of another parsed template; that
// root is shared through the Cache and may be referenced from many places.
// Trees are immutable once Parse returns.
type Node struct {
	Kind NodeKind

	// Text is the literal text of a NodeText.
	Text string
	// Variable is the metadata key iterated by a NodeFor.
	Variable string
	// Condition is the raw expression of a NodeIf.
	Condition string
	// Path is the template name of a NodePartial.
	Path string

	Child   *Node
	Partial *Node
	Parent  *Node
	Next    *Node
}

// Dump returns an indented outline of the chain starting at n. It is meant
// for debugging and test assertions.
func Dump(n *Node) string {
	var b strings.Builder
	dump(&b, n, 0, map[*Node]bool{})
	return b.String()
}

func dump(b *strings.Builder, n *Node, depth int, seen map[*Node]bool) {
	indent := strings.Repeat("  ", depth)
	for ; n != nil; n = n.Next {
		switch n.Kind {
		case NodeText:
			fmt.Fprintf(b, "%stext %q\n", indent, n.Text)
		case NodeFor:
			fmt.Fprintf(b, "%sfor %s\n", indent, n.Variable)
			dump(b, n.Child, depth+1, seen)
		case NodeIf:
			fmt.Fprintf(b, "%sif %s\n", indent, n.Condition)
			dump(b, n.Child, depth+1, seen)
		case NodePartial:
			fmt.Fprintf(b, "%spartial %s\n", indent, n.Path)
			if !seen[n.Partial] {
				seen[n.Partial] = true
				dump(b, n.Partial, depth+1, seen)
			}
		}
	}
}
