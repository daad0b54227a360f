package syntax

import (
	"bytes"
	"strings"
)

// Print serializes the tree. Unmodified subtrees are copied byte-for-byte
// from the source, so a tree without edits prints identical to its input.
func Print(t *Tree) []byte {
	if t.Root == nil {
		return nil
	}

	if !t.Root.modified {
		return bytes.Clone(t.Source)
	}

	var sb strings.Builder

	sb.Grow(len(t.Source))

	// The root span may not cover leading or trailing trivia.
	sb.Write(t.Source[:t.Root.start])
	writeNode(&sb, t.Root)
	sb.Write(t.Source[t.Root.end:])

	return []byte(sb.String())
}

func writeNode(sb *strings.Builder, n *Node) {
	switch {
	case n.synthetic:
		for idx, child := range n.Children {
			sb.WriteString(n.lits[idx])
			writeNode(sb, child)
		}

		sb.WriteString(n.lits[len(n.Children)])
	case !n.modified:
		sb.Write(n.src[n.start:n.end])
	default:
		pos := n.start

		for _, child := range n.Children {
			if child.start >= pos {
				sb.Write(n.src[pos:child.start])
				pos = child.end
			}

			writeNode(sb, child)
		}

		sb.Write(n.src[pos:n.end])
	}
}
