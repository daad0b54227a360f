package syntax

import "bytes"

// Walk visits n and its descendants in source order. When fn returns false
// the children of the current node are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// FindAll returns every node under root (root included) whose kind is one of
// kinds, in source order.
func FindAll(root *Node, kinds ...string) []*Node {
	var found []*Node

	Walk(root, func(n *Node) bool {
		if n.Is(kinds...) {
			found = append(found, n)
		}

		return true
	})

	return found
}

// TrailingComment returns the comment sibling that starts on the line where
// n ends, or nil.
func TrailingComment(n *Node) *Node {
	idx := n.Index()
	if idx < 0 || idx+1 >= len(n.Parent.Children) {
		return nil
	}

	next := n.Parent.Children[idx+1]
	if next.Kind != KindComment || next.synthetic || next.start < n.end {
		return nil
	}

	if bytes.ContainsAny(next.src[n.end:next.start], "\r\n") {
		return nil
	}

	return next
}
