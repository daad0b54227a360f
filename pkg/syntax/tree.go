package syntax

import (
	"errors"
	"fmt"
	"slices"
)

// Sentinel errors for tree mutation.
var (
	ErrDetached     = errors.New("node is not attached to a parent")
	ErrNotSynthetic = errors.New("replacement node must be synthesized")
)

// Tree is the syntax tree of one source file. It is owned by a single
// rewrite and is not safe for concurrent mutation.
type Tree struct {
	Root     *Node
	Filename string
	Grammar  string
	Source   []byte
}

// Modified reports whether any node of the tree was replaced or inserted.
func (t *Tree) Modified() bool {
	return t.Root.modified
}

// Replace assigns repl into the parent slot currently held by old. The
// replacement inherits the slot's source span so the surrounding source is
// reproduced unchanged; old is detached.
func (t *Tree) Replace(old, repl *Node) error {
	if !repl.synthetic {
		return fmt.Errorf("%w: %s", ErrNotSynthetic, repl.Kind)
	}

	parent := old.Parent
	if parent == nil {
		return fmt.Errorf("%w: %s", ErrDetached, old.Kind)
	}

	idx := slices.Index(parent.Children, old)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrDetached, old.Kind)
	}

	repl.Parent = parent
	repl.start, repl.end = old.start, old.end
	parent.Children[idx] = repl
	old.Parent = nil

	markModified(parent)

	return nil
}

// InsertAfter adds node as the next sibling of anchor. The node is printed
// directly after anchor, preceded by lead.
func (t *Tree) InsertAfter(anchor, node *Node, lead string) error {
	if !node.synthetic {
		return fmt.Errorf("%w: %s", ErrNotSynthetic, node.Kind)
	}

	parent := anchor.Parent
	if parent == nil {
		return fmt.Errorf("%w: %s", ErrDetached, anchor.Kind)
	}

	idx := slices.Index(parent.Children, anchor)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrDetached, anchor.Kind)
	}

	if lead != "" {
		node.lits[0] = lead + node.lits[0]
	}

	node.Parent = parent
	node.start, node.end = anchor.end, anchor.end
	parent.Children = slices.Insert(parent.Children, idx+1, node)

	markModified(parent)

	return nil
}

// Bytes prints the tree.
func (t *Tree) Bytes() []byte {
	return Print(t)
}

// String prints the tree.
func (t *Tree) String() string {
	return string(Print(t))
}

func markModified(n *Node) {
	for cur := n; cur != nil; cur = cur.Parent {
		cur.modified = true
	}
}
