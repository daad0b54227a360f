// Package syntax turns JavaScript and TypeScript source into an owned,
// mutable syntax tree and prints it back, preserving every byte the
// rewriters did not touch.
package syntax

import (
	"slices"
	"strings"
)

// Node kinds produced by the tree-sitter TSX and TypeScript grammars.
const (
	KindProgram               = "program"
	KindError                 = "ERROR"
	KindComment               = "comment"
	KindImportStatement       = "import_statement"
	KindImportClause          = "import_clause"
	KindNamedImports          = "named_imports"
	KindNamespaceImport       = "namespace_import"
	KindImportSpecifier       = "import_specifier"
	KindIdentifier            = "identifier"
	KindPropertyIdentifier    = "property_identifier"
	KindString                = "string"
	KindJSXElement            = "jsx_element"
	KindJSXOpeningElement     = "jsx_opening_element"
	KindJSXClosingElement     = "jsx_closing_element"
	KindJSXSelfClosingElement = "jsx_self_closing_element"
	KindJSXAttribute          = "jsx_attribute"
	KindJSXExpression         = "jsx_expression"
	KindJSXNamespaceName      = "jsx_namespace_name"
	KindTypeArguments         = "type_arguments"
)

// Node is one named node of a syntax tree. Anonymous tokens (punctuation,
// keywords) and whitespace are not materialised; they live in the source
// between child spans and are reproduced by the printer.
//
// A node is either original (parsed, backed by a byte span of the source) or
// synthesized by the builders in this package. Synthesized nodes carry
// literal parts that are printed around their children.
type Node struct {
	Parent   *Node
	Kind     string
	Children []*Node

	src       []byte
	lits      []string
	start     int
	end       int
	synthetic bool
	modified  bool
}

// Synthetic reports whether the node was built rather than parsed.
func (n *Node) Synthetic() bool {
	return n.synthetic
}

// Modified reports whether the node or one of its descendants was replaced.
func (n *Node) Modified() bool {
	return n.modified
}

// Text returns the node as it would currently be printed.
func (n *Node) Text() string {
	if !n.synthetic && !n.modified {
		return string(n.src[n.start:n.end])
	}

	var sb strings.Builder

	writeNode(&sb, n)

	return sb.String()
}

// Is reports whether the node kind is one of kinds.
func (n *Node) Is(kinds ...string) bool {
	return slices.Contains(kinds, n.Kind)
}

// ChildrenOf returns the direct children whose kind is one of kinds.
func (n *Node) ChildrenOf(kinds ...string) []*Node {
	var out []*Node

	for _, child := range n.Children {
		if child.Is(kinds...) {
			out = append(out, child)
		}
	}

	return out
}

// FirstChild returns the first direct child whose kind is one of kinds, or nil.
func (n *Node) FirstChild(kinds ...string) *Node {
	for _, child := range n.Children {
		if child.Is(kinds...) {
			return child
		}
	}

	return nil
}

// Index returns the position of the node among its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}

	return slices.Index(n.Parent.Children, n)
}

// StringValue returns the contents of a string literal without its quotes.
// No escape processing is applied; callers decode JSX character references
// where they need them.
func (n *Node) StringValue() (string, bool) {
	if n.Kind != KindString {
		return "", false
	}

	text := n.Text()
	if len(text) < 2 { //nolint:mnd // opening and closing quote
		return "", false
	}

	quote := text[0]
	if (quote != '"' && quote != '\'') || text[len(text)-1] != quote {
		return "", false
	}

	return text[1 : len(text)-1], true
}

// Quote returns the quote character of a string literal, defaulting to '"'.
func (n *Node) Quote() byte {
	if n.Kind == KindString {
		text := n.Text()
		if text != "" && text[0] == '\'' {
			return '\''
		}
	}

	return '"'
}
