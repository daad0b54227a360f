package syntax

import "strings"

// ImportSpec is one entry of a named import list.
type ImportSpec struct {
	Imported string
	Local    string
}

// ImportStyle carries the punctuation conventions of an existing import so
// that synthesized imports blend in.
type ImportStyle struct {
	Quote     byte
	Semicolon bool
}

// StyleOf reads the quote and semicolon convention of an import statement.
func StyleOf(stmt *Node) ImportStyle {
	style := ImportStyle{Quote: '"'}

	if source := stmt.FirstChild(KindString); source != nil {
		style.Quote = source.Quote()
	}

	style.Semicolon = strings.HasSuffix(strings.TrimSpace(stmt.Text()), ";")

	return style
}

func synthesize(kind string, children []*Node, lits ...string) *Node {
	n := &Node{
		Kind:      kind,
		Children:  children,
		lits:      lits,
		synthetic: true,
	}

	for _, child := range children {
		child.Parent = n
	}

	return n
}

// Leaf builds a childless node that prints text verbatim.
func Leaf(kind, text string) *Node {
	return synthesize(kind, nil, text)
}

// Identifier builds an identifier node.
func Identifier(name string) *Node {
	return Leaf(KindIdentifier, name)
}

// StringLiteral builds a string literal quoted with quote.
func StringLiteral(value string, quote byte) *Node {
	q := string(quote)

	return Leaf(KindString, q+value+q)
}

// ImportSpecifier builds `Imported` or `Imported as Local`.
func ImportSpecifier(spec ImportSpec) *Node {
	if spec.Local == "" || spec.Local == spec.Imported {
		return synthesize(KindImportSpecifier, []*Node{Identifier(spec.Imported)}, "", "")
	}

	return synthesize(KindImportSpecifier,
		[]*Node{Identifier(spec.Imported), Identifier(spec.Local)},
		"", " as ", "")
}

// NamedImports builds `{ A, B as C }`.
func NamedImports(specs []ImportSpec) *Node {
	if len(specs) == 0 {
		return synthesize(KindNamedImports, nil, "{}")
	}

	children := make([]*Node, 0, len(specs))
	lits := make([]string, 0, len(specs)+1)

	for idx, spec := range specs {
		children = append(children, ImportSpecifier(spec))

		if idx == 0 {
			lits = append(lits, "{ ")
		} else {
			lits = append(lits, ", ")
		}
	}

	lits = append(lits, " }")

	return synthesize(KindNamedImports, children, lits...)
}

// ImportStatement builds `import { ... } from "module";`.
func ImportStatement(specs []ImportSpec, module string, style ImportStyle) *Node {
	clause := synthesize(KindImportClause, []*Node{NamedImports(specs)}, "", "")

	end := ""
	if style.Semicolon {
		end = ";"
	}

	return synthesize(KindImportStatement,
		[]*Node{clause, StringLiteral(module, style.Quote)},
		"import ", " from ", end)
}

// JSXExpression builds `{inner}`.
func JSXExpression(inner *Node) *Node {
	return synthesize(KindJSXExpression, []*Node{inner}, "{", "}")
}

// JSXAttribute builds `name=value`.
func JSXAttribute(name string, value *Node) *Node {
	return synthesize(KindJSXAttribute,
		[]*Node{Leaf(KindPropertyIdentifier, name), value},
		"", "=", "")
}

// JSXOpeningElement builds `<name attrs...>` or, when selfClosing is set,
// `<name attrs... />`. typeArgs may be nil.
func JSXOpeningElement(name, typeArgs *Node, attrs []*Node, selfClosing bool) *Node {
	children := []*Node{name}
	lits := []string{"<"}

	if typeArgs != nil {
		children = append(children, typeArgs)
		lits = append(lits, "")
	}

	for _, attr := range attrs {
		children = append(children, attr)
		lits = append(lits, " ")
	}

	kind := KindJSXOpeningElement
	closing := ">"

	if selfClosing {
		kind = KindJSXSelfClosingElement
		closing = " />"
	}

	lits = append(lits, closing)

	return synthesize(kind, children, lits...)
}
