package iconmod

import "github.com/Sumatoshi-tech/codemod/pkg/syntax"

// BindingKind tells how an import binds its local name.
type BindingKind int

// Binding kinds.
const (
	BindingDefault BindingKind = iota
	BindingNamed
)

func (k BindingKind) String() string {
	if k == BindingNamed {
		return "named"
	}

	return "default"
}

// LegacyPattern identifies one of the two superseded ways of importing the icon.
type LegacyPattern int

// Legacy patterns, in the order they are migrated.
const (
	// PatternDeepPathDefaultImport is `import Icon from "<legacy deep path>"`.
	PatternDeepPathDefaultImport LegacyPattern = iota + 1
	// PatternPackageNamedImport is `import { Icon } from "<package root>"`.
	PatternPackageNamedImport
)

func (p LegacyPattern) String() string {
	switch p {
	case PatternDeepPathDefaultImport:
		return "deep-path-default-import"
	case PatternPackageNamedImport:
		return "package-named-import"
	default:
		return "unknown"
	}
}

// ImportBinding is the binding of interest introduced by one import declaration.
type ImportBinding struct {
	Declaration     *syntax.Node
	ModuleSpecifier string
	LocalName       string
	Kind            BindingKind
}

// importSource returns the module specifier of an import statement.
func importSource(stmt *syntax.Node) (string, bool) {
	source := stmt.FirstChild(syntax.KindString)
	if source == nil {
		return "", false
	}

	return source.StringValue()
}

// importsFrom returns the top-level import statements of module, in source order.
func importsFrom(root *syntax.Node, module string) []*syntax.Node {
	var stmts []*syntax.Node

	for _, stmt := range root.ChildrenOf(syntax.KindImportStatement) {
		if source, ok := importSource(stmt); ok && source == module {
			stmts = append(stmts, stmt)
		}
	}

	return stmts
}

// findDefaultImport returns the first default import of module.
func findDefaultImport(root *syntax.Node, module string) (ImportBinding, bool) {
	for _, stmt := range importsFrom(root, module) {
		clause := stmt.FirstChild(syntax.KindImportClause)
		if clause == nil {
			continue
		}

		local := clause.FirstChild(syntax.KindIdentifier)
		if local == nil {
			continue
		}

		return ImportBinding{
			Declaration:     stmt,
			ModuleSpecifier: module,
			LocalName:       local.Text(),
			Kind:            BindingDefault,
		}, true
	}

	return ImportBinding{}, false
}

// findNamedImport returns the first import of the named export from module.
func findNamedImport(root *syntax.Node, module, exported string) (ImportBinding, bool) {
	for _, stmt := range importsFrom(root, module) {
		clause := stmt.FirstChild(syntax.KindImportClause)
		if clause == nil {
			continue
		}

		named := clause.FirstChild(syntax.KindNamedImports)
		if named == nil {
			continue
		}

		for _, spec := range named.ChildrenOf(syntax.KindImportSpecifier) {
			idents := spec.ChildrenOf(syntax.KindIdentifier)
			if len(idents) == 0 || idents[0].Text() != exported {
				continue
			}

			local := idents[len(idents)-1].Text()

			return ImportBinding{
				Declaration:     stmt,
				ModuleSpecifier: module,
				LocalName:       local,
				Kind:            BindingNamed,
			}, true
		}
	}

	return ImportBinding{}, false
}
