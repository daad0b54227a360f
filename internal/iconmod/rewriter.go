package iconmod

import (
	"fmt"

	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

const (
	nameAttribute      = "name"
	componentAttribute = "component"
)

// rewriteDeepPath migrates the deep-path default import. Every usage is
// validated and re-pointed at the local binding, then the declaration is
// replaced by a named import of the component from the package root, aliased
// to the original local name. It returns the number of usages visited.
func (t *Transformer) rewriteDeepPath(tree *syntax.Tree, binding ImportBinding) (int, error) {
	usages := findUsages(tree.Root, binding.LocalName)

	for _, usage := range usages {
		err := validateAttributes(usage)
		if err != nil {
			return 0, err
		}

		err = tree.Replace(usage.Tag, syntax.Identifier(binding.LocalName))
		if err != nil {
			return 0, fmt.Errorf("rewrite usage tag: %w", err)
		}
	}

	stmt := syntax.ImportStatement(
		[]syntax.ImportSpec{{Imported: t.opts.ComponentName, Local: binding.LocalName}},
		t.opts.PackageRoot,
		syntax.StyleOf(binding.Declaration),
	)

	err := tree.Replace(binding.Declaration, stmt)
	if err != nil {
		return 0, fmt.Errorf("rewrite legacy import: %w", err)
	}

	return len(usages), nil
}

// packageRewrite is the outcome of migrating the package-root named import.
type packageRewrite struct {
	resolved  *ResolvedIconSet
	rewritten int
	migrated  int
}

// rewritePackageNamed replaces `name="x"` with `component={X}` on every usage
// of the package-root import, in source order. The first unsupported
// attribute or unmapped icon aborts the file.
func (t *Transformer) rewritePackageNamed(tree *syntax.Tree, binding ImportBinding) (packageRewrite, error) {
	out := packageRewrite{resolved: NewResolvedIconSet()}

	for _, usage := range findUsages(tree.Root, binding.LocalName) {
		if isMigrated(usage) {
			out.migrated++

			continue
		}

		err := validateAttributes(usage)
		if err != nil {
			return packageRewrite{}, err
		}

		iconName, _ := stringAttributeValue(usage.Attribute(nameAttribute))

		identifier, err := t.icons.Resolve(iconName)
		if err != nil {
			return packageRewrite{}, err
		}

		err = tree.Replace(usage.Element, migratedElement(usage, identifier))
		if err != nil {
			return packageRewrite{}, fmt.Errorf("rewrite usage: %w", err)
		}

		out.resolved.Add(identifier)
		out.rewritten++
	}

	return out, nil
}

// isMigrated reports a usage already in the unified shape: it passes the
// icon through `component` and has no `name` left to translate.
func isMigrated(usage IconUsage) bool {
	return usage.Attribute(componentAttribute) != nil && usage.Attribute(nameAttribute) == nil
}

// migratedElement builds the opening element with `component={identifier}`
// first, followed by the original attributes other than `name`.
func migratedElement(usage IconUsage, identifier string) *syntax.Node {
	attrs := make([]*syntax.Node, 0, len(usage.Attributes))
	attrs = append(attrs, syntax.JSXAttribute(componentAttribute, syntax.JSXExpression(syntax.Identifier(identifier))))

	for _, attr := range usage.Attributes {
		if attr.Kind == syntax.KindJSXAttribute && attributeName(attr) != nameAttribute {
			attrs = append(attrs, attr)
		}
	}

	return syntax.JSXOpeningElement(usage.Tag, usage.TypeArgs, attrs, usage.SelfClosing())
}
