package iconmod

import (
	"html"

	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

// IconUsage is one JSX occurrence of the icon component, captured before it
// is rewritten.
type IconUsage struct {
	// Element is the jsx_self_closing_element or jsx_opening_element.
	Element *syntax.Node
	// Tag is the element name.
	Tag *syntax.Node
	// TypeArgs holds `<Icon<T> ...>` type arguments, if any.
	TypeArgs *syntax.Node
	// Attributes are the jsx_attribute and spread nodes in source order.
	Attributes []*syntax.Node
}

// SelfClosing reports whether the usage is `<Icon ... />`.
func (u IconUsage) SelfClosing() bool {
	return u.Element.Kind == syntax.KindJSXSelfClosingElement
}

// Attribute returns the named attribute, or nil.
func (u IconUsage) Attribute(name string) *syntax.Node {
	for _, attr := range u.Attributes {
		if attr.Kind == syntax.KindJSXAttribute && attributeName(attr) == name {
			return attr
		}
	}

	return nil
}

// findUsages returns the JSX elements whose tag is the plain identifier
// local, in source order.
func findUsages(root *syntax.Node, local string) []IconUsage {
	var usages []IconUsage

	elements := syntax.FindAll(root, syntax.KindJSXSelfClosingElement, syntax.KindJSXOpeningElement)

	for _, element := range elements {
		if len(element.Children) == 0 {
			continue
		}

		tag := element.Children[0]
		if tag.Kind != syntax.KindIdentifier || tag.Text() != local {
			continue
		}

		usages = append(usages, IconUsage{
			Element:    element,
			Tag:        tag,
			TypeArgs:   element.FirstChild(syntax.KindTypeArguments),
			Attributes: element.ChildrenOf(syntax.KindJSXAttribute, syntax.KindJSXExpression),
		})
	}

	return usages
}

// attributeName returns the written name of a jsx_attribute, including a
// namespace prefix such as `xlink:href`.
func attributeName(attr *syntax.Node) string {
	name := attr.FirstChild(syntax.KindPropertyIdentifier, syntax.KindJSXNamespaceName)
	if name == nil {
		return ""
	}

	return name.Text()
}

// stringAttributeValue returns the value of `attr="value"` with HTML
// character references decoded, as JSX does. Any other value shape,
// including `attr={"value"}`, reports false.
func stringAttributeValue(attr *syntax.Node) (string, bool) {
	if attr == nil || len(attr.Children) < 2 { //nolint:mnd // name and value
		return "", false
	}

	value, ok := attr.Children[len(attr.Children)-1].StringValue()
	if !ok {
		return "", false
	}

	return html.UnescapeString(value), true
}
