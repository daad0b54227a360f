package iconmod

import (
	"slices"

	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

// supportedAttributes are the only attributes an icon usage may carry.
var supportedAttributes = []string{"name", "size", "variant", "label", "role"}

// validateAttributes rejects spread attributes and attributes outside the
// whitelist. The first offending attribute in source order is reported.
func validateAttributes(usage IconUsage) error {
	for _, attr := range usage.Attributes {
		if attr.Kind == syntax.KindJSXExpression {
			return &UnsupportedAttributeError{Attribute: SpreadAttribute}
		}

		name := attributeName(attr)
		if !slices.Contains(supportedAttributes, name) {
			return &UnsupportedAttributeError{Attribute: name}
		}
	}

	return nil
}
