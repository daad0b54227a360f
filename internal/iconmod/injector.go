package iconmod

import (
	"slices"

	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

// ResolvedIconSet accumulates distinct identifiers in order of first occurrence.
type ResolvedIconSet struct {
	seen  map[string]struct{}
	names []string
}

// NewResolvedIconSet creates an empty set.
func NewResolvedIconSet() *ResolvedIconSet {
	return &ResolvedIconSet{seen: make(map[string]struct{})}
}

// Add records identifier unless it is already present.
func (s *ResolvedIconSet) Add(identifier string) {
	if _, ok := s.seen[identifier]; ok {
		return
	}

	s.seen[identifier] = struct{}{}
	s.names = append(s.names, identifier)
}

// Names returns the identifiers in insertion order.
func (s *ResolvedIconSet) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of identifiers.
func (s *ResolvedIconSet) Len() int {
	return len(s.names)
}

// injectIconImport inserts one import of every resolved identifier from the
// icons module directly after anchor and any comment ending its line. An
// anchor that was itself rewritten is followed on the next line; an untouched
// one gets a blank line in between.
func injectIconImport(tree *syntax.Tree, anchor *syntax.Node, set *ResolvedIconSet, module string) error {
	if set.Len() == 0 {
		return nil
	}

	specs := make([]syntax.ImportSpec, 0, set.Len())
	for _, name := range set.names {
		specs = append(specs, syntax.ImportSpec{Imported: name})
	}

	lead := "\n\n"
	if anchor.Synthetic() {
		lead = "\n"
	}

	stmt := syntax.ImportStatement(specs, module, syntax.StyleOf(anchor))

	after := anchor
	if comment := syntax.TrailingComment(anchor); comment != nil {
		after = comment
	}

	return tree.InsertAfter(after, stmt, lead)
}
