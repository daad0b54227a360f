package iconmod

import (
	"context"
	"slices"
)

// Findings describes the legacy icon usage of one file without rewriting it.
type Findings struct {
	Path     string
	Patterns []LegacyPattern
	// IconNames are the string `name` values of legacy usages, first occurrence order.
	IconNames []string
	// Unmapped are the IconNames missing from the icon map.
	Unmapped       []string
	DeepPathUsages int
	PackageUsages  int
	Migrated       int
}

// Pending reports whether the file still needs migrating.
func (f Findings) Pending() bool {
	return len(f.Patterns) > 0 && (f.DeepPathUsages > 0 || f.PackageUsages > 0 ||
		slices.Contains(f.Patterns, PatternDeepPathDefaultImport))
}

// Scan reports which legacy patterns a file uses and which icon names it
// references.
func (t *Transformer) Scan(ctx context.Context, file File) (Findings, error) {
	tree, err := t.parse(ctx, file)
	if err != nil {
		return Findings{}, err
	}

	findings := Findings{Path: file.Path}
	names := NewResolvedIconSet()

	collect := func(usages []IconUsage) int {
		legacy := 0

		for _, usage := range usages {
			if isMigrated(usage) {
				findings.Migrated++

				continue
			}

			legacy++

			if name, ok := stringAttributeValue(usage.Attribute(nameAttribute)); ok {
				names.Add(name)
			}
		}

		return legacy
	}

	if binding, ok := findDefaultImport(tree.Root, t.opts.LegacyImportPath); ok {
		findings.Patterns = append(findings.Patterns, PatternDeepPathDefaultImport)
		findings.DeepPathUsages = collect(findUsages(tree.Root, binding.LocalName))
	}

	if binding, ok := findNamedImport(tree.Root, t.opts.PackageRoot, t.opts.ComponentName); ok {
		findings.Patterns = append(findings.Patterns, PatternPackageNamedImport)
		findings.PackageUsages = collect(findUsages(tree.Root, binding.LocalName))
	}

	findings.IconNames = names.Names()

	for _, name := range findings.IconNames {
		if _, err := t.icons.Resolve(name); err != nil {
			findings.Unmapped = append(findings.Unmapped, name)
		}
	}

	return findings, nil
}
