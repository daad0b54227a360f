package iconmod

import "strings"

// Default module specifiers of the migration.
const (
	DefaultLegacyImportPath = "@benefex/react/redesign/Icon"
	DefaultPackageRoot      = "@benefex/components"
	DefaultComponentName    = "Icon"
	iconsSubpath            = "icons"
)

// Options names the modules and export involved in the migration.
// Empty fields fall back to the defaults above.
type Options struct {
	// LegacyImportPath is the deep path whose default export is the legacy icon.
	LegacyImportPath string
	// PackageRoot is the package that exports the unified component.
	PackageRoot string
	// ComponentName is the named export of the unified component.
	ComponentName string
	// IconsModule receives the per-icon named imports. Defaults to
	// PackageRoot + "/icons".
	IconsModule string
}

func (o Options) withDefaults() Options {
	if o.LegacyImportPath == "" {
		o.LegacyImportPath = DefaultLegacyImportPath
	}

	if o.PackageRoot == "" {
		o.PackageRoot = DefaultPackageRoot
	}

	if o.ComponentName == "" {
		o.ComponentName = DefaultComponentName
	}

	if o.IconsModule == "" {
		o.IconsModule = strings.TrimSuffix(o.PackageRoot, "/") + "/" + iconsSubpath
	}

	return o
}
