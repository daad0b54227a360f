package runner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

// scriptLanguages are the enry languages the migration applies to.
var scriptLanguages = []string{"JavaScript", "TypeScript", "TSX", "JSX"}

// DiscoverOptions filters the files collected by Discover.
type DiscoverOptions struct {
	// Extensions are the accepted file extensions, with a leading dot.
	Extensions []string
	// Exclude are directory names never descended into.
	Exclude []string
}

// Discover expands paths into the source files to process. Directories are
// walked recursively skipping hidden and excluded directories; files inside
// them are kept when their extension is accepted and enry classifies them as
// a script language. Paths naming a file directly are kept whenever a
// grammar supports them. The result is sorted and free of duplicates.
func Discover(paths []string, opts DiscoverOptions) ([]string, error) {
	var files []string

	for _, root := range paths {
		resolved, info, err := resolveUserPath(root)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if syntax.IsSupported(resolved) {
				files = append(files, resolved)
			}

			continue
		}

		walkErr := filepath.WalkDir(resolved, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() {
				if path != resolved && skipDir(entry.Name(), opts.Exclude) {
					return filepath.SkipDir
				}

				return nil
			}

			if entry.Type().IsRegular() && acceptFile(path, opts.Extensions) {
				files = append(files, path)
			}

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", root, walkErr)
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

func skipDir(name string, exclude []string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(exclude, name)
}

func acceptFile(path string, extensions []string) bool {
	if !slices.Contains(extensions, strings.ToLower(filepath.Ext(path))) || !syntax.IsSupported(path) {
		return false
	}

	for _, lang := range enry.GetLanguagesByExtension(filepath.Base(path), nil, nil) {
		if slices.Contains(scriptLanguages, lang) {
			return true
		}
	}

	return false
}
