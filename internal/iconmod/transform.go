// Package iconmod migrates icon component usages from the two legacy import
// shapes to the unified `component={Identifier}` API.
//
// Per file the migration runs in two phases. The deep-path default import is
// first rewritten into a named import from the package root. Every usage of
// the package-root import then has its `name="x"` attribute replaced by
// `component={X}`, resolving X through the icon map, and one import of all
// resolved identifiers is added after the package import. Any unsupported
// attribute or unmapped icon aborts the file and no output is produced.
package iconmod

import (
	"context"
	"fmt"

	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

// Environment supplies parsing of a source file into a syntax tree, either
// by file extension or with a grammar chosen by name.
type Environment interface {
	Parse(ctx context.Context, filename string, content []byte) (*syntax.Tree, error)
	ParseAs(ctx context.Context, grammar, filename string, content []byte) (*syntax.Tree, error)
}

// File is one source file submitted for migration.
type File struct {
	Path   string
	Source []byte
	// Grammar overrides the grammar picked from Path when set.
	Grammar string
}

func (t *Transformer) parse(ctx context.Context, file File) (*syntax.Tree, error) {
	var (
		tree *syntax.Tree
		err  error
	)

	if file.Grammar != "" {
		tree, err = t.env.ParseAs(ctx, file.Grammar, file.Path, file.Source)
	} else {
		tree, err = t.env.Parse(ctx, file.Path, file.Source)
	}

	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return tree, nil
}

// Result is the successful outcome of transforming one file.
type Result struct {
	// Output is the full rewritten source. It equals the input when Changed is false.
	Output []byte
	// Imported lists the identifiers added to the icons import, in order.
	Imported []string
	// DeepPathUsages counts usages of the deep-path default import.
	DeepPathUsages int
	// PackageUsages counts usages rewritten to the component prop.
	PackageUsages int
	// Migrated counts usages already in the unified shape.
	Migrated int
	// Changed reports whether Output differs from the input.
	Changed bool
}

// Transformer applies the icon migration. It holds no per-file state and is
// safe for concurrent use as long as env is.
type Transformer struct {
	env   Environment
	icons IconMap
	opts  Options
}

// New creates a Transformer resolving icon names through icons.
func New(env Environment, icons IconMap, opts Options) *Transformer {
	return &Transformer{
		env:   env,
		icons: icons,
		opts:  opts.withDefaults(),
	}
}

// Options returns the effective options.
func (t *Transformer) Options() Options {
	return t.opts
}

// Transform migrates one file. On error the returned Result is empty; the
// unsupported attribute and unmapped icon failures are returned unwrapped so
// their message is exactly the documented one.
func (t *Transformer) Transform(ctx context.Context, file File) (Result, error) {
	tree, err := t.parse(ctx, file)
	if err != nil {
		return Result{}, err
	}

	var res Result

	if binding, ok := findDefaultImport(tree.Root, t.opts.LegacyImportPath); ok {
		res.DeepPathUsages, err = t.rewriteDeepPath(tree, binding)
		if err != nil {
			return Result{}, err
		}
	}

	if binding, ok := findNamedImport(tree.Root, t.opts.PackageRoot, t.opts.ComponentName); ok {
		rewrite, rewriteErr := t.rewritePackageNamed(tree, binding)
		if rewriteErr != nil {
			return Result{}, rewriteErr
		}

		err = injectIconImport(tree, binding.Declaration, rewrite.resolved, t.opts.IconsModule)
		if err != nil {
			return Result{}, fmt.Errorf("inject icon import: %w", err)
		}

		res.PackageUsages = rewrite.rewritten
		res.Migrated = rewrite.migrated
		res.Imported = rewrite.resolved.Names()
	}

	res.Output = tree.Bytes()
	res.Changed = tree.Modified()

	return res, nil
}

// TransformOptions are the per-invocation options of Transform.
type TransformOptions struct {
	// Icons is the base icon map.
	Icons IconMap
	// IconMapPath, when set, is loaded and merged over Icons.
	IconMapPath string
	// Imports overrides the module specifiers; zero value uses the defaults.
	Imports Options
}

// Transform migrates a single file: it returns the rewritten source or the
// error that aborted the file.
func Transform(ctx context.Context, file File, env Environment, opts TransformOptions) (string, error) {
	icons := opts.Icons

	if opts.IconMapPath != "" {
		loaded, err := LoadIconMap(opts.IconMapPath)
		if err != nil {
			return "", err
		}

		icons = icons.Merge(loaded)
	}

	res, err := New(env, icons, opts.Imports).Transform(ctx, file)
	if err != nil {
		return "", err
	}

	return string(res.Output), nil
}
