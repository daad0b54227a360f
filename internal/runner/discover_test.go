package runner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codemod/internal/runner"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/App.tsx":                  "",
		"src/util.ts":                  "",
		"src/legacy.js":                "",
		"src/styles.css":               "",
		"src/deep/Button.jsx":          "",
		"node_modules/pkg/index.js":    "",
		"dist/bundle.js":               "",
		".cache/x.tsx":                 "",
		"coverage/lcov-report/app.tsx": "",
	})

	files, err := runner.Discover([]string{root}, runner.DiscoverOptions{
		Extensions: []string{".js", ".jsx", ".ts", ".tsx"},
		Exclude:    []string{"node_modules", "dist", "build", "coverage"},
	})
	require.NoError(t, err)

	var rel []string

	for _, f := range files {
		r, relErr := filepath.Rel(root, f)
		require.NoError(t, relErr)

		rel = append(rel, filepath.ToSlash(r))
	}

	assert.Equal(t, []string{"src/App.tsx", "src/deep/Button.jsx", "src/legacy.js", "src/util.ts"}, rel)
}

func TestDiscover_ExtensionFilterAndExplicitFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": "", "b.js": "", "c.md": ""})

	files, err := runner.Discover(
		[]string{root, filepath.Join(root, "b.js"), filepath.Join(root, "c.md")},
		runner.DiscoverOptions{Extensions: []string{".tsx"}},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "a.tsx"), filepath.Join(root, "b.js")}, files)
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover([]string{filepath.Join(t.TempDir(), "nope")}, runner.DiscoverOptions{})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = runner.Discover([]string{" "}, runner.DiscoverOptions{})
	require.ErrorIs(t, err, runner.ErrEmptyPath)
}
