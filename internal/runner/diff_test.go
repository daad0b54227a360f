package runner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codemod/internal/runner"
)

func TestUnifiedDiff_Equal(t *testing.T) {
	t.Parallel()

	assert.Empty(t, runner.UnifiedDiff("a.tsx", "same\n", "same\n"))
}

func TestUnifiedDiff_SingleHunk(t *testing.T) {
	t.Parallel()

	before := "import Icon from 'x';\n\nconst a = <Icon name='hello' />;\n"
	after := "import { Icon } from 'y';\n\nconst a = <Icon component={HelloIcon} />;\n"

	expected := strings.Join([]string{
		"--- a/a.tsx",
		"+++ b/a.tsx",
		"@@ -1,3 +1,3 @@",
		"-import Icon from 'x';",
		"+import { Icon } from 'y';",
		" ",
		"-const a = <Icon name='hello' />;",
		"+const a = <Icon component={HelloIcon} />;",
		"",
	}, "\n")

	assert.Equal(t, expected, runner.UnifiedDiff("a.tsx", before, after))
}

func TestUnifiedDiff_SeparateHunks(t *testing.T) {
	t.Parallel()

	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "line"
	}

	before := strings.Join(lines, "\n") + "\n"

	changed := append([]string{}, lines...)
	changed[0] = "first"
	changed[19] = "last"
	after := strings.Join(changed, "\n") + "\n"

	diff := runner.UnifiedDiff("f.ts", before, after)

	assert.Equal(t, 2, strings.Count(diff, "@@ -"))
	assert.Contains(t, diff, "@@ -1,4 +1,4 @@\n-line\n+first\n")
	assert.Contains(t, diff, "@@ -17,4 +17,4 @@\n line\n line\n line\n-line\n+last\n")
}
