package runner_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/codemod/internal/iconmod"
	"github.com/Sumatoshi-tech/codemod/internal/runner"
	"github.com/Sumatoshi-tech/codemod/pkg/observability"
	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

const (
	legacySource = `import Icon from "@benefex/react/redesign/Icon";

const App = () => {
  return <Icon name='hello' />;
};
`
	migratedSource = `import { Icon } from "@benefex/components";
import { HelloIcon } from "@benefex/components/icons";

const App = () => {
  return <Icon component={HelloIcon} />;
};
`
	unmappedSource = `import { Icon } from "@benefex/components";
const a = <Icon name="random" />;
`
	plainSource = "export const x = 1;\n"
)

func newTransformer() *iconmod.Transformer {
	return iconmod.New(syntax.NewParser(), iconmod.NewIconMap(map[string]string{"hello": "HelloIcon"}), iconmod.Options{})
}

func fixture(t *testing.T) (string, []string) {
	t.Helper()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"legacy.tsx":   legacySource,
		"unmapped.tsx": unmappedSource,
		"plain.ts":     plainSource,
	})
	require.NoError(t, os.Chmod(filepath.Join(root, "legacy.tsx"), 0o600))

	return root, []string{
		filepath.Join(root, "legacy.tsx"),
		filepath.Join(root, "plain.ts"),
		filepath.Join(root, "unmapped.tsx"),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestRun_WritesChangedFiles(t *testing.T) {
	t.Parallel()

	root, files := fixture(t)

	rep, err := runner.New(newTransformer(), runner.Options{Workers: 2, Write: true}, runner.Deps{}).
		Run(context.Background(), files)
	require.NoError(t, err)

	require.Len(t, rep.Files, 3)
	assert.Equal(t, 1, rep.Changed())
	assert.Equal(t, 1, rep.Unchanged())

	failed := rep.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, files[2], failed[0].Path)
	assert.Equal(t, iconmod.KindUnmappedIcon, failed[0].Kind)

	assert.True(t, rep.Files[0].Written)
	assert.Equal(t, migratedSource, readFile(t, filepath.Join(root, "legacy.tsx")))
	assert.Equal(t, unmappedSource, readFile(t, filepath.Join(root, "unmapped.tsx")))
	assert.Equal(t, plainSource, readFile(t, filepath.Join(root, "plain.ts")))

	info, err := os.Stat(filepath.Join(root, "legacy.tsx"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.Equal(t, len(legacySource)+len(unmappedSource)+len(plainSource), rep.BytesProcessed())
}

func TestRun_DryRunWithDiff(t *testing.T) {
	t.Parallel()

	root, files := fixture(t)

	rep, err := runner.New(newTransformer(), runner.Options{Diff: true}, runner.Deps{}).
		Run(context.Background(), files[:1])
	require.NoError(t, err)

	assert.False(t, rep.Files[0].Written)
	assert.Equal(t, legacySource, readFile(t, filepath.Join(root, "legacy.tsx")))
	assert.Contains(t, rep.Files[0].Diff, "+  return <Icon component={HelloIcon} />;")

	var buf bytes.Buffer
	require.NoError(t, runner.WriteDiffs(&buf, rep))
	assert.Equal(t, rep.Files[0].Diff, buf.String())
}

func TestRun_Telemetry(t *testing.T) {
	t.Parallel()

	_, files := fixture(t)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	var logs bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogWriter = &logs

	_, err = runner.New(newTransformer(), runner.Options{}, runner.Deps{
		Logger:  observability.NewLogger(cfg),
		Tracer:  tp.Tracer("test"),
		Metrics: red,
	}).Run(context.Background(), files)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	for _, span := range spans {
		assert.Equal(t, "codemod.file", span.Name())
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := map[string]bool{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}

	assert.True(t, names["codemod.requests.total"])
	assert.True(t, names["codemod.errors.total"])
	assert.True(t, names["codemod.files.total"])
	assert.True(t, names["codemod.usages.rewritten"])

	assert.Contains(t, logs.String(), "file skipped")
	assert.Contains(t, logs.String(), "migration finished")
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	_, files := fixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := runner.New(newTransformer(), runner.Options{Workers: 1}, runner.Deps{}).Run(ctx, files)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, rep.Files, len(files))
}

func TestRun_MissingFileIsReported(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "gone.tsx")

	rep, err := runner.New(newTransformer(), runner.Options{}, runner.Deps{}).
		Run(context.Background(), []string{missing})
	require.NoError(t, err)

	failed := rep.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, iconmod.KindOther, failed[0].Kind)
	require.ErrorIs(t, failed[0].Err, os.ErrNotExist)
}

func TestScan(t *testing.T) {
	t.Parallel()

	_, files := fixture(t)

	results, err := runner.New(newTransformer(), runner.Options{}, runner.Deps{}).
		Scan(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Findings.Pending())
	assert.False(t, results[1].Findings.Pending())
	assert.Equal(t, []string{"random"}, results[2].Findings.Unmapped)

	var buf bytes.Buffer
	require.NoError(t, runner.WriteScan(&buf, results))
	assert.Contains(t, buf.String(), "legacy.tsx")
	assert.Contains(t, buf.String(), "random")
	assert.NotContains(t, buf.String(), "plain.ts")
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	_, files := fixture(t)

	rep, err := runner.New(newTransformer(), runner.Options{}, runner.Deps{}).Run(context.Background(), files)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runner.WriteSummary(&buf, rep))

	out := buf.String()
	assert.Contains(t, out, "changed")
	assert.Contains(t, out, "unchanged")
	assert.Contains(t, out, "unmapped.tsx")
	assert.Contains(t, out, `Icon "random" not found in the map, aborting file.`)
	assert.Contains(t, strings.ToLower(out), "3 files")
}
