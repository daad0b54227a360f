package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/codemod/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.REDMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return red, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumByAttr(t *testing.T, m *metricdata.Metrics, key, value string) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64

	for _, dp := range sum.DataPoints {
		if v, found := dp.Attributes.Value(attribute.Key(key)); found && v.AsString() == value {
			total += dp.Value
		}
	}

	return total
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordRequest(ctx, "icon_update", observability.StatusOK, 10*time.Millisecond)
	red.RecordRequest(ctx, "icon_update", observability.StatusError, time.Millisecond)

	rm := collectMetrics(t, reader)

	reqTotal := findMetric(rm, "codemod.requests.total")
	require.NotNil(t, reqTotal)
	assert.Equal(t, int64(2), sumByAttr(t, reqTotal, "op", "icon_update"))

	errTotal := findMetric(rm, "codemod.errors.total")
	require.NotNil(t, errTotal)
	assert.Equal(t, int64(1), sumByAttr(t, errTotal, "op", "icon_update"))

	assert.NotNil(t, findMetric(rm, "codemod.request.duration.seconds"))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)

	done := red.TrackInflight(context.Background(), "icon_scan")

	inflight := findMetric(collectMetrics(t, reader), "codemod.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(1), sumByAttr(t, inflight, "op", "icon_scan"))

	done()

	inflight = findMetric(collectMetrics(t, reader), "codemod.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(0), sumByAttr(t, inflight, "op", "icon_scan"))
}

func TestREDMetrics_FilesAndUsages(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordFile(ctx, "changed")
	red.RecordFile(ctx, "changed")
	red.RecordFile(ctx, "unmapped_icon")
	red.RecordUsages(ctx, "package-named-import", 3)
	red.RecordUsages(ctx, "package-named-import", 0)

	rm := collectMetrics(t, reader)

	files := findMetric(rm, "codemod.files.total")
	require.NotNil(t, files)
	assert.Equal(t, int64(2), sumByAttr(t, files, "outcome", "changed"))
	assert.Equal(t, int64(1), sumByAttr(t, files, "outcome", "unmapped_icon"))

	usages := findMetric(rm, "codemod.usages.rewritten")
	require.NotNil(t, usages)
	assert.Equal(t, int64(3), sumByAttr(t, usages, "pattern", "package-named-import"))
}
