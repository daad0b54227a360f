package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "codemod.requests.total"
	metricRequestDuration  = "codemod.request.duration.seconds"
	metricErrorsTotal      = "codemod.errors.total"
	metricInflightRequests = "codemod.inflight.requests"
	metricFilesTotal       = "codemod.files.total"
	metricUsagesRewritten  = "codemod.usages.rewritten"

	attrOp      = "op"
	attrStatus  = "status"
	attrOutcome = "outcome"
	attrPattern = "pattern"

	// StatusOK and StatusError are the status values of RecordRequest.
	StatusOK    = "ok"
	StatusError = "error"
)

// durationBucketBoundaries covers 1ms per-file rewrites to minute-long tree walks.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5, 30, 120}

// REDMetrics holds the Rate, Error, Duration instruments plus the
// migration counters.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
	filesTotal       metric.Int64Counter
	usagesRewritten  metric.Int64Counter
}

// NewREDMetrics creates the instruments from mt.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	reqTotal, err := mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	reqDuration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Files processed by outcome"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	usages, err := mt.Int64Counter(metricUsagesRewritten,
		metric.WithDescription("Icon usages rewritten by legacy pattern"),
		metric.WithUnit("{usage}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricUsagesRewritten, err)
	}

	return &REDMetrics{
		requestsTotal:    reqTotal,
		requestDuration:  reqDuration,
		errorsTotal:      errTotal,
		inflightRequests: inflight,
		filesTotal:       files,
		usagesRewritten:  usages,
	}, nil
}

// RecordRequest records a completed request with its operation, status, and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// RecordFile counts one processed file under its outcome (changed,
// unchanged, or an error kind).
func (rm *REDMetrics) RecordFile(ctx context.Context, outcome string) {
	rm.filesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}

// RecordUsages adds n rewritten usages of the given legacy pattern.
func (rm *REDMetrics) RecordUsages(ctx context.Context, pattern string, n int) {
	if n <= 0 {
		return
	}

	rm.usagesRewritten.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrPattern, pattern)))
}
