// Package runner applies the icon migration to files on disk: it discovers
// source files, transforms them on a bounded worker pool, writes the results
// back, and summarizes the outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/codemod/internal/iconmod"
	"github.com/Sumatoshi-tech/codemod/pkg/observability"
)

const (
	spanFile = "codemod.file"
	opUpdate = "icon_update"
	opScan   = "icon_scan"

	outcomeChanged   = "changed"
	outcomeUnchanged = "unchanged"
)

// Sentinel errors reported to the caller after a run.
var (
	ErrChangesPending = errors.New("files need migrating")
	ErrFilesFailed    = errors.New("some files could not be migrated")
)

// Options controls a run.
type Options struct {
	// Workers bounds concurrency; zero means one per CPU.
	Workers int
	// Write stores changed files in place.
	Write bool
	// Diff records a unified diff for every changed file.
	Diff bool
}

// Deps are the collaborators of a Runner. Nil fields get no-op defaults.
type Deps struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.REDMetrics
}

// Runner drives the Transformer over many files.
type Runner struct {
	tr      *iconmod.Transformer
	opts    Options
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.REDMetrics
}

// New creates a Runner.
func New(tr *iconmod.Transformer, opts Options, deps Deps) *Runner {
	r := &Runner{
		tr:      tr,
		opts:    opts,
		logger:  deps.Logger,
		tracer:  deps.Tracer,
		metrics: deps.Metrics,
	}

	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if r.tracer == nil {
		r.tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return r
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path     string
	Result   iconmod.Result
	Err      error
	Kind     iconmod.ErrorKind
	Written  bool
	Diff     string
	BytesIn  int
	Duration time.Duration
}

// Report aggregates a run.
type Report struct {
	Files   []FileResult
	Elapsed time.Duration
}

// Changed returns the number of files whose output differs from the input.
func (r *Report) Changed() int {
	return r.count(func(f FileResult) bool { return f.Err == nil && f.Result.Changed })
}

// Unchanged returns the number of files left as they were.
func (r *Report) Unchanged() int {
	return r.count(func(f FileResult) bool { return f.Err == nil && !f.Result.Changed })
}

// Failed returns the files that aborted.
func (r *Report) Failed() []FileResult {
	var out []FileResult

	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}

	return out
}

// BytesProcessed sums the input sizes.
func (r *Report) BytesProcessed() int {
	total := 0
	for _, f := range r.Files {
		total += f.BytesIn
	}

	return total
}

func (r *Report) count(pred func(FileResult) bool) int {
	n := 0

	for _, f := range r.Files {
		if pred(f) {
			n++
		}
	}

	return n
}

// Run transforms files. A failing file is recorded and left untouched; the
// returned error is only set when ctx ends the run early.
func (r *Runner) Run(ctx context.Context, files []string) (*Report, error) {
	start := time.Now()
	results := make([]FileResult, len(files))

	err := forEach(ctx, r.opts.Workers, len(files), func(ctx context.Context, idx int) {
		results[idx] = r.processFile(ctx, files[idx])
	})

	rep := &Report{Elapsed: time.Since(start)}

	for idx, res := range results {
		if res.Path == "" {
			res = FileResult{Path: files[idx], Err: context.Cause(ctx), Kind: iconmod.KindOther}
		}

		rep.Files = append(rep.Files, res)
	}

	r.logger.InfoContext(ctx, "migration finished",
		slog.Int("files", len(files)),
		slog.Int("changed", rep.Changed()),
		slog.Int("failed", len(rep.Failed())),
		slog.Duration("elapsed", rep.Elapsed),
	)

	if err != nil {
		return rep, fmt.Errorf("run interrupted: %w", err)
	}

	return rep, nil
}

func (r *Runner) processFile(ctx context.Context, path string) FileResult {
	start := time.Now()
	res := FileResult{Path: path}

	ctx, span := r.tracer.Start(ctx, spanFile, trace.WithAttributes(attribute.String("file.path", path)))
	defer span.End()

	if r.metrics != nil {
		done := r.metrics.TrackInflight(ctx, opUpdate)
		defer done()
	}

	err := r.migrate(ctx, path, &res)

	res.Duration = time.Since(start)
	res.Kind = iconmod.KindOf(err)
	outcome := outcomeUnchanged

	switch {
	case err != nil:
		res.Err = err
		outcome = res.Kind.String()

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.WarnContext(ctx, "file skipped", slog.String("path", path), slog.String("kind", outcome), slog.Any("error", err))
	case res.Result.Changed:
		outcome = outcomeChanged
	}

	span.SetAttributes(
		attribute.String("codemod.outcome", outcome),
		attribute.Int("codemod.usages", res.Result.DeepPathUsages+res.Result.PackageUsages),
	)

	if r.metrics != nil {
		status := observability.StatusOK
		if err != nil {
			status = observability.StatusError
		}

		r.metrics.RecordRequest(ctx, opUpdate, status, res.Duration)
		r.metrics.RecordFile(ctx, outcome)
		r.metrics.RecordUsages(ctx, iconmod.PatternDeepPathDefaultImport.String(), res.Result.DeepPathUsages)
		r.metrics.RecordUsages(ctx, iconmod.PatternPackageNamedImport.String(), res.Result.PackageUsages)
	}

	return res
}

func (r *Runner) migrate(ctx context.Context, path string, res *FileResult) error {
	source, perm, err := readSource(path)
	if err != nil {
		return err
	}

	res.BytesIn = len(source)

	out, err := r.tr.Transform(ctx, iconmod.File{Path: path, Source: source})
	if err != nil {
		return err
	}

	res.Result = out

	if !out.Changed {
		return nil
	}

	if r.opts.Diff {
		res.Diff = UnifiedDiff(path, string(source), string(out.Output))
	}

	if r.opts.Write {
		err = writeSource(path, out.Output, perm)
		if err != nil {
			return err
		}

		res.Written = true
	}

	return nil
}

// ScanResult is the scan outcome for one file.
type ScanResult struct {
	Findings iconmod.Findings
	Err      error
}

// Scan reports legacy usage in files without modifying them.
func (r *Runner) Scan(ctx context.Context, files []string) ([]ScanResult, error) {
	results := make([]ScanResult, len(files))

	err := forEach(ctx, r.opts.Workers, len(files), func(ctx context.Context, idx int) {
		start := time.Now()

		source, _, readErr := readSource(files[idx])
		if readErr != nil {
			results[idx] = ScanResult{Findings: iconmod.Findings{Path: files[idx]}, Err: readErr}
		} else {
			findings, scanErr := r.tr.Scan(ctx, iconmod.File{Path: files[idx], Source: source})
			findings.Path = files[idx]
			results[idx] = ScanResult{Findings: findings, Err: scanErr}
		}

		if r.metrics != nil {
			status := observability.StatusOK
			if results[idx].Err != nil {
				status = observability.StatusError
			}

			r.metrics.RecordRequest(ctx, opScan, status, time.Since(start))
		}
	})
	if err != nil {
		return results, fmt.Errorf("scan interrupted: %w", err)
	}

	return results, nil
}
