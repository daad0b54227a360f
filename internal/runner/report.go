package runner

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/codemod/internal/iconmod"
)

// WriteSummary renders the outcome counts and the failed files as tables.
func WriteSummary(w io.Writer, rep *Report) error {
	changed := color.New(color.FgGreen).Sprint("changed")
	failedLabel := color.New(color.FgRed).Sprint("failed")

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Status", "Files"})
	tbl.AppendRow(table.Row{changed, humanize.Comma(int64(rep.Changed()))})
	tbl.AppendRow(table.Row{"unchanged", humanize.Comma(int64(rep.Unchanged()))})
	tbl.AppendRow(table.Row{failedLabel, humanize.Comma(int64(len(rep.Failed())))})
	tbl.AppendFooter(table.Row{
		"Total",
		fmt.Sprintf("%s files, %s in %s",
			humanize.Comma(int64(len(rep.Files))),
			humanize.Bytes(uint64(rep.BytesProcessed())), //nolint:gosec // sizes are non-negative.
			rep.Elapsed.Round(time.Millisecond),
		),
	})

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	failed := rep.Failed()
	if len(failed) == 0 {
		return nil
	}

	errTbl := table.NewWriter()
	errTbl.SetStyle(table.StyleLight)
	errTbl.AppendHeader(table.Row{"File", "Kind", "Error"})

	for _, f := range failed {
		errTbl.AppendRow(table.Row{f.Path, f.Kind, f.Err.Error()})
	}

	_, err = fmt.Fprintln(w, errTbl.Render())
	if err != nil {
		return fmt.Errorf("write failures: %w", err)
	}

	return nil
}

// WriteDiffs prints the recorded diffs in file order.
func WriteDiffs(w io.Writer, rep *Report) error {
	for _, f := range rep.Files {
		if f.Diff == "" {
			continue
		}

		_, err := io.WriteString(w, f.Diff)
		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return nil
}

// WriteScan renders scan findings for files that still need migrating.
func WriteScan(w io.Writer, results []ScanResult) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Patterns", "Usages", "Icons", "Unmapped"})

	pending := 0

	for _, res := range results {
		f := res.Findings

		if res.Err != nil {
			tbl.AppendRow(table.Row{f.Path, color.RedString(iconmod.KindOf(res.Err).String()), "", "", res.Err.Error()})

			continue
		}

		if !f.Pending() {
			continue
		}

		pending++

		unmapped := ""
		if len(f.Unmapped) > 0 {
			unmapped = color.YellowString("%v", f.Unmapped)
		}

		tbl.AppendRow(table.Row{f.Path, fmt.Sprint(f.Patterns), f.DeepPathUsages + f.PackageUsages, len(f.IconNames), unmapped})
	}

	tbl.AppendFooter(table.Row{"Pending", humanize.Comma(int64(pending))})

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write scan: %w", err)
	}

	return nil
}
