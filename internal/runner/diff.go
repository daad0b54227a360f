package runner

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

type lineOp struct {
	op   diffmatchpatch.Operation
	text string
}

// UnifiedDiff renders a line-based unified diff of before and after, or ""
// when they are equal.
func UnifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	ops := diffLines(before, after)

	var sb strings.Builder

	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)

	for _, h := range hunks(ops) {
		writeHunk(&sb, ops, h)
	}

	return sb.String()
}

// diffLines computes the line operations turning before into after.
func diffLines(before, after string) []lineOp {
	dmp := diffmatchpatch.New()

	chars1, chars2, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	var ops []lineOp

	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for line := range strings.SplitSeq(text, "\n") {
			ops = append(ops, lineOp{op: d.Type, text: line})
		}
	}

	return ops
}

// hunk is a half-open range of ops with its starting line numbers.
type hunk struct {
	from, to         int
	oldLine, newLine int
}

// hunks groups changed ops with diffContext lines of context, merging
// groups whose context overlaps.
func hunks(ops []lineOp) []hunk {
	var (
		out              []hunk
		oldLine, newLine = 1, 1
		cur              *hunk
	)

	oldAt := make([]int, len(ops))
	newAt := make([]int, len(ops))

	for idx, op := range ops {
		oldAt[idx], newAt[idx] = oldLine, newLine

		switch op.op {
		case diffmatchpatch.DiffEqual:
			oldLine++
			newLine++
		case diffmatchpatch.DiffDelete:
			oldLine++
		case diffmatchpatch.DiffInsert:
			newLine++
		}
	}

	for idx, op := range ops {
		if op.op == diffmatchpatch.DiffEqual {
			continue
		}

		from := max(idx-diffContext, 0)
		to := min(idx+diffContext+1, len(ops))

		if cur != nil && from <= cur.to {
			cur.to = max(cur.to, to)

			continue
		}

		out = append(out, hunk{from: from, to: to, oldLine: oldAt[from], newLine: newAt[from]})
		cur = &out[len(out)-1]
	}

	return out
}

func writeHunk(sb *strings.Builder, ops []lineOp, h hunk) {
	var oldCount, newCount int

	for _, op := range ops[h.from:h.to] {
		if op.op != diffmatchpatch.DiffInsert {
			oldCount++
		}

		if op.op != diffmatchpatch.DiffDelete {
			newCount++
		}
	}

	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", h.oldLine, oldCount, h.newLine, newCount)

	for _, op := range ops[h.from:h.to] {
		switch op.op {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(" ")
		case diffmatchpatch.DiffDelete:
			sb.WriteString("-")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("+")
		}

		sb.WriteString(op.text)
		sb.WriteString("\n")
	}
}
