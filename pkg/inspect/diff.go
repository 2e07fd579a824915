package inspect

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// HexDump returns a dump of b with 16 bytes per line: the offset, the bytes
// in hex, and their printable ASCII characters.
func HexDump(b []byte) string {
	return hex.Dump(b)
}

// DiffResult compares two files.
type DiffResult struct {
	SizeA int
	SizeB int

	// FirstDiff is the offset of the first differing byte, or -1 when the
	// files are identical. When one file is a prefix of the other it is the
	// length of the shorter one.
	FirstDiff int

	// Lines is a line diff of the two hex dumps. Unchanged runs longer than
	// the context are collapsed.
	Lines []DiffLine
}

// DiffOp marks a DiffLine.
type DiffOp byte

const (
	OpEqual  DiffOp = ' '
	OpDelete DiffOp = '-'
	OpInsert DiffOp = '+'
	OpSkip   DiffOp = '~'
)

// DiffLine is one line of a hex dump diff. OpSkip lines hold a count of
// collapsed unchanged lines in Text.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// diffContext is how many unchanged lines are kept around each change.
const diffContext = 2

// Equal reports whether the files are identical.
func (d DiffResult) Equal() bool { return d.FirstDiff < 0 }

// Diff compares a with b.
func Diff(a, b []byte) DiffResult {
	res := DiffResult{SizeA: len(a), SizeB: len(b), FirstDiff: firstDiff(a, b)}
	if res.Equal() {
		return res
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(HexDump(a), HexDump(b))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var all []DiffLine
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			all = append(all, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	res.Lines = collapse(all, diffContext)
	return res
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

// collapse replaces runs of unchanged lines further than ctx lines from any
// change with a single OpSkip line.
func collapse(lines []DiffLine, ctx int) []DiffLine {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == OpEqual {
			continue
		}
		for j := max(0, i-ctx); j <= min(len(lines)-1, i+ctx); j++ {
			keep[j] = true
		}
	}

	var out []DiffLine
	skipped := 0
	for i, l := range lines {
		if keep[i] {
			if skipped > 0 {
				out = append(out, DiffLine{Op: OpSkip, Text: fmt.Sprintf("%d unchanged lines", skipped)})
				skipped = 0
			}
			out = append(out, l)
			continue
		}
		skipped++
	}
	if skipped > 0 {
		out = append(out, DiffLine{Op: OpSkip, Text: fmt.Sprintf("%d unchanged lines", skipped)})
	}
	return out
}

// String renders the result as a header followed by the line diff.
func (d DiffResult) String() string {
	if d.Equal() {
		return fmt.Sprintf("identical (%d bytes)\n", d.SizeA)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "sizes %d / %d, first difference at %#x\n", d.SizeA, d.SizeB, d.FirstDiff)
	for _, l := range d.Lines {
		fmt.Fprintf(&b, "%c %s\n", l.Op, l.Text)
	}
	return b.String()
}
