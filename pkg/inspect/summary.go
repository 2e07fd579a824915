package inspect

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/trbgen/pkg/alloc"
)

// Summary describes an allocation generation by generation.
type Summary struct {
	Size        int
	Generations []Generation
}

// Generation is one breadth-first level of an allocation. Start and End
// bound its bytes, including alignment padding before the next level.
type Generation struct {
	Index int
	Items int
	Start int
	End   int
}

// Summarize groups the placements of a by generation.
func Summarize(a *alloc.Allocation) Summary {
	s := Summary{Size: len(a.Bytes)}
	for _, p := range a.Placements {
		if n := len(s.Generations); n == 0 || s.Generations[n-1].Index != p.Generation {
			if n > 0 {
				s.Generations[n-1].End = p.Offset
			}
			s.Generations = append(s.Generations, Generation{Index: p.Generation, Start: p.Offset})
		}
		s.Generations[len(s.Generations)-1].Items++
	}
	if n := len(s.Generations); n > 0 {
		s.Generations[n-1].End = s.Size
	}
	return s
}

// String renders s as an aligned table.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d bytes in %d generations\n", s.Size, len(s.Generations))
	for _, g := range s.Generations {
		fmt.Fprintf(&b, "  gen %-3d %5d items  %#08x-%#08x  (%d bytes)\n", g.Index, g.Items, g.Start, g.End, g.End-g.Start)
	}
	return b.String()
}

// Describe returns a short label for o: its kind, size and, for byte
// objects, a preview of the content.
func Describe(o alloc.Object) string {
	switch o := o.(type) {
	case *alloc.Reference:
		return "ptr"
	case *alloc.Struct:
		return fmt.Sprintf("struct[%d] align %#x, %d bytes", len(o.Fields), o.Align, o.Size())
	case *alloc.Bytes:
		return fmt.Sprintf("%s, %d bytes", preview(o.Data), len(o.Data))
	}
	return fmt.Sprintf("%T", o)
}

// preview shows a null-terminated printable string as a quoted string and
// anything else as hex, truncated to 8 bytes.
func preview(data []byte) string {
	if len(data) == 0 {
		return "empty"
	}
	if data[len(data)-1] == 0 && isPrintable(data[:len(data)-1]) {
		s := string(data[:len(data)-1])
		if len(s) > 24 {
			s = s[:24] + "..."
		}
		return strconv.Quote(s)
	}
	const max = 8
	if len(data) > max {
		return fmt.Sprintf("%x...", data[:max])
	}
	return fmt.Sprintf("%x", data)
}

func isPrintable(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c >= 0x80 || !unicode.IsPrint(rune(c)) {
			return false
		}
	}
	return true
}
