package tag

import (
	"strconv"
	"strings"

	"github.com/tagforge/tagforge/format"
)

// Inspect renders a truncated, depth-bounded outline of t, useful for
// debugging large documents without fully serializing them (SPEC_FULL §3.5).
// maxDepth <= 0 means unlimited.
func Inspect(t Tag, maxDepth int) string {
	var b strings.Builder
	inspectAt(&b, t, 0, maxDepth)

	return b.String()
}

func inspectAt(b *strings.Builder, t Tag, depth, maxDepth int) {
	switch t.variant {
	case format.Compound:
		n := 0
		if t.comp != nil {
			n = t.comp.Len()
		}
		b.WriteString("Compound{")
		b.WriteString(strconv.Itoa(n))
		b.WriteString(" keys}")
		if maxDepth > 0 && depth >= maxDepth-1 {
			return
		}
		if t.comp != nil {
			for _, e := range t.comp.entries {
				b.WriteByte('\n')
				b.WriteString(strings.Repeat("  ", depth+1))
				b.WriteString(e.Name)
				b.WriteString(": ")
				inspectAt(b, e.Value, depth+1, maxDepth)
			}
		}
	case format.List:
		b.WriteString("List<")
		b.WriteString(t.elem.String())
		b.WriteString(">[")
		b.WriteString(strconv.Itoa(len(t.list)))
		b.WriteString("]")
	case format.ByteArray:
		b.WriteString("ByteArray[")
		b.WriteString(strconv.Itoa(len(t.bytes)))
		b.WriteString("]")
	case format.IntArray:
		b.WriteString("IntArray[")
		b.WriteString(strconv.Itoa(len(t.ints)))
		b.WriteString("]")
	case format.LongArray:
		b.WriteString("LongArray[")
		b.WriteString(strconv.Itoa(len(t.longs)))
		b.WriteString("]")
	case format.String:
		b.WriteString(t.variant.String())
		b.WriteString("(")
		b.WriteString(strconv.Itoa(len(t.str)))
		b.WriteString(" bytes)")
	default:
		b.WriteString(t.variant.String())
	}
}
