package tag

import "github.com/tagforge/tagforge/format"

// DiagnosticKind classifies a validation finding.
type DiagnosticKind uint8

const (
	DiagUnknownVariant DiagnosticKind = iota + 1
	DiagListTypeMismatch
	DiagNumericOutOfRange
)

// Diagnostic is one finding produced by Validate. Path is a dot-joined
// address matching package path's addressing scheme, rooted at the
// Document passed to Validate.
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string
	Message string
}

// Validate walks t read-only and reports every structural problem found:
// unknown variant ids, List items that don't match their declared
// element-variant, and numeric payloads outside their variant's range.
// Trees built exclusively through this package's constructors and package
// path's editor can never fail validation (spec.md §8 property 5); Validate
// exists mainly for trees decoded from untrusted bytes via a path that
// bypassed the usual constructors, or for defense-in-depth after manual
// field surgery.
func Validate(t Tag) []Diagnostic {
	var diags []Diagnostic
	validateAt(t, "", &diags)

	return diags
}

func validateAt(t Tag, path string, diags *[]Diagnostic) {
	if !t.variant.Valid() {
		*diags = append(*diags, Diagnostic{
			Kind:    DiagUnknownVariant,
			Path:    path,
			Message: "unknown tag variant",
		})

		return
	}

	switch t.variant {
	case format.List:
		for i, item := range t.list {
			p := indexPath(path, i)
			if item.variant != t.elem {
				*diags = append(*diags, Diagnostic{
					Kind:    DiagListTypeMismatch,
					Path:    p,
					Message: "list item does not match declared element-variant " + t.elem.String(),
				})

				continue
			}
			validateAt(item, p, diags)
		}
	case format.Compound:
		if t.comp != nil {
			for _, e := range t.comp.entries {
				validateAt(e.Value, keyPath(path, e.Name), diags)
			}
		}
	case format.Byte, format.Short, format.Int:
		lo, hi := int64(-1<<31), int64(1<<31-1)
		switch t.variant {
		case format.Byte:
			lo, hi = -1<<7, 1<<7-1
		case format.Short:
			lo, hi = -1<<15, 1<<15-1
		}
		if t.i64 < lo || t.i64 > hi {
			*diags = append(*diags, Diagnostic{
				Kind:    DiagNumericOutOfRange,
				Path:    path,
				Message: "numeric payload outside the range of " + t.variant.String(),
			})
		}
	}
}

func keyPath(base, key string) string {
	if base == "" {
		return key
	}

	return base + "." + key
}

func indexPath(base string, i int) string {
	suffix := itoaSimple(i)
	if base == "" {
		return suffix
	}

	return base + "." + suffix
}

func itoaSimple(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}
