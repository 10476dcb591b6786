// Package stf implements the Stringified Text Form codec (spec.md §4.E): a
// human-readable mirror of the TBF tree model, analogous to the game's
// stringified NBT text. Emit and Parse are mirrors of each other: Parse(Emit(t))
// must equal t for every well-formed Tag (spec.md §8 property 3).
package stf

import (
	"strconv"
	"strings"

	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/internal/options"
	"github.com/tagforge/tagforge/tag"
)

// DefaultIndentWidth is the number of spaces added per nesting depth in
// pretty-printed output.
const DefaultIndentWidth = 2

// collapseListThreshold and collapseCompoundThreshold are the "short
// child" cutoffs from spec.md §4.E's pretty-print rule: a list collapses
// onto one line when every element's compact form is under 20 characters;
// a compound collapses when every entry's compact form (key:value) is
// under 30.
const (
	collapseListThreshold     = 20
	collapseCompoundThreshold = 30
)

// EmitConfig configures Emit. The zero value is not meaningful; use
// defaultEmitConfig or the With* options.
type EmitConfig struct {
	Pretty      bool
	IndentWidth int
}

func defaultEmitConfig() *EmitConfig {
	return &EmitConfig{IndentWidth: DefaultIndentWidth}
}

// EmitOption configures an Emit call.
type EmitOption = options.Option[*EmitConfig]

// WithPretty enables multi-line, indented output with short-child collapse
// (spec.md §4.E). Without it, Emit always produces the single-line compact
// form.
func WithPretty(pretty bool) EmitOption {
	return options.NoError(func(c *EmitConfig) { c.Pretty = pretty })
}

// WithIndentWidth sets the number of spaces added per nesting depth in
// pretty-printed output (default DefaultIndentWidth). Ignored when pretty
// printing is disabled.
func WithIndentWidth(n int) EmitOption {
	return options.NoError(func(c *EmitConfig) {
		if n > 0 {
			c.IndentWidth = n
		}
	})
}

var compactConfig = &EmitConfig{IndentWidth: DefaultIndentWidth}

// Emit renders t as STF text. The compact form (default) contains no
// whitespace beyond what quoted strings carry; WithPretty(true) switches to
// the indented, collapse-aware form.
func Emit(t tag.Tag, opts ...EmitOption) string {
	cfg := defaultEmitConfig()
	_ = options.Apply(cfg, opts...)

	var b strings.Builder
	emitTag(&b, t, cfg, 0)

	return b.String()
}

func compactEmit(t tag.Tag) string {
	var b strings.Builder
	emitTag(&b, t, compactConfig, 0)

	return b.String()
}

func emitTag(b *strings.Builder, t tag.Tag, cfg *EmitConfig, depth int) {
	switch t.Variant() {
	case format.Byte:
		v, _ := t.AsByte()
		b.WriteString(strconv.FormatInt(int64(v), 10))
		b.WriteByte('b')
	case format.Short:
		v, _ := t.AsShort()
		b.WriteString(strconv.FormatInt(int64(v), 10))
		b.WriteByte('s')
	case format.Int:
		v, _ := t.AsInt()
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case format.Long:
		v, _ := t.AsLong()
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte('L')
	case format.Float:
		v, _ := t.AsFloat()
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		b.WriteByte('f')
	case format.Double:
		v, _ := t.AsDouble()
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('d')
	case format.ByteArray:
		emitByteArray(b, t)
	case format.IntArray:
		emitIntArray(b, t)
	case format.LongArray:
		emitLongArray(b, t)
	case format.String:
		v, _ := t.AsString()
		emitQuotedString(b, v)
	case format.List:
		emitList(b, t, cfg, depth)
	case format.Compound:
		emitCompound(b, t, cfg, depth)
	}
}

func emitByteArray(b *strings.Builder, t tag.Tag) {
	arr, _ := t.AsByteArray()
	b.WriteString("[B;")
	for i, v := range arr {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(int8(v)), 10)) //nolint:gosec
		b.WriteByte('b')
	}
	b.WriteByte(']')
}

func emitIntArray(b *strings.Builder, t tag.Tag) {
	arr, _ := t.AsIntArray()
	b.WriteString("[I;")
	for i, v := range arr {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(v), 10))
	}
	b.WriteByte(']')
}

func emitLongArray(b *strings.Builder, t tag.Tag) {
	arr, _ := t.AsLongArray()
	b.WriteString("[L;")
	for i, v := range arr {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte('L')
	}
	b.WriteByte(']')
}

func emitQuotedString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

func isBareKey(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.' || r == '+'):
		default:
			return false
		}
	}

	return true
}

func emitKey(b *strings.Builder, key string) {
	if isBareKey(key) {
		b.WriteString(key)

		return
	}

	emitQuotedString(b, key)
}

func writeIndent(b *strings.Builder, cfg *EmitConfig, depth int) {
	b.WriteString(strings.Repeat(" ", cfg.IndentWidth*depth))
}

func emitList(b *strings.Builder, t tag.Tag, cfg *EmitConfig, depth int) {
	items, _ := t.ListItems()
	if len(items) == 0 {
		b.WriteString("[]")

		return
	}

	if !cfg.Pretty || fitsCollapsed(items, collapseListThreshold) {
		b.WriteByte('[')
		for i, it := range items {
			if i > 0 {
				if cfg.Pretty {
					b.WriteString(", ")
				} else {
					b.WriteByte(',')
				}
			}
			b.WriteString(compactEmit(it))
		}
		b.WriteByte(']')

		return
	}

	b.WriteByte('[')
	inner := depth + 1
	for i, it := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
		writeIndent(b, cfg, inner)
		emitTag(b, it, cfg, inner)
	}
	b.WriteByte('\n')
	writeIndent(b, cfg, depth)
	b.WriteByte(']')
}

func fitsCollapsed(items []tag.Tag, threshold int) bool {
	for _, it := range items {
		if len(compactEmit(it)) >= threshold {
			return false
		}
	}

	return true
}

func emitCompound(b *strings.Builder, t tag.Tag, cfg *EmitConfig, depth int) {
	c, _ := t.AsCompound()
	entries := c.Entries()

	if len(entries) == 0 {
		b.WriteString("{}")

		return
	}

	if !cfg.Pretty || fitsCollapsedEntries(entries, collapseCompoundThreshold) {
		b.WriteByte('{')
		for i, e := range entries {
			if i > 0 {
				if cfg.Pretty {
					b.WriteString(", ")
				} else {
					b.WriteByte(',')
				}
			}
			emitKey(b, e.Name)
			b.WriteByte(':')
			b.WriteString(compactEmit(e.Value))
		}
		b.WriteByte('}')

		return
	}

	b.WriteByte('{')
	inner := depth + 1
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
		writeIndent(b, cfg, inner)
		emitKey(b, e.Name)
		b.WriteByte(':')
		emitTag(b, e.Value, cfg, inner)
	}
	b.WriteByte('\n')
	writeIndent(b, cfg, depth)
	b.WriteByte('}')
}

func fitsCollapsedEntries(entries []tag.Entry, threshold int) bool {
	for _, e := range entries {
		if len(e.Name)+1+len(compactEmit(e.Value)) >= threshold {
			return false
		}
	}

	return true
}
