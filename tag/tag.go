// Package tag implements the tagged-tree data model shared by every codec
// in tagforge: a Tag is an immutable-shaped, owned tree whose twelve value
// variants (plus the End sentinel) mirror the historical on-disk tag sum
// this format descends from.
//
// A Tag is deliberately a value type wrapping reference-typed payloads
// (Compound, List, arrays); Clone exists for callers that need to break
// aliasing before handing a subtree to a second parent.
package tag

import (
	"fmt"
	"math"

	"github.com/tagforge/tagforge/errs"
	"github.com/tagforge/tagforge/format"
)

// Tag is the tagged sum described in spec.md §3. The zero Tag is an End
// sentinel; it is never valid as a value inside a List or Compound.
type Tag struct {
	variant format.Variant

	i64 int64   // Byte / Short / Int / Long payload, sign-extended
	f64 float64 // Float (rounded through float32) / Double payload

	str   string     // String payload (native UTF-8 in memory)
	bytes []byte     // ByteArray payload, unsigned byte values
	ints  []int32    // IntArray payload
	longs []int64    // LongArray payload
	list  []Tag      // List payload
	elem  format.Variant // List's declared element-variant
	comp  *Compound  // Compound payload
}

// End returns the End sentinel tag. It is only meaningful as a return value
// from lookups that found nothing; it must never be nested inside a List or
// Compound.
func End() Tag { return Tag{variant: format.End} }

// Variant reports which of the twelve value variants (or End) t holds.
func (t Tag) Variant() format.Variant { return t.variant }

// IsEnd reports whether t is the End sentinel.
func (t Tag) IsEnd() bool { return t.variant == format.End }

// --- Constructors -----------------------------------------------------

// ByteTag wraps a signed 8-bit integer. Go's int8 already enforces the
// [-128, 127] range, so there is nothing further to validate at
// construction (spec.md §3's "numeric ranges enforced on construction"
// invariant is satisfied by the type system here).
func ByteTag(v int8) Tag { return Tag{variant: format.Byte, i64: int64(v)} }

// ShortTag wraps a signed 16-bit integer.
func ShortTag(v int16) Tag { return Tag{variant: format.Short, i64: int64(v)} }

// IntTag wraps a signed 32-bit integer.
func IntTag(v int32) Tag { return Tag{variant: format.Int, i64: int64(v)} }

// LongTag wraps a signed 64-bit integer, represented exactly — never as a
// lossy float — per spec.md §3.
func LongTag(v int64) Tag { return Tag{variant: format.Long, i64: v} }

// FloatTag wraps an IEEE-754 binary32 value. The value is rounded through
// float32 immediately so Equal and the TBF writer agree on what was stored.
func FloatTag(v float32) Tag { return Tag{variant: format.Float, f64: float64(v)} }

// DoubleTag wraps an IEEE-754 binary64 value.
func DoubleTag(v float64) Tag { return Tag{variant: format.Double, f64: v} }

// ByteArrayTag wraps an ordered sequence of bytes. Values are surfaced as
// unsigned (Go's byte/uint8) per the Open Question 4 resolution recorded in
// DESIGN.md; the slice is copied so the caller's backing array can be
// reused.
func ByteArrayTag(v []byte) Tag {
	cp := make([]byte, len(v))
	copy(cp, v)

	return Tag{variant: format.ByteArray, bytes: cp}
}

// StringTag wraps a string. Length against the 65535-byte wire limit is
// checked by the TBF writer (modified UTF-8 can expand a string's byte
// length beyond its UTF-8 length), not here.
func StringTag(v string) Tag { return Tag{variant: format.String, str: v} }

// IntArrayTag wraps an ordered sequence of Int payloads.
func IntArrayTag(v []int32) Tag {
	cp := make([]int32, len(v))
	copy(cp, v)

	return Tag{variant: format.IntArray, ints: cp}
}

// LongArrayTag wraps an ordered sequence of Long payloads.
func LongArrayTag(v []int64) Tag {
	cp := make([]int64, len(v))
	copy(cp, v)

	return Tag{variant: format.LongArray, longs: cp}
}

// ListTag builds a List tag whose declared element-variant is elem. Every
// payload in items must already be of variant elem, or ErrListTypeMismatch
// is returned. An empty items with elem == format.End is normalized to
// format.Byte, matching the historical "unspecified empty list is Byte"
// convention (spec.md §3).
func ListTag(elem format.Variant, items []Tag) (Tag, error) {
	if len(items) == 0 && elem == format.End {
		elem = format.Byte
	}

	for i, it := range items {
		if it.variant != elem {
			return Tag{}, fmt.Errorf("%w: item %d has variant %s, want %s", errs.ErrListTypeMismatch, i, it.variant, elem)
		}
	}

	cp := make([]Tag, len(items))
	copy(cp, items)

	return Tag{variant: format.List, elem: elem, list: cp}, nil
}

// MustListTag is like ListTag but panics on error; useful for building
// literal trees in tests where the element variants are known to match.
func MustListTag(elem format.Variant, items []Tag) Tag {
	t, err := ListTag(elem, items)
	if err != nil {
		panic(err)
	}

	return t
}

// CompoundTag wraps a *Compound, taking ownership of it.
func CompoundTag(c *Compound) Tag {
	if c == nil {
		c = NewCompound()
	}

	return Tag{variant: format.Compound, comp: c}
}

// --- Accessors ----------------------------------------------------------

// AsByte returns the payload as an int8 if t is a Byte tag.
func (t Tag) AsByte() (int8, bool) {
	if t.variant != format.Byte {
		return 0, false
	}

	return int8(t.i64), true //nolint:gosec
}

// AsShort returns the payload as an int16 if t is a Short tag.
func (t Tag) AsShort() (int16, bool) {
	if t.variant != format.Short {
		return 0, false
	}

	return int16(t.i64), true //nolint:gosec
}

// AsInt returns the payload as an int32 if t is an Int tag.
func (t Tag) AsInt() (int32, bool) {
	if t.variant != format.Int {
		return 0, false
	}

	return int32(t.i64), true //nolint:gosec
}

// AsLong returns the payload as an int64 if t is a Long tag.
func (t Tag) AsLong() (int64, bool) {
	if t.variant != format.Long {
		return 0, false
	}

	return t.i64, true
}

// AsFloat returns the payload as a float32 if t is a Float tag.
func (t Tag) AsFloat() (float32, bool) {
	if t.variant != format.Float {
		return 0, false
	}

	return float32(t.f64), true
}

// AsDouble returns the payload as a float64 if t is a Double tag.
func (t Tag) AsDouble() (float64, bool) {
	if t.variant != format.Double {
		return 0, false
	}

	return t.f64, true
}

// AsByteArray returns a copy of the payload if t is a ByteArray tag.
func (t Tag) AsByteArray() ([]byte, bool) {
	if t.variant != format.ByteArray {
		return nil, false
	}

	cp := make([]byte, len(t.bytes))
	copy(cp, t.bytes)

	return cp, true
}

// AsString returns the payload if t is a String tag.
func (t Tag) AsString() (string, bool) {
	if t.variant != format.String {
		return "", false
	}

	return t.str, true
}

// AsIntArray returns a copy of the payload if t is an IntArray tag.
func (t Tag) AsIntArray() ([]int32, bool) {
	if t.variant != format.IntArray {
		return nil, false
	}

	cp := make([]int32, len(t.ints))
	copy(cp, t.ints)

	return cp, true
}

// AsLongArray returns a copy of the payload if t is a LongArray tag.
func (t Tag) AsLongArray() ([]int64, bool) {
	if t.variant != format.LongArray {
		return nil, false
	}

	cp := make([]int64, len(t.longs))
	copy(cp, t.longs)

	return cp, true
}

// ListElem returns the declared element-variant of a List tag.
func (t Tag) ListElem() (format.Variant, bool) {
	if t.variant != format.List {
		return format.End, false
	}

	return t.elem, true
}

// ListItems returns the payload slice of a List tag. The returned slice
// shares t's backing array and must not be mutated in place; use Set in
// package path instead (it also appends when the index equals the length).
func (t Tag) ListItems() ([]Tag, bool) {
	if t.variant != format.List {
		return nil, false
	}

	return t.list, true
}

// AsCompound returns the underlying *Compound if t is a Compound tag.
func (t Tag) AsCompound() (*Compound, bool) {
	if t.variant != format.Compound {
		return nil, false
	}

	return t.comp, true
}

// --- Equality & cloning ---------------------------------------------------

// Equal reports whether t and other are structurally identical: same
// variant, same payload, same List element-variant, and — for Compound —
// the same entries in the same insertion order.
func (t Tag) Equal(other Tag) bool {
	if t.variant != other.variant {
		return false
	}

	switch t.variant {
	case format.End:
		return true
	case format.Byte, format.Short, format.Int, format.Long:
		return t.i64 == other.i64
	case format.Float:
		// Compare via the float32 bit pattern; two NaNs produced by the
		// same encoding round-trip must compare equal for S1-style tests.
		return math.Float32bits(float32(t.f64)) == math.Float32bits(float32(other.f64))
	case format.Double:
		return math.Float64bits(t.f64) == math.Float64bits(other.f64)
	case format.ByteArray:
		return bytesEqual(t.bytes, other.bytes)
	case format.String:
		return t.str == other.str
	case format.IntArray:
		return int32sEqual(t.ints, other.ints)
	case format.LongArray:
		return int64sEqual(t.longs, other.longs)
	case format.List:
		if t.elem != other.elem || len(t.list) != len(other.list) {
			return false
		}
		for i := range t.list {
			if !t.list[i].Equal(other.list[i]) {
				return false
			}
		}

		return true
	case format.Compound:
		return t.comp.Equal(other.comp)
	default:
		return false
	}
}

// Clone deep-copies t, including every nested Compound and List, so the
// result shares no mutable state with t.
func (t Tag) Clone() Tag {
	switch t.variant {
	case format.ByteArray:
		return ByteArrayTag(t.bytes)
	case format.IntArray:
		return IntArrayTag(t.ints)
	case format.LongArray:
		return LongArrayTag(t.longs)
	case format.List:
		items := make([]Tag, len(t.list))
		for i, it := range t.list {
			items[i] = it.Clone()
		}

		return Tag{variant: format.List, elem: t.elem, list: items}
	case format.Compound:
		return CompoundTag(t.comp.Clone())
	default:
		return t
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func int32sEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func int64sEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

