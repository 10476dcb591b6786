package tbf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tagforge/tagforge/errs"
	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/tag"
)

// reader walks a byte slice left to right, tracking its own offset. It
// never copies the input; every error path returns errs.ErrTruncated,
// errs.ErrUnknownVariant, or errs.ErrInvalidString per spec.md §4.B, or
// errs.ErrInvalidTag for a negative length prefix.
type reader struct {
	data []byte
	off  int
}

func (r *reader) need(n int) error {
	if len(r.data)-r.off < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrTruncated, n, r.off, len(r.data)-r.off)
	}

	return nil
}

func (r *reader) u8() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.off]
	r.off++

	return b, nil
}

func (r *reader) i8() (int8, error) {
	b, err := r.u8()

	return int8(b), err //nolint:gosec
}

func (r *reader) i16() (int16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := int16(binary.BigEndian.Uint16(r.data[r.off:])) //nolint:gosec
	r.off += 2

	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2

	return v, nil
}

func (r *reader) i32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(r.data[r.off:])) //nolint:gosec
	r.off += 4

	return v, nil
}

func (r *reader) i64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.BigEndian.Uint64(r.data[r.off:])) //nolint:gosec
	r.off += 8

	return v, nil
}

func (r *reader) f32() (float32, error) {
	v, err := r.i32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(uint32(v)), nil //nolint:gosec
}

func (r *reader) f64() (float64, error) {
	v, err := r.i64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(uint64(v)), nil //nolint:gosec
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", errs.ErrInvalidTag, n)
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.off : r.off+n]
	r.off += n

	return b, nil
}

// string16 reads a u16 length prefix followed by that many bytes of
// modified UTF-8 (spec.md §4.B).
func (r *reader) string16() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}

	return decodeModifiedUTF8(b)
}

// Read parses a TBF raw buffer starting at offset 0 and returns the
// Document plus the number of bytes consumed.
func Read(data []byte) (Document, int, error) {
	r := &reader{data: data}

	variantByte, err := r.u8()
	if err != nil {
		return Document{}, 0, err
	}
	variant := format.Variant(variantByte)
	if !variant.Valid() {
		return Document{}, 0, fmt.Errorf("%w: %d", errs.ErrUnknownVariant, variantByte)
	}

	name, err := r.string16()
	if err != nil {
		return Document{}, 0, err
	}

	root, err := r.readPayload(variant)
	if err != nil {
		return Document{}, 0, err
	}

	return Document{Name: name, Root: root}, r.off, nil
}

// readNamedTag reads one `variant_id, name, payload` triple, as found
// inside a Compound. It returns ok=false (with a nil error) when the lone
// End byte terminating the Compound is encountered.
func (r *reader) readNamedTag() (name string, value tag.Tag, ok bool, err error) {
	variantByte, err := r.u8()
	if err != nil {
		return "", tag.Tag{}, false, err
	}
	variant := format.Variant(variantByte)
	if variant == format.End {
		return "", tag.Tag{}, false, nil
	}
	if !variant.Valid() {
		return "", tag.Tag{}, false, fmt.Errorf("%w: %d", errs.ErrUnknownVariant, variantByte)
	}

	name, err = r.string16()
	if err != nil {
		return "", tag.Tag{}, false, err
	}

	value, err = r.readPayload(variant)
	if err != nil {
		return "", tag.Tag{}, false, err
	}

	return name, value, true, nil
}

// readPayload reads a bare payload (no id, no name) of the given variant.
func (r *reader) readPayload(variant format.Variant) (tag.Tag, error) {
	switch variant {
	case format.Byte:
		v, err := r.i8()
		if err != nil {
			return tag.Tag{}, err
		}

		return tag.ByteTag(v), nil
	case format.Short:
		v, err := r.i16()
		if err != nil {
			return tag.Tag{}, err
		}

		return tag.ShortTag(v), nil
	case format.Int:
		v, err := r.i32()
		if err != nil {
			return tag.Tag{}, err
		}

		return tag.IntTag(v), nil
	case format.Long:
		v, err := r.i64()
		if err != nil {
			return tag.Tag{}, err
		}

		return tag.LongTag(v), nil
	case format.Float:
		v, err := r.f32()
		if err != nil {
			return tag.Tag{}, err
		}

		return tag.FloatTag(v), nil
	case format.Double:
		v, err := r.f64()
		if err != nil {
			return tag.Tag{}, err
		}

		return tag.DoubleTag(v), nil
	case format.ByteArray:
		n, err := r.i32()
		if err != nil {
			return tag.Tag{}, err
		}
		b, err := r.bytes(int(n))
		if err != nil {
			return tag.Tag{}, err
		}

		return tag.ByteArrayTag(b), nil
	case format.String:
		s, err := r.string16()
		if err != nil {
			return tag.Tag{}, err
		}

		return tag.StringTag(s), nil
	case format.List:
		return r.readList()
	case format.Compound:
		return r.readCompound()
	case format.IntArray:
		n, err := r.i32()
		if err != nil {
			return tag.Tag{}, err
		}
		if n < 0 {
			return tag.Tag{}, fmt.Errorf("%w: negative int array length %d", errs.ErrInvalidTag, n)
		}
		vals := make([]int32, n)
		for i := range vals {
			vals[i], err = r.i32()
			if err != nil {
				return tag.Tag{}, err
			}
		}

		return tag.IntArrayTag(vals), nil
	case format.LongArray:
		n, err := r.i32()
		if err != nil {
			return tag.Tag{}, err
		}
		if n < 0 {
			return tag.Tag{}, fmt.Errorf("%w: negative long array length %d", errs.ErrInvalidTag, n)
		}
		vals := make([]int64, n)
		for i := range vals {
			vals[i], err = r.i64()
			if err != nil {
				return tag.Tag{}, err
			}
		}

		return tag.LongArrayTag(vals), nil
	default:
		return tag.Tag{}, fmt.Errorf("%w: %d", errs.ErrUnknownVariant, variant)
	}
}

func (r *reader) readList() (tag.Tag, error) {
	elemByte, err := r.u8()
	if err != nil {
		return tag.Tag{}, err
	}
	elem := format.Variant(elemByte)
	if !elem.Valid() {
		return tag.Tag{}, fmt.Errorf("%w: list element variant %d", errs.ErrUnknownVariant, elemByte)
	}

	n, err := r.i32()
	if err != nil {
		return tag.Tag{}, err
	}
	if n < 0 {
		return tag.Tag{}, fmt.Errorf("%w: negative list length %d", errs.ErrInvalidTag, n)
	}

	// An empty list is written with elem_variant = End (spec.md §4.B's
	// empty-list edge case); the reader always promotes it to Byte.
	if n == 0 && elem == format.End {
		elem = format.Byte
	}

	items := make([]tag.Tag, n)
	for i := range items {
		items[i], err = r.readPayload(elem)
		if err != nil {
			return tag.Tag{}, err
		}
	}

	return tag.ListTag(elem, items)
}

func (r *reader) readCompound() (tag.Tag, error) {
	c := tag.NewCompound()
	for {
		name, value, ok, err := r.readNamedTag()
		if err != nil {
			return tag.Tag{}, err
		}
		if !ok {
			break
		}
		c.Set(name, value)
	}

	return tag.CompoundTag(c), nil
}
