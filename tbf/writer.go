package tbf

import (
	"fmt"
	"math"

	"github.com/tagforge/tagforge/errs"
	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/internal/pool"
	"github.com/tagforge/tagforge/tag"
)

// writer accumulates a TBF byte stream into a pooled ByteBuffer.
type writer struct {
	buf *pool.ByteBuffer
	err error
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *writer) u8(b byte) {
	w.buf.MustWrite([]byte{b})
}

func (w *writer) i8(v int8) {
	w.u8(byte(v)) //nolint:gosec
}

func (w *writer) u16(v uint16) {
	w.buf.MustWrite([]byte{byte(v >> 8), byte(v)})
}

func (w *writer) i16(v int16) {
	w.u16(uint16(v)) //nolint:gosec
}

func (w *writer) i32(v int32) {
	u := uint32(v) //nolint:gosec
	w.buf.MustWrite([]byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
}

func (w *writer) i64(v int64) {
	u := uint64(v) //nolint:gosec
	w.buf.MustWrite([]byte{
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u),
	})
}

func (w *writer) f32(v float32) {
	w.i32(int32(math.Float32bits(v))) //nolint:gosec
}

func (w *writer) f64(v float64) {
	w.i64(int64(math.Float64bits(v))) //nolint:gosec
}

// string16 writes s as a u16 length prefix followed by its modified UTF-8
// bytes; strings whose encoded form exceeds 65535 bytes fail the whole
// write with errs.ErrStringTooLong rather than silently truncating.
func (w *writer) string16(s string) {
	enc := encodeModifiedUTF8(s)
	if len(enc) > math.MaxUint16 {
		w.fail(fmt.Errorf("%w: %d bytes", errs.ErrStringTooLong, len(enc)))

		return
	}
	w.u16(uint16(len(enc))) //nolint:gosec
	w.buf.MustWrite(enc)
}

// Write serializes doc into a freshly allocated byte slice representing one
// named tag: variant id, string16 name, then the root's bare payload.
func Write(doc Document) ([]byte, error) {
	buf := pool.GetDocumentBuffer()
	defer pool.PutDocumentBuffer(buf)

	w := &writer{buf: buf}
	w.u8(byte(doc.Root.Variant()))
	w.string16(doc.Name)
	w.writePayload(doc.Root)

	if w.err != nil {
		return nil, w.err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// writeNamedTag writes one `variant_id, name, payload` triple as found
// inside a Compound.
func (w *writer) writeNamedTag(name string, value tag.Tag) {
	w.u8(byte(value.Variant()))
	w.string16(name)
	w.writePayload(value)
}

// writePayload writes a bare payload (no id, no name) for t.
func (w *writer) writePayload(t tag.Tag) {
	switch t.Variant() {
	case format.Byte:
		v, _ := t.AsByte()
		w.i8(v)
	case format.Short:
		v, _ := t.AsShort()
		w.i16(v)
	case format.Int:
		v, _ := t.AsInt()
		w.i32(v)
	case format.Long:
		v, _ := t.AsLong()
		w.i64(v)
	case format.Float:
		v, _ := t.AsFloat()
		w.f32(v)
	case format.Double:
		v, _ := t.AsDouble()
		w.f64(v)
	case format.ByteArray:
		v, _ := t.AsByteArray()
		w.i32(int32(len(v))) //nolint:gosec
		w.buf.MustWrite(v)
	case format.String:
		v, _ := t.AsString()
		w.string16(v)
	case format.List:
		w.writeList(t)
	case format.Compound:
		w.writeCompound(t)
	case format.IntArray:
		v, _ := t.AsIntArray()
		w.i32(int32(len(v))) //nolint:gosec
		for _, e := range v {
			w.i32(e)
		}
	case format.LongArray:
		v, _ := t.AsLongArray()
		w.i32(int32(len(v))) //nolint:gosec
		for _, e := range v {
			w.i64(e)
		}
	default:
		w.fail(fmt.Errorf("%w: %s", errs.ErrUnknownVariant, t.Variant()))
	}
}

func (w *writer) writeList(t tag.Tag) {
	elem, _ := t.ListElem()
	items, _ := t.ListItems()

	// An empty list is always written with elem_variant = End on the wire
	// (spec.md §8 scenario S2), independent of the Tag model's declared
	// element-variant; Read promotes it back to Byte on the way in.
	wireElem := elem
	if len(items) == 0 {
		wireElem = format.End
	}

	w.u8(byte(wireElem))
	w.i32(int32(len(items))) //nolint:gosec
	for _, it := range items {
		w.writePayload(it)
	}
}

func (w *writer) writeCompound(t tag.Tag) {
	c, _ := t.AsCompound()
	for name, v := range c.All() {
		w.writeNamedTag(name, v)
	}
	w.u8(byte(format.End))
}
