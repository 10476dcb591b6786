package jsonview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tagforge/tagforge/errs"
	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/tag"
	"github.com/tagforge/tagforge/tbf"
)

// FromJSON parses a `{name, type, value}` JSON view into a Document. When
// type is present, value is interpreted as that variant directly; nested
// values (Compound entries, List items) are always reconstructed by type
// inference (spec.md §4.C's table), since the view format does not carry a
// type hint per nested field — only at the document root.
func FromJSON(data []byte) (tbf.Document, error) {
	root, err := decodeOrdered(newTokenDecoder(data))
	if err != nil {
		return tbf.Document{}, fmt.Errorf("tagforge: decoding json view: %w", err)
	}

	obj, ok := root.(orderedObject)
	if !ok {
		return tbf.Document{}, fmt.Errorf("%w: json view root must be an object", errs.ErrUnknownTypeHint)
	}

	name, _ := obj.get("name")
	nameStr, _ := name.(string)

	typeHint, _ := obj.get("type")
	typeStr, _ := typeHint.(string)

	value, hasValue := obj.get("value")
	if !hasValue {
		return tbf.Document{}, fmt.Errorf("%w: json view is missing \"value\"", errs.ErrUnknownTypeHint)
	}

	t, err := ingestValue(value, typeStr)
	if err != nil {
		return tbf.Document{}, err
	}

	return tbf.Document{Name: nameStr, Root: t}, nil
}

func newTokenDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec
}

// decodeOrdered walks one JSON value from dec, preserving object key order
// as an orderedObject instead of the unordered map[string]any the stdlib
// would otherwise produce.
func decodeOrdered(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		return tok, nil
	}

	switch delim {
	case '{':
		var entries orderedObject
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)

			val, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			entries = append(entries, kv{Key: key, Value: val})
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}

		return entries, nil
	case '[':
		var items []any
		for dec.More() {
			val, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}

		return items, nil
	default:
		return nil, fmt.Errorf("tagforge: unexpected json delimiter %q", delim)
	}
}

func ingestValue(v any, typeHint string) (tag.Tag, error) {
	if typeHint == "" {
		return inferNative(v)
	}

	switch typeHint {
	case "byte":
		return ingestInt(v, 8)
	case "short":
		return ingestInt(v, 16)
	case "int":
		return ingestInt(v, 32)
	case "long":
		n, err := toInt64(v)
		if err != nil {
			return tag.Tag{}, err
		}

		return tag.LongTag(n), nil
	case "float":
		return ingestFloat(v, 32)
	case "double":
		return ingestFloat(v, 64)
	case "string":
		s, ok := v.(string)
		if !ok {
			return tag.Tag{}, fmt.Errorf("%w: expected string for type %q", errs.ErrTypeMismatch, typeHint)
		}

		return tag.StringTag(s), nil
	case "byte_array":
		return ingestByteArray(v)
	case "int_array":
		return ingestIntArray(v)
	case "long_array":
		return ingestLongArray(v)
	case "list":
		return ingestList(v)
	case "compound":
		return ingestCompound(v)
	default:
		return tag.Tag{}, fmt.Errorf("%w: %q", errs.ErrUnknownTypeHint, typeHint)
	}
}

func ingestList(v any) (tag.Tag, error) {
	items, ok := v.([]any)
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: expected array for type \"list\"", errs.ErrTypeMismatch)
	}

	return inferList(items)
}

func ingestCompound(v any) (tag.Tag, error) {
	obj, ok := v.(orderedObject)
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: expected object for type \"compound\"", errs.ErrTypeMismatch)
	}

	return inferCompound(obj)
}

func ingestInt(v any, bits int) (tag.Tag, error) {
	n, err := toInt64(v)
	if err != nil {
		return tag.Tag{}, err
	}

	switch bits {
	case 8:
		return tag.ByteTag(int8(n)), nil
	case 16:
		return tag.ShortTag(int16(n)), nil
	default:
		return tag.IntTag(int32(n)), nil
	}
}

func ingestFloat(v any, bits int) (tag.Tag, error) {
	var s string
	switch x := v.(type) {
	case json.Number:
		s = string(x)
	case string:
		s = x
	default:
		return tag.Tag{}, fmt.Errorf("%w: expected number for float/double", errs.ErrTypeMismatch)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("tagforge: invalid json float %q: %w", s, err)
	}
	if bits == 32 {
		return tag.FloatTag(float32(f)), nil
	}

	return tag.DoubleTag(f), nil
}

func ingestByteArray(v any) (tag.Tag, error) {
	items, ok := v.([]any)
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: expected array for type \"byte_array\"", errs.ErrTypeMismatch)
	}

	out := make([]byte, len(items))
	for i, it := range items {
		n, err := toInt64(it)
		if err != nil {
			return tag.Tag{}, err
		}
		out[i] = byte(n) //nolint:gosec
	}

	return tag.ByteArrayTag(out), nil
}

func ingestIntArray(v any) (tag.Tag, error) {
	items, ok := v.([]any)
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: expected array for type \"int_array\"", errs.ErrTypeMismatch)
	}

	out := make([]int32, len(items))
	for i, it := range items {
		n, err := toInt64(it)
		if err != nil {
			return tag.Tag{}, err
		}
		out[i] = int32(n) //nolint:gosec
	}

	return tag.IntArrayTag(out), nil
}

func ingestLongArray(v any) (tag.Tag, error) {
	items, ok := v.([]any)
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: expected array for type \"long_array\"", errs.ErrTypeMismatch)
	}

	out := make([]int64, len(items))
	for i, it := range items {
		n, err := toInt64(it)
		if err != nil {
			return tag.Tag{}, err
		}
		out[i] = n
	}

	return tag.LongArrayTag(out), nil
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		return strconv.ParseInt(string(x), 10, 64)
	case string:
		return strconv.ParseInt(x, 10, 64)
	default:
		return 0, fmt.Errorf("%w: expected integer", errs.ErrTypeMismatch)
	}
}

// inferNative promotes a JSON-decoded value to a Tag following spec.md
// §4.C's native-value inference table, the same rule JSON ingest falls
// back to for every nested value and for any document with no explicit
// "type".
func inferNative(v any) (tag.Tag, error) {
	switch x := v.(type) {
	case nil:
		return tag.StringTag("<nil>"), nil
	case bool:
		if x {
			return tag.ByteTag(1), nil
		}

		return tag.ByteTag(0), nil
	case string:
		return tag.StringTag(x), nil
	case json.Number:
		return inferNumber(x)
	case []any:
		return inferList(x)
	case orderedObject:
		return inferCompound(x)
	default:
		return tag.StringTag(fmt.Sprintf("%v", v)), nil
	}
}

func inferNumber(n json.Number) (tag.Tag, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if iv, err := strconv.ParseInt(s, 10, 64); err == nil {
			return classifyInt(iv), nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("tagforge: invalid json number %q: %w", s, err)
	}

	return tag.DoubleTag(f), nil
}

func classifyInt(n int64) tag.Tag {
	switch {
	case n >= -128 && n <= 127:
		return tag.ByteTag(int8(n))
	case n >= -32768 && n <= 32767:
		return tag.ShortTag(int16(n))
	case n >= -(1<<31) && n <= (1<<31)-1:
		return tag.IntTag(int32(n))
	default:
		return tag.LongTag(n)
	}
}

func inferList(items []any) (tag.Tag, error) {
	tags := make([]tag.Tag, len(items))

	var elem format.Variant
	for i, it := range items {
		tt, err := inferNative(it)
		if err != nil {
			return tag.Tag{}, err
		}
		if i == 0 {
			elem = tt.Variant()
		}
		tags[i] = tt
	}

	return tag.ListTag(elem, tags)
}

func inferCompound(obj orderedObject) (tag.Tag, error) {
	c := tag.NewCompound()
	for _, e := range obj {
		tt, err := inferNative(e.Value)
		if err != nil {
			return tag.Tag{}, fmt.Errorf("key %q: %w", e.Key, err)
		}
		c.Set(e.Key, tt)
	}

	return tag.CompoundTag(c), nil
}
