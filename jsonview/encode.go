// Package jsonview implements the JSON-view codec (spec.md §4.E): a
// `{name, type, value}` erasure of a Document to native JSON, and its
// inverse via type inference (path.Infer's table) unless an explicit
// "type" hint is present.
package jsonview

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/tag"
	"github.com/tagforge/tagforge/tbf"
)

// kv is one entry of an orderedObject.
type kv struct {
	Key   string
	Value any
}

// orderedObject is a JSON object that marshals its entries in insertion
// order, preserving Compound's "insertion order observable" invariant
// (spec.md §3) through the JSON view — encoding/json's map[string]any does
// not make that guarantee.
type orderedObject []kv

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyBytes, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (o orderedObject) get(key string) (any, bool) {
	for _, e := range o {
		if e.Key == key {
			return e.Value, true
		}
	}

	return nil, false
}

// ToJSON renders doc as a `{name, type, value}` JSON view (spec.md §4.E).
// Long is erased to a JSON string to avoid precision loss; LongArray to an
// array of strings. Compound and List element order is preserved.
func ToJSON(doc tbf.Document) ([]byte, error) {
	view := orderedObject{
		{Key: "name", Value: doc.Name},
		{Key: "type", Value: typeName(doc.Root.Variant())},
		{Key: "value", Value: erase(doc.Root)},
	}

	return json.Marshal(view)
}

func typeName(v format.Variant) string {
	switch v {
	case format.Byte:
		return "byte"
	case format.Short:
		return "short"
	case format.Int:
		return "int"
	case format.Long:
		return "long"
	case format.Float:
		return "float"
	case format.Double:
		return "double"
	case format.ByteArray:
		return "byte_array"
	case format.String:
		return "string"
	case format.List:
		return "list"
	case format.Compound:
		return "compound"
	case format.IntArray:
		return "int_array"
	case format.LongArray:
		return "long_array"
	default:
		return "end"
	}
}

func erase(t tag.Tag) any {
	switch t.Variant() {
	case format.Byte:
		v, _ := t.AsByte()

		return int64(v)
	case format.Short:
		v, _ := t.AsShort()

		return int64(v)
	case format.Int:
		v, _ := t.AsInt()

		return int64(v)
	case format.Long:
		v, _ := t.AsLong()

		return strconv.FormatInt(v, 10)
	case format.Float:
		v, _ := t.AsFloat()

		return float64(v)
	case format.Double:
		v, _ := t.AsDouble()

		return v
	case format.ByteArray:
		return eraseByteArray(t)
	case format.String:
		v, _ := t.AsString()

		return v
	case format.List:
		return eraseList(t)
	case format.Compound:
		return eraseCompound(t)
	case format.IntArray:
		v, _ := t.AsIntArray()

		return v
	case format.LongArray:
		return eraseLongArray(t)
	default:
		return nil
	}
}

func eraseByteArray(t tag.Tag) []int64 {
	arr, _ := t.AsByteArray()
	out := make([]int64, len(arr))
	for i, v := range arr {
		out[i] = int64(int8(v)) //nolint:gosec
	}

	return out
}

func eraseLongArray(t tag.Tag) []string {
	arr, _ := t.AsLongArray()
	out := make([]string, len(arr))
	for i, v := range arr {
		out[i] = strconv.FormatInt(v, 10)
	}

	return out
}

func eraseList(t tag.Tag) []any {
	items, _ := t.ListItems()
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = erase(it)
	}

	return out
}

func eraseCompound(t tag.Tag) orderedObject {
	c, _ := t.AsCompound()
	out := make(orderedObject, 0, c.Len())
	for _, e := range c.Entries() {
		out = append(out, kv{Key: e.Name, Value: erase(e.Value)})
	}

	return out
}
