package path

import (
	"fmt"
	"reflect"

	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/tag"
)

// Infer promotes a native Go value to a tag.Tag following spec.md §4.C's
// type-inference table. Sequences and maps recurse; anything Infer does
// not recognize becomes a String of its fmt.Sprintf("%v", …) form rather
// than failing, matching the table's "null / unknown" row.
func Infer(v any) (tag.Tag, error) {
	if v == nil {
		return tag.StringTag("<nil>"), nil
	}

	switch x := v.(type) {
	case tag.Tag:
		return x, nil
	case bool:
		if x {
			return tag.ByteTag(1), nil
		}

		return tag.ByteTag(0), nil
	case string:
		return tag.StringTag(x), nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return inferInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return inferUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return tag.DoubleTag(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		return inferSequence(rv)
	case reflect.Map:
		return inferMap(rv)
	default:
		return tag.StringTag(fmt.Sprintf("%v", v)), nil
	}
}

func inferInt(n int64) tag.Tag {
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

func inferUint(n uint64) tag.Tag {
	if n <= (1<<63)-1 {
		return inferInt(int64(n)) //nolint:gosec
	}

	// Wider than any signed 64-bit range representable by this format;
	// truncate to the Long's bit pattern rather than fail outright, since
	// the table has no "wider than Long" row.
	return tag.LongTag(int64(n)) //nolint:gosec
}

func inferSequence(rv reflect.Value) (tag.Tag, error) {
	n := rv.Len()
	items := make([]any, n)
	for i := 0; i < n; i++ {
		items[i] = rv.Index(i).Interface()
	}

	return CreateList(items, format.End)
}

func inferMap(rv reflect.Value) (tag.Tag, error) {
	c := tag.NewCompound()

	iter := rv.MapRange()
	for iter.Next() {
		key := fmt.Sprintf("%v", iter.Key().Interface())
		val, err := Infer(iter.Value().Interface())
		if err != nil {
			return tag.Tag{}, fmt.Errorf("key %q: %w", key, err)
		}
		c.Set(key, val)
	}

	return tag.CompoundTag(c), nil
}
