// Package path implements the Path Editor (spec.md §4.C): addressed
// read/write access to a tag.Tag tree via a dot-separated string, plus
// construction helpers that type-infer native Go values into tags.
package path

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tagforge/tagforge/errs"
	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/tag"
)

// Segments splits a path string into its dot-separated parts. A numeric
// segment addresses a List index; any other segment addresses a Compound
// key (spec.md §4.C).
func Segments(path string) ([]string, error) {
	if path == "" {
		return nil, errs.ErrEmptyPath
	}

	return strings.Split(path, "."), nil
}

func isIndex(seg string) (int, bool) {
	n, err := strconv.Atoi(seg)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}

// Get returns the tag addressed by path within root, or false if any
// segment is missing or addresses the wrong container kind.
func Get(root tag.Tag, path string) (tag.Tag, bool) {
	segs, err := Segments(path)
	if err != nil {
		return tag.Tag{}, false
	}

	cur := root
	for _, seg := range segs {
		next, ok := step(cur, seg)
		if !ok {
			return tag.Tag{}, false
		}
		cur = next
	}

	return cur, true
}

func step(cur tag.Tag, seg string) (tag.Tag, bool) {
	if idx, isIdx := isIndex(seg); isIdx {
		items, ok := cur.ListItems()
		if !ok || idx >= len(items) {
			return tag.Tag{}, false
		}

		return items[idx], true
	}

	comp, ok := cur.AsCompound()
	if !ok {
		return tag.Tag{}, false
	}

	return comp.Get(seg)
}

// Set replaces the tag addressed by path within root. value may be a
// tag.Tag directly, or any native Go value accepted by Infer. All
// segments but the last must already exist and address a container;
// a missing segment fails with errs.ErrInvalidPath, a segment that is not
// the container its successor addresses fails with errs.ErrTypeMismatch,
// and a List index past the List's length fails with
// errs.ErrIndexOutOfBounds. The last segment is
// created (as a new Compound key, or by growing a List by exactly one
// when its index equals the List's current length) if it does not yet
// exist.
func Set(root tag.Tag, path string, value any) (tag.Tag, error) {
	segs, err := Segments(path)
	if err != nil {
		return tag.Tag{}, err
	}

	v, ok := value.(tag.Tag)
	if !ok {
		v, err = Infer(value)
		if err != nil {
			return tag.Tag{}, err
		}
	}

	return setAt(root, segs, v)
}

func setAt(cur tag.Tag, segs []string, value tag.Tag) (tag.Tag, error) {
	seg := segs[0]
	last := len(segs) == 1

	if idx, isIdx := isIndex(seg); isIdx {
		items, ok := cur.ListItems()
		if !ok {
			return tag.Tag{}, fmt.Errorf("%w: segment %q does not address a List", errs.ErrTypeMismatch, seg)
		}
		elem, _ := cur.ListElem()

		switch {
		case last && idx < len(items):
			newItems := append([]tag.Tag(nil), items...)
			newItems[idx] = value

			return tag.ListTag(elem, newItems)
		case last && idx == len(items):
			return tag.ListTag(elem, append(append([]tag.Tag(nil), items...), value))
		case !last && idx < len(items):
			child, err := setAt(items[idx], segs[1:], value)
			if err != nil {
				return tag.Tag{}, err
			}
			newItems := append([]tag.Tag(nil), items...)
			newItems[idx] = child

			return tag.ListTag(elem, newItems)
		default:
			return tag.Tag{}, fmt.Errorf("%w: index %d out of bounds", errs.ErrIndexOutOfBounds, idx)
		}
	}

	comp, ok := cur.AsCompound()
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: segment %q does not address a Compound", errs.ErrTypeMismatch, seg)
	}

	if last {
		comp.Set(seg, value)

		return tag.CompoundTag(comp), nil
	}

	child, ok := comp.Get(seg)
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: segment %q does not exist", errs.ErrInvalidPath, seg)
	}

	newChild, err := setAt(child, segs[1:], value)
	if err != nil {
		return tag.Tag{}, err
	}
	comp.Set(seg, newChild)

	return tag.CompoundTag(comp), nil
}

// CreateCompound builds a Compound tag from entries, type-inferring every
// value via Infer (values that are already tag.Tag pass through
// untouched). A Go map has no insertion order for CreateCompound to
// preserve, so keys are sorted before insertion — giving a deterministic,
// reproducible Compound (spec.md §3's order-observable invariant applies
// to Compounds built this way just like any other) instead of whatever
// order Go's map iteration happens to produce on a given run.
func CreateCompound(entries map[string]any) (tag.Tag, error) {
	c := tag.NewCompound()

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := entries[k]

		t, ok := v.(tag.Tag)
		if !ok {
			var err error
			t, err = Infer(v)
			if err != nil {
				return tag.Tag{}, fmt.Errorf("key %q: %w", k, err)
			}
		}
		c.Set(k, t)
	}

	return tag.CompoundTag(c), nil
}

// CreateList builds a List tag from items, type-inferring each via Infer.
// If elemVariant is format.End, the element-variant is inferred from
// item 0. Heterogeneous inputs fail with errs.ErrListTypeMismatch.
func CreateList(items []any, elemVariant format.Variant) (tag.Tag, error) {
	tags := make([]tag.Tag, len(items))

	for i, v := range items {
		t, ok := v.(tag.Tag)
		if !ok {
			var err error
			t, err = Infer(v)
			if err != nil {
				return tag.Tag{}, fmt.Errorf("item %d: %w", i, err)
			}
		}
		tags[i] = t
	}

	elem := elemVariant
	if elem == format.End && len(tags) > 0 {
		elem = tags[0].Variant()
	}

	return tag.ListTag(elem, tags)
}
