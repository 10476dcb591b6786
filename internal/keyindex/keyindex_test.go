package keyindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertAndLookup(t *testing.T) {
	ix := New()
	names := []string{"x", "y", "z"}
	ix.Insert("x", 0)
	ix.Insert("y", 1)
	ix.Insert("z", 2)

	resolve := func(pos int) string { return names[pos] }

	pos, ok := ix.Lookup("y", resolve)
	assert.True(t, ok)
	assert.Equal(t, 1, pos)

	_, ok = ix.Lookup("missing", resolve)
	assert.False(t, ok)
}

func TestRemoveAndShift(t *testing.T) {
	ix := New()
	names := []string{"a", "b", "c"}
	for i, n := range names {
		ix.Insert(n, i)
	}

	ix.Remove("a", 0)
	ix.ShiftFrom(1, -1)

	remaining := []string{"b", "c"}
	resolve := func(pos int) string { return remaining[pos] }

	pos, ok := ix.Lookup("b", resolve)
	assert.True(t, ok)
	assert.Equal(t, 0, pos)

	pos, ok = ix.Lookup("c", resolve)
	assert.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestClone_Independent(t *testing.T) {
	ix := New()
	ix.Insert("a", 0)

	cp := ix.Clone()
	cp.Insert("b", 1)

	resolve := func(pos int) string { return []string{"a", "b"}[pos] }
	_, ok := ix.Lookup("b", resolve)
	assert.False(t, ok)

	_, ok = cp.Lookup("b", resolve)
	assert.True(t, ok)
}
