package tag

import (
	"iter"

	"github.com/tagforge/tagforge/internal/keyindex"
)

// Entry is one named child of a Compound, exposed for callers that need the
// name alongside its Tag (Keys+Get is more convenient for everyone else).
type Entry struct {
	Name  string
	Value Tag
}

// Compound is an insertion-ordered mapping from String to Tag (spec.md §3:
// "mapping from String to Tag, insertion order observable"). It is backed
// by a slice of entries plus an internal/keyindex hash index (xxhash64 of
// the key) for O(1) average lookup, with the same collision-tolerant
// linear-scan fallback mebo's metric-name index uses (SPEC_FULL §4.A).
type Compound struct {
	entries []Entry
	index   *keyindex.Index
}

// NewCompound creates an empty Compound.
func NewCompound() *Compound {
	return &Compound{index: keyindex.New()}
}

func (c *Compound) nameAt(pos int) string { return c.entries[pos].Name }

// Set inserts or overwrites the value for name. A duplicate insertion
// overwrites the existing value while preserving its original position
// (spec.md §3: "duplicate insertion overwrites").
func (c *Compound) Set(name string, v Tag) {
	if i, ok := c.index.Lookup(name, c.nameAt); ok {
		c.entries[i].Value = v

		return
	}

	c.index.Insert(name, len(c.entries))
	c.entries = append(c.entries, Entry{Name: name, Value: v})
}

// Get returns the tag named name, or the zero Tag and false if absent.
func (c *Compound) Get(name string) (Tag, bool) {
	i, ok := c.index.Lookup(name, c.nameAt)
	if !ok {
		return Tag{}, false
	}

	return c.entries[i].Value, true
}

// Delete removes the entry named name, reports whether it was present, and
// preserves the relative order of the remaining entries.
func (c *Compound) Delete(name string) bool {
	i, ok := c.index.Lookup(name, c.nameAt)
	if !ok {
		return false
	}

	c.index.Remove(name, i)
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	c.index.ShiftFrom(i, -1)

	return true
}

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.entries) }

// Keys returns the entry names in insertion order.
func (c *Compound) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Name
	}

	return keys
}

// Entries returns a copy of the ordered entry list.
func (c *Compound) Entries() []Entry {
	cp := make([]Entry, len(c.entries))
	copy(cp, c.entries)

	return cp
}

// All iterates entries in insertion order.
func (c *Compound) All() iter.Seq2[string, Tag] {
	return func(yield func(string, Tag) bool) {
		for _, e := range c.entries {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}

// Clone deep-copies c and every nested subtree.
func (c *Compound) Clone() *Compound {
	out := &Compound{
		entries: make([]Entry, len(c.entries)),
		index:   c.index.Clone(),
	}
	for i, e := range c.entries {
		out.entries[i] = Entry{Name: e.Name, Value: e.Value.Clone()}
	}

	return out
}

// Equal reports whether c and other hold the same entries in the same
// order.
func (c *Compound) Equal(other *Compound) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.entries) != len(other.entries) {
		return false
	}
	for i := range c.entries {
		if c.entries[i].Name != other.entries[i].Name {
			return false
		}
		if !c.entries[i].Value.Equal(other.entries[i].Value) {
			return false
		}
	}

	return true
}
