// Package tbf implements the Tagged Binary Format codec: a big-endian
// reader and writer for the wire format described in spec.md §4.B, plus the
// gzip wrapper used for the ".dat"-equivalent file format.
package tbf

import "github.com/tagforge/tagforge/tag"

// Document is a top-level Tag together with its outer name (spec.md §3:
// "a Tag ... with an outer name, typically empty"). The root is
// conventionally a Compound, but the wire format does not require it.
type Document struct {
	Name string
	Root tag.Tag
}

// Equal reports whether two documents are structurally identical, including
// the outer name.
func (d Document) Equal(other Document) bool {
	return d.Name == other.Name && d.Root.Equal(other.Root)
}
