// Package keyindex provides a hash-indexed position lookup for
// insertion-ordered, string-keyed collections. It maps an arbitrary string
// key to a dense slice position via xxhash64, falling back to a linear
// scan among same-hash candidates on collision — the same shape of
// problem as mapping a metric name to a dense id, grounded on mebo's
// internal/hash + internal/collision pair.
package keyindex

import "github.com/tagforge/tagforge/internal/fingerprint"

// Index is not safe for concurrent use; callers serialize access the way
// tag.Compound does.
type Index struct {
	buckets map[uint64][]int
}

// New creates an empty Index.
func New() *Index {
	return &Index{buckets: make(map[uint64][]int)}
}

// Insert records that key lives at pos.
func (ix *Index) Insert(key string, pos int) {
	h := fingerprint.OfString(key)
	ix.buckets[h] = append(ix.buckets[h], pos)
}

// Lookup returns the position whose resolve(pos) equals key, among the
// candidates sharing key's hash, or ok=false if none match.
func (ix *Index) Lookup(key string, resolve func(pos int) string) (pos int, ok bool) {
	h := fingerprint.OfString(key)
	for _, p := range ix.buckets[h] {
		if resolve(p) == key {
			return p, true
		}
	}

	return 0, false
}

// Remove drops the (key, pos) pair from the index.
func (ix *Index) Remove(key string, pos int) {
	h := fingerprint.OfString(key)
	cands := ix.buckets[h]
	for i, p := range cands {
		if p == pos {
			ix.buckets[h] = append(cands[:i], cands[i+1:]...)

			return
		}
	}
}

// ShiftFrom adds delta to every stored position >= from. Callers use this
// after splicing an entry out of the backing slice to keep every other
// entry's recorded position correct.
func (ix *Index) ShiftFrom(from, delta int) {
	for h, cands := range ix.buckets {
		for i, p := range cands {
			if p >= from {
				cands[i] = p + delta
			}
		}
		ix.buckets[h] = cands
	}
}

// Clone deep-copies the index.
func (ix *Index) Clone() *Index {
	out := &Index{buckets: make(map[uint64][]int, len(ix.buckets))}
	for h, cands := range ix.buckets {
		cp := make([]int, len(cands))
		copy(cp, cands)
		out.buckets[h] = cp
	}

	return out
}
