package region

import (
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/tagforge/tagforge/tag"
)

// ChunkReadError reports a single chunk's parse failure during a
// tolerant load (spec.md §7): the reader attaches it to the archive
// instead of aborting the rest of the file.
type ChunkReadError struct {
	X, Z  int32
	Cause error
}

func (e *ChunkReadError) Error() string {
	return fmt.Sprintf("tagforge: chunk (%d, %d): %v", e.X, e.Z, e.Cause)
}

func (e *ChunkReadError) Unwrap() error { return e.Cause }

// Archive is an in-memory or lazily-backed Region-Archive (spec.md §4.D).
// The zero value is not usable; construct one with New or via Load /
// LoadLazy.
//
// An Archive's mutex protects the presence/materialization bookkeeping so
// concurrent GetChunk calls on distinct coordinates are safe (spec.md §8
// property 9); it does not make concurrent writes to the same coordinate
// defined — callers still serialize those (spec.md §5).
type Archive struct {
	mu sync.Mutex

	present      [SlotCount]bool
	materialized [SlotCount]bool
	trees        [SlotCount]tag.Tag
	timestamps   [SlotCount]uint32
	locations    [SlotCount]location
	payloadLens  [SlotCount]uint32 // chunk blob payload_length, for Stats

	order []int // slot indices in first-populated order; Save's iteration order

	diagnostics map[int]*ChunkReadError

	source ByteSource // non-nil only for lazily-loaded archives
	closed bool
}

// New creates an empty, fully in-memory Archive.
func New() *Archive {
	return &Archive{diagnostics: make(map[int]*ChunkReadError)}
}

func (a *Archive) markPresent(slot int) {
	if !a.present[slot] {
		a.present[slot] = true
		a.order = append(a.order, slot)
	}
}

// SetChunk stores tree at (x, z), normalizing the coordinate, and
// updates that slot's timestamp to the current wall-clock second
// (spec.md §4.D).
func (a *Archive) SetChunk(x, z int32, tree tag.Tag) {
	nx, nz := normalizeCoord(x, z)
	slot := slotIndex(nx, nz)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.markPresent(slot)
	a.materialized[slot] = true
	a.trees[slot] = tree
	a.timestamps[slot] = uint32(time.Now().Unix()) //nolint:gosec
	delete(a.diagnostics, slot)
}

// GetChunk returns the tree stored at (x, z) after coordinate
// normalization (spec.md §8 property 8), materializing it from the
// backing byte source on first access if the archive was lazily loaded.
func (a *Archive) GetChunk(x, z int32) (tag.Tag, bool) {
	nx, nz := normalizeCoord(x, z)
	slot := slotIndex(nx, nz)

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.getChunkLocked(slot)
}

func (a *Archive) getChunkLocked(slot int) (tag.Tag, bool) {
	if !a.present[slot] {
		return tag.Tag{}, false
	}

	if !a.materialized[slot] {
		if err := a.materializeLocked(slot); err != nil {
			a.diagnostics[slot] = &ChunkReadError{
				X:     int32(slot % GridSize),
				Z:     int32(slot / GridSize),
				Cause: err,
			}

			return tag.Tag{}, false
		}
	}

	return a.trees[slot], true
}

// GetChunkAsync is GetChunk under a name matching spec.md §6's external
// interface list. Materialization is a blocking call either way; callers
// wanting concurrency run it from their own goroutine, which is safe for
// distinct coordinates (spec.md §8 property 9).
func (a *Archive) GetChunkAsync(x, z int32) (tag.Tag, bool) {
	return a.GetChunk(x, z)
}

// RemoveChunk deletes the chunk at (x, z) and reports whether it was
// present.
func (a *Archive) RemoveChunk(x, z int32) bool {
	nx, nz := normalizeCoord(x, z)
	slot := slotIndex(nx, nz)

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.present[slot] {
		return false
	}

	a.present[slot] = false
	a.materialized[slot] = false
	a.trees[slot] = tag.Tag{}
	a.timestamps[slot] = 0
	a.locations[slot] = location{}
	delete(a.diagnostics, slot)

	for i, s := range a.order {
		if s == slot {
			a.order = append(a.order[:i], a.order[i+1:]...)

			break
		}
	}

	return true
}

// ChunkCount returns the number of populated slots.
func (a *Archive) ChunkCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.order)
}

// Diagnostics returns the per-chunk read errors accumulated by Load or by
// lazy materialization, in no particular order.
func (a *Archive) Diagnostics() []*ChunkReadError {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*ChunkReadError, 0, len(a.diagnostics))
	for _, d := range a.diagnostics {
		out = append(out, d)
	}

	return out
}

// AllChunks iterates populated chunks in the archive's iteration order —
// first-populated order, the same order Save linearizes into sectors
// (spec.md §9 open question 1). Chunks that fail to materialize (lazy
// mode, corrupt backing store) are skipped; see Diagnostics.
func (a *Archive) AllChunks() iter.Seq2[[2]int32, tag.Tag] {
	return func(yield func([2]int32, tag.Tag) bool) {
		a.mu.Lock()
		order := make([]int, len(a.order))
		copy(order, a.order)
		a.mu.Unlock()

		for _, slot := range order {
			a.mu.Lock()
			tree, ok := a.getChunkLocked(slot)
			a.mu.Unlock()

			if !ok {
				continue
			}

			coord := [2]int32{int32(slot % GridSize), int32(slot / GridSize)}
			if !yield(coord, tree) {
				return
			}
		}
	}
}

// RegionBounds returns the smallest axis-aligned box covering every
// populated slot's normalized coordinate, or ok=false if the archive has
// no chunks.
func (a *Archive) RegionBounds() (minX, minZ, maxX, maxZ int32, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.order) == 0 {
		return 0, 0, 0, 0, false
	}

	minX, minZ = GridSize, GridSize
	maxX, maxZ = -1, -1

	for _, slot := range a.order {
		x, z := int32(slot%GridSize), int32(slot/GridSize)
		if x < minX {
			minX = x
		}
		if z < minZ {
			minZ = z
		}
		if x > maxX {
			maxX = x
		}
		if z > maxZ {
			maxZ = z
		}
	}

	return minX, minZ, maxX, maxZ, true
}

// Timestamp returns the last-write timestamp (Unix seconds) recorded for
// (x, z), or 0 if the slot is empty.
func (a *Archive) Timestamp(x, z int32) uint32 {
	nx, nz := normalizeCoord(x, z)
	slot := slotIndex(nx, nz)

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.timestamps[slot]
}
