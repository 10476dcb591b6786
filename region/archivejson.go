package region

import (
	"encoding/json"
	"fmt"

	"github.com/tagforge/tagforge/jsonview"
	"github.com/tagforge/tagforge/tbf"
)

// chunkJSON is one entry of an archive's JSON view: its coordinate, last
// write timestamp, and its tree erased through the jsonview codec (spec.md
// §6 RegionArchive::to_json/from_json).
type chunkJSON struct {
	X         int32           `json:"x"`
	Z         int32           `json:"z"`
	Timestamp uint32          `json:"timestamp"`
	Doc       json.RawMessage `json:"doc"`
}

// ToJSON renders every present chunk as a JSON array, in the archive's
// iteration order (spec.md §9 open question 1), with each chunk's tree
// shaped through jsonview.ToJSON so it survives the same Long/LongArray
// erasure a standalone Document does.
func (a *Archive) ToJSON() ([]byte, error) {
	entries := []chunkJSON{}
	for coord, tree := range a.AllChunks() {
		docBytes, err := jsonview.ToJSON(tbf.Document{Root: tree})
		if err != nil {
			return nil, fmt.Errorf("tagforge: archive to_json: chunk (%d,%d): %w", coord[0], coord[1], err)
		}

		entries = append(entries, chunkJSON{
			X:         coord[0],
			Z:         coord[1],
			Timestamp: a.Timestamp(coord[0], coord[1]),
			Doc:       docBytes,
		})
	}

	return json.Marshal(entries)
}

// ArchiveFromJSON is the inverse of (*Archive).ToJSON: it builds a fresh,
// fully in-memory Archive from a JSON array of chunk entries. Each restored
// chunk goes through SetChunk, so it receives a fresh write timestamp
// rather than the one recorded in data — matching set_chunk's
// always-bump-on-write semantics (spec.md §4.D) rather than silently
// forging a past write time.
func ArchiveFromJSON(data []byte) (*Archive, error) {
	var entries []chunkJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("tagforge: archive from_json: %w", err)
	}

	a := New()
	for _, e := range entries {
		doc, err := jsonview.FromJSON(e.Doc)
		if err != nil {
			return nil, fmt.Errorf("tagforge: archive from_json: chunk (%d,%d): %w", e.X, e.Z, err)
		}
		a.SetChunk(e.X, e.Z, doc.Root)
	}

	return a, nil
}
