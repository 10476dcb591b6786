package region

import (
	"github.com/tagforge/tagforge/internal/dedup"
	"github.com/tagforge/tagforge/internal/fingerprint"
	"github.com/tagforge/tagforge/tbf"
)

// DuplicatePair reports two chunk coordinates whose serialized forms
// fingerprinted identically (SPEC_FULL §3.6). Confirmed reports whether
// the two serialized forms are also byte-for-byte identical;
// DuplicateChunks fills it in for every pair, since it has both in hand.
type DuplicatePair struct {
	First, Second [2]int32
	Confirmed     bool
}

// DuplicateChunks scans every populated chunk, fingerprinting its
// serialized TBF bytes with internal/fingerprint and tracking candidates
// with internal/dedup.Tracker. Every hash-matching candidate pair is
// reported; its serialized bytes are compared and the result is stored in
// Confirmed, so a pair from a 64-bit hash collision is returned with
// Confirmed set to false.
func (a *Archive) DuplicateChunks() ([]DuplicatePair, error) {
	tracker := dedup.NewTracker[[2]int32]()
	trees := make(map[[2]int32][]byte)
	var pairs []DuplicatePair

	for coord, tree := range a.AllChunks() {
		raw, err := tbf.Write(tbf.Document{Root: tree})
		if err != nil {
			return nil, err
		}

		h := fingerprint.Of(raw)
		trees[coord] = raw

		existing, isCandidate := tracker.Track(h, coord)
		if !isCandidate {
			continue
		}

		pairs = append(pairs, DuplicatePair{
			First:     existing,
			Second:    coord,
			Confirmed: bytesEqual(trees[existing], raw),
		})
	}

	return pairs, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
