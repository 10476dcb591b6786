package region

import (
	"fmt"
	"time"

	"github.com/tagforge/tagforge/compress"
	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/internal/pool"
	"github.com/tagforge/tagforge/tbf"
)

// Save linearizes the archive's populated chunks into a Region-Archive
// byte buffer, following spec.md §4.D's writer contract exactly:
//
//  1. serialize each chunk to TBF bytes
//  2. compress with zlib
//  3. compute its sector count
//  4. assign sectors contiguously starting at sector 2, in the archive's
//     iteration order (not (x, z) order — spec.md §9 open question 1)
//  5. write the location and timestamp tables
//  6. write each chunk blob, zero-padded to its sector boundary
//
// Save is strict: any chunk that fails to materialize or serialize
// aborts the whole write, returning an error, and produces no output
// (spec.md §7: "Writers are strict").
func (a *Archive) Save() ([]byte, error) {
	a.mu.Lock()
	order := make([]int, len(a.order))
	copy(order, a.order)
	a.mu.Unlock()

	type blob struct {
		slot       int
		compressed []byte
	}

	blobs := make([]blob, 0, len(order))
	zlibCodec := compress.NewZlibCodec()

	for _, slot := range order {
		a.mu.Lock()
		tree, ok := a.getChunkLocked(slot)
		a.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("tagforge: chunk at slot %d could not be materialized for save", slot)
		}

		raw, err := tbf.Write(tbf.Document{Root: tree})
		if err != nil {
			return nil, fmt.Errorf("tagforge: serializing chunk at slot %d: %w", slot, err)
		}

		compressed, err := zlibCodec.Compress(raw)
		if err != nil {
			return nil, fmt.Errorf("tagforge: compressing chunk at slot %d: %w", slot, err)
		}

		blobs = append(blobs, blob{slot: slot, compressed: compressed})
	}

	var locations [SlotCount]location
	var timestamps [SlotCount]uint32
	var payloadLens [SlotCount]uint32

	sector := uint32(firstDataSector)
	now := uint32(time.Now().Unix()) //nolint:gosec

	for _, b := range blobs {
		payloadLen := len(b.compressed) + 1 // + the trailing compression byte
		count := sectorsForPayload(payloadLen)

		locations[b.slot] = location{sectorOffset: sector, sectorCount: uint8(count)} //nolint:gosec
		payloadLens[b.slot] = uint32(payloadLen)                                      //nolint:gosec

		ts := a.timestamps[b.slot]
		if ts == 0 {
			ts = now
		}
		timestamps[b.slot] = ts

		sector += uint32(count) //nolint:gosec
	}

	out := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(out)

	out.ExtendOrGrow(2 * SectorSize)

	for i := range SlotCount {
		off := i * 4
		v := locations[i].pack()
		out.B[off] = byte(v >> 24)
		out.B[off+1] = byte(v >> 16)
		out.B[off+2] = byte(v >> 8)
		out.B[off+3] = byte(v)
	}

	for i := range SlotCount {
		off := SectorSize + i*4
		v := timestamps[i]
		out.B[off] = byte(v >> 24)
		out.B[off+1] = byte(v >> 16)
		out.B[off+2] = byte(v >> 8)
		out.B[off+3] = byte(v)
	}

	for _, b := range blobs {
		loc := locations[b.slot]
		blobOff := int(loc.sectorOffset) * SectorSize
		blobEnd := blobOff + int(loc.sectorCount)*SectorSize

		prevLen := out.Len()
		out.ExtendOrGrow(blobEnd - prevLen)
		// ExtendOrGrow may hand back a pooled buffer whose backing array
		// still holds a previous save's bytes past its old length; zero
		// the newly exposed region so unwritten padding is never stale.
		clear(out.B[prevLen:])

		payloadLen := uint32(len(b.compressed) + 1) //nolint:gosec
		out.B[blobOff] = byte(payloadLen >> 24)
		out.B[blobOff+1] = byte(payloadLen >> 16)
		out.B[blobOff+2] = byte(payloadLen >> 8)
		out.B[blobOff+3] = byte(payloadLen)
		out.B[blobOff+4] = byte(format.ChunkZlib)
		copy(out.B[blobOff+ChunkHeaderSize:], b.compressed)
		// The slice between the payload's end and blobEnd is already
		// zero from the clear call above, satisfying
		// spec.md §8 property 6's "all padding bytes are zero".
	}

	result := make([]byte, out.Len())
	copy(result, out.Bytes())

	a.mu.Lock()
	a.locations = locations
	a.timestamps = timestamps
	a.payloadLens = payloadLens
	a.mu.Unlock()

	return result, nil
}
