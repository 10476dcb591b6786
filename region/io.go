package region

import (
	"fmt"

	"github.com/tagforge/tagforge/compress"
	"github.com/tagforge/tagforge/errs"
	"github.com/tagforge/tagforge/format"
	"github.com/tagforge/tagforge/tag"
	"github.com/tagforge/tagforge/tbf"
)

var tagZero = tag.Tag{}

func readHeaders(source ByteSource) (locations [SlotCount]location, timestamps [SlotCount]uint32, err error) {
	header := make([]byte, 2*SectorSize)
	if _, err := source.ReadAt(header, 0); err != nil {
		return locations, timestamps, fmt.Errorf("tagforge: reading region header: %w", err)
	}

	for i := range SlotCount {
		off := i * 4
		v := uint32(header[off])<<24 | uint32(header[off+1])<<16 | uint32(header[off+2])<<8 | uint32(header[off+3])
		locations[i] = unpackLocation(v)
	}

	for i := range SlotCount {
		tsOff := SectorSize + i*4
		v := uint32(header[tsOff])<<24 | uint32(header[tsOff+1])<<16 | uint32(header[tsOff+2])<<8 | uint32(header[tsOff+3])
		timestamps[i] = v
	}

	return locations, timestamps, nil
}

// Load eagerly parses a complete Region-Archive from data: both header
// tables are read and every populated slot is decompressed and parsed
// immediately. A per-chunk failure is recorded as a diagnostic on the
// returned Archive rather than aborting the rest of the file (spec.md
// §7's tolerant reader contract).
func Load(data []byte) (*Archive, error) {
	return LoadLazy(NewBytesSource(data), true)
}

// LoadLazy builds an Archive backed by source. When eager is false, chunk
// trees are materialized on first GetChunk per slot (spec.md §4.D's lazy
// mode); when eager is true, every populated slot is materialized
// immediately (used by Load).
func LoadLazy(source ByteSource, eager bool) (*Archive, error) {
	locations, timestamps, err := readHeaders(source)
	if err != nil {
		return nil, err
	}

	a := &Archive{
		diagnostics: make(map[int]*ChunkReadError),
		source:      source,
		locations:   locations,
		timestamps:  timestamps,
	}

	for slot := range SlotCount {
		if !locations[slot].empty() {
			a.markPresent(slot)
		}
	}

	if eager {
		for _, slot := range a.order {
			a.mu.Lock()
			_, _ = a.getChunkLocked(slot)
			a.mu.Unlock()
		}
	}

	return a, nil
}

// LoadFile opens path and eagerly parses it as a Region-Archive.
func LoadFile(path string) (*Archive, error) {
	src, err := OpenFileSource(path)
	if err != nil {
		return nil, err
	}

	return LoadLazy(src, true)
}

// LoadLazyFile opens path and builds a lazily-materializing Archive backed
// by it. The returned Archive's Close releases the file descriptor.
func LoadLazyFile(path string) (*Archive, error) {
	src, err := OpenFileSource(path)
	if err != nil {
		return nil, err
	}

	return LoadLazy(src, false)
}

// materializeLocked reads and parses the chunk at slot from a.source. The
// caller must hold a.mu.
func (a *Archive) materializeLocked(slot int) error {
	if a.source == nil {
		return errs.ErrChunkNotPresent
	}
	if a.closed {
		return errs.ErrArchiveClosed
	}

	loc := a.locations[slot]
	if loc.empty() {
		return errs.ErrChunkNotPresent
	}
	if err := validateSectorOffset(loc.sectorOffset); err != nil {
		return err
	}

	blobOff := int64(loc.sectorOffset) * SectorSize
	header := make([]byte, ChunkHeaderSize)
	if _, err := a.source.ReadAt(header, blobOff); err != nil {
		return fmt.Errorf("tagforge: reading chunk header: %w", err)
	}

	payloadLen := uint32(header[0])<<24 | uint32(header[1])<<16 | uint32(header[2])<<8 | uint32(header[3])
	comp := format.ChunkCompression(header[4])
	if !comp.Valid() {
		return errs.ErrInvalidCompress
	}
	if payloadLen == 0 {
		return fmt.Errorf("%w: zero payload length", errs.ErrInvalidCompress)
	}

	payload := make([]byte, payloadLen-1)
	if _, err := a.source.ReadAt(payload, blobOff+ChunkHeaderSize); err != nil {
		return fmt.Errorf("tagforge: reading chunk payload: %w", err)
	}

	codec, err := compress.CodecForChunk(comp)
	if err != nil {
		return err
	}

	raw, err := codec.Decompress(payload)
	if err != nil {
		return fmt.Errorf("tagforge: decompressing chunk: %w", err)
	}

	doc, _, err := tbf.Read(raw)
	if err != nil {
		return fmt.Errorf("tagforge: parsing chunk TBF: %w", err)
	}

	a.trees[slot] = doc.Root
	a.materialized[slot] = true
	a.payloadLens[slot] = payloadLen

	return nil
}

// ClearCache discards every lazily materialized chunk tree, keeping the
// header tables so a subsequent GetChunk re-reads and re-parses from the
// backing byte source (spec.md §8 scenario S6).
func (a *Archive) ClearCache() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.source == nil {
		return
	}

	for _, slot := range a.order {
		a.materialized[slot] = false
		a.trees[slot] = tagZero
	}
}

// Close releases the archive's backing byte source if it implements
// io.Closer (e.g. FileSource), and marks the archive closed: further
// materialization attempts fail with errs.ErrArchiveClosed.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true

	if closer, ok := a.source.(interface{ Close() error }); ok {
		return closer.Close()
	}

	return nil
}
