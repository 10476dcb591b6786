package region

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tagforge/tagforge/compress"
	"github.com/tagforge/tagforge/format"
)

// WriteBundle concatenates each archive's Save() output, length-prefixed,
// into one stream compressed with codec (SPEC_FULL §3.4). This never
// touches the bit-exact per-archive layout of spec.md §4.D; it is purely
// a transport convenience for shipping many region files as one object.
func WriteBundle(w io.Writer, archives []*Archive, codec compress.Codec) error {
	var raw []byte
	raw = binary.BigEndian.AppendUint32(raw, uint32(len(archives))) //nolint:gosec

	for _, a := range archives {
		data, err := a.Save()
		if err != nil {
			return fmt.Errorf("tagforge: bundling archive: %w", err)
		}
		raw = binary.BigEndian.AppendUint32(raw, uint32(len(data))) //nolint:gosec
		raw = append(raw, data...)
	}

	compressed, err := codec.Compress(raw)
	if err != nil {
		return fmt.Errorf("tagforge: compressing bundle: %w", err)
	}

	_, err = w.Write(compressed)

	return err
}

// ReadBundle decompresses a stream produced by WriteBundle and returns
// each archive, eagerly loaded.
func ReadBundle(r io.Reader, codec compress.Codec) ([]*Archive, error) {
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	raw, err := codec.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("tagforge: decompressing bundle: %w", err)
	}

	if len(raw) < 4 {
		return nil, fmt.Errorf("tagforge: bundle header truncated")
	}
	count := binary.BigEndian.Uint32(raw)
	raw = raw[4:]

	archives := make([]*Archive, 0, count)
	for range count {
		if len(raw) < 4 {
			return nil, fmt.Errorf("tagforge: bundle entry length truncated")
		}
		n := binary.BigEndian.Uint32(raw)
		raw = raw[4:]

		if uint64(len(raw)) < uint64(n) {
			return nil, fmt.Errorf("tagforge: bundle entry truncated")
		}
		entry := raw[:n]
		raw = raw[n:]

		a, err := Load(entry)
		if err != nil {
			return nil, fmt.Errorf("tagforge: loading bundled archive: %w", err)
		}
		archives = append(archives, a)
	}

	return archives, nil
}

// CodecForFormat is a convenience wrapper over compress.CreateCodec for
// bundle callers that already hold a format.CompressionType (e.g. from a
// CLI flag or config file) rather than a constructed Codec.
func CodecForFormat(t format.CompressionType) (compress.Codec, error) {
	return compress.CreateCodec(t, "bundle")
}
