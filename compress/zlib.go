package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ZlibCodec implements format.ChunkZlib / format.CompressionZlib, the
// compression code Region-Archive's writer uses for every chunk it saves
// (spec.md §4.D step 2).
type ZlibCodec struct{}

var _ Codec = ZlibCodec{}

// NewZlibCodec creates a zlib codec.
func NewZlibCodec() ZlibCodec { return ZlibCodec{} }

// Compress zlib-compresses data.
func (ZlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress zlib-decompresses data.
func (ZlibCodec) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
