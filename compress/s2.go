package compress

import "github.com/klauspost/compress/s2"

// S2Codec backs the "fast streaming" option of the archive bundle exporter
// (SPEC_FULL §3.4), adapted directly from mebo's S2Compressor.
type S2Codec struct{}

var _ Codec = S2Codec{}

// NewS2Codec creates an S2 codec.
func NewS2Codec() S2Codec { return S2Codec{} }

// Compress s2-compresses data.
func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress s2-decompresses data.
func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
