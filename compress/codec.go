// Package compress provides the compression codecs used by the TBF gzip
// wrapper, the Region-Archive chunk header, and the archive bundle
// exporter. Three codecs (gzip, zlib, none) are wire-format-mandated;
// lz4, zstd, and s2 exist only for the bundle exporter (SPEC_FULL §3.4) and
// never appear inside a Region-Archive chunk header.
package compress

import (
	"fmt"

	"github.com/tagforge/tagforge/format"
)

// Compressor compresses a byte slice.
//
// Memory management: the returned slice is owned by the caller and the
// input slice is never modified. The returned slice is newly allocated,
// except for NoOpCodec, which returns its input slice unchanged.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a byte slice previously produced by the
// matching Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec builds a Codec for the given bundle-exporter compression
// type. target is folded into the error message so callers can report
// which caller-facing knob produced an invalid value.
func CreateCodec(t format.CompressionType, target string) (Codec, error) {
	switch t {
	case format.CompressionNone:
		return NewNoOpCodec(), nil
	case format.CompressionGzip:
		return NewGzipCodec(), nil
	case format.CompressionZlib:
		return NewZlibCodec(), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(), nil
	case format.CompressionZstd:
		return NewZstdCodec(), nil
	case format.CompressionS2:
		return NewS2Codec(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, t)
	}
}

// CodecForChunk builds the Codec backing a Region-Archive chunk's
// compression byte (spec.md §4.D: only gzip/zlib/none are valid here).
func CodecForChunk(c format.ChunkCompression) (Codec, error) {
	switch c {
	case format.ChunkGzip:
		return NewGzipCodec(), nil
	case format.ChunkZlib:
		return NewZlibCodec(), nil
	case format.ChunkNone:
		return NewNoOpCodec(), nil
	default:
		return nil, fmt.Errorf("invalid chunk compression code: %d", c)
	}
}
