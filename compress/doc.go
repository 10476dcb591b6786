// Package compress: see codec.go for the Compressor/Decompressor/Codec
// interfaces and the two factory functions that select an implementation.
//
// # Wire-mandated codecs
//
//   - NoOpCodec (format.ChunkNone / format.CompressionNone)
//   - GzipCodec (format.ChunkGzip / format.CompressionGzip) — also wraps
//     whole TBF documents for the ".dat"-equivalent file format (spec.md
//     §4.B, §6)
//   - ZlibCodec (format.ChunkZlib / format.CompressionZlib) — the
//     Region-Archive writer's only compression choice when saving
//     (spec.md §4.D)
//
// # Bundle-exporter-only codecs
//
//   - LZ4Codec, ZstdCodec, S2Codec — selectable only through
//     region.WriteBundle (SPEC_FULL §3.4); they never appear in a
//     Region-Archive chunk header or a TBF gzip wrapper.
package compress
