package compress

// NoOpCodec bypasses compression entirely. It backs
// format.ChunkNone / format.CompressionNone.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// NewNoOpCodec creates a codec that returns its input unchanged.
func NewNoOpCodec() NoOpCodec { return NoOpCodec{} }

// Compress returns data as-is; the returned slice shares data's backing
// array, so callers must not mutate it afterwards.
func (NoOpCodec) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data as-is.
func (NoOpCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
