// Package format defines the small closed enumerations shared by tagforge's
// codecs: the wire variant ids of the tag model and the compression codes
// used by the TBF gzip wrapper, the Region-Archive chunk header, and the
// archive bundle exporter.
package format

// Variant identifies the wire representation of a Tag's payload. Values
// match the historical on-disk encoding this format descends from, so they
// must never be renumbered.
type Variant uint8

const (
	End       Variant = 0x00
	Byte      Variant = 0x01
	Short     Variant = 0x02
	Int       Variant = 0x03
	Long      Variant = 0x04
	Float     Variant = 0x05
	Double    Variant = 0x06
	ByteArray Variant = 0x07
	String    Variant = 0x08
	List      Variant = 0x09
	Compound  Variant = 0x0a
	IntArray  Variant = 0x0b
	LongArray Variant = 0x0c

	variantMax = LongArray
)

// Valid reports whether v is one of the twelve value variants or the End
// sentinel.
func (v Variant) Valid() bool {
	return v <= variantMax
}

func (v Variant) String() string {
	switch v {
	case End:
		return "End"
	case Byte:
		return "Byte"
	case Short:
		return "Short"
	case Int:
		return "Int"
	case Long:
		return "Long"
	case Float:
		return "Float"
	case Double:
		return "Double"
	case ByteArray:
		return "ByteArray"
	case String:
		return "String"
	case List:
		return "List"
	case Compound:
		return "Compound"
	case IntArray:
		return "IntArray"
	case LongArray:
		return "LongArray"
	default:
		return "Unknown"
	}
}

// ChunkCompression is the compression code stored in a Region-Archive
// chunk's 5-byte header (spec.md §4.D). These three values are fixed by the
// on-disk format and must never be renumbered or extended.
type ChunkCompression uint8

const (
	ChunkGzip ChunkCompression = 1
	ChunkZlib ChunkCompression = 2
	ChunkNone ChunkCompression = 3
)

func (c ChunkCompression) Valid() bool {
	return c == ChunkGzip || c == ChunkZlib || c == ChunkNone
}

func (c ChunkCompression) String() string {
	switch c {
	case ChunkGzip:
		return "Gzip"
	case ChunkZlib:
		return "Zlib"
	case ChunkNone:
		return "None"
	default:
		return "Unknown"
	}
}

// CompressionType selects the codec used by the archive bundle exporter
// (SPEC_FULL §3.4). Unlike ChunkCompression, this enumeration is not part of
// any on-disk format contract and may grow.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota + 1
	CompressionGzip
	CompressionZlib
	CompressionLZ4
	CompressionZstd
	CompressionS2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionGzip:
		return "Gzip"
	case CompressionZlib:
		return "Zlib"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	default:
		return "Unknown"
	}
}
