package tbf

import (
	"unicode/utf16"

	"github.com/tagforge/tagforge/errs"
)

// encodeModifiedUTF8 encodes s the way the historical format's strings are
// stored on disk: NUL as the two-byte overlong form 0xC0 0x80, and any
// supplementary-plane code point as a CESU-8 surrogate pair rather than a
// four-byte UTF-8 sequence (Open Question 3, resolved in DESIGN.md).
//
// This is unicode/utf16's job applied one layer down: utf16.Encode already
// produces the correct surrogate pairs for runes above the basic
// multilingual plane, so encoding modified UTF-8 is just "encode to UTF-16
// code units, then encode each unit with the 1/2/3-byte form Java's
// DataOutputStream.writeUTF uses".
func encodeModifiedUTF8(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(s)+2)

	for _, u := range units {
		switch {
		case u == 0:
			out = append(out, 0xC0, 0x80)
		case u < 0x80:
			out = append(out, byte(u))
		case u <= 0x7FF:
			out = append(out,
				byte(0xC0|(u>>6)),
				byte(0x80|(u&0x3F)),
			)
		default:
			out = append(out,
				byte(0xE0|(u>>12)),
				byte(0x80|((u>>6)&0x3F)),
				byte(0x80|(u&0x3F)),
			)
		}
	}

	return out
}

// decodeModifiedUTF8 is the mirror of encodeModifiedUTF8: it recovers the
// UTF-16 code unit stream from the 1/2/3-byte forms, then lets
// unicode/utf16.Decode reassemble surrogate pairs into supplementary-plane
// runes.
func decodeModifiedUTF8(b []byte) (string, error) {
	units := make([]uint16, 0, len(b))

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", errs.ErrInvalidString
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", errs.ErrInvalidString
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", errs.ErrInvalidString
		}
	}

	return string(utf16.Decode(units)), nil
}
