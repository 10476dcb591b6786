// Package fingerprint computes content hashes used for cheap equality
// checks over serialized chunk payloads. It never replaces a byte-exact
// comparison; callers treat a hash match as "worth comparing", not as proof
// of equality, since xxHash64 is not collision-free.
package fingerprint

import "github.com/cespare/xxhash/v2"

// Of computes the xxHash64 fingerprint of data.
func Of(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// OfString computes the xxHash64 fingerprint of a string without an
// intermediate []byte conversion.
func OfString(data string) uint64 {
	return xxhash.Sum64String(data)
}
