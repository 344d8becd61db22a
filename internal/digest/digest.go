// Package digest provides a fast, non-cryptographic checksum over a vpack
// document's raw bytes, for the CLI's --verify round-trip check.
//
// Grounded on mebo's internal/hash package, which hashes a metric
// name to its 64-bit identifier with xxHash64; here the same algorithm
// hashes a whole encoded document instead of a short metric name.
package digest

import "github.com/cespare/xxhash/v2"

// Sum64 returns the xxHash64 checksum of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}
