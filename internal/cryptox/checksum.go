// Package cryptox holds content hashing helpers for queued binaries.
package cryptox

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ChecksumPrefix tags the algorithm so the backend can tell digests apart
// if the hash ever changes.
const ChecksumPrefix = "blake2b-256:"

// Checksum returns a tagged hex BLAKE2b-256 digest of data. It is recorded
// alongside media metadata so duplicate uploads of the same capture can be
// recognised remotely.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return ChecksumPrefix + hex.EncodeToString(sum[:])
}
