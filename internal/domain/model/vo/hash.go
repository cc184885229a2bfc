package vo

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
)

// Hash is a value object representing a content digest.
// It is used to key remote/effective configs and to detect idempotent
// re-application of the same bytes across process restarts.
type Hash []byte

// NewHash computes the sha256 digest of data.
// The digest is stable across platforms and process restarts, since it
// operates on the raw bytes rather than any in-memory representation.
func NewHash(data []byte) (Hash, error) {
	sum := sha256.Sum256(data)

	return Hash(sum[:]), nil
}

// String returns the lowercase hex encoding of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h)
}

// Bytes returns the raw digest bytes.
func (h Hash) Bytes() []byte {
	return h
}

// Equal compares two Hash values for equality.
func (h Hash) Equal(other Hash) bool {
	return bytes.Equal(h, other)
}

// IsZero reports whether the hash carries no bytes.
func (h Hash) IsZero() bool {
	return len(h) == 0
}
