// Package checksum computes content digests of vault notes.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Sum returns the hex-encoded SHA-256 digest of a note's raw content.
func Sum(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

// ETag returns a strong HTTP entity tag for a digest produced by Sum.
func ETag(sum string) string {
	if sum == "" {
		return ""
	}
	return strconv.Quote(sum)
}
