package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// HashToken computes a BLAKE2b-256 digest of the token string, used as a cache key
// so raw bearer tokens never reach Redis.
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
