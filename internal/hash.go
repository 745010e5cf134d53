package internal

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashCodeBlob returns the canonical lowercase hex SHA-256 digest of a
// code blob. Stage and commit must both use this function so hash
// comparison is byte-exact.
func HashCodeBlob(code []byte) string {
	sum := sha256.Sum256(code)
	return hex.EncodeToString(sum[:])
}
