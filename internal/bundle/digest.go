package bundle

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest returns the hex encoded BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
