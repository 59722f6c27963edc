package detection

import (
	"crypto/sha256"
	"encoding/hex"
)

// TextHash identifies an input without storing it.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
