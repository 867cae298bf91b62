package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateCode returns n random bytes hex encoded.
func GenerateCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
