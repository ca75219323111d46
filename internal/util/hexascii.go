package util

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"
)

// IsHex reports whether s consists only of [0-9A-Fa-f]. The empty string is hex.
func IsHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// SizeInHexChars converts a bit length to the number of hex characters that encode it.
func SizeInHexChars(bits int) int { return bits / 4 }

// SizeInBytes converts a bit length to bytes.
func SizeInBytes(bits int) int { return bits / 8 }

// RandomHex reads bits/8 bytes from r and returns them as upper-case hex.
// Nothing is returned unless the full length was read.
func RandomHex(r io.Reader, bits int) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	b := make([]byte, SizeInBytes(bits))
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// DecodeHex accepts hex in either case, ignoring surrounding whitespace.
func DecodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimSpace(s))
}
