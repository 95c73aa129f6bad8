package utils

import (
	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewID returns a fresh UUID string for entity ids.
func NewID() string {
	return uuid.New().String()
}

// RandomCode returns a short human-readable code. Ambiguous characters
// (0/O, 1/I) are excluded from the charset.
func RandomCode(length int) string {
	if length < 1 {
		length = 6
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}
