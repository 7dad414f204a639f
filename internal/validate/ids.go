package validate

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsID reports whether s is a well-formed document identifier (24 hex chars).
// Lookups must never be issued with a malformed identifier, so every handler
// checks this before touching the store.
func IsID(s string) bool {
	return idPattern.MatchString(s)
}

// NewID mints a fresh document identifier from 12 random bytes.
func NewID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
