// Package objectid generates and validates 24-character hex object ids.
// The shape (4-byte timestamp prefix plus 8 random bytes) is kept compatible
// with document-store object ids so existing identifiers remain valid.
package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"time"
)

var pattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// New returns a fresh 24-character lowercase hex id.
func New() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b[4:])
	return hex.EncodeToString(b[:])
}

// IsValid reports whether id is a well-formed 24-character lowercase hex id.
// Callers must reject malformed ids before any storage lookup.
func IsValid(id string) bool {
	return pattern.MatchString(id)
}
