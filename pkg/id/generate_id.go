// Package id issues the 32-character lowercase hex identifiers used as
// primary keys for clubs, members, events, donations and expenses.
package id

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

var reID = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random (v4) UUID as exactly 32 hex characters, without
// separators.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Valid reports whether s looks like an id produced by NewID32.
func Valid(s string) bool { return reID.MatchString(s) }

// FromUUID converts a canonical UUID string into the 32-char form.
func FromUUID(s string) (string, bool) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return hex.EncodeToString(u[:]), true
}
