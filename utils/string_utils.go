package utils

import (
	"strings"

	"github.com/google/uuid"
)

// IsValidIdentifier reports whether id is a well-formed opaque identifier. Both UUIDs (the
// Postgres primary keys) and 24-character hex document ids are accepted.
func IsValidIdentifier(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if _, err := uuid.Parse(id); err == nil {
		return true
	}
	return IsHexObjectID(id)
}

// IsHexObjectID reports whether s is a 24-character hexadecimal document id.
func IsHexObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
