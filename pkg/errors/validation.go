package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier from schema input.
// It rejects ids that would break serialization or file naming.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No bracket characters (they delimit ids in the schema grammar)
//   - Maximum length of 64 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSchema, "node id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidSchema, "node id too long (max 64 characters): %q", id)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSchema, "node id contains control characters: %q", id)
		}
	}

	if strings.ContainsAny(id, "[]") {
		return New(ErrCodeInvalidSchema, "node id cannot contain brackets: %q", id)
	}

	return nil
}

// ValidatePathLabel validates a decision path label.
// Labels are rendered near connectors, so they must be short single lines.
func ValidatePathLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidSchema, "path label cannot be empty")
	}

	if len(label) > 40 {
		return New(ErrCodeInvalidSchema, "path label too long (max 40 characters): %q", label)
	}

	if strings.ContainsAny(label, "\n\r") {
		return New(ErrCodeInvalidSchema, "path label cannot span lines: %q", label)
	}

	return nil
}
