package errors

import (
	"slices"
	"strings"
	"unicode"
)

// maxNameLength bounds document and session names.
const maxNameLength = 128

// ValidateDocumentName validates a saved-structure name for safety.
// Names become file names in the file library and keys in Redis/Mongo, so
// they are rejected if they could be used for path traversal or injection.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - No hidden names (leading dot)
//   - Maximum length of 128 characters
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "document name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "document name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "document name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "document name contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "document name cannot start with a dot")
	}

	return nil
}

// ValidateSessionID checks that a session identifier is a plausible token.
// Session IDs are UUIDs, but any short alphanumeric/dash token is accepted so
// that file-backed stores never see separators.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "session id too long")
	}
	for _, r := range id {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_') {
			return New(ErrCodeInvalidInput, "session id contains invalid character %q", r)
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return New(ErrCodeUnsupported, "unsupported format %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
