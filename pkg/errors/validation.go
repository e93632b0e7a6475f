package errors

import (
	"strings"
	"unicode"
)

// maxFilenameLength is the longest file name most filesystems accept.
const maxFilenameLength = 255

// ValidateFilename checks that name is a plain base name that stays inside
// the directory it is joined to.
//
// Rejected:
//   - empty names and names longer than 255 bytes
//   - control characters, including null bytes
//   - path separators (/ and \) and parent references (..)
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "file name cannot be empty")
	}
	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidInput, "file name too long (max %d bytes)", maxFilenameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "file name contains control characters")
		}
	}
	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidInput, "file name %q cannot contain path separators", name)
	}
	if strings.Contains(name, "..") || name == "." {
		return New(ErrCodeInvalidInput, "file name %q cannot refer to a parent directory", name)
	}
	return nil
}
