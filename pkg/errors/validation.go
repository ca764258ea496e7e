package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTitleLength is the longest category title accepted, in bytes.
// It matches the width of the title columns in the membership tables.
const MaxTitleLength = 255

// ValidateCategoryName checks that name can be passed to a membership store
// as a query argument. It is not a title normalizer: anything a store can
// look up safely is accepted, even if no such category exists.
//
// The validation rules are:
//   - No empty names
//   - Valid UTF-8
//   - No control characters or null bytes
//   - Maximum length of MaxTitleLength bytes
func ValidateCategoryName(name string) error {
	if name == "" {
		return New(ErrCodeMissingCategory, "category name cannot be empty")
	}

	if len(name) > MaxTitleLength {
		return New(ErrCodeMalformedParameter, "category name too long (max %d bytes)", MaxTitleLength).WithDetail(name)
	}

	if !utf8.ValidString(name) {
		return New(ErrCodeMalformedParameter, "category name is not valid UTF-8").WithDetail(name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedParameter, "category name contains invalid control characters").WithDetail(name)
		}
	}

	return nil
}

// ValidateDSN checks that a store DSN has a scheme the CLI knows how to open.
func ValidateDSN(dsn string, schemes []string) error {
	if dsn == "" {
		return New(ErrCodeInvalidInput, "store DSN cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(dsn, s+":") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "unsupported store DSN %q (must start with one of: %s)", dsn, strings.Join(schemes, ", "))
}
