package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePath validates a repository-relative path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No control characters
//   - No absolute paths
//   - No ".." segments
//   - No backslashes
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateRequired rejects an empty value for the named field.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidInput, "%s is required", field)
	}
	return nil
}

// ValidateRange rejects a value outside [min, max] for the named field.
// NaN is always out of range.
func ValidateRange[T int | int64 | float64](field string, value, min, max T) error {
	if f, ok := any(value).(float64); ok && math.IsNaN(f) {
		return New(ErrCodeInvalidInput, "%s must be a number, got NaN", field)
	}
	if value < min || value > max {
		return New(ErrCodeInvalidInput, "%s must be between %v and %v, got %v", field, min, max, value)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeMissingURL, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}
	return nil
}
