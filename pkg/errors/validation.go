package errors

import (
	"strings"
	"unicode"
)

// MaxTextBytes bounds the adjacency-list text accepted from a request or file.
const MaxTextBytes = 1 << 20

// ValidateText checks adjacency-list text before it is parsed.
//
// The validation rules are intentionally conservative:
//   - Maximum size of MaxTextBytes
//   - No null bytes
//   - No control characters other than tab, CR and LF
//
// Empty text is valid and yields an empty graph.
func ValidateText(text string) error {
	if len(text) > MaxTextBytes {
		return New(ErrCodeInvalidInput, "input too large (max %d bytes)", MaxTextBytes)
	}
	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r == '\x00' || unicode.IsControl(r):
			return New(ErrCodeInvalidInput, "input contains invalid control characters")
		}
	}
	return nil
}

// ValidateOutputPath validates a file path the CLI writes to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateRedisURL validates a Redis connection URL.
// It ensures the URL uses the redis, rediss or unix scheme.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "redis URL cannot be empty")
	}
	for _, scheme := range []string{"redis://", "rediss://", "unix://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "redis URL must use redis, rediss or unix scheme")
}

// ValidateDimensions checks an output or viewport size in pixels.
func ValidateDimensions(width, height float64) error {
	const maxSide = 16384
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "dimensions must be positive, got %gx%g", width, height)
	}
	if width > maxSide || height > maxSide {
		return New(ErrCodeInvalidInput, "dimensions too large (max %d per side)", maxSide)
	}
	return nil
}
