package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxKeyLength bounds keys accepted from fixtures and server requests.
const maxKeyLength = 256

// ValidateKey validates a collection key read from external input.
//
// The validation rules are intentionally conservative:
//   - No empty keys
//   - No control characters
//   - Maximum length of 256 characters
//   - No ":" (reserved for drop indicator keys such as "row-1:before")
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "key cannot be empty")
	}

	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "key contains invalid control characters")
		}
	}

	if strings.Contains(key, ":") {
		return New(ErrCodeInvalidKey, "key cannot contain ':': %q", key)
	}

	return nil
}

// ValidateUniqueKeys reports the first key that appears more than once.
func ValidateUniqueKeys(keys []string) error {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			return New(ErrCodeDuplicateKey, "duplicate key %q", k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// ValidateDimension validates a width or height supplied on the command line
// or in a request body. Zero is allowed; negative, NaN and infinite values
// are rejected.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidRect, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidRect, "%s cannot be negative (got %g)", name, v)
	}
	return nil
}

// ValidateRect validates a rectangle supplied from external input.
func ValidateRect(x, y, width, height float64) error {
	for _, c := range []struct {
		name string
		v    float64
	}{{"x", x}, {"y", y}} {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return New(ErrCodeInvalidRect, "%s must be a finite number", c.name)
		}
	}
	if err := ValidateDimension("width", width); err != nil {
		return err
	}
	return ValidateDimension("height", height)
}
