package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCategoryName validates a category display name.
// It rejects names that could break downstream diagram or query surfaces.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateCategoryName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCategory, "category name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidCategory, "category name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCategory, "category name contains invalid control characters")
		}
	}

	if strings.Contains(name, "\x00") {
		return New(ErrCodeInvalidCategory, "category name contains null bytes")
	}

	return nil
}

// emailIDRegex matches identifiers the store accepts for emails and runs.
// Gmail message IDs are hex; synthetic dataset IDs look like "email_0001".
var emailIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateEmailID validates an email identifier for safety.
func ValidateEmailID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidEmail, "email id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidEmail, "email id too long (max 128 characters)")
	}

	if !emailIDRegex.MatchString(id) {
		return New(ErrCodeInvalidEmail, "invalid email id: %q", id)
	}

	return nil
}

// ValidateConfidence validates a classification confidence score.
// Scores are clamped nowhere else; out-of-range values are rejected at the boundary.
func ValidateConfidence(confidence float64) error {
	if confidence < 0.0 || confidence > 1.0 {
		return New(ErrCodeInvalidInput, "confidence must be between 0.0 and 1.0, got %g", confidence)
	}
	return nil
}

// formalityLevels is the set of accepted formality levels, in increasing order.
var formalityLevels = []string{"low", "medium", "high"}

// ValidateFormality validates a formality level string.
// The empty string is accepted (formality not yet analyzed).
func ValidateFormality(level string) error {
	if level == "" {
		return nil
	}
	for _, l := range formalityLevels {
		if level == l {
			return nil
		}
	}
	return New(ErrCodeInvalidFormality, "formality must be 'low', 'medium', or 'high', got %q", level)
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
