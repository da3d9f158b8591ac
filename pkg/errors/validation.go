package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateLabel validates a category label for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty labels
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Formatting concerns (trimming, casing) are left to the dataset loaders.
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidDataset, "category label cannot be empty")
	}

	if len(label) > 256 {
		return New(ErrCodeInvalidDataset, "category label too long (max 256 characters)")
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "category label contains invalid control characters")
		}
	}

	return nil
}

// ValidateDimensions validates grid dimensions for an allocation.
// Both dimensions must be at least 1; the upper bound keeps a single
// request from allocating an absurd cell matrix.
func ValidateDimensions(width, height int) error {
	if width < 1 || height < 1 {
		return New(ErrCodeInvalidInput, "grid dimensions must be at least 1x1, got %dx%d", width, height)
	}

	const maxDimension = 10000
	if width > maxDimension || height > maxDimension {
		return New(ErrCodeInvalidInput, "grid dimensions too large (max %d per side), got %dx%d", maxDimension, width, height)
	}

	return nil
}

// hexColorRegex matches 3- and 6-digit hex color strings with a leading #.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a hex color string like "#fff" or "#1f77b4".
func ValidateHexColor(s string) error {
	if s == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}

	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", s)
	}

	return nil
}

// datasetIDRegex matches stored dataset identifiers (UUIDs and simple slugs).
var datasetIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidateDatasetID validates a stored dataset identifier.
// It rejects identifiers that could be used for injection or traversal.
func ValidateDatasetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "dataset id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "dataset id too long (max 128 characters)")
	}

	if !datasetIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid dataset id: %q", id)
	}

	return nil
}

// ValidateOutputPath validates a file path used for chart output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No parent-directory traversal sequences (..)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "output path cannot contain path traversal sequences (..)")
	}

	return nil
}
