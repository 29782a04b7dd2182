package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePositive checks that an integer parameter is strictly positive.
// The name is used in the error message, e.g. "count must be positive, got 0".
func ValidatePositive(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %d", name, v)
	}
	return nil
}

// ValidateUnit checks that a real parameter lies in the closed interval [0, 1].
// NaN is rejected.
func ValidateUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidInput, "%s must be within [0, 1], got %v", name, v)
	}
	return nil
}

// ValidateNonNegative checks that a real parameter is finite and >= 0.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidInput, "%s must be a non-negative number, got %v", name, v)
	}
	return nil
}

// imageExtensions lists the input formats the density package can decode.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// ValidateImagePath validates a source image path.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must be a decodable raster format
func ValidateImagePath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !imageExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported image format %q (want png, jpeg, gif, bmp, tiff or webp)", ext)
	}
	return nil
}

// ValidatePath validates a local file path supplied on the command line
// or in a configuration file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
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
