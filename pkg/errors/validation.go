package errors

import (
	"slices"
	"strings"
	"unicode"
)

// Limits shared by the CLI, the HTTP API and the pipeline.
const (
	MaxWorkers     = 256
	MaxRepetitions = 1000
	// MaxPossibleEdges is the width of an edge-subset bitmask.
	MaxPossibleEdges = 64
	maxPathLength    = 4096
)

// ValidateInputPath validates a path to an input file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateInputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateWorkers checks a worker count. Zero means "use the default".
func ValidateWorkers(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "workers must not be negative: %d", n)
	}
	if n > MaxWorkers {
		return New(ErrCodeInvalidInput, "too many workers: %d (max %d)", n, MaxWorkers)
	}
	return nil
}

// ValidateRepetitions checks the number of timed runs per benchmark cell.
func ValidateRepetitions(n int) error {
	if n < 1 || n > MaxRepetitions {
		return New(ErrCodeInvalidInput, "repetitions must be between 1 and %d: %d", MaxRepetitions, n)
	}
	return nil
}

// ValidateChoice checks that value is one of allowed (case-insensitive).
// The what argument names the setting in the error message.
func ValidateChoice(what, value string, allowed []string) error {
	if slices.Contains(allowed, strings.ToLower(value)) {
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid %s %q (want one of: %s)", what, value, strings.Join(allowed, ", "))
}

// ValidatePossibleEdges checks that an edge universe fits into a bitmask.
func ValidatePossibleEdges(m int) error {
	if m > MaxPossibleEdges {
		return New(ErrCodeArithmeticRange, "%d possible edges exceed the %d-bit edge mask", m, MaxPossibleEdges)
	}
	return nil
}
