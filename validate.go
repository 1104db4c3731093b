package natsclient

import (
	"fmt"
	"time"
	"unicode"
)

// Validation helpers shared across the configuration surface. Every function
// either returns the (possibly normalized) input or an error wrapping one of
// the sentinel errors in errors.go, carrying the field name and the offending
// value.

// RequireNonEmpty fails when s is empty.
func RequireNonEmpty(s, field string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrMissingRequired, field)
	}
	return s, nil
}

// RequireNoWhitespace fails when s is empty or contains whitespace.
func RequireNoWhitespace(s, field string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrMissingRequired, field)
	}
	if containsWhitespace(s) {
		return "", fmt.Errorf("%w: %s cannot contain whitespace [%s]", ErrInvalidName, field, s)
	}
	return s, nil
}

// ValidateSubjectRequired fails when the subject is empty.
func ValidateSubjectRequired(s string) (string, error) {
	return RequireNonEmpty(s, "subject")
}

// ValidateQueueName fails when the queue name contains whitespace.
// An empty queue name normalizes to the absent value.
func ValidateQueueName(s string) (string, error) {
	if containsWhitespace(s) {
		return "", fmt.Errorf("%w: queue cannot contain whitespace [%s]", ErrInvalidName, s)
	}
	return s, nil
}

// ValidateStreamName fails when the stream name contains '.', '*' or '>'.
// Empty is allowed; callers that require a stream use ValidateStreamNameRequired.
func ValidateStreamName(s string) (string, error) {
	if containsDotWildGt(s) {
		return "", fmt.Errorf("%w: stream cannot contain '.', '*' or '>' [%s]", ErrInvalidName, s)
	}
	return s, nil
}

// ValidateStreamNameRequired fails when the stream name is empty or contains
// '.', '*' or '>'.
func ValidateStreamNameRequired(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: stream cannot be empty", ErrMissingRequired)
	}
	return ValidateStreamName(s)
}

// ValidateDurable fails when the durable name contains '.', '*' or '>'.
// Empty normalizes to the absent value.
func ValidateDurable(s string) (string, error) {
	if containsDotWildGt(s) {
		return "", fmt.Errorf("%w: durable cannot contain '.', '*' or '>' [%s]", ErrInvalidName, s)
	}
	return s, nil
}

// ValidateDurableRequired fails when the durable name is empty or contains
// '.', '*' or '>'.
func ValidateDurableRequired(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: durable is required and cannot contain '.', '*' or '>'", ErrMissingRequired)
	}
	return ValidateDurable(s)
}

// ValidatePrefix fails when a subject prefix contains '*', '>', '$', space or tab.
func ValidatePrefix(s, field string) (string, error) {
	if containsWildGtDollarSpaceTab(s) {
		return "", fmt.Errorf("%w: %s cannot contain a wildcard, dollar sign, space or tab [%s]", ErrInvalidName, field, s)
	}
	return s, nil
}

// GtZeroOrUnlimited accepts -1 (unlimited) and any positive value;
// zero and anything below -1 fail.
func GtZeroOrUnlimited(n int64, field string) (int64, error) {
	if n == 0 || n < -1 {
		return 0, fmt.Errorf("%w: %s must be greater than zero or -1 for unlimited [%d]", ErrOutOfRange, field, n)
	}
	return n, nil
}

// BoundedInt fails when n is outside [lo, hi] inclusive.
func BoundedInt(n, lo, hi int, field string) (int, error) {
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %s must be between %d and %d inclusive [%d]", ErrOutOfRange, field, lo, hi, n)
	}
	return n, nil
}

// ValidateReplicas bounds a stream replica count to 1..5.
func ValidateReplicas(n int) (int, error) {
	return BoundedInt(n, 1, 5, "replicas")
}

// MaxPullBatch is the largest batch a pull consumer may request.
const MaxPullBatch = 256

// ValidatePullBatch bounds a pull batch size to 1..MaxPullBatch.
func ValidatePullBatch(n int) (int, error) {
	return BoundedInt(n, 1, MaxPullBatch, "pull batch size")
}

// PositiveDuration fails when d is zero or negative.
func PositiveDuration(d time.Duration, field string) (time.Duration, error) {
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be greater than 0 [%s]", ErrOutOfRange, field, d)
	}
	return d, nil
}

// NonNegativeDuration fails when d is negative. Zero is returned as-is so
// an unset duration normalizes to zero.
func NonNegativeDuration(d time.Duration, field string) (time.Duration, error) {
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must be greater than or equal to 0 [%s]", ErrOutOfRange, field, d)
	}
	return d, nil
}

func containsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

func containsDotWildGt(s string) bool {
	for _, r := range s {
		switch r {
		case '.', '*', '>':
			return true
		}
	}
	return false
}

func containsWildGtDollarSpaceTab(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '>', '$', ' ', '\t':
			return true
		}
	}
	return false
}
