package util

import "errors"

// Expected policy outcomes are sentinel errors so controllers can branch on
// them with errors.Is; anything else coming out of a service is treated as a
// storage fault and surfaced generically.
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailRegistered         = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrTestNotFound            = errors.New("test not found")
	ErrChapterNotFound         = errors.New("chapter not found")
	ErrAttemptNotFound         = errors.New("test attempt not found")
	ErrAccessDenied            = errors.New("access denied: premium subscription required or free test limit reached")
	ErrRetakeLimitReached      = errors.New("daily retake limit reached (max 3)")
	ErrAttemptAlreadyCompleted = errors.New("test attempt already completed")
)

// ValidationError pinpoints the offending field of a malformed payload.
// It is detected before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
