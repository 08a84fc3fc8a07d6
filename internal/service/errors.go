package service

import "errors"

var (
	ErrLinkNotFound        = errors.New("link not found")
	ErrLinkExpired         = errors.New("link has expired")
	ErrNoLinks             = errors.New("no links found")
	ErrShortCodeGeneration = errors.New("failed to generate short code")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already in use")
	ErrMobileTaken         = errors.New("mobile number already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// ValidationError reports a missing or malformed request field. The
// field name is part of the API contract and is surfaced to callers.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// AsValidation unwraps err into a ValidationError when it is one
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
