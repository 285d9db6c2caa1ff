package email

import "errors"

var (
	// ErrDisabled is returned by Send when email.enabled is false. Callers
	// treat it as a skip, not a failure.
	ErrDisabled       = errors.New("email is disabled")
	ErrInvalidMessage = errors.New("invalid email message")
	ErrDelivery       = errors.New("email delivery failed")
)
