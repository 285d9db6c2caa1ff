package billing

import "errors"

var (
	ErrNotConfigured    = errors.New("billing webhook secret not configured")
	ErrMissingSignature = errors.New("missing signature header")
	ErrBadSignature     = errors.New("signature mismatch")
	ErrStaleSignature   = errors.New("signature timestamp outside tolerance")
	ErrInvalidEvent     = errors.New("invalid billing event")
	ErrGymNotFound      = errors.New("gym not found")
)
