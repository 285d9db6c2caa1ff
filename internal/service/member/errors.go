package member

import "errors"

var (
	ErrNotFound     = errors.New("member not found")
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmailTaken   = errors.New("email already registered")
	ErrNameRequired = errors.New("full name is required")
)
