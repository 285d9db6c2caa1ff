package auth

import "errors"

var (
	ErrNotConfigured      = errors.New("identity provider not configured")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSlugTaken          = errors.New("gym slug already taken")
	ErrInvalidSignupRole  = errors.New("signup role must be gym_owner or member")
	ErrGymNameRequired    = errors.New("gym name is required for gym owners")
	ErrGymNotFound        = errors.New("gym not found")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrSessionNotFound    = errors.New("session not found or expired")
)
