package admin

import "errors"

var (
	ErrGymNotFound     = errors.New("gym not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRole     = errors.New("invalid role")
	ErrGymRequired     = errors.New("gym roles require a gym")
	ErrGymNotAllowed   = errors.New("super_admin cannot be linked to a gym")
)
