package gym

import "errors"

var (
	ErrNotFound       = errors.New("gym not found")
	ErrSuspended      = errors.New("gym is suspended")
	ErrInvalidName    = errors.New("gym name must not be empty")
	ErrInvalidDomain  = errors.New("custom domain must be a valid hostname")
	ErrPlatformDomain = errors.New("custom domain must not be under the platform domain")
	ErrDomainTaken    = errors.New("custom domain already in use")
)
