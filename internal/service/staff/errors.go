package staff

import "errors"

var (
	ErrNotFound      = errors.New("staff member not found")
	ErrInvalidRole   = errors.New("staff role must be gym_manager or gym_staff")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrOtherGym      = errors.New("account belongs to another gym")
	ErrNotPromotable = errors.New("account cannot be added as staff")
)
