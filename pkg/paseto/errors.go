package pasetotoken

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no key material is present. Callers treat
// it as "identity provider not configured" rather than a startup failure.
var ErrNotConfigured = errors.New("paseto keys not configured")

var ErrWrongTokenType = errors.New("unexpected token type")

type ErrConfig struct{ Msg string }

func (e ErrConfig) Error() string { return "paseto config error: " + e.Msg }

type ErrInvalidToken struct{ Err error }

func (e ErrInvalidToken) Error() string { return fmt.Sprintf("invalid token: %v", e.Err) }
func (e ErrInvalidToken) Unwrap() error { return e.Err }
