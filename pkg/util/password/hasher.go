package password

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrTooShort = errors.New("password is too short")
	ErrTooLong  = errors.New("password is too long")
	ErrBlank    = errors.New("password must not be blank")
)

// maxLength bounds the work a single hash can cost.
const maxLength = 256

// Hasher applies the configured policy and parameters.
type Hasher struct {
	cfg    Config
	params *Params
}

func NewHasher(cfg Config) *Hasher {
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultConfig().MinLength
	}
	return &Hasher{cfg: cfg, params: cfg.Params()}
}

// Check enforces the password policy without hashing.
func (h *Hasher) Check(pw string) error {
	if strings.TrimSpace(pw) == "" {
		return ErrBlank
	}
	n := utf8.RuneCountInString(pw)
	if n < h.cfg.MinLength {
		return fmt.Errorf("%w: minimum %d characters", ErrTooShort, h.cfg.MinLength)
	}
	if len(pw) > maxLength {
		return ErrTooLong
	}
	return nil
}

// Hash checks pw against the policy and returns its encoded hash.
func (h *Hasher) Hash(pw string) (string, error) {
	if err := h.Check(pw); err != nil {
		return "", err
	}
	return HashWithParams(pw, h.params)
}

// Verify compares pw against an encoded hash. Policy is not applied so that
// accounts created under an older policy can still sign in.
func (h *Hasher) Verify(hash, pw string) error {
	return Verify(hash, pw)
}

// NeedsRehash reports whether hash was produced with different parameters.
func (h *Hasher) NeedsRehash(hash string) bool {
	parsed, err := parsePHC(hash)
	if err != nil {
		return true
	}
	return !parsed.params.sameCost(h.params)
}
