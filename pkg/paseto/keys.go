package pasetotoken

import (
	"strings"

	paseto "aidanwoods.dev/go-paseto"

	"github.com/techforgyms/techforgyms_backend/config"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local, encrypted session tokens
	ModePublic Mode = "public" // v4.public, signed; lets other services verify with the public key
)

// Keys holds the key material for one Mode. In public mode a verify-only
// instance may carry only Public.
type Keys struct {
	Mode      Mode
	Symmetric *paseto.V4SymmetricKey
	Secret    *paseto.V4AsymmetricSecretKey
	Public    *paseto.V4AsymmetricPublicKey
}

// modeOf picks the configured mode, or infers it from which keys are set.
func modeOf(p config.PasetoConfig) Mode {
	if m := Mode(strings.ToLower(strings.TrimSpace(p.Mode))); m != "" {
		return m
	}
	if strings.TrimSpace(p.LocalKeyHex) != "" {
		return ModeLocal
	}
	return ModePublic
}

func keysFromConfig(p config.PasetoConfig) (Keys, error) {
	switch mode := modeOf(p); mode {
	case ModeLocal:
		raw := strings.TrimSpace(p.LocalKeyHex)
		if raw == "" {
			return Keys{}, ErrConfig{Msg: "local mode requires local_key_hex"}
		}
		k, err := paseto.V4SymmetricKeyFromHex(raw)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "local_key_hex: " + err.Error()}
		}
		return Keys{Mode: ModeLocal, Symmetric: &k}, nil

	case ModePublic:
		out := Keys{Mode: ModePublic}
		if raw := strings.TrimSpace(p.SecretKeyHex); raw != "" {
			sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(raw)
			if err != nil {
				return Keys{}, ErrConfig{Msg: "secret_key_hex: " + err.Error()}
			}
			pk := sk.Public()
			out.Secret, out.Public = &sk, &pk
		}
		if raw := strings.TrimSpace(p.PublicKeyHex); raw != "" {
			pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(raw)
			if err != nil {
				return Keys{}, ErrConfig{Msg: "public_key_hex: " + err.Error()}
			}
			out.Public = &pk
		}
		if out.Public == nil {
			return Keys{}, ErrConfig{Msg: "public mode requires secret_key_hex or public_key_hex"}
		}
		return out, nil

	default:
		return Keys{}, ErrConfig{Msg: "unknown mode " + string(mode) + " (use local or public)"}
	}
}

// NewLocalKeys generates a fresh symmetric key.
func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}
