package password

import "github.com/techforgyms/techforgyms_backend/config"

// Config holds the password policy and Argon2id parameters.
type Config struct {
	// MinLength is the shortest password accepted at signup.
	MinLength int

	// LowMemoryMode trades memory for iterations on constrained hosts
	LowMemoryMode bool
}

func (c Config) Params() *Params {
	if c.LowMemoryMode {
		return LowMemoryParams()
	}
	return DefaultParams()
}

func DefaultConfig() Config {
	return Config{MinLength: 8}
}

// FromCentralConfig converts central config.PasswordConfig to package Config
func FromCentralConfig(c config.PasswordConfig) Config {
	out := Config{MinLength: c.MinLength, LowMemoryMode: c.LowMemoryMode}
	if out.MinLength <= 0 {
		out.MinLength = DefaultConfig().MinLength
	}
	return out
}
