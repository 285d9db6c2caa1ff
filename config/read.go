package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/techforgyms/techforgyms_backend/pkg/constants"
)

var GlobalConf *Config

func ReadConfig(configPath string) (*Config, error) {
	// A local .env is a convenience for development; absence is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// e.g. TFG_PLATFORM_DOMAIN overrides platform.domain
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		// Container deployments run from env vars only.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if os.Getenv(constants.EnvPrefix+"_PLATFORM_DOMAIN") == "" {
			return nil, fmt.Errorf("config file not found in %q and %s_PLATFORM_DOMAIN is unset", configPath, constants.EnvPrefix)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

// bindEnvKeys registers the keys that must be settable from the environment even
// when no config file mentions them; AutomaticEnv alone only covers known keys.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"platform.domain",
		"platform.hosts",
		"server.port",
		"server.environment",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"redis.addr",
		"redis.password",
		"authentication.paseto.mode",
		"authentication.paseto.local_key_hex",
		"authentication.paseto.issuer",
		"authentication.paseto.audience",
		"billing.webhook_secret",
		"nats.enabled",
		"nats.url",
	} {
		_ = v.BindEnv(key)
	}
}
