package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
server:
  port: 9090
  environment: development
platform:
  domain: techforgyms.shop
  hosts:
    - techforgyms.shop
    - www.techforgyms.shop
    - preview.techforgyms.shop
    - localhost
authentication:
  paseto:
    mode: local
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestReadConfig_AppliesDefaults(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Platform.SitesPrefix != "/sites" {
		t.Errorf("sites prefix = %q, want /sites", cfg.Platform.SitesPrefix)
	}
	if len(cfg.Platform.ExcludedPrefixes) != 5 {
		t.Errorf("excluded prefixes = %v", cfg.Platform.ExcludedPrefixes)
	}
	if cfg.Authentication.Cookie.AccessName != "tfg_access" {
		t.Errorf("access cookie = %q", cfg.Authentication.Cookie.AccessName)
	}
	if cfg.Authentication.Paseto.Configured() {
		t.Error("expected paseto to be unconfigured without key material")
	}
}

func TestReadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TFG_PLATFORM_DOMAIN", "example.test")

	cfg, err := ReadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.Platform.Domain != "example.test" {
		t.Errorf("domain = %q, want example.test", cfg.Platform.Domain)
	}
}

func TestReadConfig_MissingFileWithoutEnv(t *testing.T) {
	t.Setenv("TFG_PLATFORM_DOMAIN", "")

	if _, err := ReadConfig(t.TempDir()); err == nil {
		t.Error("expected error when config file and env are both missing")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing domain", mutate: func(c *Config) { c.Platform.Domain = "" }, wantErr: true},
		{name: "leading dot domain", mutate: func(c *Config) { c.Platform.Domain = ".techforgyms.shop" }, wantErr: true},
		{name: "relative sites prefix", mutate: func(c *Config) { c.Platform.SitesPrefix = "sites" }, wantErr: true},
		{name: "nats without url", mutate: func(c *Config) { c.Nats.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Platform: PlatformConfig{Domain: "techforgyms.shop"}}
			c.ApplyDefaults()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
