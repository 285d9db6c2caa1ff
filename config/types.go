package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Database       DatabaseConfig       `mapstructure:"database"`
	CasbinDatabase DatabaseConfig       `mapstructure:"casbin_database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Server         ServerConfig         `mapstructure:"server"`
	Platform       PlatformConfig       `mapstructure:"platform"`
	Authentication AuthenticationConfig `mapstructure:"authentication"`
	Authorization  AuthorizationConfig  `mapstructure:"authorization"`
	Email          EmailConfig          `mapstructure:"email"`
	Password       PasswordConfig       `mapstructure:"password"`
	Billing        BillingConfig        `mapstructure:"billing"`
	Observability  ObservabilityConfig  `mapstructure:"observability"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Nats           NatsConfig           `mapstructure:"nats"`
}

type NatsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url" yaml:"url"`
}

type DatabaseConfig struct {
	Host     string             `mapstructure:"host"`
	Port     int                `mapstructure:"port"`
	User     string             `mapstructure:"user"`
	Password string             `mapstructure:"password"`
	DBName   string             `mapstructure:"dbname"`
	SSLMode  string             `mapstructure:"sslmode"`
	Pool     DatabasePoolConfig `mapstructure:"pool"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type ServerConfig struct {
	Port           int             `mapstructure:"port"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	Environment    string          `mapstructure:"environment"`
	Databases      []string        `mapstructure:"databases"`
	CORS           CORSConfig      `mapstructure:"cors"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	LoginMax           int `mapstructure:"login_max"`
	LoginWindowSeconds int `mapstructure:"login_window_seconds"`
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// PlatformConfig describes which hostnames serve the main application and how
// tenant hostnames are mapped onto the tenant-site namespace.
type PlatformConfig struct {
	// Hosts is the allow-list of platform hostnames (apex, www, preview, local dev).
	Hosts []string `mapstructure:"hosts"`
	// Domain is the shared suffix stripped from tenant subdomains, e.g. "techforgyms.shop".
	Domain string `mapstructure:"domain"`
	// SitesPrefix is the tenant-site namespace requests are rewritten under.
	SitesPrefix string `mapstructure:"sites_prefix"`
	// ExcludedPrefixes are never rewritten, even on tenant hostnames.
	ExcludedPrefixes []string `mapstructure:"excluded_prefixes"`
}

type AuthenticationConfig struct {
	Paseto            PasetoConfig `mapstructure:"paseto"`
	SessionTTLMinutes int          `mapstructure:"session_ttl_minutes"`
	Cookie            CookieConfig `mapstructure:"cookie"`
}

type CookieConfig struct {
	AccessName        string `mapstructure:"access_name"`
	RefreshName       string `mapstructure:"refresh_name"`
	ImpersonationName string `mapstructure:"impersonation_name"`
	Domain            string `mapstructure:"domain"`
	Secure            bool   `mapstructure:"secure"`
}

type PasetoConfig struct {
	Mode             string `mapstructure:"mode"`
	LocalKeyHex      string `mapstructure:"local_key_hex"`
	SecretKeyHex     string `mapstructure:"secret_key_hex"`
	PublicKeyHex     string `mapstructure:"public_key_hex"`
	Issuer           string `mapstructure:"issuer"`
	Audience         string `mapstructure:"audience"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
}

// Configured reports whether any key material is present. An empty key set is a
// valid deployment (local development) and puts the session gate in degraded mode.
func (p PasetoConfig) Configured() bool {
	return strings.TrimSpace(p.LocalKeyHex) != "" ||
		strings.TrimSpace(p.SecretKeyHex) != "" ||
		strings.TrimSpace(p.PublicKeyHex) != ""
}

type AuthorizationConfig struct {
	// CasbinModelPath is optional; the embedded model is used when empty.
	CasbinModelPath    string `mapstructure:"casbin_model_path"`
	PersistPolicies    bool   `mapstructure:"persist_policies"`
	EnableAudit        bool   `mapstructure:"enable_audit"`
	SuperadminBypass   bool   `mapstructure:"superadmin_bypass"`
	PolicySyncEnabled  bool   `mapstructure:"policy_sync_enabled"`
	HealthCheckEnabled bool   `mapstructure:"health_check_enabled"`
}

type EmailConfig struct {
	Enabled bool       `mapstructure:"enabled"`
	From    string     `mapstructure:"from"`
	BaseURL string     `mapstructure:"base_url"`
	SMTP    SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	UseTLS         bool   `mapstructure:"use_tls"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type PasswordConfig struct {
	MinLength     int  `mapstructure:"min_length"`
	LowMemoryMode bool `mapstructure:"low_memory_mode"`
}

type BillingConfig struct {
	WebhookSecret    string `mapstructure:"webhook_secret"`
	ToleranceSeconds int    `mapstructure:"tolerance_seconds"`
	DefaultRegion    string `mapstructure:"default_region"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ApplyDefaults fills the values every deployment shares.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 30
	}
	if c.Platform.SitesPrefix == "" {
		c.Platform.SitesPrefix = "/sites"
	}
	if len(c.Platform.ExcludedPrefixes) == 0 {
		c.Platform.ExcludedPrefixes = []string{c.Platform.SitesPrefix, "/api", "/_assets", "/login", "/signup"}
	}
	if len(c.Platform.Hosts) == 0 && c.Platform.Domain != "" {
		c.Platform.Hosts = []string{c.Platform.Domain, "www." + c.Platform.Domain, "localhost"}
	}
	if c.Authentication.Cookie.AccessName == "" {
		c.Authentication.Cookie.AccessName = "tfg_access"
	}
	if c.Authentication.Cookie.RefreshName == "" {
		c.Authentication.Cookie.RefreshName = "tfg_refresh"
	}
	if c.Authentication.Cookie.ImpersonationName == "" {
		c.Authentication.Cookie.ImpersonationName = "tfg_impersonation"
	}
	if c.Authentication.SessionTTLMinutes == 0 {
		c.Authentication.SessionTTLMinutes = 30 * 24 * 60
	}
	if c.Password.MinLength == 0 {
		c.Password.MinLength = 8
	}
	if c.Billing.ToleranceSeconds == 0 {
		c.Billing.ToleranceSeconds = 300
	}
	if c.Billing.DefaultRegion == "" {
		c.Billing.DefaultRegion = "US"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "techforgyms"
	}
	if c.Observability.Metrics.Path == "" {
		c.Observability.Metrics.Path = "/metrics"
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Platform.Domain) == "" {
		return fmt.Errorf("platform.domain is required")
	}
	if strings.HasPrefix(c.Platform.Domain, ".") {
		return fmt.Errorf("platform.domain must not start with a dot: %q", c.Platform.Domain)
	}
	if !strings.HasPrefix(c.Platform.SitesPrefix, "/") {
		return fmt.Errorf("platform.sites_prefix must start with '/': %q", c.Platform.SitesPrefix)
	}
	for _, p := range c.Platform.ExcludedPrefixes {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("platform.excluded_prefixes entry must start with '/': %q", p)
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Nats.Enabled && c.Nats.URL == "" {
		return fmt.Errorf("nats.url is required when nats is enabled")
	}
	return nil
}
