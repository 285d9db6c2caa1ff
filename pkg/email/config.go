package email

import (
	"time"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/pkg/constants"
)

type Config struct {
	Enabled bool
	From    string
	AppName string
	BaseURL string
	SMTP    SMTP
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	// ImplicitTLS dials TLS directly (port 465); otherwise STARTTLS is used
	// when the server offers it.
	ImplicitTLS bool
	Timeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		AppName: constants.AppName,
		SMTP:    SMTP{Port: 587, Timeout: 30 * time.Second},
	}
}

func FromCentralConfig(c config.EmailConfig) Config {
	out := DefaultConfig()
	out.Enabled = c.Enabled
	out.From = c.From
	out.BaseURL = c.BaseURL
	out.SMTP.Host = c.SMTP.Host
	out.SMTP.Username = c.SMTP.Username
	out.SMTP.Password = c.SMTP.Password
	out.SMTP.ImplicitTLS = c.SMTP.UseTLS
	if c.SMTP.Port > 0 {
		out.SMTP.Port = c.SMTP.Port
	}
	if c.SMTP.TimeoutSeconds > 0 {
		out.SMTP.Timeout = time.Duration(c.SMTP.TimeoutSeconds) * time.Second
	}
	return out
}
