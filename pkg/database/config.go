package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/techforgyms/techforgyms_backend/config"
)

// Config is what one *sql.DB is opened with.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Pool     Pool
}

type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

var defaults = Config{
	Host:    "localhost",
	Port:    5432,
	SSLMode: "disable",
	Pool:    Pool{MaxOpen: 25, MaxIdle: 5, MaxLifetime: 5 * time.Minute},
}

// DSN renders the lib/pq key/value form. Values with spaces or quotes are
// single-quoted; empty values are omitted.
func (c Config) DSN() string {
	pairs := []struct{ k, v string }{
		{"host", c.Host},
		{"port", fmt.Sprint(c.Port)},
		{"user", c.User},
		{"password", c.Password},
		{"dbname", c.DBName},
		{"sslmode", c.SSLMode},
	}
	var b strings.Builder
	for _, p := range pairs {
		if p.v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.k)
		b.WriteByte('=')
		b.WriteString(quoteDSNValue(p.v))
	}
	return b.String()
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// FromCentralConfig fills unset connection and pool fields from defaults.
func FromCentralConfig(c config.DatabaseConfig) Config {
	out := Config{
		Host:     orString(c.Host, defaults.Host),
		Port:     orInt(c.Port, defaults.Port),
		User:     c.User,
		Password: c.Password,
		DBName:   c.DBName,
		SSLMode:  orString(c.SSLMode, defaults.SSLMode),
		Pool: Pool{
			MaxOpen:     orInt(c.Pool.MaxOpenConns, defaults.Pool.MaxOpen),
			MaxIdle:     orInt(c.Pool.MaxIdleConns, defaults.Pool.MaxIdle),
			MaxLifetime: defaults.Pool.MaxLifetime,
		},
	}
	if c.Pool.ConnMaxLifetimeMin > 0 {
		out.Pool.MaxLifetime = time.Duration(c.Pool.ConnMaxLifetimeMin) * time.Minute
	}
	return out
}

// NewDSN is the DSN for c after defaults; the casbin adapter takes a string.
func NewDSN(c config.DatabaseConfig) string {
	return FromCentralConfig(c).DSN()
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
