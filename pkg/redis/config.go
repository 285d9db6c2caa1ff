package redis

import (
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/techforgyms/techforgyms_backend/config"
)

const (
	defaultPoolSize     = 10
	defaultMinIdle      = 2
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// Options maps the redis config section onto client options. Zero values fall
// back to the package defaults; an empty addr stays empty so New can reject it.
func Options(c config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     positive(c.PoolSize, defaultPoolSize),
		MinIdleConns: positive(c.MinIdleConns, defaultMinIdle),
		DialTimeout:  seconds(c.DialTimeoutSeconds, defaultDialTimeout),
		ReadTimeout:  seconds(c.ReadTimeoutSeconds, defaultReadTimeout),
		WriteTimeout: seconds(c.WriteTimeoutSeconds, defaultWriteTimeout),
	}
}

func positive(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func seconds(v int, def time.Duration) time.Duration {
	if v > 0 {
		return time.Duration(v) * time.Second
	}
	return def
}
