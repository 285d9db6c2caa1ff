package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/techforgyms/techforgyms_backend/config"
)

const (
	globalLimit  = 120
	globalWindow = time.Minute
)

// NewLoginLimiter throttles credential attempts per client IP. Counters live
// in Redis so every instance shares them.
func NewLoginLimiter(rdb *redis.Client, cfg config.RateLimitConfig) fiber.Handler {
	limit, window := cfg.LoginMax, time.Duration(cfg.LoginWindowSeconds)*time.Second
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return slidingWindow(rdb, limit, window, "login:", "too many login attempts, try again later")
}

// NewGlobalLimiter caps every client at a fixed request rate in production.
func NewGlobalLimiter(rdb *redis.Client) fiber.Handler {
	return slidingWindow(rdb, globalLimit, globalWindow, "global:", "rate limit exceeded")
}

func slidingWindow(rdb *redis.Client, limit int, window time.Duration, keyPrefix, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Storage:           fiberredis.NewFromConnection(rdb),
		Max:               limit,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c fiber.Ctx) string {
			return keyPrefix + c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": message})
		},
	})
}
