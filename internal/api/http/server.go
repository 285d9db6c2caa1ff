package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/api/http/middleware"
	"github.com/techforgyms/techforgyms_backend/internal/api/http/router"
	"github.com/techforgyms/techforgyms_backend/internal/service/auth"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/constants"
	"github.com/techforgyms/techforgyms_backend/pkg/hostroute"
	"github.com/techforgyms/techforgyms_backend/pkg/observability"
)

// Module provides the edge fiber app to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

const accessLogFormat = "${ip} [${time}] [req_id=${locals:request_id}] ${host} ${method} ${url} ${status} ${latency}\n"

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Redis     *redis.Client
	Router    *router.Router
	Resolver  *hostroute.Resolver
	Access    *access.Authorizer
	Provider  auth.Provider
	Jar       middleware.CookieJar
	OTel      *observability.Provider `optional:"true"`
}

func NewServer(p Params) *fiber.App {
	timeout := time.Duration(p.Cfg.Server.TimeoutSeconds) * time.Second
	app := fiber.New(fiber.Config{
		AppName:       constants.AppName,
		CaseSensitive: true,
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
	})

	for _, h := range edgeChain(p) {
		app.Use(h)
	}
	p.Router.Register(app)

	addr := net.JoinHostPort("", strconv.Itoa(p.Cfg.Server.Port))
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			go func() {
				if err := app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true}); err != nil && !errors.Is(err, net.ErrClosed) {
					slog.Error("edge listener stopped", "addr", addr, "error", err)
				}
			}()
			slog.Info("edge listening", "addr", addr, "domain", p.Cfg.Platform.Domain)
			return nil
		},
		OnStop: app.ShutdownWithContext,
	})

	return app
}

// edgeChain is every app-wide handler in order. Hardening runs first, then
// tenant rewrite, identity and the zone policy.
func edgeChain(p Params) []fiber.Handler {
	var chain []fiber.Handler
	if p.OTel != nil {
		chain = append(chain, observability.HTTPMiddleware(
			healthcheck.LivenessEndpoint,
			healthcheck.ReadinessEndpoint,
			healthcheck.StartupEndpoint,
			p.Cfg.Observability.Metrics.Path,
		))
	}
	chain = append(chain, middleware.RequestID(), recoverer.New())
	chain = append(chain, productionGuards(p.Cfg.Server, p.Redis)...)
	return append(chain,
		logger.New(logger.Config{Format: accessLogFormat}),
		middleware.DomainResolver(p.Resolver),
		middleware.SessionGate(p.Provider, p.Jar),
		middleware.RouteAuthorizer(p.Access, p.Provider),
	)
}

func productionGuards(cfg config.ServerConfig, rdb *redis.Client) []fiber.Handler {
	if cfg.Environment != "production" {
		return nil
	}
	guards := []fiber.Handler{helmet.New()}
	if cfg.CORS.Enabled {
		guards = append(guards, cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowCredentials: cfg.CORS.AllowCredentials,
		}))
	}
	return append(guards, middleware.NewGlobalLimiter(rdb))
}
