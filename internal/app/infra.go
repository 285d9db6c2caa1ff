package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	casbin "github.com/casbin/casbin/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/repo"
	"github.com/techforgyms/techforgyms_backend/pkg/authorize"
	"github.com/techforgyms/techforgyms_backend/pkg/database"
	"github.com/techforgyms/techforgyms_backend/pkg/email"
	"github.com/techforgyms/techforgyms_backend/pkg/observability"
	pasetotoken "github.com/techforgyms/techforgyms_backend/pkg/paseto"
	redispkg "github.com/techforgyms/techforgyms_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideStore),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvidePasetoManager),
)

// releaseOnStop closes an infrastructure handle when the app stops.
func releaseOnStop(lc fx.Lifecycle, name string, release func(context.Context) error) {
	lc.Append(fx.StopHook(func(ctx context.Context) error {
		slog.Debug("releasing infrastructure", "component", name)
		return release(ctx)
	}))
}

func ProvideStore(lc fx.Lifecycle, cfg *config.Config) (*repo.Store, error) {
	db, err := database.NewFromCentral(context.Background(), cfg.Database)
	if err != nil {
		return nil, err
	}
	releaseOnStop(lc, "postgres", func(context.Context) error { return db.Close() })
	return repo.NewStore(db.Conn()), nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewFromCentral(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	releaseOnStop(lc, "redis", func(context.Context) error { return rdb.Close() })
	return rdb, nil
}

// ProvideAuthorization builds the policy enforcer. Policies live in memory and
// are seeded on start unless persistence is enabled, in which case Postgres
// holds them and the LISTEN/NOTIFY watcher keeps instances in sync.
func ProvideAuthorization(lc fx.Lifecycle, cfg *config.Config) (authorize.IAuthorization, error) {
	acfg := authorize.FromCentralConfig(cfg.Authorization)

	var (
		enforcer *casbin.DistributedEnforcer
		cleanup  authorize.CleanupFunc = func(context.Context) {}
		err      error
	)
	if acfg.PersistPolicies {
		enforcer, cleanup, err = authorize.NewPersistentEnforcer(acfg.CasbinModelPath, database.NewDSN(cfg.CasbinDatabase))
	} else {
		enforcer, err = authorize.NewMemoryEnforcer(acfg.CasbinModelPath)
	}
	if err != nil {
		return nil, err
	}

	auth, err := authorize.NewAuthorization(enforcer, acfg.SuperadminBypass)
	if err != nil {
		cleanup(context.Background())
		return nil, err
	}
	if acfg.EnableAudit {
		auth = authorize.NewAuditedAuthorization(auth, slog.Default())
	}

	lc.Append(fx.StartHook(func(ctx context.Context) error {
		return authorize.SeedDefaultPolicies(ctx, auth)
	}))
	releaseOnStop(lc, "casbin", func(ctx context.Context) error {
		cleanup(ctx)
		return nil
	})
	return auth, nil
}

func ProvideEmailClient(cfg *config.Config) (email.Sender, error) {
	return email.NewFromCentral(cfg.Email)
}

// ProvideNatsClient connects to NATS when enabled. A nil connection means
// billing events are applied inline by the webhook handler.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if !cfg.Nats.Enabled {
		return nil, nil
	}

	nc, err := nats.Connect(cfg.Nats.URL, natsOptions(cfg.Observability.ServiceName)...)
	if err != nil {
		return nil, err
	}
	releaseOnStop(lc, "nats", func(context.Context) error { return nc.Drain() })
	return nc, nil
}

func natsOptions(name string) []nats.Option {
	return []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	}
}

// ProvidePasetoManager returns nil when no key material is configured; the
// session gate then runs in degraded mode.
func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	m, err := pasetotoken.NewPasetoManager(cfg)
	if errors.Is(err, pasetotoken.ErrNotConfigured) {
		slog.Warn("identity provider not configured, protected areas are unavailable")
		return nil, nil
	}
	return m, err
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.Init(context.Background(),
		observability.ConfigFromCentral(cfg.Observability, cfg.Server.Environment))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	releaseOnStop(lc, "otel", provider.Shutdown)
	return provider, nil
}
