package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/api/http/handler"
	"github.com/techforgyms/techforgyms_backend/internal/api/http/middleware"
	"github.com/techforgyms/techforgyms_backend/internal/service/admin"
	"github.com/techforgyms/techforgyms_backend/internal/service/auth"
	"github.com/techforgyms/techforgyms_backend/internal/service/billing"
	"github.com/techforgyms/techforgyms_backend/internal/service/gym"
	"github.com/techforgyms/techforgyms_backend/internal/service/member"
	"github.com/techforgyms/techforgyms_backend/internal/service/staff"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/authorize"
	"github.com/techforgyms/techforgyms_backend/pkg/hostroute"
)

// Module provides the Router and the edge policy objects to the fx graph.
var Module = fx.Module("router",
	fx.Provide(
		NewRouter,
		ProvideCookieJar,
		ProvideAccessAuthorizer,
		ProvideHostResolver,
	),
)

func ProvideCookieJar(cfg *config.Config) middleware.CookieJar {
	return middleware.NewCookieJar(cfg.Authentication)
}

func ProvideAccessAuthorizer() *access.Authorizer {
	return access.NewAuthorizer(access.DefaultRules...)
}

// ProvideHostResolver builds the tenant resolver. Probe and metrics paths are
// always excluded so they answer on any host.
func ProvideHostResolver(cfg *config.Config) *hostroute.Resolver {
	excluded := append([]string{
		healthcheck.LivenessEndpoint,
		healthcheck.ReadinessEndpoint,
		healthcheck.StartupEndpoint,
	}, cfg.Platform.ExcludedPrefixes...)
	if path := cfg.Observability.Metrics.Path; path != "" {
		excluded = append(excluded, path)
	}
	return hostroute.New(hostroute.Options{
		PlatformHosts:    cfg.Platform.Hosts,
		Domain:           cfg.Platform.Domain,
		SitesPrefix:      cfg.Platform.SitesPrefix,
		ExcludedPrefixes: excluded,
	})
}

type Params struct {
	fx.In

	Cfg        *config.Config
	Redis      *redis.Client
	Auth       authorize.IAuthorization
	Access     *access.Authorizer
	Jar        middleware.CookieJar
	AuthSvc    auth.Service
	GymSvc     gym.Service
	MemberSvc  member.Service
	StaffSvc   staff.Service
	AdminSvc   admin.Service
	BillingSvc billing.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

// Register mounts every route. Zone checks already ran in the global
// RouteAuthorizer; the guards here add role and per-gym permission checks.
func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Guards
	gymScope := middleware.GymScope()
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}
	loginLimiter := middleware.NewLoginLimiter(r.p.Redis, r.p.Cfg.Server.RateLimit)

	// 3. Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc, r.p.Access, r.p.Jar)
	sessionH := handler.NewSessionHandler(r.p.Jar)
	pageH := handler.NewPageHandler()
	adminH := handler.NewAdminHandler(r.p.AdminSvc, r.p.Jar)
	ownerH := handler.NewOwnerHandler(r.p.GymSvc, r.p.MemberSvc, r.p.StaffSvc)
	memberH := handler.NewMemberHandler(r.p.MemberSvc)
	siteH := handler.NewSiteHandler(r.p.GymSvc)
	billingH := handler.NewBillingHandler(r.p.BillingSvc)

	api := app.Group("/api")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, sessionH, loginLimiter)
	r.registerAdminRoutes(api, adminH, requirePerm)
	r.registerOwnerRoutes(api, ownerH, gymScope, requirePerm)
	r.registerMemberRoutes(api, memberH)
	r.registerWebhookRoutes(api, billingH)
	r.registerSiteRoutes(app, siteH)
	r.registerPageRoutes(app, pageH)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(fiber.Ctx) bool { return authorize.FromCentralConfig(r.p.Cfg.Authorization).Ready() },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		app.Get(r.p.Cfg.Observability.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
