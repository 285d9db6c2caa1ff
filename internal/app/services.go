package app

import (
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/repo"
	"github.com/techforgyms/techforgyms_backend/internal/service/admin"
	"github.com/techforgyms/techforgyms_backend/internal/service/auth"
	"github.com/techforgyms/techforgyms_backend/internal/service/billing"
	"github.com/techforgyms/techforgyms_backend/internal/service/gym"
	"github.com/techforgyms/techforgyms_backend/internal/service/member"
	"github.com/techforgyms/techforgyms_backend/internal/service/staff"
	"github.com/techforgyms/techforgyms_backend/pkg/email"
	pasetotoken "github.com/techforgyms/techforgyms_backend/pkg/paseto"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideIdentityProvider,
		ProvideAuthService,
		ProvideGymService,
		ProvideMemberService,
		ProvideStaffService,
		ProvideAdminService,
		ProvideBillingService,
	),
)

func ProvideIdentityProvider(paseto *pasetotoken.Manager, rdb *redis.Client, store *repo.Store) auth.Provider {
	return auth.NewProvider(paseto, rdb, store.Profiles)
}

func ProvideAuthService(
	store *repo.Store,
	rdb *redis.Client,
	paseto *pasetotoken.Manager,
	mailer email.Sender,
	cfg *config.Config,
) auth.Service {
	return auth.New(store, rdb, paseto, mailer, cfg)
}

func ProvideGymService(store *repo.Store, cfg *config.Config) gym.Service {
	return gym.New(store, cfg)
}

func ProvideMemberService(store *repo.Store, cfg *config.Config) member.Service {
	return member.New(store, cfg)
}

func ProvideStaffService(store *repo.Store, mailer email.Sender, cfg *config.Config) staff.Service {
	return staff.New(store, mailer, cfg)
}

func ProvideAdminService(store *repo.Store) admin.Service {
	return admin.New(store)
}

// ProvideBillingService relays webhook events over NATS when a connection is
// available and applies them inline otherwise.
func ProvideBillingService(store *repo.Store, nc *nats.Conn, cfg *config.Config) billing.Service {
	var pub billing.Publisher
	if nc != nil {
		pub = nc
	}
	return billing.New(store, pub, cfg)
}
