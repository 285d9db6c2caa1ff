package authorize

import "github.com/techforgyms/techforgyms_backend/config"

type Config struct {
	// CasbinModelPath overrides the embedded model when set.
	CasbinModelPath string
	// PersistPolicies keeps policies in the casbin database and syncs
	// instances over LISTEN/NOTIFY; otherwise they are seeded in memory.
	PersistPolicies    bool
	EnableAudit        bool
	SuperadminBypass   bool
	HealthCheckEnabled bool
}

func FromCentralConfig(c config.AuthorizationConfig) Config {
	return Config{
		CasbinModelPath:    c.CasbinModelPath,
		PersistPolicies:    c.PersistPolicies || c.PolicySyncEnabled,
		EnableAudit:        c.EnableAudit,
		SuperadminBypass:   c.SuperadminBypass,
		HealthCheckEnabled: c.HealthCheckEnabled,
	}
}

// Ready is the readiness contribution of the policy store. With the health
// check disabled it always reports ready.
func (c Config) Ready() bool {
	return !c.HealthCheckEnabled || IsPolicyHealthy()
}
