package authorize

import (
	"context"
	"log/slog"
	"time"

	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

// auditing decorates an IAuthorization with a structured log line per
// decision and per policy change. Denials log at warn, grants at debug.
type auditing struct {
	IAuthorization
	log *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &auditing{IAuthorization: inner, log: logger.With("component", "authz")}
}

func (a *auditing) Enforce(ctx context.Context, subject Role, domain Domain, object Resource, action Action) (bool, error) {
	started := time.Now()
	allowed, err := a.IAuthorization.Enforce(ctx, subject, domain, object, action)

	level := slog.LevelDebug
	switch {
	case err != nil:
		level = slog.LevelError
	case !allowed:
		level = slog.LevelWarn
	}
	attrs := append(callerAttrs(ctx),
		slog.String("subject", string(subject)),
		slog.String("domain", string(domain)),
		slog.String("resource", string(object)),
		slog.String("action", string(action)),
		slog.Bool("allowed", allowed),
		slog.Duration("took", time.Since(started)),
	)
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	a.log.LogAttrs(ctx, level, "authz decision", attrs...)
	return allowed, err
}

// MustEnforce is re-implemented so the audited Enforce is the one consulted.
func (a *auditing) MustEnforce(ctx context.Context, subject Role, domain Domain, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, domain, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (a *auditing) AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	changed, err := a.IAuthorization.AddPermission(ctx, role, domain, object, action, effect)
	a.policyChange(ctx, "add", PermissionPolicy{Subject: role, Domain: domain, Object: object, Action: action, Effect: effect}, changed, err)
	return changed, err
}

func (a *auditing) RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	changed, err := a.IAuthorization.RemovePermission(ctx, role, domain, object, action, effect)
	a.policyChange(ctx, "remove", PermissionPolicy{Subject: role, Domain: domain, Object: object, Action: action, Effect: effect}, changed, err)
	return changed, err
}

func (a *auditing) policyChange(ctx context.Context, op string, p PermissionPolicy, changed bool, err error) {
	level := slog.LevelInfo
	attrs := append(callerAttrs(ctx),
		slog.String("op", op),
		slog.String("role", string(p.Subject)),
		slog.String("domain", string(p.Domain)),
		slog.String("resource", string(p.Object)),
		slog.String("action", string(p.Action)),
		slog.String("effect", string(p.Effect)),
		slog.Bool("changed", changed),
	)
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.Any("error", err))
	}
	a.log.LogAttrs(ctx, level, "authz policy change", attrs...)
}

// callerAttrs names the user behind the check; request metadata is added by
// the logger itself.
func callerAttrs(ctx context.Context) []slog.Attr {
	if p := reqctx.PrincipalFromContext(ctx); p.Authenticated {
		return []slog.Attr{slog.String("user_id", p.UserID.String())}
	}
	return nil
}
