package reqctx

import (
	"context"
	"time"
)

type ctxKey int

const (
	keyRequestMeta ctxKey = iota
	keyPrincipal
	keySession
)

// RequestMeta is captured once per request by the request-id middleware.
// Tenant is filled in later by the domain resolver, so holders share a pointer.
type RequestMeta struct {
	RequestID  string
	ClientIP   string
	UserAgent  string
	Host       string // as received, before any tenant rewrite
	Tenant     string // subdomain label or custom domain; "" on platform hosts
	ReceivedAt time.Time
}

// LogAttrs is the slog key/value list used on edge log lines.
func (m *RequestMeta) LogAttrs() []any {
	if m == nil {
		return nil
	}
	attrs := []any{"request_id", m.RequestID, "host", m.Host}
	if m.Tenant != "" {
		attrs = append(attrs, "tenant", m.Tenant)
	}
	return attrs
}

func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, keyRequestMeta, meta)
}

func RequestMetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	meta, ok := ctx.Value(keyRequestMeta).(*RequestMeta)
	return meta, ok && meta != nil
}

// RequestIDFromContext returns "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	if meta, ok := RequestMetaFromContext(ctx); ok {
		return meta.RequestID
	}
	return ""
}

// TenantFromContext reports the tenant key of a rewritten tenant-site request.
func TenantFromContext(ctx context.Context) (string, bool) {
	meta, ok := RequestMetaFromContext(ctx)
	if !ok || meta.Tenant == "" {
		return "", false
	}
	return meta.Tenant, true
}
