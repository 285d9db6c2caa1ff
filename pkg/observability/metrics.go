package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EdgeMetrics counts what the platform edge does with requests. Instruments
// come from the global meter provider, so they are no-ops until telemetry
// is initialised.
type EdgeMetrics struct {
	decisions metric.Int64Counter
	rewrites  metric.Int64Counter
	degraded  metric.Int64Counter
}

var (
	edgeOnce sync.Once
	edge     *EdgeMetrics
)

// Edge returns the process-wide edge instruments.
func Edge() *EdgeMetrics {
	edgeOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		m := &EdgeMetrics{}
		m.decisions, _ = meter.Int64Counter(
			"edge_route_decisions_total",
			metric.WithDescription("Route authorizer outcomes by zone and kind"),
		)
		m.rewrites, _ = meter.Int64Counter(
			"edge_tenant_rewrites_total",
			metric.WithDescription("Requests rewritten onto a tenant site"),
		)
		m.degraded, _ = meter.Int64Counter(
			"edge_session_degraded_total",
			metric.WithDescription("Requests treated as anonymous because the identity lookup failed"),
		)
		edge = m
	})
	return edge
}

func (m *EdgeMetrics) Decision(ctx context.Context, zone, kind string) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("zone", zone),
		attribute.String("kind", kind),
	))
}

func (m *EdgeMetrics) Rewrite(ctx context.Context, customDomain bool) {
	if m == nil || m.rewrites == nil {
		return
	}
	m.rewrites.Add(ctx, 1, metric.WithAttributes(attribute.Bool("custom_domain", customDomain)))
}

func (m *EdgeMetrics) Degraded(ctx context.Context, reason string) {
	if m == nil || m.degraded == nil {
		return
	}
	m.degraded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
