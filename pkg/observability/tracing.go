package observability

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

const instrumentationName = "github.com/techforgyms/techforgyms_backend/pkg/observability"

// Attribute keys the edge adds on top of the HTTP semantic conventions.
const (
	AttrTenant = attribute.Key("tfg.tenant")
	AttrZone   = attribute.Key("tfg.zone")
)

// HTTPMiddleware opens a server span per request and records request
// duration. Paths under skip (probes, /metrics) are passed through untraced.
// The span is renamed to the matched route once routing has run, and tagged
// with the tenant when the request was rewritten onto a tenant site.
func HTTPMiddleware(skip ...string) fiber.Handler {
	tracer := otel.Tracer(instrumentationName)
	duration, _ := otel.Meter(instrumentationName).Float64Histogram(
		"http.server.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of inbound HTTP requests"),
	)

	return func(c fiber.Ctx) error {
		for _, p := range skip {
			if strings.HasPrefix(c.Path(), p) {
				return c.Next()
			}
		}

		ctx := otel.GetTextMapPropagator().Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := tracer.Start(ctx, c.Method(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(c.Method()),
				semconv.URLPath(c.Path()),
				semconv.ServerAddress(c.Hostname()),
				semconv.ClientAddress(c.IP()),
				semconv.UserAgentOriginal(c.Get(fiber.HeaderUserAgent)),
			),
		)
		defer span.End()

		c.SetContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set("X-Trace-Id", sc.TraceID().String())
		}

		started := time.Now()
		err := c.Next()
		elapsed := time.Since(started).Seconds()

		route := c.Route().Path
		status := c.Response().StatusCode()
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(semconv.HTTPRoute(route), semconv.HTTPResponseStatusCode(status))
		if tenant, ok := reqctx.TenantFromContext(c.Context()); ok {
			span.SetAttributes(AttrTenant.String(tenant))
		}

		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, fiber.ErrInternalServerError.Message)
			if err != nil {
				span.RecordError(err)
			}
		}

		duration.Record(ctx, elapsed, metric.WithAttributes(
			semconv.HTTPRequestMethodKey.String(c.Method()),
			semconv.HTTPRoute(route),
			semconv.HTTPResponseStatusCode(status),
		))
		return err
	}
}

// AnnotateZone tags the active span with the route zone the authorizer chose.
func AnnotateZone(c fiber.Ctx, zone string) {
	trace.SpanFromContext(c.Context()).SetAttributes(AttrZone.String(zone))
}
