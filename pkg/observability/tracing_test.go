package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

func TestHTTPMiddleware(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		meta := &reqctx.RequestMeta{RequestID: "r1", Tenant: c.Get("X-Test-Tenant")}
		c.SetContext(reqctx.WithRequestMeta(c.Context(), meta))
		return c.Next()
	})
	app.Use(HTTPMiddleware("/livez"))
	app.Get("/sites/:key", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/boom", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusBadGateway) })
	app.Get("/livez", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/sites/ironhouse", nil)
	req.Header.Set("X-Test-Tenant", "ironhouse")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.Header.Get("X-Trace-Id") == "" {
		t.Error("X-Trace-Id not set")
	}
	if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil)); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/livez", nil)); err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2 (probe skipped)", len(spans))
	}

	site := spans[0]
	if site.Name() != "GET /sites/:key" {
		t.Errorf("span name = %q", site.Name())
	}
	if !hasAttr(site.Attributes(), AttrTenant.String("ironhouse")) {
		t.Errorf("tenant attribute missing: %v", site.Attributes())
	}

	if got := spans[1].Status().Code.String(); got != "Error" {
		t.Errorf("5xx span status = %s, want Error", got)
	}
}

func hasAttr(attrs []attribute.KeyValue, want attribute.KeyValue) bool {
	for _, a := range attrs {
		if a == want {
			return true
		}
	}
	return false
}
