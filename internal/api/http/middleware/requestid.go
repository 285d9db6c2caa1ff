package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

const (
	HeaderRequestID = "X-Request-Id"
	// LocalRequestID is read by the access log's ${locals:request_id} tag.
	LocalRequestID = "request_id"
	localMeta      = "request_meta"

	maxRequestIDLen = 128
)

// RequestID echoes a sane inbound X-Request-Id or mints a time-ordered one,
// then attaches the request metadata to both Locals and the user context.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if !validRequestID(rid) {
			rid = newRequestID()
		}
		c.Request().Header.Set(HeaderRequestID, rid)
		c.Set(HeaderRequestID, rid)
		c.Locals(LocalRequestID, rid)

		meta := &reqctx.RequestMeta{
			RequestID:  rid,
			ClientIP:   c.IP(),
			UserAgent:  c.Get(fiber.HeaderUserAgent),
			Host:       c.Host(),
			ReceivedAt: time.Now(),
		}
		c.Locals(localMeta, meta)
		c.SetContext(reqctx.WithRequestMeta(c.Context(), meta))
		return c.Next()
	}
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// validRequestID accepts printable ASCII without spaces so ids can be logged
// and forwarded verbatim.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

func RequestMetaFromFiber(c fiber.Ctx) (*reqctx.RequestMeta, bool) {
	meta, ok := c.Locals(localMeta).(*reqctx.RequestMeta)
	return meta, ok && meta != nil
}
