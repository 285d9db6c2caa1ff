// Package logs builds the process slog.Logger: stdout and rotated-file
// output plus an optional Loki shipper, with request metadata from reqctx
// attached to every record logged with a request context.
package logs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

func New(cfg *config.Config) *slog.Logger {
	out := cfg.Logging.Output
	dev := strings.EqualFold(cfg.Server.Environment, "development")
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Logging.Level), AddSource: dev}

	var sinks []io.Writer
	if out.Stdout || (!out.File.Enabled && !out.Loki.Enabled) {
		sinks = append(sinks, os.Stdout)
	}
	if out.File.Enabled {
		sinks = append(sinks, &lumberjack.Logger{
			Filename:   out.File.Path,
			MaxSize:    out.File.MaxSizeMB,
			MaxBackups: out.File.MaxBackups,
			MaxAge:     out.File.MaxAgeDays,
			Compress:   out.File.Compress,
		})
	}

	var fan fanout
	if len(sinks) > 0 {
		w := io.MultiWriter(sinks...)
		// Text is for humans at a terminal; everything else ships JSON.
		if dev && !strings.EqualFold(cfg.Logging.Format, "json") {
			fan = append(fan, slog.NewTextHandler(w, opts))
		} else {
			fan = append(fan, slog.NewJSONHandler(w, opts))
		}
	}
	if out.Loki.Enabled {
		fan = append(fan, slog.NewJSONHandler(newLokiShipper(cfg), &slog.HandlerOptions{Level: opts.Level}))
	}

	var h slog.Handler = fan
	if len(fan) == 1 {
		h = fan[0]
	}
	return slog.New(requestHandler{h}).With(
		"service", cfg.Observability.ServiceName,
		"version", cfg.Observability.ServiceVersion,
		"env", cfg.Server.Environment,
	)
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// requestHandler adds request_id, host and tenant to records logged with a
// request context.
type requestHandler struct{ slog.Handler }

func (h requestHandler) Handle(ctx context.Context, r slog.Record) error {
	if meta, ok := reqctx.RequestMetaFromContext(ctx); ok {
		r.Add(meta.LogAttrs()...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h requestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return requestHandler{h.Handler.WithAttrs(attrs)}
}

func (h requestHandler) WithGroup(name string) slog.Handler {
	return requestHandler{h.Handler.WithGroup(name)}
}

// fanout sends a record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) each(fn func(slog.Handler) slog.Handler) fanout {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = fn(h)
	}
	return next
}
