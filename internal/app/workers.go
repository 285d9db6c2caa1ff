package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/techforgyms/techforgyms_backend/internal/service/billing"
)

// WorkerModule runs the NATS consumers. Without a NATS connection it
// registers nothing and the webhook applies billing events itself.
var WorkerModule = fx.Module("workers", fx.Invoke(startBillingWorker))

type workerDeps struct {
	fx.In

	Lifecycle fx.Lifecycle
	Conn      *nats.Conn `optional:"true"`
	Billing   billing.Service
}

func startBillingWorker(d workerDeps) {
	if d.Conn == nil {
		slog.Info("nats disabled, billing events are applied inline")
		return
	}

	var sub *nats.Subscription
	d.Lifecycle.Append(fx.StartStopHook(
		func() error {
			var err error
			if sub, err = billing.Subscribe(d.Conn, d.Billing); err != nil {
				return err
			}
			slog.Info("billing worker subscribed", "subject", sub.Subject, "queue", sub.Queue)
			return nil
		},
		func(context.Context) error {
			// In-flight events finish before the connection itself drains.
			return sub.Drain()
		},
	))
}
