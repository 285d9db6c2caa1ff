package billing

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	workerQueue  = "billing-workers"
	applyTimeout = 10 * time.Second
)

// Subscribe attaches the billing worker to every relayed billing subject.
// Queue members share the load across replicas.
func Subscribe(nc *nats.Conn, svc Service) (*nats.Subscription, error) {
	return nc.QueueSubscribe(SubjectPrefix+">", workerQueue, func(msg *nats.Msg) {
		handleMessage(svc, msg.Subject, msg.Data)
	})
}

func handleMessage(svc Service, subject string, data []byte) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		slog.Warn("billing_worker: undecodable event", "subject", subject, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()

	if _, err := svc.Apply(ctx, e); err != nil {
		slog.Error("billing_worker: apply failed", "event_id", e.ID, "subject", subject, "err", err)
	}
}
