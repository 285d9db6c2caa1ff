package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/repo"
)

// SubjectPrefix namespaces relayed events; the event type is appended.
const SubjectPrefix = "techforgyms.billing."

var eventType = regexp.MustCompile(`^[a-z0-9_]+(?:\.[a-z0-9_]+)*$`)

// Event is the processor's webhook body.
type Event struct {
	ID    string    `json:"id"`
	Type  string    `json:"type"`
	GymID uuid.UUID `json:"gym_id"`
	Data  EventData `json:"data"`
}

type EventData struct {
	SubscriptionStatus *string    `json:"subscription_status,omitempty"`
	Tier               *string    `json:"tier,omitempty"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CustomerID         *string    `json:"customer_id,omitempty"`
}

func (e Event) Subject() string { return SubjectPrefix + e.Type }

func (e Event) validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidEvent)
	case !eventType.MatchString(e.Type):
		return fmt.Errorf("%w: bad type %q", ErrInvalidEvent, e.Type)
	case e.GymID == uuid.Nil:
		return fmt.Errorf("%w: missing gym_id", ErrInvalidEvent)
	}
	return nil
}

// ParseEvent decodes and validates a webhook body.
func ParseEvent(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Service interface {
	// Receive verifies and relays a webhook delivery. Without a publisher the
	// event is applied inline.
	Receive(ctx context.Context, payload []byte, signature string) (Event, error)
	// Apply writes the event to its gym once; a repeated id is a no-op that
	// reports false.
	Apply(ctx context.Context, e Event) (bool, error)
}

type billingService struct {
	store     *repo.Store
	publisher Publisher
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

// New builds the service. publisher may be nil.
func New(store *repo.Store, publisher Publisher, cfg *config.Config) Service {
	return &billingService{
		store:     store,
		publisher: publisher,
		secret:    cfg.Billing.WebhookSecret,
		tolerance: time.Duration(cfg.Billing.ToleranceSeconds) * time.Second,
		now:       time.Now,
	}
}

func (s *billingService) Receive(ctx context.Context, payload []byte, signature string) (Event, error) {
	if err := VerifySignature(s.secret, payload, signature, s.now(), s.tolerance); err != nil {
		return Event{}, err
	}
	e, err := ParseEvent(payload)
	if err != nil {
		return Event{}, err
	}

	if s.publisher == nil {
		if _, err := s.Apply(ctx, e); err != nil {
			return e, err
		}
		return e, nil
	}

	if err := s.publisher.Publish(e.Subject(), payload); err != nil {
		return e, fmt.Errorf("publish billing event: %w", err)
	}
	slog.DebugContext(ctx, "billing event relayed", "event_id", e.ID, "subject", e.Subject())
	return e, nil
}

func (s *billingService) Apply(ctx context.Context, e Event) (bool, error) {
	if err := e.validate(); err != nil {
		return false, err
	}

	applied := false
	err := s.store.InTx(ctx, func(tx *repo.Store) error {
		fresh, err := tx.BillingEvents.Record(ctx, e.ID, e.Type, &e.GymID)
		if err != nil {
			return fmt.Errorf("record event: %w", err)
		}
		if !fresh {
			return nil
		}
		n, err := tx.Gyms.ApplyBilling(ctx, e.GymID, repo.BillingUpdate{
			SubscriptionStatus: e.Data.SubscriptionStatus,
			Tier:               e.Data.Tier,
			TrialEndsAt:        e.Data.TrialEndsAt,
			BillingCustomerID:  e.Data.CustomerID,
		})
		if err != nil {
			return fmt.Errorf("apply billing: %w", err)
		}
		if n == 0 {
			return ErrGymNotFound
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if applied {
		slog.InfoContext(ctx, "billing event applied", "event_id", e.ID, "type", e.Type, "gym_id", e.GymID)
	} else {
		slog.DebugContext(ctx, "billing event already applied", "event_id", e.ID)
	}
	return applied, nil
}
