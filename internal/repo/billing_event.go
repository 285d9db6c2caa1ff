package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type BillingEventDatastore struct {
	db DBTX
}

func NewBillingEventDatastore(db DBTX) *BillingEventDatastore {
	return &BillingEventDatastore{db: db}
}

// Record stores an event id once. It reports false when the id was
// already recorded.
func (ds *BillingEventDatastore) Record(ctx context.Context, id, eventType string, gymID *uuid.UUID) (bool, error) {
	query := `
		INSERT INTO billing_events (id, type, gym_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`
	res, err := ds.db.ExecContext(ctx, query, id, eventType, gymID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func stringArray(s []string) any {
	return pq.Array(s)
}
