package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"open-payments-bridge/internal/core/domain"
	"open-payments-bridge/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// PendingPaymentStore implements ports.PendingPaymentStore on PostgreSQL.
// Checkpoints are stored as jsonb with an explicit expiry column; expired rows
// are invisible to Get and reclaimed by Sweep.
type PendingPaymentStore struct {
	pool Pool
	ttl  time.Duration
}

// NewPendingPaymentStore creates a PostgreSQL-backed pending-payment store.
func NewPendingPaymentStore(pool Pool, ttl time.Duration) *PendingPaymentStore {
	return &PendingPaymentStore{pool: pool, ttl: ttl}
}

// Migrate creates the backing table when it does not exist yet.
func (s *PendingPaymentStore) Migrate(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS pending_payments (
		payment_id TEXT PRIMARY KEY,
		state JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("creating pending_payments table: %w", err)
	}
	return nil
}

// Save upserts the checkpoint, resetting its expiry.
func (s *PendingPaymentStore) Save(ctx context.Context, paymentID string, state *domain.PendingPayment) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding pending payment: %w", err)
	}

	query := `INSERT INTO pending_payments (payment_id, state, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (payment_id) DO UPDATE SET state = $2, expires_at = $3`

	_, err = s.pool.Exec(ctx, query, paymentID, data, time.Now().Add(s.ttl))
	if err != nil {
		return fmt.Errorf("insert pending payment: %w", err)
	}
	return nil
}

// Get fetches a live checkpoint by payment id. Returns nil, nil when the row
// is absent or expired.
func (s *PendingPaymentStore) Get(ctx context.Context, paymentID string) (*domain.PendingPayment, error) {
	query := `SELECT state FROM pending_payments WHERE payment_id = $1 AND expires_at > now()`

	var data []byte
	err := s.pool.QueryRow(ctx, query, paymentID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending payment: %w", err)
	}

	var state domain.PendingPayment
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding pending payment: %w", err)
	}
	return &state, nil
}

// Delete removes the checkpoint; deleting an absent id is not an error.
func (s *PendingPaymentStore) Delete(ctx context.Context, paymentID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM pending_payments WHERE payment_id = $1`, paymentID)
	if err != nil {
		return fmt.Errorf("delete pending payment: %w", err)
	}
	return nil
}

// Sweep reclaims expired rows and returns the number removed.
func (s *PendingPaymentStore) Sweep(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM pending_payments WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("sweep pending payments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GeneratePaymentID returns a fresh process-unique payment id.
func (s *PendingPaymentStore) GeneratePaymentID() string {
	return domain.NewPaymentID()
}

var _ ports.PendingPaymentStore = (*PendingPaymentStore)(nil)
