package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"open-payments-bridge/internal/core/domain"
	"open-payments-bridge/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// PendingPaymentStore implements ports.PendingPaymentStore on Redis. The
// saga checkpoint is stored as JSON under a prefixed key with a native TTL,
// so expiry needs no sweeping and survives process restarts.
type PendingPaymentStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewPendingPaymentStore creates a Redis-backed pending-payment store.
func NewPendingPaymentStore(client *goredis.Client, ttl time.Duration) *PendingPaymentStore {
	return &PendingPaymentStore{
		client: client,
		prefix: "pending_payment:",
		ttl:    ttl,
	}
}

// Save stores the checkpoint as JSON, resetting its TTL.
func (s *PendingPaymentStore) Save(ctx context.Context, paymentID string, state *domain.PendingPayment) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding pending payment: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+paymentID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis pending payment set: %w", err)
	}
	return nil
}

// Get retrieves a checkpoint by payment id. Returns nil, nil when the key
// does not exist or has expired.
func (s *PendingPaymentStore) Get(ctx context.Context, paymentID string) (*domain.PendingPayment, error) {
	data, err := s.client.Get(ctx, s.prefix+paymentID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis pending payment get: %w", err)
	}
	var state domain.PendingPayment
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding pending payment: %w", err)
	}
	return &state, nil
}

// Delete removes the checkpoint; deleting an absent id is not an error.
func (s *PendingPaymentStore) Delete(ctx context.Context, paymentID string) error {
	if err := s.client.Del(ctx, s.prefix+paymentID).Err(); err != nil {
		return fmt.Errorf("redis pending payment del: %w", err)
	}
	return nil
}

// GeneratePaymentID returns a fresh process-unique payment id.
func (s *PendingPaymentStore) GeneratePaymentID() string {
	return domain.NewPaymentID()
}

var _ ports.PendingPaymentStore = (*PendingPaymentStore)(nil)
