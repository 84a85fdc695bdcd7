package ports

import (
	"context"

	"open-payments-bridge/internal/core/domain"
)

// PendingPaymentStore bridges the initiate and complete phases of a payment
// saga. Get returns nil, nil for an absent or expired id — absence is not an
// error. Implementations must tolerate concurrent Save/Get/Delete on
// different ids without cross-contamination.
type PendingPaymentStore interface {
	Save(ctx context.Context, paymentID string, state *domain.PendingPayment) error
	Get(ctx context.Context, paymentID string) (*domain.PendingPayment, error)
	Delete(ctx context.Context, paymentID string) error
	GeneratePaymentID() string
}
