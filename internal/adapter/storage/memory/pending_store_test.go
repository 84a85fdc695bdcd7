package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"open-payments-bridge/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *PendingPaymentStore {
	t.Helper()
	s := NewPendingPaymentStore(ttl, 0, zerolog.Nop())
	t.Cleanup(s.Stop)
	return s
}

func testState(id string) *domain.PendingPayment {
	return &domain.PendingPayment{
		PaymentID: id,
		Quote:     domain.Quote{ID: "quote-for-" + id},
		CreatedAt: time.Now().UTC(),
	}
}

func TestPendingStore_SaveGetDelete(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "p1", testState("p1")))

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "quote-for-p1", got.Quote.ID)

	require.NoError(t, s.Delete(ctx, "p1"))
	got, err = s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got, "deleted entries read back as absent")
}

func TestPendingStore_AbsentIsNilNil(t *testing.T) {
	s := newTestStore(t, time.Minute)

	got, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, s.Delete(context.Background(), "nope"), "deleting an absent id is not an error")
}

func TestPendingStore_ExpiryEnforcedOnGet(t *testing.T) {
	s := newTestStore(t, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "p1", testState("p1")))
	time.Sleep(20 * time.Millisecond)

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got, "expired entries read back as absent")
}

func TestPendingStore_SweepRemovesExpired(t *testing.T) {
	s := newTestStore(t, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "old", testState("old")))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Save(ctx, "fresh", testState("fresh")))

	assert.Equal(t, 1, s.sweep(time.Now()))

	s.mu.RLock()
	_, oldExists := s.entries["old"]
	_, freshExists := s.entries["fresh"]
	s.mu.RUnlock()
	assert.False(t, oldExists)
	assert.True(t, freshExists)
}

func TestPendingStore_JanitorStops(t *testing.T) {
	s := NewPendingPaymentStore(time.Minute, time.Millisecond, zerolog.Nop())
	time.Sleep(5 * time.Millisecond)
	s.Stop()
	// Stop is idempotent.
	s.Stop()
}

func TestPendingStore_ConcurrentAccessAcrossIDs(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i)
			assert.NoError(t, s.Save(ctx, id, testState(id)))
			got, err := s.Get(ctx, id)
			assert.NoError(t, err)
			if assert.NotNil(t, got) {
				assert.Equal(t, id, got.PaymentID)
			}
		}(i)
	}
	wg.Wait()
}

func TestPendingStore_GeneratePaymentID_Unique(t *testing.T) {
	s := newTestStore(t, time.Minute)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := s.GeneratePaymentID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
