package memory

import (
	"context"
	"sync"
	"time"

	"open-payments-bridge/internal/core/domain"
	"open-payments-bridge/internal/core/ports"

	"github.com/rs/zerolog"
)

// PendingPaymentStore is the in-process implementation of
// ports.PendingPaymentStore. Entries expire after a TTL; a background janitor
// sweeps expired entries so abandoned sagas do not accumulate.
type PendingPaymentStore struct {
	mu      sync.RWMutex
	entries map[string]entry

	ttl  time.Duration
	log  zerolog.Logger
	stop chan struct{}
	done chan struct{}
}

type entry struct {
	state     *domain.PendingPayment
	expiresAt time.Time
}

// NewPendingPaymentStore creates a memory store with the given TTL. A
// sweepInterval of zero disables the janitor; expiry is then enforced on Get
// only.
func NewPendingPaymentStore(ttl, sweepInterval time.Duration, log zerolog.Logger) *PendingPaymentStore {
	s := &PendingPaymentStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		log:     log,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.janitor(sweepInterval)
	} else {
		close(s.done)
	}
	return s
}

// Save stores the saga checkpoint under paymentID, resetting its TTL.
func (s *PendingPaymentStore) Save(_ context.Context, paymentID string, state *domain.PendingPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[paymentID] = entry{state: state, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// Get returns the checkpoint for paymentID, or nil, nil when absent or
// expired.
func (s *PendingPaymentStore) Get(_ context.Context, paymentID string) (*domain.PendingPayment, error) {
	s.mu.RLock()
	e, ok := s.entries[paymentID]
	s.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, nil
	}
	return e.state, nil
}

// Delete removes the checkpoint; deleting an absent id is not an error.
func (s *PendingPaymentStore) Delete(_ context.Context, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, paymentID)
	return nil
}

// GeneratePaymentID returns a fresh process-unique payment id.
func (s *PendingPaymentStore) GeneratePaymentID() string {
	return domain.NewPaymentID()
}

// Stop terminates the janitor and waits for it to exit.
func (s *PendingPaymentStore) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done
}

func (s *PendingPaymentStore) janitor(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.sweep(time.Now()); n > 0 {
				s.log.Debug().Int("expired", n).Msg("swept expired pending payments")
			}
		}
	}
}

func (s *PendingPaymentStore) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

var _ ports.PendingPaymentStore = (*PendingPaymentStore)(nil)
