package service

import (
	"context"
	"time"

	"open-payments-bridge/internal/core/domain"
	"open-payments-bridge/internal/core/ports"
	"open-payments-bridge/pkg/apperror"

	"github.com/rs/zerolog"
)

// DefaultMaxContinueAttempts bounds the polling loop when the caller does not
// override it.
const DefaultMaxContinueAttempts = 20

const (
	// waitMargin is added on top of the server's continue.wait hint.
	waitMargin = 2 * time.Second
	// defaultWait applies when the server gave no pacing hint.
	defaultWait = 3 * time.Second
	// rateLimitMargin is added to the hint after a too_fast response.
	rateLimitMargin = 3 * time.Second
	// defaultRateLimitWait applies after too_fast with no hint.
	defaultRateLimitWait = 5 * time.Second
)

// ContinuationEngine drives a pending grant to finalization by polling its
// continuation URI. The authorization server is the single source of truth
// for pacing: the engine never polls faster than instructed, and treats the
// too_fast condition as a non-terminal signal that does not consume an
// attempt.
type ContinuationEngine struct {
	accessor *ClientAccessor
	log      zerolog.Logger

	// sleep is swappable in tests; it must honor ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewContinuationEngine creates a new ContinuationEngine.
func NewContinuationEngine(accessor *ClientAccessor, log zerolog.Logger) *ContinuationEngine {
	return &ContinuationEngine{
		accessor: accessor,
		log:      log,
		sleep:    sleepContext,
	}
}

// Finalize polls the grant until it is finalized or maxAttempts counted
// attempts are spent. An already-finalized grant returns immediately with
// zero network calls. A too_fast response repeats the same attempt after an
// extra wait; any other error aborts the loop. Exhaustion fails with a
// finalization-timeout error.
func (e *ContinuationEngine) Finalize(ctx context.Context, grant *domain.Grant, maxAttempts int) (*domain.Grant, error) {
	if grant.Finalized() {
		return grant, nil
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxContinueAttempts
	}
	if grant.Continue == nil || grant.Continue.URI == "" {
		// Pending without a continuation handle cannot be polled.
		return nil, apperror.ErrGrantNotFinalized("Outgoing payment")
	}

	client, err := e.accessor.Get()
	if err != nil {
		return nil, err
	}

	if url := grant.InteractionURL(); url != "" {
		e.log.Info().Str("confirmation_url", url).Msg("grant requires user interaction")
	}

	current := grant
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		wait := pollWait(current)
		e.log.Debug().
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("waiting before grant continuation")
		if err := e.sleep(ctx, wait); err != nil {
			return nil, err
		}

		req := ports.ContinueGrantRequest{
			URI:         current.Continue.URI,
			AccessToken: current.Continue.AccessToken.Value,
		}
		if current.Interact != nil {
			req.InteractRef = current.Interact.Finish
		}

		next, err := client.ContinueGrant(ctx, req)
		for err != nil && apperror.IsRateLimited(err) {
			// too_fast does not consume an attempt: back off further and
			// repeat the same poll.
			wait := rateLimitWait(current)
			e.log.Debug().Dur("wait", wait).Msg("too_fast from authorization server, backing off")
			if serr := e.sleep(ctx, wait); serr != nil {
				return nil, serr
			}
			next, err = client.ContinueGrant(ctx, req)
		}
		if err != nil {
			return nil, err
		}

		if next.Finalized() {
			e.log.Info().Int("attempts", attempt).Msg("grant finalized")
			return next, nil
		}
		current = mergeContinuation(current, next)
	}

	return nil, apperror.ErrGrantFinalizationTimeout(maxAttempts)
}

// pollWait derives the pre-poll wait from the server's hint.
func pollWait(g *domain.Grant) time.Duration {
	if g.Continue != nil && g.Continue.Wait > 0 {
		return time.Duration(g.Continue.Wait)*time.Second + waitMargin
	}
	return defaultWait
}

// rateLimitWait derives the extra backoff after a too_fast response.
func rateLimitWait(g *domain.Grant) time.Duration {
	if g.Continue != nil && g.Continue.Wait > 0 {
		return time.Duration(g.Continue.Wait)*time.Second + rateLimitMargin
	}
	return defaultRateLimitWait
}

// mergeContinuation carries the interaction finish token forward when the
// server's still-pending response omits it.
func mergeContinuation(prev, next *domain.Grant) *domain.Grant {
	if next.Continue == nil {
		next.Continue = prev.Continue
	}
	if next.Interact == nil {
		next.Interact = prev.Interact
	}
	return next
}

// sleepContext sleeps for d or until ctx is done, whichever comes first. The
// timer is cooperative: other sagas keep making progress while one waits.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
