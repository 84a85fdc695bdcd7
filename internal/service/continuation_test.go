package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"open-payments-bridge/internal/core/domain"
	"open-payments-bridge/internal/core/ports"
	"open-payments-bridge/internal/core/ports/mocks"
	"open-payments-bridge/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestEngine(t *testing.T, client ports.OpenPaymentsClient) (*ContinuationEngine, *[]time.Duration) {
	t.Helper()
	engine := NewContinuationEngine(staticAccessor(client), zerolog.Nop())
	waits := &[]time.Duration{}
	engine.sleep = func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return ctx.Err()
	}
	return engine, waits
}

func staticAccessor(client ports.OpenPaymentsClient) *ClientAccessor {
	return NewClientAccessor(func() (ports.OpenPaymentsClient, error) {
		return client, nil
	})
}

func pendingGrant(wait int) *domain.Grant {
	return &domain.Grant{
		Continue: &domain.GrantContinuation{
			AccessToken: domain.TokenValue{Value: "continue-token"},
			URI:         "https://auth.example/continue/abc",
			Wait:        wait,
		},
		Interact: &domain.GrantInteraction{
			Redirect: "https://auth.example/interact/abc",
			Finish:   "finish-token",
		},
	}
}

func finalizedGrant(token string) *domain.Grant {
	return &domain.Grant{AccessToken: &domain.GrantAccessToken{Value: token}}
}

func TestContinuationEngine_AlreadyFinalized_NoNetworkCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	// No ContinueGrant expectation: any call fails the test.
	engine, waits := newTestEngine(t, client)

	grant := finalizedGrant("token-1")
	got, err := engine.Finalize(context.Background(), grant, DefaultMaxContinueAttempts)
	require.NoError(t, err)
	assert.Same(t, grant, got)
	assert.Empty(t, *waits)
}

func TestContinuationEngine_FinalizesAfterThreePolls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	engine, waits := newTestEngine(t, client)

	pending := pendingGrant(0)
	gomock.InOrder(
		client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(pendingGrant(0), nil),
		client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(pendingGrant(0), nil),
		client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(finalizedGrant("final-token"), nil),
	)

	got, err := engine.Finalize(context.Background(), pending, DefaultMaxContinueAttempts)
	require.NoError(t, err)
	require.True(t, got.Finalized())
	assert.Equal(t, "final-token", got.AccessToken.Value)
	assert.Len(t, *waits, 3)
}

func TestContinuationEngine_WaitHintGovernsPacing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	engine, waits := newTestEngine(t, client)

	// First poll carries the initial hint (wait=5); the server's still-pending
	// answer carries a new hint (wait=10) that governs the second poll.
	gomock.InOrder(
		client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(pendingGrant(10), nil),
		client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(finalizedGrant("t"), nil),
	)

	_, err := engine.Finalize(context.Background(), pendingGrant(5), DefaultMaxContinueAttempts)
	require.NoError(t, err)
	require.Len(t, *waits, 2)
	assert.Equal(t, 7*time.Second, (*waits)[0], "hint plus margin")
	assert.Equal(t, 12*time.Second, (*waits)[1], "updated hint plus margin")
}

func TestContinuationEngine_NoHint_UsesDefaultWait(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	engine, waits := newTestEngine(t, client)

	client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(finalizedGrant("t"), nil)

	_, err := engine.Finalize(context.Background(), pendingGrant(0), DefaultMaxContinueAttempts)
	require.NoError(t, err)
	require.Len(t, *waits, 1)
	assert.Equal(t, 3*time.Second, (*waits)[0])
}

func TestContinuationEngine_TooFast_DoesNotConsumeAttempt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	engine, waits := newTestEngine(t, client)

	rateLimited := apperror.ErrRateLimited(errors.New("too_fast"))
	gomock.InOrder(
		client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(nil, rateLimited),
		client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(nil, rateLimited),
		client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(finalizedGrant("t"), nil),
	)

	// maxAttempts=1: both too_fast responses repeat the single attempt rather
	// than exhausting the budget.
	got, err := engine.Finalize(context.Background(), pendingGrant(0), 1)
	require.NoError(t, err)
	assert.True(t, got.Finalized())
	// One pre-poll wait plus two rate-limit backoffs.
	require.Len(t, *waits, 3)
	assert.Equal(t, 3*time.Second, (*waits)[0])
	assert.Equal(t, 5*time.Second, (*waits)[1], "too_fast with no hint backs off 5s")
	assert.Equal(t, 5*time.Second, (*waits)[2])
}

func TestContinuationEngine_TooFast_BackoffUsesHint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	engine, waits := newTestEngine(t, client)

	gomock.InOrder(
		client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrRateLimited(errors.New("too_fast"))),
		client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(finalizedGrant("t"), nil),
	)

	_, err := engine.Finalize(context.Background(), pendingGrant(4), 1)
	require.NoError(t, err)
	require.Len(t, *waits, 2)
	assert.Equal(t, 6*time.Second, (*waits)[0], "hint plus pre-poll margin")
	assert.Equal(t, 7*time.Second, (*waits)[1], "hint plus rate-limit margin")
}

func TestContinuationEngine_Exhaustion_ReturnsTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	engine, _ := newTestEngine(t, client)

	const maxAttempts = 4
	client.EXPECT().
		ContinueGrant(gomock.Any(), gomock.Any()).
		Return(pendingGrant(0), nil).
		Times(maxAttempts)

	_, err := engine.Finalize(context.Background(), pendingGrant(0), maxAttempts)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "GRANT_002", appErr.Code)
}

func TestContinuationEngine_OtherErrorsAbortImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	engine, _ := newTestEngine(t, client)

	serverErr := errors.New("500 from authorization server")
	client.EXPECT().ContinueGrant(gomock.Any(), gomock.Any()).Return(nil, serverErr)

	_, err := engine.Finalize(context.Background(), pendingGrant(0), DefaultMaxContinueAttempts)
	require.ErrorIs(t, err, serverErr)
}

func TestContinuationEngine_PendingWithoutContinuation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	engine, _ := newTestEngine(t, client)

	_, err := engine.Finalize(context.Background(), &domain.Grant{}, DefaultMaxContinueAttempts)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "GRANT_001", appErr.Code)
}

func TestContinuationEngine_ContextCancellationAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	engine := NewContinuationEngine(staticAccessor(client), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Finalize(ctx, pendingGrant(0), DefaultMaxContinueAttempts)
	require.ErrorIs(t, err, context.Canceled)
}

func TestContinuationEngine_CarriesInteractRefForward(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockOpenPaymentsClient(ctrl)
	engine, _ := newTestEngine(t, client)

	// The still-pending response omits interact; the next poll must still
	// carry the original finish token.
	stripped := pendingGrant(0)
	stripped.Interact = nil
	gomock.InOrder(
		client.EXPECT().
			ContinueGrant(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req ports.ContinueGrantRequest) (*domain.Grant, error) {
				assert.Equal(t, "finish-token", req.InteractRef)
				return stripped, nil
			}),
		client.EXPECT().
			ContinueGrant(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req ports.ContinueGrantRequest) (*domain.Grant, error) {
				assert.Equal(t, "finish-token", req.InteractRef)
				return finalizedGrant("t"), nil
			}),
	)

	_, err := engine.Finalize(context.Background(), pendingGrant(0), DefaultMaxContinueAttempts)
	require.NoError(t, err)
}
