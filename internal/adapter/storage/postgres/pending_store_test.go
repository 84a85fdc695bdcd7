package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"open-payments-bridge/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState(id string) *domain.PendingPayment {
	return &domain.PendingPayment{
		PaymentID: id,
		Quote: domain.Quote{
			ID:          "quote-for-" + id,
			DebitAmount: domain.Amount{Value: "1086", AssetCode: "USD", AssetScale: 2},
		},
		Grant: domain.Grant{
			Continue: &domain.GrantContinuation{
				AccessToken: domain.TokenValue{Value: "continue-token"},
				URI:         "https://auth.example/continue/abc",
			},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPendingStore_Migrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPendingPaymentStore(mock, time.Minute)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS pending_payments").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingStore_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPendingPaymentStore(mock, time.Minute)
	state := testState("p1")
	data, err := json.Marshal(state)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO pending_payments").
		WithArgs("p1", data, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, store.Save(context.Background(), "p1", state))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingStore_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPendingPaymentStore(mock, time.Minute)
	state := testState("p1")
	data, err := json.Marshal(state)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT state FROM pending_payments WHERE payment_id").
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"state"}).AddRow(data))

	got, err := store.Get(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "quote-for-p1", got.Quote.ID)
	assert.Equal(t, "continue-token", got.Grant.Continue.AccessToken.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingStore_Get_AbsentIsNilNil(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPendingPaymentStore(mock, time.Minute)

	mock.ExpectQuery("SELECT state FROM pending_payments WHERE payment_id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"state"}))

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingStore_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPendingPaymentStore(mock, time.Minute)

	mock.ExpectExec("DELETE FROM pending_payments WHERE payment_id").
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, store.Delete(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingStore_Sweep(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPendingPaymentStore(mock, time.Minute)

	mock.ExpectExec("DELETE FROM pending_payments WHERE expires_at").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := store.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
