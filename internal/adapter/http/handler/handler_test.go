package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"open-payments-bridge/internal/adapter/http/handler"
	"open-payments-bridge/internal/core/domain"
	"open-payments-bridge/internal/core/ports"
	"open-payments-bridge/internal/core/ports/mocks"
	"open-payments-bridge/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type healthStub struct {
	name string
	err  error
}

func (h healthStub) Ping(context.Context) error { return h.err }
func (h healthStub) Name() string               { return h.name }

func newTestRouter(t *testing.T, checkers ...ports.HealthChecker) (*gin.Engine, *mocks.MockPaymentFlowService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	flowSvc := mocks.NewMockPaymentFlowService(ctrl)
	r := handler.SetupRouter(handler.RouterDeps{
		FlowSvc:        flowSvc,
		HealthCheckers: checkers,
		Logger:         zerolog.Nop(),
	})
	return r, flowSvc
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendPayment_Success(t *testing.T) {
	r, flowSvc := newTestRouter(t)

	flowSvc.EXPECT().
		Initiate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.InitiateRequest) (*ports.InitiateResult, error) {
			assert.Equal(t, "https://wallet.example/bob", req.ReceiverWalletURL)
			assert.Equal(t, json.Number("1000"), req.Amount, "numeric tokens reach the saga unmangled")
			assert.Equal(t, "o-77", req.Metadata["orderId"])
			return &ports.InitiateResult{
				PaymentID:       "payment_1",
				ConfirmationURL: "https://auth.example/interact/abc",
				DebitAmount:     domain.Amount{Value: "1086", AssetCode: "USD", AssetScale: 2},
				ReceiveAmount:   domain.Amount{Value: "1000", AssetCode: "EUR", AssetScale: 2},
			}, nil
		})

	w := doJSON(r, http.MethodPost, "/send-payment",
		`{"receiverWalletUrl":"https://wallet.example/bob","amount":1000,"metadata":{"orderId":"o-77"}}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var envelope struct {
		Data struct {
			PaymentID       string `json:"paymentId"`
			ConfirmationURL string `json:"confirmationUrl"`
			DebitAmount     struct {
				Value string `json:"value"`
			} `json:"debitAmount"`
		} `json:"data"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "payment_1", envelope.Data.PaymentID)
	assert.Equal(t, "https://auth.example/interact/abc", envelope.Data.ConfirmationURL)
	assert.Equal(t, "1086", envelope.Data.DebitAmount.Value)
	assert.NotEmpty(t, envelope.RequestID)
}

func TestSendPayment_ValidationFailure(t *testing.T) {
	r, _ := newTestRouter(t)

	// Missing receiver — must never reach the service.
	w := doJSON(r, http.MethodPost, "/send-payment", `{"amount":"1000"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PAY_000")
}

func TestSendPayment_ServiceErrorMapped(t *testing.T) {
	r, flowSvc := newTestRouter(t)

	flowSvc.EXPECT().
		Initiate(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrWalletResolution("https://wallet.example/bob", errors.New("404")))

	w := doJSON(r, http.MethodPost, "/send-payment",
		`{"receiverWalletUrl":"https://wallet.example/bob","amount":"1000"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "WAL_001")
}

func TestConfirmPayment_Success(t *testing.T) {
	r, flowSvc := newTestRouter(t)

	flowSvc.EXPECT().
		Complete(gomock.Any(), ports.CompleteRequest{PaymentID: "payment_1", InteractionRef: "ref-1"}).
		Return(&ports.PaymentResult{
			OutgoingPayment: &domain.OutgoingPayment{ID: "op-1"},
			Quote: &domain.Quote{
				ID:          "q-1",
				DebitAmount: domain.Amount{Value: "1086", AssetCode: "USD", AssetScale: 2},
			},
			IncomingPayment: &domain.IncomingPayment{ID: "ip-1"},
		}, nil)

	w := doJSON(r, http.MethodPost, "/confirm-payment",
		`{"paymentId":"payment_1","interactionRef":"ref-1"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"outgoingPaymentId":"op-1"`)
	assert.Contains(t, w.Body.String(), `"quoteId":"q-1"`)
}

func TestConfirmPayment_UnknownPayment(t *testing.T) {
	r, flowSvc := newTestRouter(t)

	flowSvc.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrUnknownPayment("payment_x"))

	w := doJSON(r, http.MethodPost, "/confirm-payment", `{"paymentId":"payment_x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PAY_002")
}

func TestConfirmPayment_MissingInteractionRef(t *testing.T) {
	r, flowSvc := newTestRouter(t)

	flowSvc.EXPECT().
		Complete(gomock.Any(), ports.CompleteRequest{PaymentID: "payment_1"}).
		Return(nil, apperror.ErrMissingInteractionRef())

	w := doJSON(r, http.MethodPost, "/confirm-payment", `{"paymentId":"payment_1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PAY_003")
}

func TestConfirmPaymentRedirect_FinishCallback(t *testing.T) {
	r, flowSvc := newTestRouter(t)

	flowSvc.EXPECT().
		Complete(gomock.Any(), ports.CompleteRequest{PaymentID: "payment_1", InteractionRef: "ref-from-as"}).
		Return(&ports.PaymentResult{
			OutgoingPayment: &domain.OutgoingPayment{ID: "op-1"},
		}, nil)

	w := doJSON(r, http.MethodGet, "/confirm-payment?paymentId=payment_1&interact_ref=ref-from-as", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "op-1")
}

func TestConfirmPaymentRedirect_MissingPaymentID(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/confirm-payment?interact_ref=ref", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r, _ := newTestRouter(t, healthStub{name: "redis"})
		w := doJSON(r, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	})

	t.Run("degraded", func(t *testing.T) {
		r, _ := newTestRouter(t, healthStub{name: "postgresql", err: errors.New("connection refused")})
		w := doJSON(r, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}
