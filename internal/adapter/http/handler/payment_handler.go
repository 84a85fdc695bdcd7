package handler

import (
	"bytes"
	"encoding/json"

	"open-payments-bridge/internal/adapter/http/dto"
	"open-payments-bridge/internal/core/ports"
	"open-payments-bridge/pkg/apperror"
	"open-payments-bridge/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles the payment saga endpoints.
type PaymentHandler struct {
	flowSvc ports.PaymentFlowService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(flowSvc ports.PaymentFlowService) *PaymentHandler {
	return &PaymentHandler{flowSvc: flowSvc}
}

// SendPayment handles POST /send-payment — phase one of the saga. The
// response carries the confirmation URL the end user must visit before the
// payment can be completed.
func (h *PaymentHandler) SendPayment(c *gin.Context) {
	var req dto.SendPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := decodeAmount(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount("Amount is not valid JSON"))
		return
	}

	result, err := h.flowSvc.Initiate(c.Request.Context(), ports.InitiateRequest{
		SenderWalletURL:   req.SenderWalletURL,
		ReceiverWalletURL: req.ReceiverWalletURL,
		Amount:            amount,
		AssetCode:         req.AssetCode,
		AssetScale:        req.AssetScale,
		Metadata:          req.Metadata,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewInitiatePaymentResponse(
		result.PaymentID, result.ConfirmationURL, result.DebitAmount, result.ReceiveAmount))
}

// ConfirmPayment handles POST /confirm-payment — phase two of the saga.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	h.complete(c, req.PaymentID, req.InteractionRef)
}

// ConfirmPaymentRedirect handles GET /confirm-payment — the authorization
// server's finish callback. The payment id arrives as the paymentId query
// parameter set at grant time; interact_ref is appended by the server after
// the end user consents.
func (h *PaymentHandler) ConfirmPaymentRedirect(c *gin.Context) {
	paymentID := c.Query("paymentId")
	if paymentID == "" {
		response.Error(c, apperror.Validation("paymentId query parameter is required"))
		return
	}
	h.complete(c, paymentID, c.Query("interact_ref"))
}

func (h *PaymentHandler) complete(c *gin.Context, paymentID, interactionRef string) {
	result, err := h.flowSvc.Complete(c.Request.Context(), ports.CompleteRequest{
		PaymentID:      paymentID,
		InteractionRef: interactionRef,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewCompletedPaymentResponse(
		result.OutgoingPayment, result.Quote, result.IncomingPayment))
}

// decodeAmount re-decodes the raw amount token with numbers preserved, so
// "1000" and 1000 normalize identically downstream.
func decodeAmount(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
