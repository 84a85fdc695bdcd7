package dto

import (
	"encoding/json"

	"open-payments-bridge/internal/core/domain"
)

// SendPaymentRequest is the request body for payment initiation. Amount is
// raw JSON because callers may send a bare scalar ("1000", 1000) or the
// structured {value, assetCode, assetScale} form; the handler decodes it with
// numbers preserved as tokens.
type SendPaymentRequest struct {
	ReceiverWalletURL string            `json:"receiverWalletUrl" binding:"required,safe_url"`
	SenderWalletURL   string            `json:"senderWalletUrl,omitempty" binding:"omitempty,safe_url"`
	Amount            json.RawMessage   `json:"amount" binding:"required"`
	AssetCode         string            `json:"assetCode,omitempty" binding:"omitempty,len=3"`
	AssetScale        *int              `json:"assetScale,omitempty" binding:"omitempty,gte=0,lte=18"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// ConfirmPaymentRequest is the request body for payment completion.
type ConfirmPaymentRequest struct {
	PaymentID      string `json:"paymentId" binding:"required,safe_id"`
	InteractionRef string `json:"interactionRef,omitempty"`
}

// AmountDTO mirrors the wire shape of a monetary amount.
type AmountDTO struct {
	Value      string `json:"value"`
	AssetCode  string `json:"assetCode"`
	AssetScale int    `json:"assetScale"`
}

func amountDTO(a domain.Amount) AmountDTO {
	return AmountDTO{Value: a.Value, AssetCode: a.AssetCode, AssetScale: a.AssetScale}
}

// InitiatePaymentResponse is the response body for a successful initiation.
type InitiatePaymentResponse struct {
	PaymentID       string    `json:"paymentId"`
	ConfirmationURL string    `json:"confirmationUrl,omitempty"`
	DebitAmount     AmountDTO `json:"debitAmount"`
	ReceiveAmount   AmountDTO `json:"receiveAmount"`
}

// NewInitiatePaymentResponse maps the saga's initiate result onto the wire.
func NewInitiatePaymentResponse(paymentID, confirmationURL string, debit, receive domain.Amount) InitiatePaymentResponse {
	return InitiatePaymentResponse{
		PaymentID:       paymentID,
		ConfirmationURL: confirmationURL,
		DebitAmount:     amountDTO(debit),
		ReceiveAmount:   amountDTO(receive),
	}
}

// CompletedPaymentResponse is the response body for a completed payment.
type CompletedPaymentResponse struct {
	OutgoingPaymentID string     `json:"outgoingPaymentId"`
	QuoteID           string     `json:"quoteId"`
	IncomingPaymentID string     `json:"incomingPaymentId,omitempty"`
	DebitAmount       *AmountDTO `json:"debitAmount,omitempty"`
	ReceiveAmount     *AmountDTO `json:"receiveAmount,omitempty"`
}

// NewCompletedPaymentResponse maps the saga's final result onto the wire.
func NewCompletedPaymentResponse(outgoing *domain.OutgoingPayment, quote *domain.Quote, incoming *domain.IncomingPayment) CompletedPaymentResponse {
	resp := CompletedPaymentResponse{OutgoingPaymentID: outgoing.ID}
	if quote != nil {
		resp.QuoteID = quote.ID
		debit := amountDTO(quote.DebitAmount)
		receive := amountDTO(quote.ReceiveAmount)
		resp.DebitAmount = &debit
		resp.ReceiveAmount = &receive
	}
	if incoming != nil {
		resp.IncomingPaymentID = incoming.ID
	}
	return resp
}
