package ports

import (
	"context"

	"open-payments-bridge/internal/core/domain"
)

// InitiateRequest starts a payment saga. Amount accepts a bare scalar
// (string/number, minor units) or a structured {value, assetCode, assetScale}
// map; AssetCode/AssetScale act as defaults for the scalar form.
type InitiateRequest struct {
	SenderWalletURL   string
	ReceiverWalletURL string
	Amount            any
	AssetCode         string
	AssetScale        *int
	Metadata          map[string]string
}

// InitiateResult is what the initiate phase hands back to the caller: the id
// to confirm with later and, for interactive grants, the URL the end user must
// visit to authorize the debit.
type InitiateResult struct {
	PaymentID       string
	ConfirmationURL string
	DebitAmount     domain.Amount
	ReceiveAmount   domain.Amount
}

// CompleteRequest finishes a previously initiated payment. InteractionRef is
// the token the authorization server appended to the finish callback.
type CompleteRequest struct {
	PaymentID      string
	InteractionRef string
}

// PaymentResult is the full outcome of a completed payment saga.
type PaymentResult struct {
	IncomingPayment *domain.IncomingPayment
	Quote           *domain.Quote
	OutgoingPayment *domain.OutgoingPayment
	Grant           *domain.Grant
	ConfirmationURL string
}

// PaymentFlowService orchestrates the two-phase payment saga, plus the
// one-shot variant that polls the grant to finalization in a single call.
type PaymentFlowService interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	Complete(ctx context.Context, req CompleteRequest) (*PaymentResult, error)
	SendPayment(ctx context.Context, req InitiateRequest) (*PaymentResult, error)
}
