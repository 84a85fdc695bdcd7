package ports

import (
	"context"

	"open-payments-bridge/internal/core/domain"
)

// Access token grant types understood by the authorization server.
const (
	AccessTypeIncomingPayment = "incoming-payment"
	AccessTypeQuote           = "quote"
	AccessTypeOutgoingPayment = "outgoing-payment"
)

// AccessLimits restricts what an access token may be used for.
type AccessLimits struct {
	DebitAmount *domain.Amount `json:"debitAmount,omitempty"`
}

// AccessItem is one entry of a grant request's access array.
type AccessItem struct {
	Type       string        `json:"type"`
	Actions    []string      `json:"actions"`
	Identifier string        `json:"identifier,omitempty"`
	Limits     *AccessLimits `json:"limits,omitempty"`
}

// InteractFinish describes the finish-callback of an interactive grant.
type InteractFinish struct {
	Method string `json:"method"`
	URI    string `json:"uri"`
	Nonce  string `json:"nonce"`
}

// InteractRequest asks the authorization server for redirect-based interaction.
type InteractRequest struct {
	Start  []string        `json:"start"`
	Finish *InteractFinish `json:"finish,omitempty"`
}

// GrantRequest is the body of a grant request against an authorization server.
type GrantRequest struct {
	AccessToken struct {
		Access []AccessItem `json:"access"`
	} `json:"access_token"`
	Client   string           `json:"client,omitempty"`
	Interact *InteractRequest `json:"interact,omitempty"`
}

// ContinueGrantRequest polls a pending grant using its continuation handle.
// InteractRef carries the token returned to the finish callback after the end
// user consented; it is empty for plain polling.
type ContinueGrantRequest struct {
	URI         string
	AccessToken string
	InteractRef string
}

// CreateIncomingPaymentRequest creates an incoming payment on the receiver's
// resource server.
type CreateIncomingPaymentRequest struct {
	ResourceServer string
	AccessToken    string
	WalletAddress  string
	IncomingAmount domain.Amount
}

// CreateQuoteRequest creates a quote referencing an incoming payment.
type CreateQuoteRequest struct {
	ResourceServer string
	AccessToken    string
	WalletAddress  string
	Receiver       string
	Method         string
}

// CreateOutgoingPaymentRequest creates the outgoing payment that actually
// moves money. Metadata is propagated into the resource for downstream
// ledger correlation.
type CreateOutgoingPaymentRequest struct {
	ResourceServer string
	AccessToken    string
	WalletAddress  string
	QuoteID        string
	Metadata       map[string]string
}

// OpenPaymentsClient is the authenticated client boundary. Implementations own
// transport and request signing; callers never see raw HTTP or key material.
type OpenPaymentsClient interface {
	GetWalletAddress(ctx context.Context, walletURL string) (*domain.WalletAddress, error)
	RequestGrant(ctx context.Context, authServerURL string, req GrantRequest) (*domain.Grant, error)
	ContinueGrant(ctx context.Context, req ContinueGrantRequest) (*domain.Grant, error)
	CreateIncomingPayment(ctx context.Context, req CreateIncomingPaymentRequest) (*domain.IncomingPayment, error)
	CreateQuote(ctx context.Context, req CreateQuoteRequest) (*domain.Quote, error)
	CreateOutgoingPayment(ctx context.Context, req CreateOutgoingPaymentRequest) (*domain.OutgoingPayment, error)
}
