package service

import (
	"context"
	"fmt"
	"net/url"

	"open-payments-bridge/internal/core/domain"
	"open-payments-bridge/internal/core/ports"
	"open-payments-bridge/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InteractConfig controls the interactive-authorization clause of an
// outgoing-payment grant request.
type InteractConfig struct {
	IncludeInteract bool
	// FinishURI is the redirect the authorization server sends the end user
	// to after consent. The payment id is appended as a query parameter.
	FinishURI string
	PaymentID string
	// Nonce is generated fresh per request when empty. Nonces are never reused.
	Nonce string
}

// GrantService requests access grants from authorization servers.
type GrantService struct {
	accessor *ClientAccessor
	log      zerolog.Logger
}

// NewGrantService creates a new GrantService.
func NewGrantService(accessor *ClientAccessor, log zerolog.Logger) *GrantService {
	return &GrantService{accessor: accessor, log: log}
}

// RequestIncomingPaymentGrant requests a grant to create incoming payments.
// Incoming-payment grants never require interaction, so a pending response is
// a protocol violation and fails with a grant-not-finalized error.
func (s *GrantService) RequestIncomingPaymentGrant(ctx context.Context, authServerURL string) (*domain.Grant, error) {
	return s.requestNonInteractive(ctx, authServerURL, ports.AccessTypeIncomingPayment, "Incoming payment")
}

// RequestQuoteGrant requests a grant to create quotes. Same finalization
// requirement as incoming-payment grants.
func (s *GrantService) RequestQuoteGrant(ctx context.Context, authServerURL string) (*domain.Grant, error) {
	return s.requestNonInteractive(ctx, authServerURL, ports.AccessTypeQuote, "Quote")
}

func (s *GrantService) requestNonInteractive(ctx context.Context, authServerURL, accessType, label string) (*domain.Grant, error) {
	client, err := s.accessor.Get()
	if err != nil {
		return nil, err
	}

	var req ports.GrantRequest
	req.AccessToken.Access = []ports.AccessItem{{
		Type:    accessType,
		Actions: []string{"create"},
	}}

	grant, err := client.RequestGrant(ctx, authServerURL, req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s grant: %w", accessType, err)
	}
	if !grant.Finalized() {
		return nil, apperror.ErrGrantNotFinalized(label)
	}

	s.log.Debug().Str("auth_server", authServerURL).Str("type", accessType).Msg("grant finalized")
	return grant, nil
}

// RequestOutgoingPaymentGrant requests a grant to create an outgoing payment,
// limited to debitAmount and tied to the sender's wallet address. With
// interact enabled the server typically responds with a pending grant whose
// redirect the end user must visit. The grant is returned in whatever
// finalization state the server chose.
func (s *GrantService) RequestOutgoingPaymentGrant(
	ctx context.Context,
	authServerURL string,
	debitAmount domain.Amount,
	walletAddressID string,
	interact InteractConfig,
) (*domain.Grant, error) {
	client, err := s.accessor.Get()
	if err != nil {
		return nil, err
	}

	var req ports.GrantRequest
	req.AccessToken.Access = []ports.AccessItem{{
		Type:       ports.AccessTypeOutgoingPayment,
		Actions:    []string{"create"},
		Identifier: walletAddressID,
		Limits:     &ports.AccessLimits{DebitAmount: &debitAmount},
	}}

	if interact.IncludeInteract {
		nonce := interact.Nonce
		if nonce == "" {
			nonce = uuid.NewString()
		}
		req.Interact = &ports.InteractRequest{
			Start: []string{"redirect"},
			Finish: &ports.InteractFinish{
				Method: "redirect",
				URI:    BuildFinishURI(interact.FinishURI, interact.PaymentID),
				Nonce:  nonce,
			},
		}
	}

	grant, err := client.RequestGrant(ctx, authServerURL, req)
	if err != nil {
		return nil, fmt.Errorf("requesting outgoing-payment grant: %w", err)
	}

	s.log.Debug().
		Str("auth_server", authServerURL).
		Bool("finalized", grant.Finalized()).
		Str("interaction_url", grant.InteractionURL()).
		Msg("outgoing-payment grant requested")
	return grant, nil
}

// BuildFinishURI appends the payment id as a paymentId query parameter to the
// finish-callback URI. An unparseable base is returned unchanged so a broken
// configuration degrades to the raw value rather than an empty callback.
func BuildFinishURI(baseURI, paymentID string) string {
	if baseURI == "" {
		return ""
	}
	u, err := url.Parse(baseURI)
	if err != nil {
		return baseURI
	}
	if paymentID != "" {
		q := u.Query()
		q.Set("paymentId", paymentID)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
