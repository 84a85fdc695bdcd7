package service

import (
	"context"
	"time"

	"open-payments-bridge/internal/core/domain"
	"open-payments-bridge/internal/core/ports"
	"open-payments-bridge/pkg/apperror"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// FlowConfig carries the orchestrator's configuration slice.
type FlowConfig struct {
	// SenderWalletURL is the default sender when a request names none.
	SenderWalletURL string
	// FinishURI is the base finish-callback for interactive grants.
	FinishURI string
	// DefaultAssetCode/DefaultAssetScale apply to bare scalar amounts.
	DefaultAssetCode  string
	DefaultAssetScale int
	// MaxContinueAttempts bounds grant polling.
	MaxContinueAttempts int
}

// PaymentFlowServiceImpl implements ports.PaymentFlowService. It composes the
// wallet resolver, grant requester, continuation engine, resource creators and
// pending-payment store into the two-phase payment saga.
type PaymentFlowServiceImpl struct {
	accessor *ClientAccessor
	grants   *GrantService
	engine   *ContinuationEngine
	store    ports.PendingPaymentStore
	cfg      FlowConfig
	log      zerolog.Logger
}

// NewPaymentFlowService creates a new PaymentFlowServiceImpl.
func NewPaymentFlowService(
	accessor *ClientAccessor,
	grants *GrantService,
	engine *ContinuationEngine,
	store ports.PendingPaymentStore,
	cfg FlowConfig,
	log zerolog.Logger,
) *PaymentFlowServiceImpl {
	if cfg.DefaultAssetCode == "" {
		cfg.DefaultAssetCode = "USD"
	}
	if cfg.MaxContinueAttempts <= 0 {
		cfg.MaxContinueAttempts = DefaultMaxContinueAttempts
	}
	return &PaymentFlowServiceImpl{
		accessor: accessor,
		grants:   grants,
		engine:   engine,
		store:    store,
		cfg:      cfg,
		log:      log,
	}
}

// initiation bundles everything produced before the outgoing-payment grant is
// finalized. It is the common prefix of Initiate and SendPayment.
type initiation struct {
	senderWallet    *domain.WalletAddress
	receiverWallet  *domain.WalletAddress
	incomingPayment *domain.IncomingPayment
	quote           *domain.Quote
	grant           *domain.Grant
	amount          domain.Amount
	paymentID       string
}

// Initiate runs phase one of the saga: wallet resolution, incoming payment,
// quote, and the interactive outgoing-payment grant. The resulting checkpoint
// is persisted under a fresh payment id so a later Complete call — possibly
// minutes away, on a different request — can pick the saga back up.
func (s *PaymentFlowServiceImpl) Initiate(ctx context.Context, req ports.InitiateRequest) (*ports.InitiateResult, error) {
	init, err := s.initiate(ctx, req)
	if err != nil {
		return nil, err
	}

	state := &domain.PendingPayment{
		PaymentID:       init.paymentID,
		SenderWallet:    *init.senderWallet,
		ReceiverWallet:  *init.receiverWallet,
		IncomingPayment: *init.incomingPayment,
		Quote:           *init.quote,
		Grant:           *init.grant,
		Amount:          init.amount,
		Metadata:        req.Metadata,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.Save(ctx, init.paymentID, state); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().
		Str("payment_id", init.paymentID).
		Str("quote_id", init.quote.ID).
		Bool("interaction_required", init.grant.RequiresInteraction()).
		Msg("payment initiated")

	return &ports.InitiateResult{
		PaymentID:       init.paymentID,
		ConfirmationURL: init.grant.InteractionURL(),
		DebitAmount:     init.quote.DebitAmount,
		ReceiveAmount:   init.quote.ReceiveAmount,
	}, nil
}

// Complete runs phase two: it finalizes the stored outgoing-payment grant
// using the end user's interaction reference and creates the outgoing payment.
// The pending state is cleared on success and on terminal failure alike, so a
// payment id can never be replayed.
func (s *PaymentFlowServiceImpl) Complete(ctx context.Context, req ports.CompleteRequest) (*ports.PaymentResult, error) {
	state, err := s.store.Get(ctx, req.PaymentID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if state == nil {
		return nil, apperror.ErrUnknownPayment(req.PaymentID)
	}

	grant := &state.Grant
	if !grant.Finalized() && grant.RequiresInteraction() && req.InteractionRef == "" {
		// Recoverable caller error: keep the state so the caller can retry
		// with the reference from the finish callback.
		return nil, apperror.ErrMissingInteractionRef()
	}

	finalized, err := s.finalizeStoredGrant(ctx, grant, req.InteractionRef)
	if err != nil {
		s.clearState(ctx, req.PaymentID)
		return nil, err
	}

	client, err := s.accessor.Get()
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{"paymentId": state.PaymentID}
	for k, v := range state.Metadata {
		metadata[k] = v
	}

	outgoingPayment, err := client.CreateOutgoingPayment(ctx, ports.CreateOutgoingPaymentRequest{
		ResourceServer: state.SenderWallet.ResourceServer,
		AccessToken:    finalized.AccessToken.Value,
		WalletAddress:  state.SenderWallet.ID,
		QuoteID:        state.Quote.ID,
		Metadata:       metadata,
	})
	if err != nil {
		s.clearState(ctx, req.PaymentID)
		return nil, apperror.ErrResourceCreation("outgoing payment", err)
	}

	s.clearState(ctx, req.PaymentID)

	s.log.Info().
		Str("payment_id", state.PaymentID).
		Str("outgoing_payment_id", outgoingPayment.ID).
		Msg("payment completed")

	return &ports.PaymentResult{
		IncomingPayment: &state.IncomingPayment,
		Quote:           &state.Quote,
		OutgoingPayment: outgoingPayment,
		Grant:           finalized,
	}, nil
}

// SendPayment is the one-shot flow: it runs the whole saga in a single call,
// polling the outgoing-payment grant to finalization while the end user
// confirms out-of-band. No pending state is persisted.
func (s *PaymentFlowServiceImpl) SendPayment(ctx context.Context, req ports.InitiateRequest) (*ports.PaymentResult, error) {
	init, err := s.initiate(ctx, req)
	if err != nil {
		return nil, err
	}

	finalized, err := s.engine.Finalize(ctx, init.grant, s.cfg.MaxContinueAttempts)
	if err != nil {
		return nil, err
	}

	client, err := s.accessor.Get()
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{"paymentId": init.paymentID}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	outgoingPayment, err := client.CreateOutgoingPayment(ctx, ports.CreateOutgoingPaymentRequest{
		ResourceServer: init.senderWallet.ResourceServer,
		AccessToken:    finalized.AccessToken.Value,
		WalletAddress:  init.senderWallet.ID,
		QuoteID:        init.quote.ID,
		Metadata:       metadata,
	})
	if err != nil {
		return nil, apperror.ErrResourceCreation("outgoing payment", err)
	}

	s.log.Info().
		Str("payment_id", init.paymentID).
		Str("outgoing_payment_id", outgoingPayment.ID).
		Msg("payment sent")

	return &ports.PaymentResult{
		IncomingPayment: init.incomingPayment,
		Quote:           init.quote,
		OutgoingPayment: outgoingPayment,
		Grant:           finalized,
		ConfirmationURL: init.grant.InteractionURL(),
	}, nil
}

// initiate is the shared prefix of both flows: steps 1-7 of the saga.
func (s *PaymentFlowServiceImpl) initiate(ctx context.Context, req ports.InitiateRequest) (*initiation, error) {
	// Step 1: normalize the amount.
	defaults := domain.AmountDefaults{AssetCode: s.cfg.DefaultAssetCode, AssetScale: s.cfg.DefaultAssetScale}
	if req.AssetCode != "" {
		defaults.AssetCode = req.AssetCode
	}
	if req.AssetScale != nil {
		defaults.AssetScale = *req.AssetScale
	}
	amount, err := domain.NormalizeAmount(req.Amount, defaults)
	if err != nil {
		return nil, err
	}

	senderURL := req.SenderWalletURL
	if senderURL == "" {
		senderURL = s.cfg.SenderWalletURL
	}
	if senderURL == "" || req.ReceiverWalletURL == "" {
		return nil, apperror.Validation("sender and receiver wallet URLs are required")
	}

	client, err := s.accessor.Get()
	if err != nil {
		return nil, err
	}

	// Step 2: resolve both wallets concurrently.
	var senderWallet, receiverWallet *domain.WalletAddress
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := client.GetWalletAddress(gctx, senderURL)
		if err != nil {
			return apperror.ErrWalletResolution(senderURL, err)
		}
		senderWallet = w
		return nil
	})
	g.Go(func() error {
		w, err := client.GetWalletAddress(gctx, req.ReceiverWalletURL)
		if err != nil {
			return apperror.ErrWalletResolution(req.ReceiverWalletURL, err)
		}
		receiverWallet = w
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Step 3: incoming-payment grant on the receiver's authorization server.
	incomingGrant, err := s.grants.RequestIncomingPaymentGrant(ctx, receiverWallet.AuthServer)
	if err != nil {
		return nil, err
	}

	// Step 4: create the incoming payment. The receiver wallet's asset code
	// and scale are authoritative; caller hints only sized the value.
	incomingPayment, err := client.CreateIncomingPayment(ctx, ports.CreateIncomingPaymentRequest{
		ResourceServer: receiverWallet.ResourceServer,
		AccessToken:    incomingGrant.AccessToken.Value,
		WalletAddress:  receiverWallet.ID,
		IncomingAmount: domain.Amount{
			Value:      amount.Value,
			AssetCode:  receiverWallet.AssetCode,
			AssetScale: receiverWallet.AssetScale,
		},
	})
	if err != nil {
		return nil, apperror.ErrResourceCreation("incoming payment", err)
	}

	// Step 5: quote grant on the sender's authorization server.
	quoteGrant, err := s.grants.RequestQuoteGrant(ctx, senderWallet.AuthServer)
	if err != nil {
		return nil, err
	}

	// Step 6: create the quote against the incoming payment.
	quote, err := client.CreateQuote(ctx, ports.CreateQuoteRequest{
		ResourceServer: receiverWallet.ResourceServer,
		AccessToken:    quoteGrant.AccessToken.Value,
		WalletAddress:  senderWallet.ID,
		Receiver:       incomingPayment.ID,
		Method:         "ilp",
	})
	if err != nil {
		return nil, apperror.ErrResourceCreation("quote", err)
	}

	// Step 7: outgoing-payment grant limited to the quoted debit amount, with
	// the finish callback templated on a fresh payment id.
	paymentID := s.store.GeneratePaymentID()
	outgoingGrant, err := s.grants.RequestOutgoingPaymentGrant(ctx, senderWallet.AuthServer, quote.DebitAmount, senderWallet.ID, InteractConfig{
		IncludeInteract: true,
		FinishURI:       s.cfg.FinishURI,
		PaymentID:       paymentID,
	})
	if err != nil {
		return nil, err
	}

	return &initiation{
		senderWallet:    senderWallet,
		receiverWallet:  receiverWallet,
		incomingPayment: incomingPayment,
		quote:           quote,
		grant:           outgoingGrant,
		amount:          amount,
		paymentID:       paymentID,
	}, nil
}

// finalizeStoredGrant continues a stored grant with the user's interaction
// reference. A single continuation normally suffices — the user's consent is
// the triggering event — but a still-pending response falls back to the
// polling engine for robustness against transient states.
func (s *PaymentFlowServiceImpl) finalizeStoredGrant(ctx context.Context, grant *domain.Grant, interactionRef string) (*domain.Grant, error) {
	if grant.Finalized() {
		return grant, nil
	}
	if grant.Continue == nil || grant.Continue.URI == "" {
		return nil, apperror.ErrGrantNotFinalized("Outgoing payment")
	}

	client, err := s.accessor.Get()
	if err != nil {
		return nil, err
	}

	next, err := client.ContinueGrant(ctx, ports.ContinueGrantRequest{
		URI:         grant.Continue.URI,
		AccessToken: grant.Continue.AccessToken.Value,
		InteractRef: interactionRef,
	})
	if err != nil {
		if apperror.IsRateLimited(err) {
			return s.engine.Finalize(ctx, grant, s.cfg.MaxContinueAttempts)
		}
		return nil, err
	}
	if next.Finalized() {
		return next, nil
	}

	return s.engine.Finalize(ctx, mergeContinuation(grant, next), s.cfg.MaxContinueAttempts)
}

// clearState deletes the checkpoint; best effort, the TTL sweep mops up.
func (s *PaymentFlowServiceImpl) clearState(ctx context.Context, paymentID string) {
	if err := s.store.Delete(ctx, paymentID); err != nil {
		s.log.Warn().Err(err).Str("payment_id", paymentID).Msg("failed to delete pending payment state")
	}
}
