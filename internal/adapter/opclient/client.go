package opclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"open-payments-bridge/internal/core/domain"
	"open-payments-bridge/internal/core/ports"
	"open-payments-bridge/pkg/apperror"

	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

// Config holds the client's identity: the wallet address it acts as, and the
// key it signs requests with. KeyID must match a key in the JWKS published at
// the wallet address.
type Config struct {
	WalletAddressURL string
	KeyID            string
	// PrivateKey is either an inline PEM block or a path to a PEM file
	// holding a PKCS#8-encoded ed25519 key.
	PrivateKey string
}

// Client implements ports.OpenPaymentsClient over plain HTTP with RFC 9421
// request signing.
type Client struct {
	http   *http.Client
	signer *Signer
	cfg    Config
	log    zerolog.Logger
}

// New constructs an authenticated client. It fails when the private key
// cannot be read or parsed, which the accessor caches as a sticky error.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	key, err := ReadPrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("loading client private key: %w", err)
	}
	return &Client{
		http:   &http.Client{Timeout: defaultTimeout},
		signer: NewSigner(cfg.KeyID, key),
		cfg:    cfg,
		log:    log,
	}, nil
}

// GetWalletAddress resolves a wallet address URL into its descriptor.
// Resolution is unauthenticated: wallet addresses are public documents.
func (c *Client) GetWalletAddress(ctx context.Context, walletURL string) (*domain.WalletAddress, error) {
	var wallet domain.WalletAddress
	if err := c.do(ctx, http.MethodGet, walletURL, "", nil, &wallet); err != nil {
		return nil, err
	}
	if wallet.AuthServer == "" || wallet.ResourceServer == "" {
		return nil, fmt.Errorf("wallet address %s is missing server endpoints", walletURL)
	}
	return &wallet, nil
}

// RequestGrant posts a grant request to the authorization server.
func (c *Client) RequestGrant(ctx context.Context, authServerURL string, req ports.GrantRequest) (*domain.Grant, error) {
	if req.Client == "" {
		req.Client = c.cfg.WalletAddressURL
	}
	var grant domain.Grant
	if err := c.do(ctx, http.MethodPost, authServerURL, "", req, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// ContinueGrant polls a pending grant's continuation URI. The continuation
// access token authorizes the poll; an interact_ref is included once the end
// user has consented.
func (c *Client) ContinueGrant(ctx context.Context, req ports.ContinueGrantRequest) (*domain.Grant, error) {
	var body any
	if req.InteractRef != "" {
		body = map[string]string{"interact_ref": req.InteractRef}
	} else {
		body = struct{}{}
	}
	var grant domain.Grant
	if err := c.do(ctx, http.MethodPost, req.URI, req.AccessToken, body, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// CreateIncomingPayment creates an incoming payment on the receiver's
// resource server.
func (c *Client) CreateIncomingPayment(ctx context.Context, req ports.CreateIncomingPaymentRequest) (*domain.IncomingPayment, error) {
	body := struct {
		WalletAddress  string        `json:"walletAddress"`
		IncomingAmount domain.Amount `json:"incomingAmount"`
	}{
		WalletAddress:  req.WalletAddress,
		IncomingAmount: req.IncomingAmount,
	}
	var payment domain.IncomingPayment
	url := joinPath(req.ResourceServer, "incoming-payments")
	if err := c.do(ctx, http.MethodPost, url, req.AccessToken, body, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreateQuote creates a quote against an incoming payment.
func (c *Client) CreateQuote(ctx context.Context, req ports.CreateQuoteRequest) (*domain.Quote, error) {
	body := struct {
		WalletAddress string `json:"walletAddress"`
		Receiver      string `json:"receiver"`
		Method        string `json:"method"`
	}{
		WalletAddress: req.WalletAddress,
		Receiver:      req.Receiver,
		Method:        req.Method,
	}
	var quote domain.Quote
	url := joinPath(req.ResourceServer, "quotes")
	if err := c.do(ctx, http.MethodPost, url, req.AccessToken, body, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// CreateOutgoingPayment creates the outgoing payment that debits the sender.
func (c *Client) CreateOutgoingPayment(ctx context.Context, req ports.CreateOutgoingPaymentRequest) (*domain.OutgoingPayment, error) {
	body := struct {
		WalletAddress string            `json:"walletAddress"`
		QuoteID       string            `json:"quoteId"`
		Metadata      map[string]string `json:"metadata,omitempty"`
	}{
		WalletAddress: req.WalletAddress,
		QuoteID:       req.QuoteID,
		Metadata:      req.Metadata,
	}
	var payment domain.OutgoingPayment
	url := joinPath(req.ResourceServer, "outgoing-payments")
	if err := c.do(ctx, http.MethodPost, url, req.AccessToken, body, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// do issues one signed JSON round trip. accessToken, when non-empty, is sent
// as a GNAP bearer token and covered by the signature.
func (c *Client) do(ctx context.Context, method, url, accessToken string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if len(payload) > 0 {
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = int64(len(payload))
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "GNAP "+accessToken)
	}
	if err := c.signer.Sign(req, payload); err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("open payments request")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp.StatusCode, url, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", url, err)
		}
	}
	return nil
}

// gnapError is the error envelope authorization servers return. Both the flat
// {"error": "too_fast"} and the structured {"error": {"code": "too_fast"}}
// shapes occur in the wild.
type gnapError struct {
	Error json.RawMessage `json:"error"`
}

func (e gnapError) code() string {
	if len(e.Error) == 0 {
		return ""
	}
	var flat string
	if json.Unmarshal(e.Error, &flat) == nil {
		return flat
	}
	var structured struct {
		Code string `json:"code"`
	}
	if json.Unmarshal(e.Error, &structured) == nil {
		return structured.Code
	}
	return ""
}

func (c *Client) errorFromResponse(status int, url string, raw []byte) error {
	var envelope gnapError
	_ = json.Unmarshal(raw, &envelope)

	err := fmt.Errorf("%s returned %d: %s", url, status, truncate(string(raw), 256))
	if envelope.code() == "too_fast" || status == http.StatusTooManyRequests {
		return apperror.ErrRateLimited(err)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func joinPath(base, segment string) string {
	return strings.TrimSuffix(base, "/") + "/" + segment
}

var _ ports.OpenPaymentsClient = (*Client)(nil)
