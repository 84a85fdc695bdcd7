package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// bootstrapPayload is the credential document served by a provisioning
// endpoint: the signing key and wallet identity for this deployment.
type bootstrapPayload struct {
	PrivateKey       string `json:"private_key"`
	KeyID            string `json:"key_id"`
	WalletAddressURL string `json:"wallet_address_url"`
	FinishURI        string `json:"finish_uri"`
}

// FetchRemote overlays client credentials from cfg.Client.BootstrapURL onto
// cfg. Locally-set fields win; only empty fields are filled in. A no-op when
// no bootstrap URL is configured.
func FetchRemote(ctx context.Context, cfg *Config) error {
	if cfg.Client.BootstrapURL == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.Client.BootstrapURL, nil)
	if err != nil {
		return fmt.Errorf("building bootstrap request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching bootstrap config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bootstrap endpoint returned %d", resp.StatusCode)
	}

	var payload bootstrapPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decoding bootstrap config: %w", err)
	}

	if cfg.Client.PrivateKey == "" {
		cfg.Client.PrivateKey = payload.PrivateKey
	}
	if cfg.Client.KeyID == "" {
		cfg.Client.KeyID = payload.KeyID
	}
	if cfg.Client.WalletAddressURL == "" {
		cfg.Client.WalletAddressURL = payload.WalletAddressURL
	}
	if cfg.Payment.FinishURI == "" && payload.FinishURI != "" {
		cfg.Payment.FinishURI = payload.FinishURI
	}
	return nil
}
