package domain

// WalletAddress is the resolved descriptor of a wallet address URL.
// It is fetched per payment flow and never cached across payments, so asset
// and server endpoints are always current when a saga starts.
type WalletAddress struct {
	ID             string `json:"id"`
	PublicName     string `json:"publicName,omitempty"`
	AuthServer     string `json:"authServer"`
	ResourceServer string `json:"resourceServer"`
	AssetCode      string `json:"assetCode"`
	AssetScale     int    `json:"assetScale"`
}
