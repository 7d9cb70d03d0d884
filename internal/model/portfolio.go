package model

import "time"

// Asset type tags accepted by the catalog.
const (
	AssetTypeStock  = "stock"
	AssetTypeCrypto = "crypto"
	AssetTypeBond   = "bond"
	AssetTypeETF    = "etf"
)

// Portfolio is a named collection of weighted assets owned by one user.
type Portfolio struct {
	ID        int64     `json:"portfolio_id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Asset is a globally shared catalog entry, deduplicated by symbol.
type Asset struct {
	ID       int64  `json:"asset_id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"asset_type"`
	Currency string `json:"currency"`
}

// WeightedAsset is a catalog asset joined with its weight in one portfolio.
type WeightedAsset struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Type     string  `json:"asset_type"`
	Currency string  `json:"currency"`
	Weight   float64 `json:"weight"`
}

// CreatePortfolioRequest represents a portfolio creation request.
type CreatePortfolioRequest struct {
	Name string `json:"name"`
}

// CreatePortfolioResponse acknowledges a created portfolio.
type CreatePortfolioResponse struct {
	PortfolioID int64  `json:"portfolio_id"`
	Status      string `json:"status"`
}

// AddAssetRequest represents a request to attach an asset to a portfolio.
// AssetType and Currency only apply when the symbol is new to the catalog.
type AddAssetRequest struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	AssetType string  `json:"asset_type"`
	Currency  string  `json:"currency"`
}

// Summary is the basic concentration overview of a portfolio.
// Diversification is 1/n_assets, a naive concentration proxy.
type Summary struct {
	NAssets         int     `json:"n_assets"`
	TotalWeight     float64 `json:"total_weight"`
	Diversification float64 `json:"diversification"`
}
