package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/smartviz/smartviz-go/internal/model"
	"github.com/smartviz/smartviz-go/internal/repository"
)

var (
	ErrNameRequired    = errors.New("portfolio name is required")
	ErrSymbolRequired  = errors.New("asset symbol is required")
	ErrAssetNotFound   = errors.New("asset not found")
	ErrZeroTotalWeight = errors.New("total weight is zero, cannot normalize")
)

// PortfolioService handles portfolio business logic. All operations take
// the portfolio ID at face value: ownership is the caller's concern and
// is enforced at the API boundary before these methods run.
type PortfolioService struct {
	portfolios *repository.PortfolioRepository
	assets     *repository.AssetRepository
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(portfolios *repository.PortfolioRepository, assets *repository.AssetRepository) *PortfolioService {
	return &PortfolioService{portfolios: portfolios, assets: assets}
}

// Create inserts a new portfolio owned by userID. Names are not unique.
func (s *PortfolioService) Create(ctx context.Context, userID int64, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrNameRequired
	}

	p := &model.Portfolio{UserID: userID, Name: name}
	if err := s.portfolios.Create(ctx, p); err != nil {
		return 0, err
	}

	return p.ID, nil
}

// List returns all portfolios owned by the user.
func (s *PortfolioService) List(ctx context.Context, userID int64) ([]model.Portfolio, error) {
	return s.portfolios.ListByUser(ctx, userID)
}

// Owns reports whether the portfolio exists and is owned by userID.
func (s *PortfolioService) Owns(ctx context.Context, userID, portfolioID int64) (bool, error) {
	p, err := s.portfolios.Get(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.UserID == userID, nil
}

// Delete removes a portfolio and its asset weights.
func (s *PortfolioService) Delete(ctx context.Context, portfolioID int64) error {
	return s.portfolios.Delete(ctx, portfolioID)
}

// AddAsset attaches an asset to a portfolio by symbol, registering the
// symbol in the catalog when it is unseen. The first writer wins for
// catalog metadata; re-adding an asset overwrites its weight.
func (s *PortfolioService) AddAsset(ctx context.Context, portfolioID int64, req model.AddAssetRequest) error {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return ErrSymbolRequired
	}

	asset, err := s.assets.GetBySymbol(ctx, symbol)
	if err != nil {
		if !errors.Is(err, repository.ErrAssetNotFound) {
			return err
		}
		asset = &model.Asset{
			Symbol:   symbol,
			Name:     req.Name,
			Type:     req.AssetType,
			Currency: req.Currency,
		}
		if asset.Type == "" {
			asset.Type = model.AssetTypeStock
		}
		if asset.Currency == "" {
			asset.Currency = "USD"
		}
		if err := s.assets.Create(ctx, asset); err != nil {
			return err
		}
	}

	return s.portfolios.UpsertWeight(ctx, portfolioID, asset.ID, req.Weight)
}

// RemoveAsset detaches an asset from a portfolio. It fails only when the
// symbol is absent from the catalog; deleting a pair that the portfolio
// never held is a silent no-op.
func (s *PortfolioService) RemoveAsset(ctx context.Context, portfolioID int64, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	asset, err := s.assets.GetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return ErrAssetNotFound
		}
		return err
	}

	return s.portfolios.RemoveAsset(ctx, portfolioID, asset.ID)
}

// Catalog returns every asset registered across all portfolios.
func (s *PortfolioService) Catalog(ctx context.Context) ([]model.Asset, error) {
	return s.assets.List(ctx)
}

// Assets returns the portfolio's weights joined against the catalog.
func (s *PortfolioService) Assets(ctx context.Context, portfolioID int64) ([]model.WeightedAsset, error) {
	return s.portfolios.ListAssets(ctx, portfolioID)
}

// Summary computes the basic concentration overview of a portfolio.
// An empty portfolio yields zeros.
func (s *PortfolioService) Summary(ctx context.Context, portfolioID int64) (model.Summary, error) {
	assets, err := s.portfolios.ListAssets(ctx, portfolioID)
	if err != nil {
		return model.Summary{}, err
	}
	if len(assets) == 0 {
		return model.Summary{}, nil
	}

	var total float64
	for _, a := range assets {
		total += a.Weight
	}

	return model.Summary{
		NAssets:         len(assets),
		TotalWeight:     round4(total),
		Diversification: round4(1 / float64(len(assets))),
	}, nil
}

// Normalize rescales the portfolio's weights to sum to 1. An empty
// portfolio is left untouched; a non-empty portfolio whose weights sum
// to zero cannot be rescaled.
func (s *PortfolioService) Normalize(ctx context.Context, portfolioID int64) error {
	weights, err := s.portfolios.ListWeights(ctx, portfolioID)
	if err != nil {
		return err
	}
	if len(weights) == 0 {
		return nil
	}

	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	if total == 0 {
		return ErrZeroTotalWeight
	}

	for _, w := range weights {
		if err := s.portfolios.UpsertWeight(ctx, portfolioID, w.AssetID, w.Weight/total); err != nil {
			return err
		}
	}

	return nil
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
