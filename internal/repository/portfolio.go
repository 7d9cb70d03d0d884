package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/smartviz/smartviz-go/internal/model"
)

var ErrPortfolioNotFound = errors.New("portfolio not found")

// AssetWeight is one (asset, weight) pair inside a portfolio.
type AssetWeight struct {
	AssetID int64
	Weight  float64
}

// PortfolioRepository handles portfolio and weight persistence.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// Create inserts a new portfolio and sets the generated ID and creation
// timestamp on the struct.
func (r *PortfolioRepository) Create(ctx context.Context, p *model.Portfolio) error {
	query := `INSERT INTO portfolios (user_id, name)
		VALUES (?, ?) RETURNING portfolio_id, created_at`

	return r.db.QueryRowContext(ctx, query, p.UserID, p.Name).Scan(&p.ID, &p.CreatedAt)
}

// Get retrieves a portfolio by ID.
func (r *PortfolioRepository) Get(ctx context.Context, portfolioID int64) (*model.Portfolio, error) {
	query := `SELECT portfolio_id, user_id, name, created_at FROM portfolios WHERE portfolio_id = ?`

	p := &model.Portfolio{}
	err := r.db.QueryRowContext(ctx, query, portfolioID).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPortfolioNotFound
		}
		return nil, err
	}

	return p, nil
}

// ListByUser retrieves all portfolios owned by a user in creation order.
func (r *PortfolioRepository) ListByUser(ctx context.Context, userID int64) ([]model.Portfolio, error) {
	query := `SELECT portfolio_id, user_id, name, created_at
		FROM portfolios WHERE user_id = ? ORDER BY portfolio_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var portfolios []model.Portfolio
	for rows.Next() {
		var p model.Portfolio
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}

	return portfolios, rows.Err()
}

// Delete removes a portfolio and all of its weight assignments in one
// transaction. Catalog entries referenced by the portfolio are kept.
func (r *PortfolioRepository) Delete(ctx context.Context, portfolioID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM portfolio_assets WHERE portfolio_id = ?`, portfolioID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM portfolios WHERE portfolio_id = ?`, portfolioID); err != nil {
		return err
	}

	return tx.Commit()
}

// UpsertWeight sets the weight of an asset in a portfolio. Re-adding an
// existing pair overwrites the weight instead of duplicating the row.
func (r *PortfolioRepository) UpsertWeight(ctx context.Context, portfolioID, assetID int64, weight float64) error {
	query := `INSERT OR REPLACE INTO portfolio_assets (portfolio_id, asset_id, weight) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, portfolioID, assetID, weight)
	return err
}

// RemoveAsset deletes a (portfolio, asset) pair. Removing a pair that
// does not exist is a no-op.
func (r *PortfolioRepository) RemoveAsset(ctx context.Context, portfolioID, assetID int64) error {
	query := `DELETE FROM portfolio_assets WHERE portfolio_id = ? AND asset_id = ?`

	_, err := r.db.ExecContext(ctx, query, portfolioID, assetID)
	return err
}

// ListWeights retrieves the raw (asset, weight) pairs of a portfolio.
func (r *PortfolioRepository) ListWeights(ctx context.Context, portfolioID int64) ([]AssetWeight, error) {
	query := `SELECT asset_id, weight FROM portfolio_assets WHERE portfolio_id = ? ORDER BY asset_id`

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weights []AssetWeight
	for rows.Next() {
		var w AssetWeight
		if err := rows.Scan(&w.AssetID, &w.Weight); err != nil {
			return nil, err
		}
		weights = append(weights, w)
	}

	return weights, rows.Err()
}

// ListAssets retrieves a portfolio's weights joined against the asset
// catalog.
func (r *PortfolioRepository) ListAssets(ctx context.Context, portfolioID int64) ([]model.WeightedAsset, error) {
	query := `SELECT a.symbol, a.name, a.asset_type, a.currency, pa.weight
		FROM portfolio_assets pa
		JOIN assets a ON a.asset_id = pa.asset_id
		WHERE pa.portfolio_id = ?
		ORDER BY a.symbol`

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []model.WeightedAsset
	for rows.Next() {
		var a model.WeightedAsset
		if err := rows.Scan(&a.Symbol, &a.Name, &a.Type, &a.Currency, &a.Weight); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}
