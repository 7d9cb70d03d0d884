package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/smartviz/smartviz-go/internal/model"
)

var ErrAssetNotFound = errors.New("asset not found")

// AssetRepository handles the deduplicated catalog of tradable assets.
type AssetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// Create inserts a new catalog entry and sets the generated ID on the
// asset struct.
func (r *AssetRepository) Create(ctx context.Context, asset *model.Asset) error {
	query := `INSERT INTO assets (symbol, name, asset_type, currency)
		VALUES (?, ?, ?, ?) RETURNING asset_id`

	return r.db.QueryRowContext(ctx, query,
		asset.Symbol, asset.Name, asset.Type, asset.Currency,
	).Scan(&asset.ID)
}

// GetBySymbol retrieves a catalog entry by its ticker symbol.
func (r *AssetRepository) GetBySymbol(ctx context.Context, symbol string) (*model.Asset, error) {
	query := `SELECT asset_id, symbol, name, asset_type, currency
		FROM assets WHERE symbol = ?`

	asset := &model.Asset{}
	err := r.db.QueryRowContext(ctx, query, symbol).Scan(
		&asset.ID, &asset.Symbol, &asset.Name, &asset.Type, &asset.Currency,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}

	return asset, nil
}

// List retrieves every catalog entry.
func (r *AssetRepository) List(ctx context.Context) ([]model.Asset, error) {
	query := `SELECT asset_id, symbol, name, asset_type, currency FROM assets ORDER BY asset_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(&a.ID, &a.Symbol, &a.Name, &a.Type, &a.Currency); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}
