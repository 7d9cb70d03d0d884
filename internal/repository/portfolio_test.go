package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/smartviz/smartviz-go/internal/model"
)

func createPortfolio(t *testing.T, repo *PortfolioRepository, userID int64, name string) *model.Portfolio {
	t.Helper()
	p := &model.Portfolio{UserID: userID, Name: name}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	return p
}

func createAsset(t *testing.T, repo *AssetRepository, symbol string) *model.Asset {
	t.Helper()
	a := &model.Asset{Symbol: symbol, Name: symbol + " Inc.", Type: model.AssetTypeStock, Currency: "USD"}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	return a
}

func TestPortfolioCreateListGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPortfolioRepository(db)
	ctx := context.Background()

	p1 := createPortfolio(t, repo, 1, "Growth")
	p2 := createPortfolio(t, repo, 1, "Income")
	createPortfolio(t, repo, 2, "Other user")

	if p1.ID == 0 || p1.CreatedAt.IsZero() {
		t.Errorf("Create() did not populate id/timestamp: %+v", p1)
	}

	mine, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser() unexpected error: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != p1.ID || mine[1].ID != p2.ID {
		t.Errorf("ListByUser() = %+v, want portfolios %d and %d", mine, p1.ID, p2.ID)
	}

	got, err := repo.Get(ctx, p1.ID)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got.Name != "Growth" || got.UserID != 1 {
		t.Errorf("Get() = %+v", got)
	}

	if _, err := repo.Get(ctx, 12345); !errors.Is(err, ErrPortfolioNotFound) {
		t.Errorf("Get() missing = %v, want ErrPortfolioNotFound", err)
	}
}

func TestUpsertWeightOverwrites(t *testing.T) {
	db := newTestDB(t)
	portfolios := NewPortfolioRepository(db)
	assets := NewAssetRepository(db)
	ctx := context.Background()

	p := createPortfolio(t, portfolios, 1, "Main")
	a := createAsset(t, assets, "AAPL")

	if err := portfolios.UpsertWeight(ctx, p.ID, a.ID, 0.3); err != nil {
		t.Fatalf("UpsertWeight() unexpected error: %v", err)
	}
	if err := portfolios.UpsertWeight(ctx, p.ID, a.ID, 0.6); err != nil {
		t.Fatalf("UpsertWeight() overwrite unexpected error: %v", err)
	}

	weights, err := portfolios.ListWeights(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListWeights() unexpected error: %v", err)
	}
	if len(weights) != 1 {
		t.Fatalf("ListWeights() len = %d, want 1 (pair must not duplicate)", len(weights))
	}
	if weights[0].Weight != 0.6 {
		t.Errorf("weight = %v, want 0.6", weights[0].Weight)
	}
}

func TestRemoveAssetNoop(t *testing.T) {
	db := newTestDB(t)
	portfolios := NewPortfolioRepository(db)
	assets := NewAssetRepository(db)
	ctx := context.Background()

	p := createPortfolio(t, portfolios, 1, "Main")
	a := createAsset(t, assets, "MSFT")

	// Removing a pair that was never added is silently fine.
	if err := portfolios.RemoveAsset(ctx, p.ID, a.ID); err != nil {
		t.Errorf("RemoveAsset() on missing pair = %v, want nil", err)
	}
}

func TestListAssetsJoinsCatalog(t *testing.T) {
	db := newTestDB(t)
	portfolios := NewPortfolioRepository(db)
	assets := NewAssetRepository(db)
	ctx := context.Background()

	p := createPortfolio(t, portfolios, 1, "Main")
	aapl := createAsset(t, assets, "AAPL")
	msft := createAsset(t, assets, "MSFT")

	if err := portfolios.UpsertWeight(ctx, p.ID, aapl.ID, 0.6); err != nil {
		t.Fatalf("UpsertWeight() unexpected error: %v", err)
	}
	if err := portfolios.UpsertWeight(ctx, p.ID, msft.ID, 0.4); err != nil {
		t.Fatalf("UpsertWeight() unexpected error: %v", err)
	}

	weighted, err := portfolios.ListAssets(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListAssets() unexpected error: %v", err)
	}
	if len(weighted) != 2 {
		t.Fatalf("ListAssets() len = %d, want 2", len(weighted))
	}
	if weighted[0].Symbol != "AAPL" || weighted[0].Weight != 0.6 {
		t.Errorf("first asset = %+v, want AAPL weight 0.6", weighted[0])
	}
	if weighted[1].Symbol != "MSFT" || weighted[1].Weight != 0.4 {
		t.Errorf("second asset = %+v, want MSFT weight 0.4", weighted[1])
	}
}

func TestDeleteCascadesWeights(t *testing.T) {
	db := newTestDB(t)
	portfolios := NewPortfolioRepository(db)
	assets := NewAssetRepository(db)
	ctx := context.Background()

	p := createPortfolio(t, portfolios, 1, "Doomed")
	a := createAsset(t, assets, "TSLA")
	if err := portfolios.UpsertWeight(ctx, p.ID, a.ID, 1.0); err != nil {
		t.Fatalf("UpsertWeight() unexpected error: %v", err)
	}

	if err := portfolios.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	if _, err := portfolios.Get(ctx, p.ID); !errors.Is(err, ErrPortfolioNotFound) {
		t.Errorf("Get() after delete = %v, want ErrPortfolioNotFound", err)
	}
	weights, err := portfolios.ListWeights(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListWeights() unexpected error: %v", err)
	}
	if len(weights) != 0 {
		t.Errorf("weights not cascaded on delete: %+v", weights)
	}

	// Catalog entry survives the portfolio.
	if _, err := assets.GetBySymbol(ctx, "TSLA"); err != nil {
		t.Errorf("catalog entry removed with portfolio: %v", err)
	}
}

func TestAssetCatalogDedup(t *testing.T) {
	db := newTestDB(t)
	assets := NewAssetRepository(db)
	ctx := context.Background()

	createAsset(t, assets, "AAPL")

	dup := &model.Asset{Symbol: "AAPL", Name: "dupe", Type: model.AssetTypeStock, Currency: "USD"}
	if err := assets.Create(ctx, dup); err == nil {
		t.Error("Create() duplicate symbol succeeded, want unique-constraint error")
	}

	if _, err := assets.GetBySymbol(ctx, "GOOG"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("GetBySymbol() missing = %v, want ErrAssetNotFound", err)
	}
}
