package analytics

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLogReturns(t *testing.T) {
	returns, err := LogReturns([]float64{1, math.E, math.E})
	if err != nil {
		t.Fatalf("LogReturns() unexpected error: %v", err)
	}
	if len(returns) != 2 {
		t.Fatalf("LogReturns() len = %d, want 2", len(returns))
	}
	if !almostEqual(returns[0], 1) || !almostEqual(returns[1], 0) {
		t.Errorf("LogReturns() = %v, want [1 0]", returns)
	}
}

func TestLogReturnsTooShort(t *testing.T) {
	if _, err := LogReturns([]float64{42}); !errors.Is(err, ErrNotEnoughPrices) {
		t.Errorf("LogReturns() = %v, want ErrNotEnoughPrices", err)
	}
}

func TestNormalizeWeights(t *testing.T) {
	got, err := NormalizeWeights(map[string]float64{"AAPL": 3, "MSFT": 1})
	if err != nil {
		t.Fatalf("NormalizeWeights() unexpected error: %v", err)
	}
	if !almostEqual(got["AAPL"], 0.75) || !almostEqual(got["MSFT"], 0.25) {
		t.Errorf("NormalizeWeights() = %v", got)
	}

	if _, err := NormalizeWeights(map[string]float64{"AAPL": 0}); !errors.Is(err, ErrZeroWeights) {
		t.Errorf("NormalizeWeights() zero sum = %v, want ErrZeroWeights", err)
	}
}

func TestWeightedReturns(t *testing.T) {
	portfolio, err := WeightedReturns(
		map[string][]float64{
			"AAPL": {0.1, 0.2},
			"MSFT": {0.3, 0.4},
		},
		map[string]float64{"AAPL": 1, "MSFT": 1},
	)
	if err != nil {
		t.Fatalf("WeightedReturns() unexpected error: %v", err)
	}
	if len(portfolio) != 2 || !almostEqual(portfolio[0], 0.2) || !almostEqual(portfolio[1], 0.3) {
		t.Errorf("WeightedReturns() = %v, want [0.2 0.3]", portfolio)
	}
}

func TestWeightedReturnsAlignsOnRecent(t *testing.T) {
	portfolio, err := WeightedReturns(
		map[string][]float64{
			"AAPL": {0.1, 0.2},
			"MSFT": {9.9, 0.3, 0.4}, // extra old observation is dropped
		},
		map[string]float64{"AAPL": 0.5, "MSFT": 0.5},
	)
	if err != nil {
		t.Fatalf("WeightedReturns() unexpected error: %v", err)
	}
	if len(portfolio) != 2 || !almostEqual(portfolio[0], 0.2) || !almostEqual(portfolio[1], 0.3) {
		t.Errorf("WeightedReturns() = %v, want [0.2 0.3]", portfolio)
	}
}

func TestHorizonReturns(t *testing.T) {
	closes := []float64{1, 2, 4}

	got, err := HorizonReturns(closes, map[string]int{"1D": 1, "30D": 30})
	if err != nil {
		t.Fatalf("HorizonReturns() unexpected error: %v", err)
	}
	if !almostEqual(got["1D"], 1) {
		t.Errorf("1D = %v, want 1 (4 vs 2)", got["1D"])
	}
	// Lookback longer than the series falls back to the full history.
	if !almostEqual(got["30D"], 3) {
		t.Errorf("30D = %v, want 3 (4 vs 1)", got["30D"])
	}

	if _, err := HorizonReturns([]float64{1}, map[string]int{"1D": 1}); !errors.Is(err, ErrNotEnoughPrices) {
		t.Errorf("HorizonReturns() = %v, want ErrNotEnoughPrices", err)
	}
}
