// Package analytics computes portfolio risk and performance statistics
// from daily close prices: log-returns, annualised volatility, Sharpe
// ratio, drawdowns, tracking error and lookback returns.
package analytics

import (
	"errors"
	"math"
)

var (
	ErrNotEnoughPrices = errors.New("at least two prices are required")
	ErrZeroWeights     = errors.New("weights must not sum to zero")
	ErrNoSeries        = errors.New("no return series provided")
)

// TradingDays is the annualisation factor for daily observations.
const TradingDays = 252

// LogReturns computes daily log-returns from close prices.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, ErrNotEnoughPrices
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = math.Log(prices[i] / prices[i-1])
	}
	return returns, nil
}

// NormalizeWeights rescales weights to sum to one.
func NormalizeWeights(weights map[string]float64) (map[string]float64, error) {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return nil, ErrZeroWeights
	}

	normalized := make(map[string]float64, len(weights))
	for k, w := range weights {
		normalized[k] = w / total
	}
	return normalized, nil
}

// WeightedReturns combines per-asset return series into one portfolio
// return series using the given weights, which are normalised first.
// Series are truncated to the shortest common length; symbols without a
// weight contribute nothing.
func WeightedReturns(returnsBySymbol map[string][]float64, weights map[string]float64) ([]float64, error) {
	if len(returnsBySymbol) == 0 {
		return nil, ErrNoSeries
	}

	weights, err := NormalizeWeights(weights)
	if err != nil {
		return nil, err
	}

	n := -1
	for _, series := range returnsBySymbol {
		if n == -1 || len(series) < n {
			n = len(series)
		}
	}
	if n == 0 {
		return nil, ErrNotEnoughPrices
	}

	portfolio := make([]float64, n)
	for symbol, series := range returnsBySymbol {
		w := weights[symbol]
		// Align on the most recent observations.
		offset := len(series) - n
		for i := 0; i < n; i++ {
			portfolio[i] += w * series[offset+i]
		}
	}

	return portfolio, nil
}

// HorizonReturns computes the percentage change of the latest close
// against lookbacks of the given number of observations. Lookbacks
// longer than the series fall back to the full history.
func HorizonReturns(closes []float64, horizons map[string]int) (map[string]float64, error) {
	if len(closes) < 2 {
		return nil, ErrNotEnoughPrices
	}

	latest := closes[len(closes)-1]
	results := make(map[string]float64, len(horizons))
	for label, days := range horizons {
		start := len(closes) - 1 - days
		if start < 0 {
			start = 0
		}
		results[label] = latest/closes[start] - 1
	}

	return results, nil
}
