package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Report aggregates risk and performance metrics for one return series.
// Ratios that are undefined because volatility is zero are reported as 0.
type Report struct {
	TotalReturn          float64   `json:"total_return"`
	AnnualisedReturn     float64   `json:"annualised_return"`
	AnnualisedVolatility float64   `json:"annualised_volatility"`
	SharpeRatio          float64   `json:"sharpe_ratio"`
	MaxDrawdown          float64   `json:"max_drawdown"`
	CumulativeReturns    []float64 `json:"cumulative_returns"`
	DrawdownSeries       []float64 `json:"drawdown_series"`
}

// Performance computes a Report from a daily return series.
func Performance(returns []float64) (Report, error) {
	if len(returns) == 0 {
		return Report{}, ErrNotEnoughPrices
	}

	cumulative := make([]float64, len(returns))
	wealth := 1.0
	for i, r := range returns {
		wealth *= 1 + r
		cumulative[i] = wealth - 1
	}
	totalReturn := cumulative[len(cumulative)-1]

	annualisedReturn := math.Pow(1+totalReturn, float64(TradingDays)/float64(len(returns))) - 1
	annualisedVolatility := stat.PopStdDev(returns, nil) * math.Sqrt(TradingDays)

	var sharpe float64
	if annualisedVolatility > 1e-12 {
		sharpe = annualisedReturn / annualisedVolatility
	}

	drawdowns := make([]float64, len(returns))
	wealth = 1.0
	runningMax := 1.0
	maxDrawdown := 0.0
	for i, r := range returns {
		wealth *= 1 + r
		if wealth > runningMax {
			runningMax = wealth
		}
		drawdowns[i] = wealth/runningMax - 1
		if drawdowns[i] < maxDrawdown {
			maxDrawdown = drawdowns[i]
		}
	}

	return Report{
		TotalReturn:          totalReturn,
		AnnualisedReturn:     annualisedReturn,
		AnnualisedVolatility: annualisedVolatility,
		SharpeRatio:          sharpe,
		MaxDrawdown:          maxDrawdown,
		CumulativeReturns:    cumulative,
		DrawdownSeries:       drawdowns,
	}, nil
}

// TrackingError computes the annualised tracking error between a
// portfolio and a benchmark return series of equal length.
func TrackingError(portfolio, benchmark []float64) (float64, error) {
	active, err := activeReturns(portfolio, benchmark)
	if err != nil {
		return 0, err
	}
	return stat.PopStdDev(active, nil) * math.Sqrt(TradingDays), nil
}

// InformationRatio computes the annualised information ratio. A zero
// tracking error yields 0.
func InformationRatio(portfolio, benchmark []float64) (float64, error) {
	te, err := TrackingError(portfolio, benchmark)
	if err != nil {
		return 0, err
	}
	if te < 1e-12 {
		return 0, nil
	}

	active, err := activeReturns(portfolio, benchmark)
	if err != nil {
		return 0, err
	}
	return stat.Mean(active, nil) * TradingDays / te, nil
}

func activeReturns(portfolio, benchmark []float64) ([]float64, error) {
	if len(portfolio) == 0 || len(portfolio) != len(benchmark) {
		return nil, ErrNoSeries
	}

	active := make([]float64, len(portfolio))
	for i := range portfolio {
		active[i] = portfolio[i] - benchmark[i]
	}
	return active, nil
}
