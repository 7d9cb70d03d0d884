// Package insight produces the heuristic buy/hold/sell suggestions,
// linear price projections and substitute lookups shown on the
// dashboard. The helpers deliberately trade sophistication for
// transparency: simple momentum checks, ordinary least squares trend
// lines and a curated substitute table grouped by sector ETFs.
package insight

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/smartviz/smartviz-go/internal/analytics"
)

// Suggested actions for one asset.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
	ActionHold = "hold"
)

// Portfolio classification labels.
const (
	ClassOverperforming  = "overperforming"
	ClassUnderperforming = "underperforming"
	ClassInLine          = "in_line_with_benchmark"
	ClassPositive        = "positive"
	ClassNegative        = "negative"
	ClassStable          = "stable"
)

// momentumThreshold is the absolute lookback return beyond which an
// asset is suggested for buying or selling.
const momentumThreshold = 0.05

// DefaultLookback is the number of observations the momentum check uses.
const DefaultLookback = 30

// TimeHorizons maps lookback labels to observation counts for the
// multi-horizon return table.
var TimeHorizons = map[string]int{
	"1D":  1,
	"5D":  5,
	"30D": 30,
	"6M":  182,
	"1Y":  365,
}

// sectorSubstitutes lists liquid sector ETFs offered as replacements for
// assets the heuristics suggest selling.
var sectorSubstitutes = map[string][]string{
	"Technology":             {"XLK", "VGT", "SMH"},
	"Communication Services": {"XLC", "VOX", "FDN"},
	"Consumer Cyclical":      {"XLY", "VCR", "FDIS"},
	"Consumer Defensive":     {"XLP", "VDC", "FSTA"},
	"Energy":                 {"XLE", "VDE", "IXC"},
	"Financial Services":     {"XLF", "VFH", "KBE"},
	"Healthcare":             {"XLV", "VHT", "IHF"},
	"Industrials":            {"XLI", "VIS", "ITA"},
	"Basic Materials":        {"XLB", "VAW", "MXI"},
	"Real Estate":            {"XLRE", "VNQ", "IYR"},
	"Utilities":              {"XLU", "VPU", "IDU"},
	"Unknown":                {"SPY", "VT", "QQQ"},
}

// AssetInsight is the per-asset suggestion rendered on the dashboard.
type AssetInsight struct {
	Ticker          string   `json:"ticker"`
	Action          string   `json:"action"`
	Rationale       string   `json:"rationale"`
	Substitutes     []string `json:"substitutes"`
	PredictedPrice  float64  `json:"predicted_price"`
	PredictedReturn float64  `json:"predicted_return"`
}

// MomentumAction suggests an action from the return over the last
// lookback observations: above +5% buy, below -5% sell, hold otherwise.
func MomentumAction(closes []float64, lookback int) (string, string) {
	if len(closes) > lookback {
		closes = closes[len(closes)-lookback:]
	}
	if len(closes) < 2 {
		return ActionHold, "not enough history for a recommendation"
	}

	change := closes[len(closes)-1]/closes[0] - 1

	daily := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		daily[i-1] = closes[i]/closes[i-1] - 1
	}
	annualisedVol := stat.PopStdDev(daily, nil) * math.Sqrt(analytics.TradingDays)

	rationale := fmt.Sprintf("%dD return: %.1f%%, annualised volatility: %.1f%%",
		lookback, change*100, annualisedVol*100)

	switch {
	case change > momentumThreshold:
		return ActionBuy, rationale
	case change < -momentumThreshold:
		return ActionSell, rationale
	default:
		return ActionHold, rationale
	}
}

// LinearProjection fits an ordinary least squares line to the close
// series and extrapolates horizon observations past its end. With fewer
// than two points the last price is returned with a flat projection.
func LinearProjection(closes []float64, horizon int) (price, ret float64) {
	if len(closes) == 0 {
		return 0, 0
	}
	last := closes[len(closes)-1]
	if len(closes) < 2 {
		return last, 0
	}

	xs := make([]float64, len(closes))
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, closes, nil, false)

	price = intercept + slope*float64(len(closes)+horizon)
	ret = price/last - 1
	return price, ret
}

// SubstitutesFor returns the substitute tickers for a sector, excluding
// the given tickers. Unrecognised sectors map to broad-market ETFs.
func SubstitutesFor(sector string, exclude ...string) []string {
	suggestions, ok := sectorSubstitutes[sector]
	if !ok {
		suggestions = sectorSubstitutes["Unknown"]
	}

	excluded := make(map[string]bool, len(exclude))
	for _, t := range exclude {
		excluded[t] = true
	}

	out := make([]string, 0, len(suggestions))
	for _, t := range suggestions {
		if !excluded[t] {
			out = append(out, t)
		}
	}
	return out
}

// Build generates an insight for every asset with a close series. The
// sector of a ticker drives its substitute list; missing sectors fall
// back to Unknown.
func Build(closesBySymbol map[string][]float64, sectors map[string]string, horizon int) []AssetInsight {
	insights := make([]AssetInsight, 0, len(closesBySymbol))
	for symbol, closes := range closesBySymbol {
		action, rationale := MomentumAction(closes, DefaultLookback)
		price, ret := LinearProjection(closes, horizon)

		sector := sectors[symbol]
		if sector == "" {
			sector = "Unknown"
		}

		insights = append(insights, AssetInsight{
			Ticker:          symbol,
			Action:          action,
			Rationale:       rationale,
			Substitutes:     SubstitutesFor(sector, symbol),
			PredictedPrice:  price,
			PredictedReturn: ret,
		})
	}
	return insights
}

// Classify labels the portfolio's performance. With a benchmark the
// label compares against it within the tolerance band; without one the
// sign of the total return decides.
func Classify(totalReturn float64, benchmarkReturn *float64, tolerance float64) string {
	if benchmarkReturn != nil {
		delta := totalReturn - *benchmarkReturn
		switch {
		case delta > tolerance:
			return ClassOverperforming
		case delta < -tolerance:
			return ClassUnderperforming
		default:
			return ClassInLine
		}
	}

	switch {
	case totalReturn > 0.01:
		return ClassPositive
	case totalReturn < -0.01:
		return ClassNegative
	default:
		return ClassStable
	}
}

// PortfolioProjection combines per-asset projections into a portfolio
// level return and indexed price estimate. Weights are renormalised;
// when they sum to zero every asset counts equally.
func PortfolioProjection(weights map[string]float64, insights []AssetInsight) (price, ret float64) {
	var total float64
	for _, w := range weights {
		total += w
	}

	normalized := make(map[string]float64, len(weights))
	if total == 0 {
		for k := range weights {
			normalized[k] = 1 / float64(len(weights))
		}
	} else {
		for k, w := range weights {
			normalized[k] = w / total
		}
	}

	for _, ins := range insights {
		ret += normalized[ins.Ticker] * ins.PredictedReturn
	}
	return 1 + ret, ret
}
