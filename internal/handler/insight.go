package handler

import (
	"log/slog"
	"net/http"

	"github.com/smartviz/smartviz-go/internal/analytics"
	"github.com/smartviz/smartviz-go/internal/insight"
	"github.com/smartviz/smartviz-go/internal/marketdata"
	"github.com/smartviz/smartviz-go/internal/model"
	"github.com/smartviz/smartviz-go/internal/service"
)

// historyDays is the lookback window fetched for analytics endpoints.
const historyDays = 365

// projectionHorizon is how many observations the linear projection
// extrapolates past the end of the series.
const projectionHorizon = 30

// InsightHandler serves the dashboard analytics endpoints: performance
// reports and heuristic per-asset insights. Prices come from the
// injected market data source.
type InsightHandler struct {
	portfolios *service.PortfolioService
	prices     marketdata.Source
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(portfolios *service.PortfolioService, prices marketdata.Source) *InsightHandler {
	return &InsightHandler{portfolios: portfolios, prices: prices}
}

// InsightsResponse aggregates per-asset insights with the portfolio
// level projection.
type InsightsResponse struct {
	Insights        []insight.AssetInsight        `json:"insights"`
	HorizonReturns  map[string]map[string]float64 `json:"horizon_returns"`
	Classification  string                        `json:"classification"`
	ProjectedReturn float64                       `json:"projected_return"`
	ProjectedPrice  float64                       `json:"projected_price"`
}

// PerformanceResponse is a Report optionally extended with metrics
// relative to a benchmark ticker.
type PerformanceResponse struct {
	analytics.Report
	TrackingError    *float64 `json:"tracking_error,omitempty"`
	InformationRatio *float64 `json:"information_ratio,omitempty"`
}

// HandlePerformance handles
// GET /api/v1/portfolios/{portfolio_id}/performance. An optional
// ?benchmark=SPY query adds tracking error and information ratio
// against that ticker.
func (h *InsightHandler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	_, portfolioID, ok := authorizePortfolio(w, r, h.portfolios)
	if !ok {
		return
	}

	assets, weights, ok2 := h.loadAssets(w, r, portfolioID)
	if !ok2 {
		return
	}

	returnsBySymbol := make(map[string][]float64, len(assets))
	for _, a := range assets {
		returns, ok3 := h.fetchReturns(w, r, a.Symbol)
		if !ok3 {
			return
		}
		returnsBySymbol[a.Symbol] = returns
	}

	portfolioReturns, err := analytics.WeightedReturns(returnsBySymbol, weights)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	report, err := analytics.Performance(portfolioReturns)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	resp := PerformanceResponse{Report: report}
	if benchmark := r.URL.Query().Get("benchmark"); benchmark != "" {
		benchReturns, ok3 := h.fetchReturns(w, r, benchmark)
		if !ok3 {
			return
		}
		portfolio, bench := alignTails(portfolioReturns, benchReturns)

		te, err := analytics.TrackingError(portfolio, bench)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		ir, err := analytics.InformationRatio(portfolio, bench)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		resp.TrackingError = &te
		resp.InformationRatio = &ir
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleInsights handles GET /api/v1/portfolios/{portfolio_id}/insights.
func (h *InsightHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	_, portfolioID, ok := authorizePortfolio(w, r, h.portfolios)
	if !ok {
		return
	}

	assets, weights, ok2 := h.loadAssets(w, r, portfolioID)
	if !ok2 {
		return
	}

	closesBySymbol := make(map[string][]float64, len(assets))
	sectors := make(map[string]string, len(assets))
	horizonReturns := make(map[string]map[string]float64, len(assets))
	for _, a := range assets {
		closes, err := h.prices.DailyCloses(r.Context(), a.Symbol, historyDays)
		if err != nil {
			slog.Error("price fetch failed", "error", err, "symbol", a.Symbol)
			writeJSON(w, http.StatusBadGateway, errorResponse("market data unavailable"))
			return
		}
		closesBySymbol[a.Symbol] = closes
		sectors[a.Symbol] = h.prices.Sector(r.Context(), a.Symbol)

		if hr, err := analytics.HorizonReturns(closes, insight.TimeHorizons); err == nil {
			horizonReturns[a.Symbol] = hr
		}
	}

	insights := insight.Build(closesBySymbol, sectors, projectionHorizon)
	price, ret := insight.PortfolioProjection(weights, insights)

	// A benchmark ticker's own projected return, when requested, sets
	// the comparison point for the classification.
	var benchmarkReturn *float64
	if benchmark := r.URL.Query().Get("benchmark"); benchmark != "" {
		closes, err := h.prices.DailyCloses(r.Context(), benchmark, historyDays)
		if err != nil {
			slog.Error("price fetch failed", "error", err, "symbol", benchmark)
			writeJSON(w, http.StatusBadGateway, errorResponse("market data unavailable"))
			return
		}
		_, benchRet := insight.LinearProjection(closes, projectionHorizon)
		benchmarkReturn = &benchRet
	}

	writeJSON(w, http.StatusOK, InsightsResponse{
		Insights:        insights,
		HorizonReturns:  horizonReturns,
		Classification:  insight.Classify(ret, benchmarkReturn, 0.01),
		ProjectedReturn: ret,
		ProjectedPrice:  price,
	})
}

// fetchReturns downloads a symbol's close history and converts it to
// log returns, mapping upstream failures to 502. On failure the
// response has been written.
func (h *InsightHandler) fetchReturns(w http.ResponseWriter, r *http.Request, symbol string) ([]float64, bool) {
	closes, err := h.prices.DailyCloses(r.Context(), symbol, historyDays)
	if err != nil {
		slog.Error("price fetch failed", "error", err, "symbol", symbol)
		writeJSON(w, http.StatusBadGateway, errorResponse("market data unavailable"))
		return nil, false
	}
	returns, err := analytics.LogReturns(closes)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse("market data unavailable"))
		return nil, false
	}
	return returns, true
}

// alignTails truncates two series to their common length, keeping the
// most recent observations.
func alignTails(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return a[len(a)-n:], b[len(b)-n:]
}

// loadAssets fetches the portfolio's weighted assets, rejecting empty
// portfolios, and returns them along with a symbol → weight map. On
// failure the response has been written.
func (h *InsightHandler) loadAssets(w http.ResponseWriter, r *http.Request, portfolioID int64) ([]model.WeightedAsset, map[string]float64, bool) {
	assets, err := h.portfolios.Assets(r.Context(), portfolioID)
	if err != nil {
		slog.Error("asset listing failed", "error", err, "portfolio_id", portfolioID)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return nil, nil, false
	}
	if len(assets) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("portfolio has no assets"))
		return nil, nil, false
	}

	weights := make(map[string]float64, len(assets))
	for _, a := range assets {
		weights[a.Symbol] = a.Weight
	}
	return assets, weights, true
}
