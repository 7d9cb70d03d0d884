package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/smartviz/smartviz-go/internal/middleware"
	"github.com/smartviz/smartviz-go/internal/model"
	"github.com/smartviz/smartviz-go/internal/service"
)

// PortfolioHandler handles HTTP requests for portfolio operations.
type PortfolioHandler struct {
	service *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(svc *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: svc}
}

// authorizePortfolio is the single ownership guard used by every
// portfolio-scoped endpoint. It reads the authenticated user from the
// context (401 when absent, preserving error precedence over 403),
// parses the portfolio_id route parameter and verifies ownership. On
// failure the response has already been written.
func authorizePortfolio(w http.ResponseWriter, r *http.Request, svc *service.PortfolioService) (userID, portfolioID int64, ok bool) {
	userID, authed := middleware.UserIDFromContext(r.Context())
	if !authed {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return 0, 0, false
	}

	portfolioID, err := strconv.ParseInt(chi.URLParam(r, "portfolio_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid portfolio id"))
		return 0, 0, false
	}

	owns, err := svc.Owns(r.Context(), userID, portfolioID)
	if err != nil {
		slog.Error("ownership check failed", "error", err, "portfolio_id", portfolioID)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return 0, 0, false
	}
	if !owns {
		writeJSON(w, http.StatusForbidden, errorResponse("portfolio not owned by this user"))
		return 0, 0, false
	}

	return userID, portfolioID, true
}

// HandleCreate handles POST /api/v1/portfolios requests.
func (h *PortfolioHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	portfolioID, err := h.service.Create(r.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrNameRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		slog.Error("portfolio creation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, model.CreatePortfolioResponse{PortfolioID: portfolioID, Status: "created"})
}

// HandleList handles GET /api/v1/portfolios requests.
func (h *PortfolioHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	portfolios, err := h.service.List(r.Context(), userID)
	if err != nil {
		slog.Error("portfolio listing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	if portfolios == nil {
		portfolios = []model.Portfolio{}
	}

	writeJSON(w, http.StatusOK, portfolios)
}

// HandleCatalog handles GET /api/v1/assets requests. The catalog is
// shared across users, so only authentication is required.
func (h *PortfolioHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	catalog, err := h.service.Catalog(r.Context())
	if err != nil {
		slog.Error("catalog listing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	if catalog == nil {
		catalog = []model.Asset{}
	}

	writeJSON(w, http.StatusOK, catalog)
}

// HandleDelete handles DELETE /api/v1/portfolios/{portfolio_id} requests.
func (h *PortfolioHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, portfolioID, ok := authorizePortfolio(w, r, h.service)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), portfolioID); err != nil {
		slog.Error("portfolio deletion failed", "error", err, "portfolio_id", portfolioID)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleListAssets handles GET /api/v1/portfolios/{portfolio_id}/assets.
func (h *PortfolioHandler) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	_, portfolioID, ok := authorizePortfolio(w, r, h.service)
	if !ok {
		return
	}

	assets, err := h.service.Assets(r.Context(), portfolioID)
	if err != nil {
		slog.Error("asset listing failed", "error", err, "portfolio_id", portfolioID)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	if assets == nil {
		assets = []model.WeightedAsset{}
	}

	writeJSON(w, http.StatusOK, assets)
}

// HandleAddAsset handles POST /api/v1/portfolios/{portfolio_id}/assets.
func (h *PortfolioHandler) HandleAddAsset(w http.ResponseWriter, r *http.Request) {
	_, portfolioID, ok := authorizePortfolio(w, r, h.service)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.AddAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	if err := h.service.AddAsset(r.Context(), portfolioID, req); err != nil {
		if errors.Is(err, service.ErrSymbolRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		slog.Error("adding asset failed", "error", err, "portfolio_id", portfolioID)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "asset_added",
		"portfolio_id": portfolioID,
		"symbol":       req.Symbol,
	})
}

// HandleRemoveAsset handles
// DELETE /api/v1/portfolios/{portfolio_id}/assets/{symbol}.
func (h *PortfolioHandler) HandleRemoveAsset(w http.ResponseWriter, r *http.Request) {
	_, portfolioID, ok := authorizePortfolio(w, r, h.service)
	if !ok {
		return
	}

	symbol := chi.URLParam(r, "symbol")

	if err := h.service.RemoveAsset(r.Context(), portfolioID, symbol); err != nil {
		if errors.Is(err, service.ErrAssetNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		slog.Error("removing asset failed", "error", err, "portfolio_id", portfolioID)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "asset_removed", "symbol": symbol})
}

// HandleSummary handles GET /api/v1/portfolios/{portfolio_id}/summary.
func (h *PortfolioHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	_, portfolioID, ok := authorizePortfolio(w, r, h.service)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), portfolioID)
	if err != nil {
		slog.Error("summary computation failed", "error", err, "portfolio_id", portfolioID)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// HandleNormalize handles POST /api/v1/portfolios/{portfolio_id}/normalize.
func (h *PortfolioHandler) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	_, portfolioID, ok := authorizePortfolio(w, r, h.service)
	if !ok {
		return
	}

	if err := h.service.Normalize(r.Context(), portfolioID); err != nil {
		if errors.Is(err, service.ErrZeroTotalWeight) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		slog.Error("weight normalization failed", "error", err, "portfolio_id", portfolioID)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "normalized"})
}
