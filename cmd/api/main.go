package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/smartviz/smartviz-go/internal/config"
	"github.com/smartviz/smartviz-go/internal/crypto"
	"github.com/smartviz/smartviz-go/internal/handler"
	"github.com/smartviz/smartviz-go/internal/marketdata"
	"github.com/smartviz/smartviz-go/internal/middleware"
	"github.com/smartviz/smartviz-go/internal/repository"
	"github.com/smartviz/smartviz-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database failed", "error", err, "path", cfg.DatabasePath)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	assetRepo := repository.NewAssetRepository(db)

	codec := crypto.NewTokenCodec(cfg.AppSecret)
	authService := service.NewAuthService(userRepo, sessionRepo, codec, cfg.SessionTTL)
	portfolioService := service.NewPortfolioService(portfolioRepo, assetRepo)
	prices := marketdata.NewClient(cfg.MarketDataURL)

	authHandler := handler.NewAuthHandler(authService)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService)
	insightHandler := handler.NewInsightHandler(portfolioService, prices)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/v1/auth/register", authHandler.HandleRegister)
		r.Post("/api/v1/auth/login", authHandler.HandleLogin)
	})

	// Logout is idempotent and must succeed for unknown tokens, so it
	// stays outside the auth middleware.
	r.Post("/api/v1/auth/logout", authHandler.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(authService))
		r.Get("/api/v1/auth/me", authHandler.HandleMe)

		r.Get("/api/v1/assets", portfolioHandler.HandleCatalog)
		r.Post("/api/v1/portfolios", portfolioHandler.HandleCreate)
		r.Get("/api/v1/portfolios", portfolioHandler.HandleList)
		r.Delete("/api/v1/portfolios/{portfolio_id}", portfolioHandler.HandleDelete)
		r.Get("/api/v1/portfolios/{portfolio_id}/assets", portfolioHandler.HandleListAssets)
		r.Post("/api/v1/portfolios/{portfolio_id}/assets", portfolioHandler.HandleAddAsset)
		r.Delete("/api/v1/portfolios/{portfolio_id}/assets/{symbol}", portfolioHandler.HandleRemoveAsset)
		r.Get("/api/v1/portfolios/{portfolio_id}/summary", portfolioHandler.HandleSummary)
		r.Post("/api/v1/portfolios/{portfolio_id}/normalize", portfolioHandler.HandleNormalize)
		r.Get("/api/v1/portfolios/{portfolio_id}/performance", insightHandler.HandlePerformance)
		r.Get("/api/v1/portfolios/{portfolio_id}/insights", insightHandler.HandleInsights)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
