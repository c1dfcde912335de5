package app

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pennypulse/config"
	"github.com/guttosm/pennypulse/internal/api"
	"github.com/guttosm/pennypulse/internal/llm"
	"github.com/guttosm/pennypulse/internal/marketdata"
	"github.com/guttosm/pennypulse/internal/middleware"
	"github.com/guttosm/pennypulse/internal/service"
)

// marketProvider and llmFactory are indirections overridden in tests to avoid real network calls.
var (
	marketProvider = func(cfg config.Config) marketdata.Provider {
		return marketdata.NewYahooProvider(cfg.Yahoo.BaseURL, cfg.Yahoo.Timeout)
	}
	llmFactory = func(cfg config.Config) llm.Factory {
		return llm.NewOpenAIFactory(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	}
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the market data provider and the completion provider factory.
//   - Initializes the service layer (gainers screener, recommendations, chat relay).
//   - Creates the HTTP handler layer and the Gin router.
//   - Registers health, readiness and index endpoints.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig
	if len(cfg.Screener.Watchlist) == 0 {
		return nil, nil, errors.New("watchlist is empty")
	}

	factory := llmFactory(cfg)

	gainers := service.NewGainersService(marketProvider(cfg), cfg.Screener.Watchlist, cfg.Screener.PriceCeiling, cfg.Screener.Parallelism)
	recommend := service.NewRecommendationService(factory, service.RecommendationOptions{
		DefaultModel: cfg.OpenAI.Model,
		MaxCount:     cfg.Recommend.MaxCount,
		Temperature:  cfg.Recommend.Temperature,
		MaxTokens:    cfg.Recommend.MaxTokens,
	})
	chat := service.NewChatService(factory, cfg.OpenAI.Model)

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	handler := api.NewHandler(gainers, recommend, chat, cfg.Screener.DefaultLimit)
	router := api.NewRouter(handler, api.RouterOptions{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	})

	watchlist := cfg.Screener.Watchlist
	api.NewHealthHandler(func() error {
		if len(watchlist) == 0 {
			return errors.New("watchlist is empty")
		}
		return nil
	}).Register(router)

	// nothing is pooled across requests; kept for the shutdown contract in main
	cleanup := func() {}

	return router, cleanup, nil
}
