package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pennypulse/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterOptions carries the plumbing settings for NewRouter.
type RouterOptions struct {
	CORSOrigins []string
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
}

// NewRouter creates a Gin engine with routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, CORS, RateLimiter).
//   - Applies request timeouts to the request/response routes only; /api/chat streams without one.
//   - Mounts Swagger docs (/swagger/*any).
//
// Note:
//   - Health, readiness and index endpoints are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.CORS(opts.CORSOrigins),
	)
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Handler())
	}

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API ──────────────────────────────────────
	api := router.Group("/api")
	{
		stocks := api.Group("/penny-stocks", withTimeout(30*time.Second))
		stocks.GET("/gainers", handler.GetGainers)
		stocks.GET("/gainers/alternative", handler.GetGainersAlternative)

		api.POST("/ai-recommendations", withTimeout(90*time.Second), handler.PostRecommendations)

		// streamed; ends with the upstream stream or the client connection
		api.POST("/chat", handler.PostChat)
	}

	return router
}

func withTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
