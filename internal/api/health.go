package api

import (
	"github.com/gin-gonic/gin"
)

// HealthHandler provides liveness, readiness and index endpoints for the service.
type HealthHandler struct {
	ready func() error // nil means always ready
}

// NewHealthHandler constructs a HealthHandler. ready reports whether the
// service can answer requests; it may be nil.
func NewHealthHandler(ready func() error) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Register mounts the probe endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz, GET /api/health: Always returns 200 OK.
//   - GET /readyz: 200 when ready succeeds, 503 otherwise.
//   - GET /: Service index.
func (h *HealthHandler) Register(r *gin.Engine) {
	// @Summary      Liveness probe
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /api/health [get]
	live := func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	}
	r.GET("/healthz", live)
	r.GET("/api/health", live)

	// @Summary      Readiness probe
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		if h.ready != nil {
			if err := h.ready(); err != nil {
				c.JSON(503, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Penny Stock Gainers API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"penny_stocks":       "/api/penny-stocks/gainers",
				"ai_recommendations": "/api/ai-recommendations",
				"chat":               "/api/chat",
				"health":             "/api/health",
				"docs":               "/swagger/index.html",
			},
		})
	})
}
