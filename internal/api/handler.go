package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pennypulse/internal/domain/dto"
	"github.com/guttosm/pennypulse/internal/llm"
	"github.com/guttosm/pennypulse/internal/logger"
	"github.com/guttosm/pennypulse/internal/service"
)

// Handler provides HTTP handlers for the screening, recommendation and chat endpoints.
//
// Responsibilities:
//   - Validate incoming query parameters and JSON bodies
//   - Delegate to the service layer
//   - Translate service results into response DTOs
type Handler struct {
	gainers      service.GainersService
	recommend    service.RecommendationService
	chat         service.ChatService
	defaultLimit int
}

// NewHandler constructs a new Handler instance. defaultLimit is used when a
// gainers request carries no limit.
func NewHandler(gainers service.GainersService, recommend service.RecommendationService, chat service.ChatService, defaultLimit int) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &Handler{gainers: gainers, recommend: recommend, chat: chat, defaultLimit: defaultLimit}
}

// GetGainers godoc
// @Summary      Top penny stock gainers
// @Description  Screens the configured watchlist for stocks at or under the price ceiling that gained since the previous close
// @Tags         penny-stocks
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of symbols evaluated and returned" example(20)
// @Success      200    {object}  dto.GainersResponse  "Success"
// @Failure      400    {object}  dto.ErrorResponse    "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/penny-stocks/gainers [get]
func (h *Handler) GetGainers(c *gin.Context) {
	limit := h.defaultLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("limit must be a positive integer", err))
			return
		}
		limit = n
	}

	res, err := h.gainers.Screen(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("error fetching penny stock data", err))
		return
	}

	c.JSON(http.StatusOK, dto.GainersResponse{
		Timestamp:   res.Timestamp.Format(time.RFC3339Nano),
		TotalStocks: res.Total,
		Stocks:      res.Stocks,
	})
}

// GetGainersAlternative godoc
// @Summary      Alternative gainers source
// @Description  Placeholder for a secondary data source; points at the primary endpoint
// @Tags         penny-stocks
// @Produce      json
// @Success      200  {object}  dto.AlternativeResponse
// @Router       /api/penny-stocks/gainers/alternative [get]
func (h *Handler) GetGainersAlternative(c *gin.Context) {
	c.JSON(http.StatusOK, dto.AlternativeResponse{
		Message:  "Please use /api/penny-stocks/gainers for the main functionality",
		Endpoint: "/api/penny-stocks/gainers",
	})
}

// PostRecommendations godoc
// @Summary      AI stock recommendations
// @Description  Asks the model for candidate symbols and validates its output. Unparseable output is returned as raw_response with parse_error=true.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RecommendationRequest   true  "Prompt and bounds"
// @Success      200      {object}  dto.RecommendationResponse  "Success or parse fallback"
// @Failure      400      {object}  dto.ErrorResponse           "Bad Request"
// @Failure      500      {object}  dto.ErrorResponse           "Upstream Error"
// @Router       /api/ai-recommendations [post]
func (h *Handler) PostRecommendations(c *gin.Context) {
	var req dto.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}
	if req.MaxCount < 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("max_count must not be negative", nil))
		return
	}

	res, err := h.recommend.Generate(c.Request.Context(), service.RecommendationRequest{
		Prompt:   req.Prompt,
		MaxCount: req.MaxCount,
		Model:    req.Model,
		APIKey:   req.APIKey,
	})
	if err != nil {
		writeUpstreamError(c, "error generating recommendations", err)
		return
	}

	resp := dto.RecommendationResponse{
		Timestamp:       res.Timestamp.Format(time.RFC3339Nano),
		TotalCount:      len(res.Recommendations),
		Prompt:          res.Prompt,
		Model:           res.Model,
		Recommendations: res.Recommendations,
		ParseError:      !res.Parsed,
	}
	if !res.Parsed {
		// sent even when empty so the fallback always carries the model text
		raw := res.RawResponse
		resp.RawResponse = &raw
	}
	c.JSON(http.StatusOK, resp)
}

// PostChat godoc
// @Summary      Streaming chat
// @Description  Relays a developer + user message pair to the model and streams the reply as plain text
// @Tags         ai
// @Accept       json
// @Produce      plain
// @Param        request  body      dto.ChatRequest    true  "Conversation"
// @Success      200      {string}  string             "Streamed completion text"
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500      {object}  dto.ErrorResponse  "Upstream Error"
// @Router       /api/chat [post]
func (h *Handler) PostChat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}

	stream, err := h.chat.Relay(c.Request.Context(), service.ChatRequest{
		DeveloperMessage: req.DeveloperMessage,
		UserMessage:      req.UserMessage,
		Model:            req.Model,
		APIKey:           req.APIKey,
	})
	if err != nil {
		writeUpstreamError(c, "error starting chat stream", err)
		return
	}
	defer func() { _ = stream.Close() }()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	// Forward fragments as they arrive. A client disconnect cancels the request
	// context, which ends the upstream stream.
	for {
		frag, err := stream.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				// once bytes are sent the truncated body is the only signal left
				_ = c.Error(err)
			}
			return
		}
		if _, err := io.WriteString(c.Writer, frag); err != nil {
			logger.L().Warn().Err(err).Msg("chat client write failed")
			return
		}
		c.Writer.Flush()
	}
}

// writeUpstreamError maps a missing API key to 400 and every other failure to 500.
func writeUpstreamError(c *gin.Context, message string, err error) {
	if errors.Is(err, llm.ErrMissingAPIKey) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("api key required", err))
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(message, err))
}
