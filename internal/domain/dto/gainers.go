package dto

import "github.com/guttosm/pennypulse/internal/domain/models"

// GainersResponse is returned by GET /api/penny-stocks/gainers.
type GainersResponse struct {
	Timestamp   string              `json:"timestamp" example:"2025-09-18T14:03:11.123456"`
	TotalStocks int                 `json:"total_stocks" example:"3"`
	Stocks      []models.PennyStock `json:"stocks"`
}

// AlternativeResponse points callers at the primary gainers endpoint.
type AlternativeResponse struct {
	Message  string `json:"message"`
	Endpoint string `json:"endpoint" example:"/api/penny-stocks/gainers"`
}
