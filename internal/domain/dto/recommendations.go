package dto

import "github.com/guttosm/pennypulse/internal/domain/models"

// RecommendationRequest is the body of POST /api/ai-recommendations.
type RecommendationRequest struct {
	Prompt   string `json:"prompt" binding:"required" example:"low float biotech names with upcoming FDA dates"`
	MaxCount int    `json:"max_count" example:"10"`
	Model    string `json:"model" example:"gpt-4.1-mini"`
	APIKey   string `json:"api_key"`
}

// RecommendationResponse carries either validated recommendations or, when the
// model output could not be parsed, the raw text with ParseError set.
type RecommendationResponse struct {
	Timestamp       string                  `json:"timestamp"`
	TotalCount      int                     `json:"total_count" example:"3"`
	Prompt          string                  `json:"prompt"`
	Model           string                  `json:"model" example:"gpt-4.1-mini"`
	Recommendations []models.Recommendation `json:"recommendations"`
	RawResponse     *string                 `json:"raw_response,omitempty"`
	ParseError      bool                    `json:"parse_error,omitempty"`
}
