package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/pennypulse/internal/domain/models"
	"github.com/guttosm/pennypulse/internal/llm"
	"github.com/guttosm/pennypulse/internal/logger"
)

// DefaultRecommendationCount bounds the generated list when a request does not.
const DefaultRecommendationCount = 20

// RecommendationRequest is the input to a generation call.
type RecommendationRequest struct {
	Prompt   string
	MaxCount int
	Model    string
	APIKey   string
}

// RecommendationResult is the response envelope. When Parsed is false,
// Recommendations is empty and RawResponse holds the unparsed model text.
type RecommendationResult struct {
	Timestamp       time.Time
	Prompt          string
	Model           string
	Parsed          bool
	Recommendations []models.Recommendation
	RawResponse     string
}

// RecommendationService asks the model for candidate symbols and normalizes its output.
type RecommendationService interface {
	Generate(ctx context.Context, req RecommendationRequest) (*RecommendationResult, error)
}

// RecommendationOptions configures the generation call.
type RecommendationOptions struct {
	DefaultModel string
	MaxCount     int
	Temperature  float32
	MaxTokens    int
}

type recommendationService struct {
	factory llm.Factory
	opts    RecommendationOptions
	now     func() time.Time
}

// NewRecommendationService builds the normalizer on top of a provider factory.
func NewRecommendationService(factory llm.Factory, opts RecommendationOptions) RecommendationService {
	if opts.MaxCount <= 0 {
		opts.MaxCount = DefaultRecommendationCount
	}
	return &recommendationService{factory: factory, opts: opts, now: time.Now}
}

const recommendationInstruction = `You are a stock market research assistant.
Return ONLY valid stock market ticker symbols (3-5 characters) that match the user's request.
Return at most %d entries.
Respond with nothing but a JSON array of objects, no prose and no markdown, using exactly these keys:
[{"symbol": "TICKER", "company_name": "Company Name", "reasoning": "why it matches", "sector": "Sector", "risk_level": "low|medium|high", "potential_catalyst": "upcoming catalyst"}]`

// BuildRecommendationInstruction returns the constrained-format system text for maxCount entries.
func BuildRecommendationInstruction(maxCount int) string {
	return fmt.Sprintf(recommendationInstruction, maxCount)
}

// Generate submits the prompt and validates the returned text.
// Malformed model output is not an error: the result carries the raw text instead.
// Errors are returned only when the provider cannot be built or the call fails.
func (s *recommendationService) Generate(ctx context.Context, req RecommendationRequest) (*RecommendationResult, error) {
	maxCount := req.MaxCount
	if maxCount <= 0 {
		maxCount = s.opts.MaxCount
	}
	model := req.Model
	if model == "" {
		model = s.opts.DefaultModel
	}

	provider, err := s.factory(req.APIKey)
	if err != nil {
		return nil, fmt.Errorf("completion provider: %w", err)
	}

	temp := s.opts.Temperature
	raw, err := provider.Complete(ctx, llm.CompletionRequest{
		System:      BuildRecommendationInstruction(maxCount),
		User:        req.Prompt,
		Model:       model,
		Temperature: &temp,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		logger.Component("recommendations").Error().Err(err).Str("model", model).Msg("completion failed")
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	result := &RecommendationResult{
		Timestamp: s.now(),
		Prompt:    req.Prompt,
		Model:     model,
	}

	parsed := ParseRecommendations(raw)
	if !parsed.OK {
		logger.Component("recommendations").Warn().Int("raw_len", len(raw)).Msg("model output not parseable")
		result.Recommendations = []models.Recommendation{}
		result.RawResponse = parsed.Raw
		return result, nil
	}

	result.Parsed = true
	result.Recommendations = parsed.Records
	return result, nil
}

// ParseResult is either a parsed record list (OK) or the untouched raw text.
type ParseResult struct {
	OK      bool
	Records []models.Recommendation
	Raw     string
}

// ParseRecommendations tolerantly parses model text as a JSON array of objects.
//
// Behavior:
//   - Trims whitespace and a surrounding markdown code fence before decoding.
//   - Any decode failure, or a top-level value that is not an array, yields OK=false with Raw set.
//   - Elements that are not objects, or whose "symbol" is missing or blank, are dropped.
//   - Non-string values for the other keys are treated as absent.
func ParseRecommendations(raw string) ParseResult {
	var decoded any
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &decoded); err != nil {
		return ParseResult{Raw: raw}
	}
	// null, objects and scalars decode fine but are not a record list
	items, ok := decoded.([]any)
	if !ok {
		return ParseResult{Raw: raw}
	}

	records := make([]models.Recommendation, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(stringField(obj, "symbol")))
		if symbol == "" {
			continue
		}
		records = append(records, models.Recommendation{
			Symbol:            symbol,
			CompanyName:       stringField(obj, "company_name"),
			Reasoning:         stringField(obj, "reasoning"),
			Sector:            optionalField(obj, "sector"),
			RiskLevel:         optionalField(obj, "risk_level"),
			PotentialCatalyst: optionalField(obj, "potential_catalyst"),
		})
	}
	return ParseResult{OK: true, Records: records}
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the language tag line, e.g. ```json
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func optionalField(obj map[string]any, key string) *string {
	s, ok := obj[key].(string)
	if !ok {
		return nil
	}
	return &s
}
