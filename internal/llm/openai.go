package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sashabaranov/go-openai"
)

// roleDeveloper is the instruction role used by current OpenAI chat models.
const roleDeveloper = "developer"

// OpenAIProvider implements Provider with the OpenAI chat completions API.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a provider. baseURL may be empty to use the public API.
func NewOpenAIProvider(apiKey, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg)}, nil
}

// NewOpenAIFactory returns a Factory that prefers a caller-supplied key over defaultKey.
func NewOpenAIFactory(defaultKey, baseURL string) Factory {
	return func(apiKey string) (Provider, error) {
		if apiKey == "" {
			apiKey = defaultKey
		}
		return NewOpenAIProvider(apiKey, baseURL)
	}
}

func buildRequest(req CompletionRequest, stream bool) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: roleDeveloper, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens: req.MaxTokens,
		Stream:    stream,
	}
	if req.Temperature != nil {
		out.Temperature = *req.Temperature
		// go-openai omits a zero temperature, which the API reads as its default
		if out.Temperature == 0 {
			out.Temperature = math.SmallestNonzeroFloat32
		}
	}
	return out
}

// Complete performs a non-streaming completion and returns the first choice's text.
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, buildRequest(req, false))
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai completion: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteStream opens a streaming completion.
func (p *OpenAIProvider) CompleteStream(ctx context.Context, req CompletionRequest) (Stream, error) {
	s, err := p.client.CreateChatCompletionStream(ctx, buildRequest(req, true))
	if err != nil {
		return nil, fmt.Errorf("openai stream: %w", err)
	}
	return &openAIStream{stream: s}, nil
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
}

// Recv returns the next delta content. Deltas without choices come back as "".
func (s *openAIStream) Recv() (string, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("openai stream recv: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *openAIStream) Close() error {
	s.stream.Close()
	return nil
}
