package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/guttosm/pennypulse/internal/llm"
)

// ChatRequest is a two-turn conversation to relay.
type ChatRequest struct {
	DeveloperMessage string
	UserMessage      string
	Model            string
	APIKey           string
}

// ChatService relays streaming completions.
type ChatService interface {
	Relay(ctx context.Context, req ChatRequest) (*FragmentStream, error)
}

type chatService struct {
	factory      llm.Factory
	defaultModel string
}

// NewChatService builds the relay on top of a provider factory.
func NewChatService(factory llm.Factory, defaultModel string) ChatService {
	return &chatService{factory: factory, defaultModel: defaultModel}
}

// Relay opens the upstream stream. Failures before the first fragment are returned here;
// later failures end the FragmentStream with a non-EOF error.
func (s *chatService) Relay(ctx context.Context, req ChatRequest) (*FragmentStream, error) {
	model := req.Model
	if model == "" {
		model = s.defaultModel
	}
	provider, err := s.factory(req.APIKey)
	if err != nil {
		return nil, fmt.Errorf("completion provider: %w", err)
	}
	upstream, err := provider.CompleteStream(ctx, llm.CompletionRequest{
		System: req.DeveloperMessage,
		User:   req.UserMessage,
		Model:  model,
	})
	if err != nil {
		return nil, fmt.Errorf("open chat stream: %w", err)
	}
	return &FragmentStream{upstream: upstream}, nil
}

// FragmentStream forwards upstream fragments in arrival order, skipping empty deltas.
// It is single pass and not safe for concurrent use.
type FragmentStream struct {
	upstream llm.Stream
	err      error
}

// Next returns the next non-empty fragment. It returns io.EOF when upstream ends;
// any other error is terminal and is returned on every later call.
func (f *FragmentStream) Next() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for {
		frag, err := f.upstream.Recv()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				err = fmt.Errorf("chat stream: %w", err)
			}
			f.err = err
			return "", err
		}
		if frag != "" {
			return frag, nil
		}
	}
}

// Close releases the upstream stream.
func (f *FragmentStream) Close() error {
	return f.upstream.Close()
}
