package service

import (
	"context"
	"errors"
	"io"

	"github.com/guttosm/pennypulse/internal/llm"
	"github.com/guttosm/pennypulse/internal/marketdata"
)

// stubMarket serves fixed closes per symbol; read-only after construction.
type stubMarket struct {
	closes  map[string][]float64
	names   map[string]string
	metaErr map[string]error
	histErr map[string]error
}

func (s *stubMarket) GetMetadata(_ context.Context, symbol string) (marketdata.Metadata, error) {
	if err := s.metaErr[symbol]; err != nil {
		return marketdata.Metadata{}, err
	}
	return marketdata.Metadata{CompanyName: s.names[symbol]}, nil
}

func (s *stubMarket) GetRecentHistory(_ context.Context, symbol string, days int) ([]marketdata.Bar, error) {
	if err := s.histErr[symbol]; err != nil {
		return nil, err
	}
	closes, ok := s.closes[symbol]
	if !ok {
		return nil, marketdata.ErrNotFound
	}
	bars := make([]marketdata.Bar, 0, len(closes))
	for i, c := range closes {
		bars = append(bars, marketdata.Bar{Close: c, Volume: int64(1000 * (i + 1))})
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// stubLLM returns canned text or fragments and records the last request.
type stubLLM struct {
	text      string
	fragments []string
	err       error
	streamErr error // returned by Recv after all fragments
	last      llm.CompletionRequest
}

func (s *stubLLM) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	s.last = req
	return s.text, s.err
}

func (s *stubLLM) CompleteStream(_ context.Context, req llm.CompletionRequest) (llm.Stream, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &stubStream{fragments: s.fragments, tailErr: s.streamErr}, nil
}

type stubStream struct {
	fragments []string
	tailErr   error
	pos       int
	closed    bool
}

func (s *stubStream) Recv() (string, error) {
	if s.pos >= len(s.fragments) {
		if s.tailErr != nil {
			return "", s.tailErr
		}
		return "", io.EOF
	}
	f := s.fragments[s.pos]
	s.pos++
	return f, nil
}

func (s *stubStream) Close() error {
	s.closed = true
	return nil
}

func factoryFor(p llm.Provider) llm.Factory {
	return func(string) (llm.Provider, error) { return p, nil }
}

var errUpstream = errors.New("upstream unavailable")
