package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pennypulse/internal/domain/dto"
	"github.com/guttosm/pennypulse/internal/domain/models"
	"github.com/guttosm/pennypulse/internal/llm"
	"github.com/guttosm/pennypulse/internal/service"
)

type mockGainers struct {
	res       *service.GainersResult
	err       error
	lastLimit int
}

func (m *mockGainers) Screen(_ context.Context, limit int) (*service.GainersResult, error) {
	m.lastLimit = limit
	return m.res, m.err
}

var _ service.GainersService = (*mockGainers)(nil)

// fakeLLM serves canned completion text and stream fragments.
type fakeLLM struct {
	text      string
	fragments []string
	tailErr   error
	err       error
}

func (f *fakeLLM) Complete(context.Context, llm.CompletionRequest) (string, error) {
	return f.text, f.err
}

func (f *fakeLLM) CompleteStream(context.Context, llm.CompletionRequest) (llm.Stream, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fakeStream{fragments: f.fragments, tailErr: f.tailErr}, nil
}

type fakeStream struct {
	fragments []string
	tailErr   error
}

func (s *fakeStream) Recv() (string, error) {
	if len(s.fragments) == 0 {
		if s.tailErr != nil {
			return "", s.tailErr
		}
		return "", io.EOF
	}
	f := s.fragments[0]
	s.fragments = s.fragments[1:]
	return f, nil
}

func (s *fakeStream) Close() error { return nil }

func factory(p llm.Provider, err error) llm.Factory {
	return func(string) (llm.Provider, error) { return p, err }
}

func newTestHandler(g service.GainersService, p llm.Provider, factoryErr error) *Handler {
	f := factory(p, factoryErr)
	return NewHandler(
		g,
		service.NewRecommendationService(f, service.RecommendationOptions{DefaultModel: "gpt-4.1-mini"}),
		service.NewChatService(f, "gpt-4.1-mini"),
		20,
	)
}

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/penny-stocks/gainers", h.GetGainers)
	r.GET("/api/penny-stocks/gainers/alternative", h.GetGainersAlternative)
	r.POST("/api/ai-recommendations", h.PostRecommendations)
	r.POST("/api/chat", h.PostChat)
	return r
}

func TestGetGainers_TableDriven(t *testing.T) {
	ok := &service.GainersResult{
		Timestamp: time.Date(2025, 9, 18, 14, 0, 0, 0, time.UTC),
		Total:     1,
		Stocks:    []models.PennyStock{{Symbol: "BBB", CompanyName: "Bravo", CurrentPrice: 1.5, PreviousClose: 1.0, Change: 0.5, ChangePercent: 50}},
	}
	cases := []struct {
		name      string
		svc       *mockGainers
		query     string
		status    int
		wantLimit int
	}{
		{name: "default limit", svc: &mockGainers{res: ok}, query: "/api/penny-stocks/gainers", status: http.StatusOK, wantLimit: 20},
		{name: "explicit limit", svc: &mockGainers{res: ok}, query: "/api/penny-stocks/gainers?limit=5", status: http.StatusOK, wantLimit: 5},
		{name: "invalid limit", svc: &mockGainers{}, query: "/api/penny-stocks/gainers?limit=abc", status: http.StatusBadRequest},
		{name: "zero limit", svc: &mockGainers{}, query: "/api/penny-stocks/gainers?limit=0", status: http.StatusBadRequest},
		{name: "service error", svc: &mockGainers{err: errors.New("cancelled")}, query: "/api/penny-stocks/gainers", status: http.StatusInternalServerError, wantLimit: 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(newTestHandler(tc.svc, &fakeLLM{}, nil))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.query, nil))
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if tc.svc.lastLimit != tc.wantLimit {
				t.Fatalf("limit=%d, want %d", tc.svc.lastLimit, tc.wantLimit)
			}
			if tc.status != http.StatusOK {
				return
			}
			var out dto.GainersResponse
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if out.TotalStocks != 1 || len(out.Stocks) != 1 || out.Stocks[0].Symbol != "BBB" || out.Stocks[0].ChangePercent != 50 {
				t.Fatalf("unexpected body: %+v", out)
			}
			if !strings.HasPrefix(out.Timestamp, "2025-09-18T14:00:00") {
				t.Fatalf("unexpected timestamp %q", out.Timestamp)
			}
		})
	}
}

func TestGetGainersAlternative(t *testing.T) {
	r := setupRouter(newTestHandler(&mockGainers{}, &fakeLLM{}, nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/penny-stocks/gainers/alternative", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/penny-stocks/gainers") {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostRecommendations(t *testing.T) {
	cases := []struct {
		name       string
		llm        *fakeLLM
		factoryErr error
		body       any
		status     int
		assert     func(t *testing.T, out dto.RecommendationResponse)
	}{
		{
			name:   "valid output",
			llm:    &fakeLLM{text: `[{"symbol":"AAA"},{"symbol":"BBB"},{"reasoning":"no symbol"}]`},
			body:   dto.RecommendationRequest{Prompt: "cheap EV names", MaxCount: 5},
			status: http.StatusOK,
			assert: func(t *testing.T, out dto.RecommendationResponse) {
				if out.TotalCount != 2 || out.ParseError || out.RawResponse != nil || out.Model != "gpt-4.1-mini" || out.Prompt != "cheap EV names" {
					t.Fatalf("unexpected body: %+v", out)
				}
			},
		},
		{
			name:   "malformed output falls back",
			llm:    &fakeLLM{text: "I cannot do that"},
			body:   dto.RecommendationRequest{Prompt: "x"},
			status: http.StatusOK,
			assert: func(t *testing.T, out dto.RecommendationResponse) {
				if !out.ParseError || out.RawResponse == nil || *out.RawResponse != "I cannot do that" || out.TotalCount != 0 {
					t.Fatalf("unexpected body: %+v", out)
				}
			},
		},
		{
			name:   "empty output still carries raw_response",
			llm:    &fakeLLM{text: ""},
			body:   dto.RecommendationRequest{Prompt: "x"},
			status: http.StatusOK,
			assert: func(t *testing.T, out dto.RecommendationResponse) {
				if !out.ParseError || out.RawResponse == nil || *out.RawResponse != "" || len(out.Recommendations) != 0 {
					t.Fatalf("unexpected body: %+v", out)
				}
			},
		},
		{name: "missing prompt", llm: &fakeLLM{}, body: map[string]any{"max_count": 3}, status: http.StatusBadRequest},
		{name: "negative max count", llm: &fakeLLM{}, body: dto.RecommendationRequest{Prompt: "x", MaxCount: -1}, status: http.StatusBadRequest},
		{name: "missing api key", llm: &fakeLLM{}, factoryErr: llm.ErrMissingAPIKey, body: dto.RecommendationRequest{Prompt: "x"}, status: http.StatusBadRequest},
		{name: "upstream failure", llm: &fakeLLM{err: errors.New("503 from provider")}, body: dto.RecommendationRequest{Prompt: "x"}, status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(newTestHandler(&mockGainers{}, tc.llm, tc.factoryErr))
			w := postJSON(r, "/api/ai-recommendations", tc.body)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.assert != nil {
				var out dto.RecommendationResponse
				if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				tc.assert(t, out)
			}
		})
	}
}

func TestPostChat_Streams(t *testing.T) {
	r := setupRouter(newTestHandler(&mockGainers{}, &fakeLLM{fragments: []string{"Hello", "", ", ", "world"}}, nil))
	w := postJSON(r, "/api/chat", dto.ChatRequest{DeveloperMessage: "be nice", UserMessage: "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "Hello, world" {
		t.Fatalf("body=%q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type=%q", ct)
	}
	if !w.Flushed {
		t.Fatalf("expected incremental flushes")
	}
}

func TestPostChat_Errors(t *testing.T) {
	cases := []struct {
		name       string
		llm        *fakeLLM
		factoryErr error
		body       any
		status     int
	}{
		{name: "missing user message", llm: &fakeLLM{}, body: map[string]any{"developer_message": "x"}, status: http.StatusBadRequest},
		{name: "missing api key", llm: &fakeLLM{}, factoryErr: llm.ErrMissingAPIKey, body: dto.ChatRequest{DeveloperMessage: "x", UserMessage: "y"}, status: http.StatusBadRequest},
		{name: "stream open failure", llm: &fakeLLM{err: errors.New("dial tcp: refused")}, body: dto.ChatRequest{DeveloperMessage: "x", UserMessage: "y"}, status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(newTestHandler(&mockGainers{}, tc.llm, tc.factoryErr))
			w := postJSON(r, "/api/chat", tc.body)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
		})
	}
}

func TestPostChat_MidStreamFailureTruncates(t *testing.T) {
	r := setupRouter(newTestHandler(&mockGainers{}, &fakeLLM{fragments: []string{"par", "tial"}, tailErr: errors.New("connection reset")}, nil))
	w := postJSON(r, "/api/chat", dto.ChatRequest{DeveloperMessage: "x", UserMessage: "y"})
	if w.Code != http.StatusOK || w.Body.String() != "partial" {
		t.Fatalf("unexpected %d %q", w.Code, w.Body.String())
	}
}
