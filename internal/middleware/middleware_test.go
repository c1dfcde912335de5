package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{name: "generated", inbound: "", reuse: false},
		{name: "reuses uuid", inbound: "123e4567-e89b-12d3-a456-426614174000", reuse: true},
		{name: "rejects garbage", inbound: "not-a-uuid", reuse: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RequestID())
			r.GET("/", func(c *gin.Context) {
				v, _ := c.Get(RequestIDKey)
				c.String(200, toString(v))
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.inbound != "" {
				req.Header.Set(RequestIDHeader, tc.inbound)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if got == "" || got != w.Body.String() {
				t.Fatalf("header %q body %q", got, w.Body.String())
			}
			if tc.reuse != (got == tc.inbound) {
				t.Fatalf("reuse=%v but header=%q inbound=%q", tc.reuse, got, tc.inbound)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler)
	r.GET("/", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })
	r.GET("/written", func(c *gin.Context) {
		c.String(http.StatusTeapot, "kept")
		_ = c.Error(errors.New("late"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code=%d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] != "boom" {
		t.Fatalf("unexpected body %s (err=%v)", w.Body.String(), err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	if w.Code != http.StatusTeapot || w.Body.String() != "kept" {
		t.Fatalf("written response must be kept, got %d %q", w.Code, w.Body.String())
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != 500 {
		t.Fatalf("code=%d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	cases := []struct {
		name   string
		rps    float64
		burst  int
		reqs   int
		expect int
	}{
		{name: "within burst", rps: 1, burst: 3, reqs: 2, expect: http.StatusOK},
		{name: "exceed burst", rps: 1, burst: 3, reqs: 5, expect: http.StatusTooManyRequests},
		{name: "disabled", rps: 0, burst: 1, reqs: 5, expect: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			fixed := time.Date(2025, 9, 18, 12, 0, 0, 0, time.UTC)
			rl := NewRateLimiter(tc.rps, tc.burst)
			rl.now = func() time.Time { return fixed }

			r := gin.New()
			r.Use(rl.Handler())
			r.GET("/", func(c *gin.Context) { c.String(200, "ok") })
			var last *httptest.ResponseRecorder
			for i := 0; i < tc.reqs; i++ {
				last = httptest.NewRecorder()
				r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/", nil))
			}
			if last.Code != tc.expect {
				t.Fatalf("expected %d, got %d", tc.expect, last.Code)
			}
			if tc.expect == http.StatusTooManyRequests && last.Header().Get("Retry-After") == "" {
				t.Fatalf("missing Retry-After")
			}
		})
	}
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2025, 9, 18, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	if !rl.allow("1.1.1.1") {
		t.Fatalf("first request must pass")
	}
	now = now.Add(idleTTL + time.Second)
	_ = rl.allow("2.2.2.2")
	if _, ok := rl.clients["1.1.1.1"]; ok {
		t.Fatalf("idle client not evicted")
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{name: "any origin", origins: []string{"*"}, origin: "http://client.test", want: "*"},
		{name: "listed origin", origins: []string{"http://localhost:3000"}, origin: "http://localhost:3000", want: "http://localhost:3000"},
		{name: "wildcard subdomain", origins: []string{"https://*.vercel.app"}, origin: "https://app.vercel.app", want: "https://app.vercel.app"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tc.origins))
			r.GET("/", func(c *gin.Context) { c.String(200, "ok") })
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tc.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tc.want {
				t.Fatalf("allow-origin=%q, want %q", got, tc.want)
			}
		})
	}
}

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/err", func(c *gin.Context) {
		AbortWithError(c, http.StatusBadRequest, "bad stuff", errors.New("detail"))
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content-type set")
	}
}
