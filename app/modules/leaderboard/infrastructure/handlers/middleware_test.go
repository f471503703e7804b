package leaderboardhandlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Black-And-White-Club/leaderboard-api/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	handler := RateLimitMiddleware(limiter)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own budget.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.1:5555"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestIPRateLimiter_PrunesIdleEntries(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i <= cleanupThreshold; i++ {
		limiter.GetLimiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Equal(t, cleanupThreshold+1, limiter.size())

	now = now.Add(maxIdleAge + time.Second)
	limiter.GetLimiter("192.0.2.1")
	assert.Equal(t, 1, limiter.size())
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"https://app.example.com"})(okHandler)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), HeaderIdempotencyKey)
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), HeaderTimestamp)
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		reached := false
		h := CORSMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true }))
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, reached)
	})
}

func TestAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := &FakeTokens{
		ValidateTokenFunc: func(token string) (*jwt.PlayerClaims, error) {
			if token != "good" {
				return nil, jwt.ErrInvalidSignature
			}
			claims := &jwt.PlayerClaims{}
			claims.Subject = testPlayer
			return claims, nil
		},
	}

	var seen string
	handler := AuthMiddleware(tokens, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PlayerIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantPlayer string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK, wantPlayer: testPlayer},
		{name: "no header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantPlayer, seen)
		})
	}
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeHTTPMetrics struct {
	inFlight int
	requests []recordedRequest
}

func (f *fakeHTTPMetrics) StartHTTPRequest(method, route string) { f.inFlight++ }
func (f *fakeHTTPMetrics) EndHTTPRequest(method, route string)   { f.inFlight-- }
func (f *fakeHTTPMetrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

func TestAccessLogMiddleware_RecordsRoutePattern(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := &fakeHTTPMetrics{}

	r := chi.NewRouter()
	r.Use(AccessLogMiddleware(logger, metrics))
	r.Get("/leaderboard/top/{gameMode}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/implicit", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, target := range []string{"/leaderboard/top/Classic", "/implicit"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	}

	require.Len(t, metrics.requests, 2)
	assert.Equal(t, recordedRequest{method: http.MethodGet, route: "/leaderboard/top/{gameMode}", status: http.StatusTeapot}, metrics.requests[0])
	assert.Equal(t, recordedRequest{method: http.MethodGet, route: "/implicit", status: http.StatusOK}, metrics.requests[1])
	assert.Zero(t, metrics.inFlight)
}
