package leaderboardrouter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Black-And-White-Club/leaderboard-api/pkg/jwt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const player = "11111111-1111-1111-1111-111111111111"

// stubHandlers echoes the handler name so route wiring can be asserted.
type stubHandlers struct{}

func echo(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Handler", name)
		w.WriteHeader(http.StatusOK)
	}
}

func (stubHandlers) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	echo("submit")(w, r)
}
func (stubHandlers) HandleGetTopPlayers(w http.ResponseWriter, r *http.Request) {
	echo("top")(w, r)
}
func (stubHandlers) HandleGetMyRank(w http.ResponseWriter, r *http.Request) {
	echo("me")(w, r)
}
func (stubHandlers) HandleGetAroundMe(w http.ResponseWriter, r *http.Request) {
	echo("around")(w, r)
}
func (stubHandlers) HandleExportTopPlayers(w http.ResponseWriter, r *http.Request) {
	echo("export")(w, r)
}
func (stubHandlers) HandleTopPlayersChart(w http.ResponseWriter, r *http.Request) {
	echo("chart")(w, r)
}

func newTestRouter(t *testing.T, readiness ...ReadinessCheck) (http.Handler, string) {
	t.Helper()
	tokens := jwt.NewService("test-secret", "leaderboard-api", time.Hour)
	token, err := tokens.GenerateToken(player, "tester", time.Hour)
	require.NoError(t, err)

	r := NewRouter(Config{
		Handlers:       stubHandlers{},
		Tokens:         tokens,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Readiness:      readiness,
		MetricsHandler: echo("metrics"),
	})
	return r, token
}

func TestRouter_LeaderboardRoutes(t *testing.T) {
	r, token := newTestRouter(t)

	tests := []struct {
		method, target, want string
	}{
		{http.MethodPost, "/leaderboard/submit", "submit"},
		{http.MethodGet, "/leaderboard/top/Classic", "top"},
		{http.MethodGet, "/leaderboard/top/Classic/export.xlsx", "export"},
		{http.MethodGet, "/leaderboard/top/Classic/chart.png", "chart"},
		{http.MethodGet, "/leaderboard/me/Classic", "me"},
		{http.MethodGet, "/leaderboard/around-me/Classic", "around"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, rr.Header().Get("X-Handler"))
		})
	}
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, target := range []string{"/leaderboard/top/Classic", "/leaderboard/me/Classic"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, target)
	}

	req := httptest.NewRequest(http.MethodGet, "/leaderboard/top/Classic", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_OpsEndpoints(t *testing.T) {
	r, _ := newTestRouter(t,
		ReadinessCheck{Name: "postgres", Check: func(ctx context.Context) error { return nil }},
	)

	for _, target := range []string{"/healthz", "/readyz", "/metrics"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rr.Code, target)
	}
}

func TestRouter_ReadinessFailure(t *testing.T) {
	r, _ := newTestRouter(t,
		ReadinessCheck{Name: "postgres", Check: func(ctx context.Context) error { return nil }},
		ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error { return errors.New("dial tcp: refused") }},
	)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"postgres":"ok","redis":"unavailable"}`, rr.Body.String())
}

func TestRouter_AssignsRequestID(t *testing.T) {
	var seen string
	r, _ := newTestRouter(t, ReadinessCheck{Name: "probe", Check: func(ctx context.Context) error {
		seen = middleware.GetReqID(ctx)
		return nil
	}})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, seen)
}
