package leaderboardrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	leaderboardhandlers "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/handlers"
	leaderboardmetrics "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/metrics"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/jwt"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Config carries everything the route table needs.
type Config struct {
	Handlers       leaderboardhandlers.Handlers
	Tokens         jwt.Service
	Logger         *slog.Logger
	HTTPMetrics    leaderboardmetrics.HTTPMetrics
	Limiter        *leaderboardhandlers.IPRateLimiter
	AllowedOrigins []string
	Readiness      []ReadinessCheck
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter builds the HTTP route table. Middleware runs outermost first:
// request id, recoverer, access log, then for /leaderboard routes CORS,
// rate limit and authentication.
func NewRouter(cfg Config) chi.Router {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.HTTPMetrics == nil {
		cfg.HTTPMetrics = leaderboardmetrics.NewNoop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(leaderboardhandlers.AccessLogMiddleware(cfg.Logger, cfg.HTTPMetrics))

	r.Get("/healthz", handleLiveness)
	r.Get("/readyz", readinessHandler(cfg.Logger, cfg.Readiness))
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/leaderboard", func(r chi.Router) {
		r.Use(leaderboardhandlers.CORSMiddleware(cfg.AllowedOrigins))
		if cfg.Limiter != nil {
			r.Use(leaderboardhandlers.RateLimitMiddleware(cfg.Limiter))
		}
		r.Use(leaderboardhandlers.AuthMiddleware(cfg.Tokens, cfg.Logger))

		h := cfg.Handlers
		r.Post("/submit", h.HandleSubmitScore)
		r.Get("/top/{gameMode}", h.HandleGetTopPlayers)
		r.Get("/top/{gameMode}/export.xlsx", h.HandleExportTopPlayers)
		r.Get("/top/{gameMode}/chart.png", h.HandleTopPlayersChart)
		r.Get("/me/{gameMode}", h.HandleGetMyRank)
		r.Get("/around-me/{gameMode}", h.HandleGetAroundMe)
	})

	return r
}

func handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

func readinessHandler(logger *slog.Logger, checks []ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		results := make(map[string]string, len(checks))
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				logger.WarnContext(ctx, "Readiness check failed",
					observability.CorrelationID(ctx),
					slog.String("dependency", c.Name),
					observability.ErrorAttr(err),
				)
				results[c.Name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			results[c.Name] = "ok"
		}
		writeStatus(w, status, results)
	}
}

func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
