package leaderboardhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	leaderboardservice "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/observability"
)

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// statusFor maps the service error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	var replay *leaderboardservice.ReplayError
	switch {
	case errors.As(err, &replay):
		if replay.Reason == leaderboarddomain.ReasonDuplicateRequest {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case errors.Is(err, leaderboardservice.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, leaderboardservice.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errMissingCaller):
		return http.StatusUnauthorized
	case errors.Is(err, leaderboardservice.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err to the client. Infrastructure details stay in the log.
func (h *LeaderboardHandlers) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	message := err.Error()

	switch {
	case status >= http.StatusInternalServerError:
		h.logger.ErrorContext(ctx, "Request failed",
			observability.CorrelationID(ctx),
			slog.String("handler", op),
			slog.Int("status", status),
			observability.ErrorAttr(err),
		)
		if status == http.StatusServiceUnavailable {
			message = "service temporarily unavailable"
		} else {
			message = "internal server error"
		}
	default:
		h.logger.WarnContext(ctx, "Request rejected",
			observability.CorrelationID(ctx),
			slog.String("handler", op),
			slog.Int("status", status),
			observability.ErrorAttr(err),
		)
	}

	writeJSON(w, status, Envelope{Success: false, Message: message})
}
