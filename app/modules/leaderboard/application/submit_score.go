package leaderboardservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/events"
	leaderboarddb "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/observability"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/results"
)

// SubmitScore stores a score for the caller. Stages run strictly in order:
// validate, guard, bonus, upsert, rewarm, publish. Nothing after the guard
// runs for a rejected request, and a failed upsert aborts the submission.
func (s *LeaderboardService) SubmitScore(ctx context.Context, req SubmitScoreRequest) (*SubmitScoreResult, error) {
	return unwrap(withTelemetry(s, ctx, "SubmitScore", req.GameMode, req.PlayerID, func(ctx context.Context) (results.OperationResult[*SubmitScoreResult, error], error) {
		return s.submitScoreLogic(ctx, req)
	}))
}

func (s *LeaderboardService) submitScoreLogic(ctx context.Context, req SubmitScoreRequest) (results.OperationResult[*SubmitScoreResult, error], error) {
	if err := validateSubmission(req); err != nil {
		return results.FailureResult[*SubmitScoreResult, error](err), nil
	}

	// GuardChecked
	if err := s.guard.Check(ctx, req.PlayerID, req.IdempotencyKey, req.Timestamp); err != nil {
		if isBusinessFailure(err) {
			return results.FailureResult[*SubmitScoreResult, error](err), nil
		}
		return results.OperationResult[*SubmitScoreResult, error]{}, err
	}

	// ScoreComputed
	now := s.now()
	bonus := leaderboarddomain.ApplyBonuses(req.Score, req.BonusTags, now)
	for _, applied := range bonus.Applied {
		s.metrics.RecordBonusUsage(ctx, string(applied.Tag), req.GameMode.String(), applied.Amount)
	}

	// Persisted
	_, err := s.repo.UpsertEntry(ctx, nil, leaderboarddb.ScoreUpsert{
		PlayerID:    req.PlayerID,
		GameMode:    req.GameMode,
		Score:       bonus.FinalScore,
		PlayerLevel: req.PlayerLevel,
		TrophyCount: req.TrophyCount,
		At:          now,
	})
	if err != nil {
		s.releaseAfterStoreFailure(ctx, req)
		return results.OperationResult[*SubmitScoreResult, error]{}, storeUnavailable("UpsertEntry", err)
	}

	// CacheRewarmed
	s.rewarmCanonical(ctx, req.GameMode)

	s.metrics.RecordScoreSubmission(ctx, req.GameMode.String(), bonus.FinalScore)
	s.publishScoreSubmitted(ctx, req, bonus.FinalScore, now)

	// Acknowledged
	return results.SuccessResult[*SubmitScoreResult, error](&SubmitScoreResult{
		FinalScore: bonus.FinalScore,
		GameMode:   req.GameMode,
	}), nil
}

// releaseAfterStoreFailure deletes the idempotency record when configured to,
// letting the client retry with the same key.
func (s *LeaderboardService) releaseAfterStoreFailure(ctx context.Context, req SubmitScoreRequest) {
	if !s.opts.ReleaseIdempotencyOnStoreFailure {
		return
	}
	if err := s.guard.Release(ctx, req.PlayerID, req.IdempotencyKey); err != nil {
		s.logger.WarnContext(ctx, "Failed to release idempotency key after store failure",
			observability.CorrelationID(ctx),
			slog.String("player_id", req.PlayerID),
			observability.ErrorAttr(err),
		)
	}
}

// rewarmCanonical refreshes the (mode, canonical n) snapshot. Failure is
// logged and counted; the submission still succeeds.
func (s *LeaderboardService) rewarmCanonical(ctx context.Context, mode leaderboarddomain.GameMode) {
	n := s.opts.CanonicalTopN
	err := s.cache.Rewarm(ctx, mode, n, func(ctx context.Context) ([]leaderboarddomain.RankedEntry, error) {
		return s.computeTopN(ctx, mode, n)
	})
	if err != nil {
		s.metrics.RecordCacheRewarmFailure(ctx, mode.String())
		s.logger.WarnContext(ctx, "Cache rewarm failed; next read will recompute",
			observability.CorrelationID(ctx),
			slog.String("game_mode", mode.String()),
			slog.Bool("cache_unavailable", errors.Is(err, ErrCacheUnavailable)),
			observability.ErrorAttr(err),
		)
	}
}

// publishScoreSubmitted announces the acknowledged write. Failure is non-fatal.
func (s *LeaderboardService) publishScoreSubmitted(ctx context.Context, req SubmitScoreRequest, finalScore int64, at time.Time) {
	if s.events == nil {
		return
	}
	err := s.events.PublishScoreSubmitted(ctx, leaderboardevents.ScoreSubmittedPayload{
		PlayerID:    req.PlayerID,
		GameMode:    req.GameMode.String(),
		BaseScore:   req.Score,
		FinalScore:  finalScore,
		BonusTags:   req.BonusTags,
		SubmittedAt: at,
	})
	if err != nil {
		s.metrics.RecordEventPublishFailure(ctx, leaderboardevents.ScoreSubmittedTopic)
		s.logger.WarnContext(ctx, "Failed to publish score submitted event",
			observability.CorrelationID(ctx),
			slog.String("player_id", req.PlayerID),
			observability.ErrorAttr(err),
		)
	}
}

func validateSubmission(req SubmitScoreRequest) error {
	if err := validatePlayerAndMode(req.PlayerID, req.GameMode); err != nil {
		return err
	}
	if req.Score < 0 {
		return newValidationError("score", "must not be negative")
	}
	if req.PlayerLevel != nil && *req.PlayerLevel < 1 {
		return newValidationError("playerLevel", "must be at least 1")
	}
	if req.TrophyCount != nil && *req.TrophyCount < 0 {
		return newValidationError("trophyCount", "must not be negative")
	}
	for _, tag := range req.BonusTags {
		if strings.TrimSpace(tag) == "" {
			return newValidationError("bonus", "must not contain empty values")
		}
	}
	return nil
}
