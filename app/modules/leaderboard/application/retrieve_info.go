package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/results"
)

// GetTopPlayers returns the top-n board, read through the snapshot cache.
func (s *LeaderboardService) GetTopPlayers(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]leaderboarddomain.RankedEntry, error) {
	return unwrap(withTelemetry(s, ctx, "GetTopPlayers", mode, "", func(ctx context.Context) (results.OperationResult[[]leaderboarddomain.RankedEntry, error], error) {
		return s.getTopPlayersLogic(ctx, mode, n)
	}))
}

func (s *LeaderboardService) getTopPlayersLogic(ctx context.Context, mode leaderboarddomain.GameMode, n int) (results.OperationResult[[]leaderboarddomain.RankedEntry, error], error) {
	if !mode.Valid() {
		return results.FailureResult[[]leaderboarddomain.RankedEntry, error](newValidationError("gameMode", "unknown game mode %d", int(mode))), nil
	}
	if n <= 0 {
		return results.FailureResult[[]leaderboarddomain.RankedEntry, error](newValidationError("n", "must be positive, got %d", n)), nil
	}

	if cached, ok := s.cache.Get(ctx, mode, n); ok {
		return results.SuccessResult[[]leaderboarddomain.RankedEntry, error](cached), nil
	}

	entries, err := s.computeTopN(ctx, mode, n)
	if err != nil {
		return results.OperationResult[[]leaderboarddomain.RankedEntry, error]{}, err
	}
	s.cache.Fill(ctx, mode, n, entries)

	return results.SuccessResult[[]leaderboarddomain.RankedEntry, error](entries), nil
}

// GetMyRank computes the caller's rank live; personal ranks are never cached.
func (s *LeaderboardService) GetMyRank(ctx context.Context, playerID string, mode leaderboarddomain.GameMode) (*leaderboarddomain.RankedEntry, error) {
	return unwrap(withTelemetry(s, ctx, "GetMyRank", mode, playerID, func(ctx context.Context) (results.OperationResult[*leaderboarddomain.RankedEntry, error], error) {
		return s.getMyRankLogic(ctx, playerID, mode)
	}))
}

func (s *LeaderboardService) getMyRankLogic(ctx context.Context, playerID string, mode leaderboarddomain.GameMode) (results.OperationResult[*leaderboarddomain.RankedEntry, error], error) {
	if err := validatePlayerAndMode(playerID, mode); err != nil {
		return results.FailureResult[*leaderboarddomain.RankedEntry, error](err), nil
	}

	me, err := s.computeRankOf(ctx, playerID, mode)
	if err != nil {
		if isBusinessFailure(err) {
			return results.FailureResult[*leaderboarddomain.RankedEntry, error](err), nil
		}
		return results.OperationResult[*leaderboarddomain.RankedEntry, error]{}, err
	}
	return results.SuccessResult[*leaderboarddomain.RankedEntry, error](&me), nil
}

// GetAroundMe returns up to 2k+1 entries centered on the caller.
func (s *LeaderboardService) GetAroundMe(ctx context.Context, playerID string, mode leaderboarddomain.GameMode, k int) ([]leaderboarddomain.RankedEntry, error) {
	return unwrap(withTelemetry(s, ctx, "GetAroundMe", mode, playerID, func(ctx context.Context) (results.OperationResult[[]leaderboarddomain.RankedEntry, error], error) {
		return s.getAroundMeLogic(ctx, playerID, mode, k)
	}))
}

func (s *LeaderboardService) getAroundMeLogic(ctx context.Context, playerID string, mode leaderboarddomain.GameMode, k int) (results.OperationResult[[]leaderboarddomain.RankedEntry, error], error) {
	if err := validatePlayerAndMode(playerID, mode); err != nil {
		return results.FailureResult[[]leaderboarddomain.RankedEntry, error](err), nil
	}
	if k < 0 {
		return results.FailureResult[[]leaderboarddomain.RankedEntry, error](newValidationError("k", "must not be negative, got %d", k)), nil
	}

	entries, err := s.computeAround(ctx, playerID, mode, k)
	if err != nil {
		if isBusinessFailure(err) {
			return results.FailureResult[[]leaderboarddomain.RankedEntry, error](err), nil
		}
		return results.OperationResult[[]leaderboarddomain.RankedEntry, error]{}, err
	}
	return results.SuccessResult[[]leaderboarddomain.RankedEntry, error](entries), nil
}

func validatePlayerAndMode(playerID string, mode leaderboarddomain.GameMode) error {
	if playerID == "" {
		return newValidationError("playerId", "is required")
	}
	if !mode.Valid() {
		return newValidationError("gameMode", "unknown game mode %d", int(mode))
	}
	return nil
}
