package leaderboardservice

import (
	"context"
	"errors"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/repositories"
)

// Live ranking queries against the score store. Ranks are positional and
// 1-based under leaderboarddomain.Compare.

func (s *LeaderboardService) computeTopN(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]leaderboarddomain.RankedEntry, error) {
	entries, err := s.repo.QueryOrdered(ctx, nil, mode, 0, n)
	if err != nil {
		return nil, storeUnavailable("computeTopN", err)
	}
	return leaderboarddomain.AssignRanks(entries, 1), nil
}

// computeRankOf returns 1 + the number of entries ordered strictly before the player.
func (s *LeaderboardService) computeRankOf(ctx context.Context, playerID string, mode leaderboarddomain.GameMode) (leaderboarddomain.RankedEntry, error) {
	entry, err := s.repo.GetEntry(ctx, nil, playerID, mode)
	if err != nil {
		if errors.Is(err, leaderboarddb.ErrNotFound) {
			return leaderboarddomain.RankedEntry{}, ErrNotFound
		}
		return leaderboarddomain.RankedEntry{}, storeUnavailable("computeRankOf", err)
	}

	before, err := s.repo.CountBefore(ctx, nil, playerID, mode)
	if err != nil {
		if errors.Is(err, leaderboarddb.ErrNotFound) {
			return leaderboarddomain.RankedEntry{}, ErrNotFound
		}
		return leaderboarddomain.RankedEntry{}, storeUnavailable("computeRankOf", err)
	}

	return leaderboarddomain.RankedEntry{Entry: entry, Rank: before + 1}, nil
}

// computeAround returns the window centered on the player's live rank.
func (s *LeaderboardService) computeAround(ctx context.Context, playerID string, mode leaderboarddomain.GameMode, k int) ([]leaderboarddomain.RankedEntry, error) {
	me, err := s.computeRankOf(ctx, playerID, mode)
	if err != nil {
		return nil, err
	}

	window := leaderboarddomain.AroundWindow(me.Rank, k)
	entries, err := s.repo.QueryOrdered(ctx, nil, mode, window.Offset, window.Limit)
	if err != nil {
		return nil, storeUnavailable("computeAround", err)
	}
	return leaderboarddomain.AssignRanks(entries, window.FirstRank()), nil
}
