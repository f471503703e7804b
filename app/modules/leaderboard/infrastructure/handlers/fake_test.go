package leaderboardhandlers

import (
	"context"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/jwt"
)

// ------------------------
// Fake Leaderboard Service
// ------------------------

type FakeService struct {
	trace []string

	SubmitScoreFunc           func(ctx context.Context, req leaderboardservice.SubmitScoreRequest) (*leaderboardservice.SubmitScoreResult, error)
	GetTopPlayersFunc         func(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]leaderboarddomain.RankedEntry, error)
	GetMyRankFunc             func(ctx context.Context, playerID string, mode leaderboarddomain.GameMode) (*leaderboarddomain.RankedEntry, error)
	GetAroundMeFunc           func(ctx context.Context, playerID string, mode leaderboarddomain.GameMode, k int) ([]leaderboarddomain.RankedEntry, error)
	ExportTopPlayersXLSXFunc  func(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]byte, error)
	RenderTopPlayersChartFunc func(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]byte, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) SubmitScore(ctx context.Context, req leaderboardservice.SubmitScoreRequest) (*leaderboardservice.SubmitScoreResult, error) {
	f.record("SubmitScore")
	if f.SubmitScoreFunc != nil {
		return f.SubmitScoreFunc(ctx, req)
	}
	return &leaderboardservice.SubmitScoreResult{FinalScore: req.Score, GameMode: req.GameMode}, nil
}

func (f *FakeService) GetTopPlayers(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]leaderboarddomain.RankedEntry, error) {
	f.record("GetTopPlayers")
	if f.GetTopPlayersFunc != nil {
		return f.GetTopPlayersFunc(ctx, mode, n)
	}
	return []leaderboarddomain.RankedEntry{}, nil
}

func (f *FakeService) GetMyRank(ctx context.Context, playerID string, mode leaderboarddomain.GameMode) (*leaderboarddomain.RankedEntry, error) {
	f.record("GetMyRank")
	if f.GetMyRankFunc != nil {
		return f.GetMyRankFunc(ctx, playerID, mode)
	}
	return nil, leaderboardservice.ErrNotFound
}

func (f *FakeService) GetAroundMe(ctx context.Context, playerID string, mode leaderboarddomain.GameMode, k int) ([]leaderboarddomain.RankedEntry, error) {
	f.record("GetAroundMe")
	if f.GetAroundMeFunc != nil {
		return f.GetAroundMeFunc(ctx, playerID, mode, k)
	}
	return []leaderboarddomain.RankedEntry{}, nil
}

func (f *FakeService) ExportTopPlayersXLSX(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]byte, error) {
	f.record("ExportTopPlayersXLSX")
	if f.ExportTopPlayersXLSXFunc != nil {
		return f.ExportTopPlayersXLSXFunc(ctx, mode, n)
	}
	return []byte("PK"), nil
}

func (f *FakeService) RenderTopPlayersChart(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]byte, error) {
	f.record("RenderTopPlayersChart")
	if f.RenderTopPlayersChartFunc != nil {
		return f.RenderTopPlayersChartFunc(ctx, mode, n)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

var _ leaderboardservice.Service = (*FakeService)(nil)

// ------------------------
// Fake Token Service
// ------------------------

type FakeTokens struct {
	ValidateTokenFunc func(token string) (*jwt.PlayerClaims, error)
}

func (f *FakeTokens) GenerateToken(playerID, username string, ttl time.Duration) (string, error) {
	return "token-" + playerID, nil
}

func (f *FakeTokens) ValidateToken(token string) (*jwt.PlayerClaims, error) {
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(token)
	}
	return nil, jwt.ErrInvalidToken
}

var _ jwt.Service = (*FakeTokens)(nil)
