//go:build integration

package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/repositories"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...uint64) *TestDataGenerator {
	s := uint64(time.Now().UnixNano())
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(s), seed: s}
}

// Seed reports the seed so failing runs can be replayed.
func (g *TestDataGenerator) Seed() uint64 {
	return g.seed
}

// PlayerID returns a fresh player UUID.
func (g *TestDataGenerator) PlayerID() string {
	return uuid.NewString()
}

// GenerateUpsert returns a submission for a new player with optional
// profile fields filled in about half the time.
func (g *TestDataGenerator) GenerateUpsert(mode leaderboarddomain.GameMode, at time.Time) leaderboarddb.ScoreUpsert {
	in := leaderboarddb.ScoreUpsert{
		PlayerID: g.PlayerID(),
		GameMode: mode,
		Score:    int64(g.faker.IntRange(0, 50_000)),
		At:       at,
	}
	if g.faker.Bool() {
		level := g.faker.IntRange(1, 100)
		in.PlayerLevel = &level
	}
	if g.faker.Bool() {
		trophies := g.faker.IntRange(0, 5_000)
		in.TrophyCount = &trophies
	}
	return in
}

// GenerateUpserts returns n submissions, each registered one second after the previous.
func (g *TestDataGenerator) GenerateUpserts(n int, mode leaderboarddomain.GameMode, start time.Time) []leaderboarddb.ScoreUpsert {
	out := make([]leaderboarddb.ScoreUpsert, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.GenerateUpsert(mode, start.Add(time.Duration(i)*time.Second)))
	}
	return out
}
