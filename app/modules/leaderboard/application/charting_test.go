package leaderboardservice

import (
	"bytes"
	"context"
	"testing"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestGenerateTopPlayersChart(t *testing.T) {
	tests := []struct {
		name    string
		entries []leaderboarddomain.RankedEntry
	}{
		{name: "empty board renders placeholder"},
		{name: "single entry", entries: rankedFixture()[:1]},
		{name: "several entries", entries: rankedFixture()},
		{name: "all zero scores", entries: []leaderboarddomain.RankedEntry{
			{Entry: leaderboarddomain.Entry{PlayerID: "short", Score: 0}, Rank: 1},
			{Entry: leaderboarddomain.Entry{PlayerID: "other", Score: 0}, Rank: 2},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := GenerateTopPlayersChart(leaderboarddomain.GameModeClassic, tt.entries)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngMagic))
		})
	}
}

func TestRenderTopPlayersChart_ValidatesInput(t *testing.T) {
	h := newTestHarness(t, tuesday)

	_, err := h.svc.RenderTopPlayersChart(context.Background(), leaderboarddomain.GameModeClassic, 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestShortPlayerID(t *testing.T) {
	assert.Equal(t, "abc", shortPlayerID("abc"))
	assert.Equal(t, "11111111", shortPlayerID(playerID(1)))
}

func TestExportTopPlayersXLSX(t *testing.T) {
	h := newTestHarness(t, tuesday)
	seedDescending(h.repo, 3)
	h.repo.Seed(leaderboarddomain.Entry{
		PlayerID:            playerID(0),
		GameMode:            leaderboarddomain.GameModeClassic,
		Score:               1000,
		PlayerLevel:         intPtr(12),
		RegistrationDateUTC: tuesday,
		UpdateDateUTC:       tuesday,
	})

	raw, err := h.svc.ExportTopPlayersXLSX(context.Background(), leaderboarddomain.GameModeClassic, 10)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Classic")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Rank", "Player ID", "Score", "Level", "Trophies", "Registered (UTC)", "Updated (UTC)"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, playerID(0), rows[1][1])
	assert.Equal(t, "1000", rows[1][2])
	assert.Equal(t, "12", rows[1][3])
	assert.Equal(t, "", rows[1][4])
	assert.Equal(t, "2026-03-10 12:00:00", rows[1][5])
}
