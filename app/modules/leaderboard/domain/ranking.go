package leaderboarddomain

import (
	"cmp"
	"slices"
	"time"
)

// Entry is the read model of one player's standing within a game mode.
type Entry struct {
	PlayerID            string    `json:"playerId"`
	GameMode            GameMode  `json:"gameMode"`
	Score               int64     `json:"score"`
	PlayerLevel         *int      `json:"level"`
	TrophyCount         *int      `json:"trophies"`
	RegistrationDateUTC time.Time `json:"registrationDateUtc"`
	UpdateDateUTC       time.Time `json:"updateDateUtc"`
}

// RankedEntry pairs an entry with its 1-based position in the total order.
type RankedEntry struct {
	Entry
	Rank int `json:"rank"`
}

// Compare orders two entries of the same game mode. A negative result means a
// ranks before b. Keys, in order: score desc, registration asc, level desc,
// trophies desc, player id asc. Missing level or trophies count as zero.
//
// The Postgres score store expresses the same chain in SQL; keep them in step.
func Compare(a, b Entry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := a.RegistrationDateUTC.Compare(b.RegistrationDateUTC); c != 0 {
		return c
	}
	if c := cmp.Compare(valueOrZero(b.PlayerLevel), valueOrZero(a.PlayerLevel)); c != 0 {
		return c
	}
	if c := cmp.Compare(valueOrZero(b.TrophyCount), valueOrZero(a.TrophyCount)); c != 0 {
		return c
	}
	return cmp.Compare(a.PlayerID, b.PlayerID)
}

// Before reports whether a is strictly ordered before b.
func Before(a, b Entry) bool {
	return Compare(a, b) < 0
}

// SortEntries sorts in place by the ranking order.
func SortEntries(entries []Entry) {
	slices.SortFunc(entries, Compare)
}

// AssignRanks numbers an already ordered slice starting from firstRank.
func AssignRanks(entries []Entry, firstRank int) []RankedEntry {
	ranked := make([]RankedEntry, len(entries))
	for i, e := range entries {
		ranked[i] = RankedEntry{Entry: e, Rank: firstRank + i}
	}
	return ranked
}

// Window is a contiguous slice of the ranking, expressed as a store offset and limit.
type Window struct {
	Offset int
	Limit  int
}

// FirstRank is the rank of the first entry the window returns.
func (w Window) FirstRank() int {
	return w.Offset + 1
}

// AroundWindow returns the positions [rank-k, rank+k] clipped at rank 1. The
// store clips the upper bound by returning fewer rows.
func AroundWindow(rank, k int) Window {
	if k < 0 {
		k = 0
	}
	lo := max(1, rank-k)
	hi := rank + k
	return Window{Offset: lo - 1, Limit: hi - lo + 1}
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
