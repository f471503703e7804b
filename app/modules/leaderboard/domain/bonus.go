package leaderboarddomain

import (
	"math"
	"time"
)

// BonusTag names a score modifier a client may request.
type BonusTag string

const (
	BonusWeekend BonusTag = "weekend_bonus"
)

// weekend bonus is +5%, kept as an integer ratio so flooring is exact.
const (
	weekendNumerator   = 105
	weekendDenominator = 100
)

// AppliedBonus records one tag that changed the running score.
type AppliedBonus struct {
	Tag    BonusTag
	Amount int64
}

// BonusResult is the outcome of ApplyBonuses.
type BonusResult struct {
	FinalScore int64
	Applied    []AppliedBonus
}

// ApplyBonuses maps a base score and requested tags to the final score at now.
// Tags apply in order, each to the running score, so a repeated tag compounds.
// Unknown tags are ignored.
func ApplyBonuses(base int64, tags []string, now time.Time) BonusResult {
	res := BonusResult{FinalScore: base}
	for _, raw := range tags {
		switch tag := BonusTag(raw); tag {
		case BonusWeekend:
			if !IsWeekend(now) {
				continue
			}
			before := res.FinalScore
			res.FinalScore = scaleFloor(before, weekendNumerator, weekendDenominator)
			res.Applied = append(res.Applied, AppliedBonus{Tag: tag, Amount: res.FinalScore - before})
		}
	}
	return res
}

// IsWeekend reports whether t falls on Saturday or Sunday in UTC.
func IsWeekend(t time.Time) bool {
	switch t.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// scaleFloor computes floor(v*num/den) for non-negative v without overflowing
// the intermediate product, saturating at MaxInt64.
func scaleFloor(v, num, den int64) int64 {
	q, r := v/den, v%den
	if q > (math.MaxInt64-num)/num {
		return math.MaxInt64
	}
	return q*num + r*num/den
}
