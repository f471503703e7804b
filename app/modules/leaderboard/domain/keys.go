package leaderboarddomain

import "strconv"

// IdempotencyKey builds the store key for a caller's submission key.
func IdempotencyKey(callerID, key string) string {
	return "idem:lb:" + callerID + ":" + key
}

// SnapshotKey is the cache key of the top-n snapshot for mode.
func SnapshotKey(mode GameMode, n int) string {
	return "lb:top:" + strconv.Itoa(int(mode)) + ":" + strconv.Itoa(n)
}
