package leaderboardhandlers

import "net/http"

// Handlers defines the HTTP surface of the leaderboard.
type Handlers interface {
	// --- MUTATIONS ---

	// HandleSubmitScore stores a score for the authenticated player.
	HandleSubmitScore(w http.ResponseWriter, r *http.Request)

	// --- READS ---

	// HandleGetTopPlayers returns the top-n board of a game mode.
	HandleGetTopPlayers(w http.ResponseWriter, r *http.Request)

	// HandleGetMyRank returns the caller's entry and rank.
	HandleGetMyRank(w http.ResponseWriter, r *http.Request)

	// HandleGetAroundMe returns the entries surrounding the caller.
	HandleGetAroundMe(w http.ResponseWriter, r *http.Request)

	// --- REPORTS ---

	HandleExportTopPlayers(w http.ResponseWriter, r *http.Request)
	HandleTopPlayersChart(w http.ResponseWriter, r *http.Request)
}
