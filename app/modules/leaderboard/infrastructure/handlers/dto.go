package leaderboardhandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	"github.com/go-chi/chi/v5"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderTimestamp      = "X-Timestamp"

	maxBodyBytes = 1 << 16
)

// SubmitScoreBody is the JSON body of POST /leaderboard/submit.
type SubmitScoreBody struct {
	Score       *int64   `json:"score"`
	GameMode    string   `json:"gameMode"`
	Bonus       []string `json:"bonus,omitempty"`
	PlayerLevel *int     `json:"playerLevel,omitempty"`
	TrophyCount *int     `json:"trophyCount,omitempty"`
}

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// decodeSubmission turns the request into a service request. The caller id
// comes from the authenticated context, never from the body.
func decodeSubmission(w http.ResponseWriter, r *http.Request, playerID string) (leaderboardservice.SubmitScoreRequest, error) {
	var body SubmitScoreBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return leaderboardservice.SubmitScoreRequest{}, &leaderboardservice.ValidationError{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if body.Score == nil {
		return leaderboardservice.SubmitScoreRequest{}, &leaderboardservice.ValidationError{Field: "score", Message: "is required"}
	}

	mode, err := parseGameMode(body.GameMode)
	if err != nil {
		return leaderboardservice.SubmitScoreRequest{}, err
	}

	ts, err := parseTimestampHeader(r.Header.Get(HeaderTimestamp))
	if err != nil {
		return leaderboardservice.SubmitScoreRequest{}, err
	}

	return leaderboardservice.SubmitScoreRequest{
		PlayerID:       playerID,
		GameMode:       mode,
		Score:          *body.Score,
		BonusTags:      body.Bonus,
		PlayerLevel:    body.PlayerLevel,
		TrophyCount:    body.TrophyCount,
		IdempotencyKey: strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey)),
		Timestamp:      ts,
	}, nil
}

// parseTimestampHeader reads unix seconds. An absent header yields nil so the
// idempotency guard reports it as missing.
func parseTimestampHeader(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &leaderboardservice.ValidationError{Field: HeaderTimestamp, Message: "must be unix seconds"}
	}
	ts := time.Unix(secs, 0).UTC()
	return &ts, nil
}

func parseGameMode(raw string) (leaderboarddomain.GameMode, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, &leaderboardservice.ValidationError{Field: "gameMode", Message: "is required"}
	}
	mode, err := leaderboarddomain.ParseGameMode(raw)
	if err != nil {
		return 0, &leaderboardservice.ValidationError{Field: "gameMode", Message: err.Error()}
	}
	return mode, nil
}

func gameModeParam(r *http.Request) (leaderboarddomain.GameMode, error) {
	return parseGameMode(chi.URLParam(r, "gameMode"))
}

// boundedIntQuery reads an integer query parameter, applying def when absent
// and rejecting values outside [lo, hi].
func boundedIntQuery(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &leaderboardservice.ValidationError{Field: name, Message: "must be an integer"}
	}
	if v < lo || v > hi {
		return 0, &leaderboardservice.ValidationError{Field: name, Message: fmt.Sprintf("must be between %d and %d", lo, hi)}
	}
	return v, nil
}

var errMissingCaller = errors.New("missing authenticated player")
