package leaderboarddomain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownGameMode is returned when a game mode name or number is not recognised.
var ErrUnknownGameMode = errors.New("unknown game mode")

// GameMode identifies an independent ranking partition.
type GameMode int

const (
	GameModeClassic    GameMode = 1
	GameModeTournament GameMode = 2
)

var gameModeNames = map[GameMode]string{
	GameModeClassic:    "Classic",
	GameModeTournament: "Tournament",
}

// GameModes returns every known mode in ascending order.
func GameModes() []GameMode {
	return []GameMode{GameModeClassic, GameModeTournament}
}

// ParseGameMode accepts a mode name (case-insensitive) or its stored number.
func ParseGameMode(s string) (GameMode, error) {
	s = strings.TrimSpace(s)
	for mode, name := range gameModeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && GameMode(n).Valid() {
		return GameMode(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGameMode, s)
}

func (m GameMode) Valid() bool {
	_, ok := gameModeNames[m]
	return ok
}

func (m GameMode) String() string {
	if name, ok := gameModeNames[m]; ok {
		return name
	}
	return "GameMode(" + strconv.Itoa(int(m)) + ")"
}

// MarshalText encodes the mode by name so JSON payloads and cache snapshots stay readable.
func (m GameMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGameMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *GameMode) UnmarshalText(b []byte) error {
	mode, err := ParseGameMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
