package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// orderKey is one link of the ranking chain. expr takes a table alias.
type orderKey struct {
	expr string
	desc bool
}

// rankingOrder mirrors leaderboarddomain.Compare.
var rankingOrder = []orderKey{
	{expr: "%s.score", desc: true},
	{expr: "%s.registration_date_utc", desc: false},
	{expr: "COALESCE(%s.player_level, 0)", desc: true},
	{expr: "COALESCE(%s.trophy_count, 0)", desc: true},
	{expr: "%s.player_id", desc: false},
}

// orderByClause renders the chain as an ORDER BY list.
func orderByClause(alias string) string {
	parts := make([]string, len(rankingOrder))
	for i, k := range rankingOrder {
		dir := "ASC"
		if k.desc {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf(k.expr, alias) + " " + dir
	}
	return strings.Join(parts, ", ")
}

// strictlyBeforePredicate renders "row ranks strictly before ref" as a
// lexicographic OR over the chain: (k1 beats) OR (k1 equal AND k2 beats) OR ...
func strictlyBeforePredicate(row, ref string) string {
	var b strings.Builder
	for i, k := range rankingOrder {
		if i > 0 {
			b.WriteString(" OR ")
		}
		b.WriteString("(")
		for _, prev := range rankingOrder[:i] {
			fmt.Fprintf(&b, "%s = %s AND ", fmt.Sprintf(prev.expr, row), fmt.Sprintf(prev.expr, ref))
		}
		op := "<"
		if k.desc {
			op = ">"
		}
		fmt.Fprintf(&b, "%s %s %s)", fmt.Sprintf(k.expr, row), op, fmt.Sprintf(k.expr, ref))
	}
	return b.String()
}

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// UpsertEntry writes the score with a single ON CONFLICT statement; concurrent
// submissions for the same player resolve to whichever commits last.
func (r *Impl) UpsertEntry(ctx context.Context, db bun.IDB, in ScoreUpsert) (leaderboarddomain.Entry, error) {
	db = r.resolveDB(db)
	row := &LeaderboardEntry{
		PlayerID:            in.PlayerID,
		GameMode:            int16(in.GameMode),
		Score:               in.Score,
		PlayerLevel:         in.PlayerLevel,
		TrophyCount:         in.TrophyCount,
		RegistrationDateUTC: in.At.UTC(),
		UpdateDateUTC:       in.At.UTC(),
	}
	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (player_id, game_mode) DO UPDATE").
		Set("score = EXCLUDED.score").
		Set("player_level = COALESCE(EXCLUDED.player_level, ?TableAlias.player_level)").
		Set("trophy_count = COALESCE(EXCLUDED.trophy_count, ?TableAlias.trophy_count)").
		Set("update_date_utc = EXCLUDED.update_date_utc").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return leaderboarddomain.Entry{}, fmt.Errorf("leaderboarddb.UpsertEntry: %w", err)
	}
	return row.ToDomain(), nil
}

func (r *Impl) GetEntry(ctx context.Context, db bun.IDB, playerID string, mode leaderboarddomain.GameMode) (leaderboarddomain.Entry, error) {
	db = r.resolveDB(db)
	row := new(LeaderboardEntry)
	err := db.NewSelect().
		Model(row).
		Where("le.player_id = ?", playerID).
		Where("le.game_mode = ?", int16(mode)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leaderboarddomain.Entry{}, ErrNotFound
		}
		return leaderboarddomain.Entry{}, fmt.Errorf("leaderboarddb.GetEntry: %w", err)
	}
	return row.ToDomain(), nil
}

func (r *Impl) QueryOrdered(ctx context.Context, db bun.IDB, mode leaderboarddomain.GameMode, offset, limit int) ([]leaderboarddomain.Entry, error) {
	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("leaderboarddb.QueryOrdered: %w: offset=%d limit=%d", ErrInvalidWindow, offset, limit)
	}
	db = r.resolveDB(db)
	var rows []LeaderboardEntry
	err := db.NewSelect().
		Model(&rows).
		Where("le.game_mode = ?", int16(mode)).
		OrderExpr(orderByClause("le")).
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.QueryOrdered: %w", err)
	}
	entries := make([]leaderboarddomain.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// CountBefore reads the player's own row and the count in one statement so
// both see the same snapshot.
func (r *Impl) CountBefore(ctx context.Context, db bun.IDB, playerID string, mode leaderboarddomain.GameMode) (int, error) {
	db = r.resolveDB(db)
	var count int
	err := db.NewSelect().
		TableExpr("leaderboard_entries AS me").
		ColumnExpr("(SELECT count(*) FROM leaderboard_entries AS le WHERE le.game_mode = me.game_mode AND (" +
			strictlyBeforePredicate("le", "me") + "))").
		Where("me.player_id = ?", playerID).
		Where("me.game_mode = ?", int16(mode)).
		Scan(ctx, &count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("leaderboarddb.CountBefore: %w", err)
	}
	return count, nil
}
