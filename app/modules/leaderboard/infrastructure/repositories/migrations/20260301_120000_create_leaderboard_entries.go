package leaderboardmigrations

import (
	"context"
	"fmt"

	leaderboarddb "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leaderboard_entries table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*leaderboarddb.LeaderboardEntry)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create leaderboard_entries table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE leaderboard_entries
				ADD CONSTRAINT chk_leaderboard_entries_score CHECK (score >= 0);
			`); err != nil {
				return fmt.Errorf("failed to add score check: %w", err)
			}

			// Matches the ranking ORDER BY so top-N and window reads are index scans.
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_ranking
				ON leaderboard_entries (
					game_mode,
					score DESC,
					registration_date_utc ASC,
					COALESCE(player_level, 0) DESC,
					COALESCE(trophy_count, 0) DESC,
					player_id ASC
				);
			`); err != nil {
				return fmt.Errorf("failed to create ranking index: %w", err)
			}

			fmt.Println("leaderboard_entries table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping leaderboard_entries table...")
		if _, err := db.NewDropTable().Model((*leaderboarddb.LeaderboardEntry)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop leaderboard_entries table: %w", err)
		}
		return nil
	})
}
