package leaderboardservice

import (
	"context"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/results"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []any{"Rank", "Player ID", "Score", "Level", "Trophies", "Registered (UTC)", "Updated (UTC)"}

// ExportTopPlayersXLSX writes the same top-n board GetTopPlayers serves to a workbook.
func (s *LeaderboardService) ExportTopPlayersXLSX(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]byte, error) {
	entries, err := s.GetTopPlayers(ctx, mode, n)
	if err != nil {
		return nil, err
	}
	return unwrap(withTelemetry(s, ctx, "ExportTopPlayersXLSX", mode, "", func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		b, err := BuildTopPlayersWorkbook(mode, entries)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](b), nil
	}))
}

// BuildTopPlayersWorkbook renders ranked entries as a single-sheet XLSX named after the mode.
func BuildTopPlayersWorkbook(mode leaderboarddomain.GameMode, entries []leaderboarddomain.RankedEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := mode.String()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			e.Rank,
			e.PlayerID,
			e.Score,
			optionalInt(e.PlayerLevel),
			optionalInt(e.TrophyCount),
			e.RegistrationDateUTC.UTC().Format("2006-01-02 15:04:05"),
			e.UpdateDateUTC.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "F", "G", 22); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// optionalInt leaves the cell empty for a missing value.
func optionalInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
