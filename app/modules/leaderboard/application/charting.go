package leaderboardservice

import (
	"bytes"
	"context"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/results"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// chartPalette is the fixed colour scheme of rendered boards.
var chartPalette = struct {
	Background drawing.Color
	Bar        drawing.Color
	Text       drawing.Color
}{
	Background: drawing.ColorFromHex("101820"),
	Bar:        drawing.ColorFromHex("F2AA4C"),
	Text:       drawing.ColorFromHex("E8E8E8"),
}

// RenderTopPlayersChart renders the same top-n board GetTopPlayers serves.
func (s *LeaderboardService) RenderTopPlayersChart(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]byte, error) {
	entries, err := s.GetTopPlayers(ctx, mode, n)
	if err != nil {
		return nil, err
	}
	return unwrap(withTelemetry(s, ctx, "RenderTopPlayersChart", mode, "", func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		png, err := GenerateTopPlayersChart(mode, entries)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](png), nil
	}))
}

// GenerateTopPlayersChart produces a PNG bar chart with one bar per ranked entry.
func GenerateTopPlayersChart(mode leaderboarddomain.GameMode, entries []leaderboarddomain.RankedEntry) ([]byte, error) {
	if len(entries) == 0 {
		return renderNoDataPlaceholder(fmt.Sprintf("No %s scores yet", mode))
	}

	bars := make([]chart.Value, len(entries))
	var top float64
	for i, e := range entries {
		top = max(top, float64(e.Score))
		bars[i] = chart.Value{
			Label: fmt.Sprintf("#%d %s", e.Rank, shortPlayerID(e.PlayerID)),
			Value: float64(e.Score),
			Style: chart.Style{
				FillColor:   chartPalette.Bar,
				StrokeColor: chartPalette.Bar,
			},
		}
	}

	barWidth := 40
	width := max(400, len(entries)*(barWidth+10)+100)

	graph := chart.BarChart{
		Title:    fmt.Sprintf("%s leaderboard", mode),
		Width:    width,
		Height:   400,
		BarWidth: barWidth,
		Background: chart.Style{
			FillColor: chartPalette.Background,
		},
		Canvas: chart.Style{
			FillColor: chartPalette.Background,
		},
		TitleStyle: chart.Style{
			FontColor: chartPalette.Text,
		},
		XAxis: chart.Style{
			FontColor:           chartPalette.Text,
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Name: "Score",
			Style: chart.Style{
				FontColor: chartPalette.Text,
			},
			// Fixed range so single-bar and all-equal boards still have a non-zero span.
			Range: &chart.ContinuousRange{Min: 0, Max: max(top*1.1, 1)},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: chartPalette.Background,
		},
		Canvas: chart.Style{
			FillColor: chartPalette.Background,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(chartPalette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render placeholder: %w", err)
	}
	return buffer.Bytes(), nil
}

// shortPlayerID keeps axis labels readable.
func shortPlayerID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
