package leaderboardhandlers

import (
	"fmt"
	"net/http"
	"strconv"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
)

func (h *LeaderboardHandlers) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID, ok := PlayerIDFromContext(ctx)
	if !ok {
		h.writeError(ctx, w, "HandleSubmitScore", errMissingCaller)
		return
	}

	req, err := decodeSubmission(w, r, playerID)
	if err != nil {
		h.writeError(ctx, w, "HandleSubmitScore", err)
		return
	}

	res, err := h.leaderboardService.SubmitScore(ctx, req)
	if err != nil {
		h.writeError(ctx, w, "HandleSubmitScore", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Score submitted", res)
}

func (h *LeaderboardHandlers) HandleGetTopPlayers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mode, n, err := h.topNParams(r)
	if err != nil {
		h.writeError(ctx, w, "HandleGetTopPlayers", err)
		return
	}

	entries, err := h.leaderboardService.GetTopPlayers(ctx, mode, n)
	if err != nil {
		h.writeError(ctx, w, "HandleGetTopPlayers", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Top players retrieved", entries)
}

func (h *LeaderboardHandlers) HandleGetMyRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID, ok := PlayerIDFromContext(ctx)
	if !ok {
		h.writeError(ctx, w, "HandleGetMyRank", errMissingCaller)
		return
	}
	mode, err := gameModeParam(r)
	if err != nil {
		h.writeError(ctx, w, "HandleGetMyRank", err)
		return
	}

	me, err := h.leaderboardService.GetMyRank(ctx, playerID, mode)
	if err != nil {
		h.writeError(ctx, w, "HandleGetMyRank", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Rank retrieved", me)
}

func (h *LeaderboardHandlers) HandleGetAroundMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID, ok := PlayerIDFromContext(ctx)
	if !ok {
		h.writeError(ctx, w, "HandleGetAroundMe", errMissingCaller)
		return
	}
	mode, err := gameModeParam(r)
	if err != nil {
		h.writeError(ctx, w, "HandleGetAroundMe", err)
		return
	}
	k, err := boundedIntQuery(r, "k", h.limits.DefaultAroundK, 0, h.limits.MaxAroundK)
	if err != nil {
		h.writeError(ctx, w, "HandleGetAroundMe", err)
		return
	}

	entries, err := h.leaderboardService.GetAroundMe(ctx, playerID, mode, k)
	if err != nil {
		h.writeError(ctx, w, "HandleGetAroundMe", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Surrounding players retrieved", entries)
}

func (h *LeaderboardHandlers) HandleExportTopPlayers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mode, n, err := h.topNParams(r)
	if err != nil {
		h.writeError(ctx, w, "HandleExportTopPlayers", err)
		return
	}

	raw, err := h.leaderboardService.ExportTopPlayersXLSX(ctx, mode, n)
	if err != nil {
		h.writeError(ctx, w, "HandleExportTopPlayers", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leaderboard-%s-top%d.xlsx"`, mode, n))
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *LeaderboardHandlers) HandleTopPlayersChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mode, n, err := h.topNParams(r)
	if err != nil {
		h.writeError(ctx, w, "HandleTopPlayersChart", err)
		return
	}

	png, err := h.leaderboardService.RenderTopPlayersChart(ctx, mode, n)
	if err != nil {
		h.writeError(ctx, w, "HandleTopPlayersChart", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *LeaderboardHandlers) topNParams(r *http.Request) (leaderboarddomain.GameMode, int, error) {
	mode, err := gameModeParam(r)
	if err != nil {
		return 0, 0, err
	}
	n, err := boundedIntQuery(r, "n", h.limits.DefaultTopN, 1, h.limits.MaxTopN)
	if err != nil {
		return 0, 0, err
	}
	return mode, n, nil
}
