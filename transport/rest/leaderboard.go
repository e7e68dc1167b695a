package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/armadahq/battleship-backend/internal/repository"
)

type leaderboardService interface {
	Top(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error)
}

type LeaderboardHandler interface {
	Leaderboard(w http.ResponseWriter, r *http.Request)
}

type leaderboardHandler struct {
	logger  *slog.Logger
	service leaderboardService
}

func NewLeaderboardHandler(logger *slog.Logger, service leaderboardService) LeaderboardHandler {
	return &leaderboardHandler{
		logger:  logger,
		service: service,
	}
}

func (that *leaderboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Leaderboard")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := that.service.Top(r.Context(), limit)
	if err != nil {
		log.Error("failed to load leaderboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err = json.NewEncoder(w).Encode(entries); err != nil {
		log.Error("failed to encode leaderboard", "error", err)
	}
}
