package service

import (
	"context"
	"fmt"

	"github.com/armadahq/battleship-backend/internal/repository"
)

const defaultLeaderboardSize = 10

type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error)
}

type leaderboardService struct {
	matchRepo repository.MatchRepository
}

func NewLeaderboardService(matchRepo repository.MatchRepository) LeaderboardService {
	return &leaderboardService{matchRepo: matchRepo}
}

func (that *leaderboardService) Top(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	entries, err := that.matchRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	return entries, nil
}
