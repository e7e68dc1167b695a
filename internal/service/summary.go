package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/armadahq/battleship-backend/internal/battleship"
	"github.com/armadahq/battleship-backend/internal/entity"
	"github.com/armadahq/battleship-backend/internal/repository"
)

// emitTimeout bounds the persistence round-trip; gameplay never waits on it.
const emitTimeout = 10 * time.Second

// SummaryEmitter hands a finished room off to the external match-history
// store. Fire-and-forget: a failure is logged and never rolls back or blocks
// the already-committed game-over state.
type SummaryEmitter interface {
	Emit(room *entity.Room)
}

type summaryEmitter struct {
	logger *slog.Logger

	matchRepo repository.MatchRepository
	engine    *battleship.Engine
}

func NewSummaryEmitter(logger *slog.Logger, matchRepo repository.MatchRepository, engine *battleship.Engine) SummaryEmitter {
	return &summaryEmitter{
		logger:    logger,
		matchRepo: matchRepo,
		engine:    engine,
	}
}

func (that *summaryEmitter) Emit(room *entity.Room) {
	record := that.buildRecord(room)
	if record == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()

		if err := that.matchRepo.SaveCompleted(ctx, record); err != nil {
			that.logger.Error("failed to persist match summary", "matchID", record.ID, "room", room.Code, "error", err)
		}
	}()
}

func (that *summaryEmitter) buildRecord(room *entity.Room) *repository.MatchRecord {
	if !room.IsFinished() {
		return nil
	}

	matchID := room.MatchID
	if matchID == "" {
		// forfeited before the match ever started; nothing worth recording
		return nil
	}

	status := repository.MatchStatusCompleted
	if room.Reason != battleship.ReasonAllShipsSunk {
		status = repository.MatchStatusAbandoned
	}

	record := &repository.MatchRecord{
		ID:          matchID,
		Player1:     room.Player1,
		Player2:     room.Player2,
		Winner:      room.Winner,
		Status:      status,
		Reason:      room.Reason,
		CreatedAt:   room.CreatedAt,
		EndedAt:     time.Now(),
		PlayerStats: make(map[string]repository.MatchPlayerStats, entity.MaxPlayers),
	}

	for playerID, summary := range that.engine.SummaryStats(room) {
		record.PlayerStats[playerID] = repository.MatchPlayerStats{
			Shots:  summary.Shots,
			Hits:   summary.Hits,
			Misses: summary.Misses,
		}
	}

	return record
}
