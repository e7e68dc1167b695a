package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/armadahq/battleship-backend/internal/battleship"
	"github.com/armadahq/battleship-backend/internal/entity"
	"github.com/armadahq/battleship-backend/internal/pkg"
	"github.com/armadahq/battleship-backend/internal/repository"
)

type GamePlayService interface {
	PlaceShips(ctx context.Context, playerID string, placements []battleship.ShipPlacement) (*entity.Room, error)
	FireShot(ctx context.Context, playerID string, coord entity.Coordinate) (*entity.Room, *battleship.ShotOutcome, error)
	GameState(ctx context.Context, playerID string) (*entity.Room, error)

	SummaryStats(room *entity.Room) map[string]battleship.PlayerSummary
}

type gamePlayService struct {
	logger *slog.Logger

	roomRepo repository.RoomRepository
	engine   *battleship.Engine
	locker   *RoomLocker
	summary  SummaryEmitter
}

func NewGamePlayService(logger *slog.Logger, roomRepo repository.RoomRepository, engine *battleship.Engine, locker *RoomLocker, summary SummaryEmitter) GamePlayService {
	return &gamePlayService{
		logger:   logger,
		roomRepo: roomRepo,
		engine:   engine,
		locker:   locker,
		summary:  summary,
	}
}

// PlaceShips runs the placement intake inside the room's critical section.
// The room is re-fetched under the lock; the engine mutates it atomically or
// not at all, and only a successful mutation is written back.
func (that *gamePlayService) PlaceShips(ctx context.Context, playerID string, placements []battleship.ShipPlacement) (*entity.Room, error) {
	code, err := that.roomRepo.GetPlayerRoom(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up player room: %w", err)
	}

	that.locker.Lock(code)
	defer that.locker.Unlock(code)

	room, err := that.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if err = that.engine.PlaceShips(room, playerID, placements); err != nil {
		return nil, err
	}

	// both fleets down: the match just started, give it a persistent identity
	if room.IsPlaying() && room.MatchID == "" {
		room.MatchID = pkg.GenerateMatchID()
	}

	if err = that.roomRepo.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	return room, nil
}

// FireShot arbitrates one shot inside the room's critical section. A winning
// shot hands the finished room to the summary emitter; emission must never
// block or fail the shot itself.
func (that *gamePlayService) FireShot(ctx context.Context, playerID string, coord entity.Coordinate) (*entity.Room, *battleship.ShotOutcome, error) {
	code, err := that.roomRepo.GetPlayerRoom(ctx, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up player room: %w", err)
	}

	that.locker.Lock(code)
	defer that.locker.Unlock(code)

	room, err := that.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get room: %w", err)
	}

	outcome, err := that.engine.FireShot(room, playerID, coord)
	if err != nil {
		return nil, nil, err
	}

	if err = that.roomRepo.Update(ctx, room); err != nil {
		return nil, nil, fmt.Errorf("failed to update room: %w", err)
	}

	if room.IsFinished() {
		that.summary.Emit(room)
	}

	return room, outcome, nil
}

func (that *gamePlayService) GameState(ctx context.Context, playerID string) (*entity.Room, error) {
	code, err := that.roomRepo.GetPlayerRoom(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up player room: %w", err)
	}

	room, err := that.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

func (that *gamePlayService) SummaryStats(room *entity.Room) map[string]battleship.PlayerSummary {
	return that.engine.SummaryStats(room)
}
