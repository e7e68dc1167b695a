package usecase

import (
	"context"
	"fmt"

	"github.com/armadahq/battleship-backend/internal/battleship"
	"github.com/armadahq/battleship-backend/internal/entity"
)

// GameUseCase is the single surface the transport adapter talks to.
type GameUseCase interface {
	CreateRoom(ctx context.Context, playerID string) (*entity.Room, error)
	JoinRoom(ctx context.Context, code, playerID string) (*entity.Room, error)
	LeaveRoom(ctx context.Context, playerID string) (*entity.Room, error)
	DeleteRoom(ctx context.Context, room *entity.Room) error

	PlaceShips(ctx context.Context, playerID string, placements []battleship.ShipPlacement) (*entity.Room, error)
	FireShot(ctx context.Context, playerID string, coord entity.Coordinate) (*entity.Room, *battleship.ShotOutcome, error)
	GameState(ctx context.Context, playerID string) (*entity.Room, error)

	SummaryStats(room *entity.Room) map[string]battleship.PlayerSummary
}

type roomService interface {
	Create(ctx context.Context, playerID string) (*entity.Room, error)
	Join(ctx context.Context, code, playerID string) (*entity.Room, error)
	Leave(ctx context.Context, playerID string) (*entity.Room, error)
	Delete(ctx context.Context, room *entity.Room) error
}

type gamePlayService interface {
	PlaceShips(ctx context.Context, playerID string, placements []battleship.ShipPlacement) (*entity.Room, error)
	FireShot(ctx context.Context, playerID string, coord entity.Coordinate) (*entity.Room, *battleship.ShotOutcome, error)
	GameState(ctx context.Context, playerID string) (*entity.Room, error)
	SummaryStats(room *entity.Room) map[string]battleship.PlayerSummary
}

type gameUseCase struct {
	roomService     roomService
	gamePlayService gamePlayService
}

func NewGameUseCase(roomService roomService, gamePlayService gamePlayService) GameUseCase {
	return &gameUseCase{
		roomService:     roomService,
		gamePlayService: gamePlayService,
	}
}

func (that *gameUseCase) CreateRoom(ctx context.Context, playerID string) (*entity.Room, error) {
	room, err := that.roomService.Create(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

func (that *gameUseCase) JoinRoom(ctx context.Context, code, playerID string) (*entity.Room, error) {
	room, err := that.roomService.Join(ctx, code, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}

	return room, nil
}

func (that *gameUseCase) LeaveRoom(ctx context.Context, playerID string) (*entity.Room, error) {
	room, err := that.roomService.Leave(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to leave room: %w", err)
	}

	return room, nil
}

func (that *gameUseCase) DeleteRoom(ctx context.Context, room *entity.Room) error {
	if err := that.roomService.Delete(ctx, room); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

func (that *gameUseCase) PlaceShips(ctx context.Context, playerID string, placements []battleship.ShipPlacement) (*entity.Room, error) {
	room, err := that.gamePlayService.PlaceShips(ctx, playerID, placements)
	if err != nil {
		return nil, fmt.Errorf("failed to place ships: %w", err)
	}

	return room, nil
}

func (that *gameUseCase) FireShot(ctx context.Context, playerID string, coord entity.Coordinate) (*entity.Room, *battleship.ShotOutcome, error) {
	room, outcome, err := that.gamePlayService.FireShot(ctx, playerID, coord)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fire shot: %w", err)
	}

	return room, outcome, nil
}

func (that *gameUseCase) GameState(ctx context.Context, playerID string) (*entity.Room, error) {
	room, err := that.gamePlayService.GameState(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	return room, nil
}

func (that *gameUseCase) SummaryStats(room *entity.Room) map[string]battleship.PlayerSummary {
	return that.gamePlayService.SummaryStats(room)
}
