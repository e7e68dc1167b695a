package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/armadahq/battleship-backend/internal/apperror"
	"github.com/armadahq/battleship-backend/internal/battleship"
	"github.com/armadahq/battleship-backend/internal/entity"
	"github.com/armadahq/battleship-backend/internal/pkg"
	"github.com/armadahq/battleship-backend/internal/repository"
)

// maxCodeAttempts bounds room-code generation retries before the whole
// create-room request fails; the caller may simply retry the request.
const maxCodeAttempts = 5

type RoomService interface {
	Create(ctx context.Context, playerID string) (*entity.Room, error)
	Join(ctx context.Context, code, playerID string) (*entity.Room, error)
	Leave(ctx context.Context, playerID string) (*entity.Room, error)

	RoomByPlayer(ctx context.Context, playerID string) (*entity.Room, error)
	Delete(ctx context.Context, room *entity.Room) error
}

type roomService struct {
	logger *slog.Logger

	roomRepo repository.RoomRepository
	engine   *battleship.Engine
	locker   *RoomLocker
	summary  SummaryEmitter
}

func NewRoomService(logger *slog.Logger, roomRepo repository.RoomRepository, engine *battleship.Engine, locker *RoomLocker, summary SummaryEmitter) RoomService {
	return &roomService{
		logger:   logger,
		roomRepo: roomRepo,
		engine:   engine,
		locker:   locker,
		summary:  summary,
	}
}

// Create builds a waiting room under a freshly generated code, retrying on
// collision a bounded number of times.
func (that *roomService) Create(ctx context.Context, playerID string) (*entity.Room, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := pkg.GenerateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}

		room := that.engine.CreateRoom(code, playerID)

		err = that.roomRepo.Create(ctx, room)
		if errors.Is(err, apperror.ErrRoomAlreadyExists) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to store room: %w", err)
		}

		if err = that.roomRepo.SetPlayerRoom(ctx, playerID, code); err != nil {
			return nil, fmt.Errorf("failed to index player room: %w", err)
		}

		return room, nil
	}

	return nil, apperror.ErrCodeExhausted
}

// Join seats the caller as the second player of the room behind code.
func (that *roomService) Join(ctx context.Context, code, playerID string) (*entity.Room, error) {
	if !pkg.IsRoomCode(code) {
		return nil, apperror.ErrInvalidRoomCode
	}

	that.locker.Lock(code)
	defer that.locker.Unlock(code)

	room, err := that.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if err = that.engine.AdmitSecondPlayer(room, playerID); err != nil {
		return nil, err
	}

	if err = that.roomRepo.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	if err = that.roomRepo.SetPlayerRoom(ctx, playerID, code); err != nil {
		return nil, fmt.Errorf("failed to index player room: %w", err)
	}

	return room, nil
}

// Leave removes the caller from their room. An active match is forfeited in
// favor of the opponent; a room left empty is deleted. Returns the room as it
// stands after the departure, or nil when the player had no room.
func (that *roomService) Leave(ctx context.Context, playerID string) (*entity.Room, error) {
	code, err := that.roomRepo.GetPlayerRoom(ctx, playerID)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to look up player room: %w", err)
	}

	that.locker.Lock(code)
	defer that.locker.Unlock(code)

	room, err := that.roomRepo.GetByCode(ctx, code)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		// room already expired; just drop the stale index
		if err = that.roomRepo.DeletePlayerRoom(ctx, playerID); err != nil {
			return nil, fmt.Errorf("failed to drop player room index: %w", err)
		}

		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if err = that.roomRepo.DeletePlayerRoom(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to drop player room index: %w", err)
	}

	opponentID := room.Opponent(playerID)
	if opponentID == "" {
		if err = that.roomRepo.DeleteByCode(ctx, code); err != nil {
			return nil, fmt.Errorf("failed to delete empty room: %w", err)
		}

		return nil, nil
	}

	if !room.IsFinished() {
		that.engine.Forfeit(room, opponentID, battleship.ReasonOpponentLeft)
		that.summary.Emit(room)
	}

	if err = that.roomRepo.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	return room, nil
}

func (that *roomService) RoomByPlayer(ctx context.Context, playerID string) (*entity.Room, error) {
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

// Delete evicts the room and both player indices. An index is only dropped
// while it still points at this room; a player who moved on to a new room in
// the meantime keeps theirs.
func (that *roomService) Delete(ctx context.Context, room *entity.Room) error {
	that.locker.Lock(room.Code)
	defer that.locker.Unlock(room.Code)

	for _, playerID := range room.Players() {
		code, err := that.roomRepo.GetPlayerRoom(ctx, playerID)
		if errors.Is(err, apperror.ErrRoomNotFound) {
			continue
		}

		if err != nil {
			that.logger.Error("failed to look up player room index", "playerID", playerID, "error", err)
			continue
		}

		if code != room.Code {
			continue
		}

		if err = that.roomRepo.DeletePlayerRoom(ctx, playerID); err != nil {
			that.logger.Error("failed to drop player room index", "playerID", playerID, "error", err)
		}
	}

	if err := that.roomRepo.DeleteByCode(ctx, room.Code); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}
