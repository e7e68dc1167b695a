package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/armadahq/battleship-backend/internal/apperror"
	"github.com/armadahq/battleship-backend/internal/entity"
)

// RoomRepository is the directory mapping room codes and player identities to
// match state. Every write refreshes the idle TTL; expiry is cleanup, not
// correctness, for in-flight matches.
type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	Update(ctx context.Context, room *entity.Room) error
	GetByCode(ctx context.Context, code string) (*entity.Room, error)
	DeleteByCode(ctx context.Context, code string) error
	Exists(ctx context.Context, code string) (bool, error)

	SetPlayerRoom(ctx context.Context, playerID, code string) error
	GetPlayerRoom(ctx context.Context, playerID string) (string, error)
	DeletePlayerRoom(ctx context.Context, playerID string) error
}

type dbRoom struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomRepository(client *redis.Client, ttl time.Duration) RoomRepository {
	return &dbRoom{
		client: client,
		ttl:    ttl,
	}
}

func roomKey(code string) string {
	return "room:" + code
}

func playerRoomKey(playerID string) string {
	return "player:" + playerID + ":room"
}

// Create stores a new room and fails if the code is already taken; the
// service layer retries code generation on collision.
func (that *dbRoom) Create(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	created, err := that.client.SetNX(ctx, roomKey(room.Code), roomJSON, that.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	if !created {
		return apperror.ErrRoomAlreadyExists
	}

	return nil
}

func (that *dbRoom) Update(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	if err = that.client.Set(ctx, roomKey(room.Code), roomJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByCode(ctx context.Context, code string) (*entity.Room, error) {
	response, err := that.client.Get(ctx, roomKey(code)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by code: %w", err)
	}

	var existingRoom entity.Room
	if err = json.Unmarshal([]byte(response), &existingRoom); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &existingRoom, nil
}

func (that *dbRoom) DeleteByCode(ctx context.Context, code string) error {
	if err := that.client.Del(ctx, roomKey(code)).Err(); err != nil {
		return fmt.Errorf("failed to delete room by code: %w", err)
	}

	return nil
}

func (that *dbRoom) Exists(ctx context.Context, code string) (bool, error) {
	count, err := that.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check room existence: %w", err)
	}

	return count > 0, nil
}

func (that *dbRoom) SetPlayerRoom(ctx context.Context, playerID, code string) error {
	if err := that.client.Set(ctx, playerRoomKey(playerID), code, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set player room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetPlayerRoom(ctx context.Context, playerID string) (string, error) {
	code, err := that.client.Get(ctx, playerRoomKey(playerID)).Result()

	if errors.Is(err, redis.Nil) {
		return "", apperror.ErrRoomNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get player room: %w", err)
	}

	return code, nil
}

func (that *dbRoom) DeletePlayerRoom(ctx context.Context, playerID string) error {
	if err := that.client.Del(ctx, playerRoomKey(playerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete player room: %w", err)
	}

	return nil
}
