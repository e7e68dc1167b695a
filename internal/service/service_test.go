package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/armadahq/battleship-backend/internal/apperror"
	"github.com/armadahq/battleship-backend/internal/battleship"
	"github.com/armadahq/battleship-backend/internal/entity"
)

// fakeRoomRepo is an in-memory RoomRepository. Rooms are stored as JSON so
// reads hand back detached copies, the same way the redis-backed one does.
type fakeRoomRepo struct {
	mu      sync.Mutex
	rooms   map[string][]byte
	players map[string]string

	createErrs []error // pre-seeded responses for Create, consumed in order
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:   make(map[string][]byte),
		players: make(map[string]string),
	}
}

func (that *fakeRoomRepo) Create(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.createErrs) > 0 {
		err := that.createErrs[0]
		that.createErrs = that.createErrs[1:]

		if err != nil {
			return err
		}
	}

	if _, ok := that.rooms[room.Code]; ok {
		return apperror.ErrRoomAlreadyExists
	}

	return that.store(room)
}

func (that *fakeRoomRepo) Update(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.store(room)
}

func (that *fakeRoomRepo) store(room *entity.Room) error {
	blob, err := json.Marshal(room)
	if err != nil {
		return err
	}

	that.rooms[room.Code] = blob

	return nil
}

func (that *fakeRoomRepo) GetByCode(_ context.Context, code string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	blob, ok := that.rooms[code]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	var room entity.Room
	if err := json.Unmarshal(blob, &room); err != nil {
		return nil, err
	}

	return &room, nil
}

func (that *fakeRoomRepo) DeleteByCode(_ context.Context, code string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, code)

	return nil
}

func (that *fakeRoomRepo) Exists(_ context.Context, code string) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, ok := that.rooms[code]

	return ok, nil
}

func (that *fakeRoomRepo) SetPlayerRoom(_ context.Context, playerID, code string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[playerID] = code

	return nil
}

func (that *fakeRoomRepo) GetPlayerRoom(_ context.Context, playerID string) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	code, ok := that.players[playerID]
	if !ok {
		return "", apperror.ErrRoomNotFound
	}

	return code, nil
}

func (that *fakeRoomRepo) DeletePlayerRoom(_ context.Context, playerID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.players, playerID)

	return nil
}

// fakeEmitter records every room handed to Emit.
type fakeEmitter struct {
	mu    sync.Mutex
	rooms []*entity.Room
}

func (that *fakeEmitter) Emit(room *entity.Room) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms = append(that.rooms, room)
}

func (that *fakeEmitter) emitted() []*entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rooms
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFleet() []battleship.ShipPlacement {
	return []battleship.ShipPlacement{
		{ShipID: "carrier", Length: 5, Start: entity.Coordinate{X: 0, Y: 0}, Orientation: entity.OrientationHorizontal},
		{ShipID: "battleship", Length: 4, Start: entity.Coordinate{X: 0, Y: 2}, Orientation: entity.OrientationHorizontal},
		{ShipID: "cruiser", Length: 3, Start: entity.Coordinate{X: 0, Y: 4}, Orientation: entity.OrientationHorizontal},
		{ShipID: "submarine", Length: 3, Start: entity.Coordinate{X: 0, Y: 6}, Orientation: entity.OrientationHorizontal},
		{ShipID: "destroyer", Length: 2, Start: entity.Coordinate{X: 0, Y: 8}, Orientation: entity.OrientationHorizontal},
	}
}

// fleetCoordinates lists every cell testFleet occupies, in placement order.
func fleetCoordinates() []entity.Coordinate {
	var cells []entity.Coordinate

	for _, placement := range testFleet() {
		cells = append(cells, entity.CellsFrom(placement.Start, placement.Length, placement.Orientation)...)
	}

	return cells
}

type testServices struct {
	repo    *fakeRoomRepo
	emitter *fakeEmitter
	rooms   RoomService
	game    GamePlayService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	repo := newFakeRoomRepo()
	emitter := &fakeEmitter{}
	logger := discardLogger()
	engine := battleship.NewEngine()
	locker := NewRoomLocker()

	return &testServices{
		repo:    repo,
		emitter: emitter,
		rooms:   NewRoomService(logger, repo, engine, locker, emitter),
		game:    NewGamePlayService(logger, repo, engine, locker, emitter),
	}
}
