package battleship

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadahq/battleship-backend/internal/apperror"
	"github.com/armadahq/battleship-backend/internal/entity"
)

const (
	alice = "alice"
	bob   = "bob"
)

func newTestEngine() *Engine {
	return NewEngineWithSource(rand.NewSource(42))
}

// newPlayingRoom runs a room through create, join and both placements.
func newPlayingRoom(t *testing.T, engine *Engine) *entity.Room {
	t.Helper()

	room := engine.CreateRoom("AB12C3", alice)
	require.NoError(t, engine.AdmitSecondPlayer(room, bob))
	require.NoError(t, engine.PlaceShips(room, alice, validFleet()))
	require.NoError(t, engine.PlaceShips(room, bob, validFleet()))
	require.True(t, room.IsPlaying())

	return room
}

// fleetCells enumerates the 17 cells the canonical test fleet occupies.
func fleetCells() []entity.Coordinate {
	var cells []entity.Coordinate

	for _, placement := range validFleet() {
		cells = append(cells, entity.CellsFrom(placement.Start, placement.Length, placement.Orientation)...)
	}

	return cells
}

// openWater yields coordinates the canonical test fleet never touches; the
// fleet sits on even rows, so odd rows are all clear.
func openWater(n int) []entity.Coordinate {
	var cells []entity.Coordinate

	for y := 1; y < entity.BoardSize && len(cells) < n; y += 2 {
		for x := 0; x < entity.BoardSize && len(cells) < n; x++ {
			cells = append(cells, entity.Coordinate{X: x, Y: y})
		}
	}

	return cells
}

func TestEngine_CreateRoom(t *testing.T) {
	// When: creating a room
	room := newTestEngine().CreateRoom("AB12C3", alice)

	// Then: it waits for a second player with everything empty
	assert.Equal(t, "AB12C3", room.Code)
	assert.Equal(t, alice, room.Player1)
	assert.Empty(t, room.Player2)
	assert.True(t, room.IsWaiting())
	assert.Empty(t, room.Boards)
	assert.Empty(t, room.Ready)
	assert.False(t, room.CreatedAt.IsZero())
}

func TestEngine_AdmitSecondPlayer(t *testing.T) {
	t.Run("Seats the second player and moves to setup", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)

		err := engine.AdmitSecondPlayer(room, bob)

		require.NoError(t, err)
		assert.Equal(t, bob, room.Player2)
		assert.True(t, room.IsSetup())
	})

	t.Run("Rejects the creator joining their own room", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)

		err := engine.AdmitSecondPlayer(room, alice)

		require.ErrorIs(t, err, apperror.ErrCannotJoinOwnRoom)
		assert.True(t, room.IsWaiting())
	})

	t.Run("Rejects a third identity once both seats are taken", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)
		require.NoError(t, engine.AdmitSecondPlayer(room, bob))

		err := engine.AdmitSecondPlayer(room, "mallory")

		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Equal(t, bob, room.Player2)
	})

	t.Run("Rejects the same player joining twice", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)
		require.NoError(t, engine.AdmitSecondPlayer(room, bob))

		err := engine.AdmitSecondPlayer(room, bob)

		require.ErrorIs(t, err, apperror.ErrRoomFull)
	})
}

func TestEngine_PlaceShips(t *testing.T) {
	t.Run("Rejects a player not in the room", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)

		err := engine.PlaceShips(room, "mallory", validFleet())

		require.ErrorIs(t, err, apperror.ErrNotInRoom)
	})

	t.Run("First placement readies the player without starting the match", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)
		require.NoError(t, engine.AdmitSecondPlayer(room, bob))

		// When: alice places her fleet
		err := engine.PlaceShips(room, alice, validFleet())

		// Then: she is ready, her board and counters exist, match not started
		require.NoError(t, err)
		assert.True(t, room.Ready[alice])
		require.NotNil(t, room.Boards[alice])
		assert.Len(t, room.Boards[alice].Ships, 5)
		assert.Equal(t, &entity.PlayerStats{}, room.Stats[alice])
		assert.True(t, room.IsSetup())
		assert.Empty(t, room.Turn)
	})

	t.Run("Second placement starts the match with a valid first turn", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)
		require.NoError(t, engine.AdmitSecondPlayer(room, bob))
		require.NoError(t, engine.PlaceShips(room, alice, validFleet()))

		err := engine.PlaceShips(room, bob, validFleet())

		require.NoError(t, err)
		assert.True(t, room.IsPlaying())
		assert.False(t, room.StartedAt.IsZero())
		assert.Contains(t, []string{alice, bob}, room.Turn)
	})

	t.Run("Rejects placing twice", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)
		require.NoError(t, engine.AdmitSecondPlayer(room, bob))
		require.NoError(t, engine.PlaceShips(room, alice, validFleet()))

		err := engine.PlaceShips(room, alice, validFleet())

		require.ErrorIs(t, err, apperror.ErrShipsAlreadyPlaced)
	})

	t.Run("Validator failures leave the room untouched", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)
		require.NoError(t, engine.AdmitSecondPlayer(room, bob))

		// Given: a fleet with an out-of-bounds carrier
		fleet := validFleet()
		fleet[0].Start = entity.Coordinate{X: 6, Y: 0}

		err := engine.PlaceShips(room, alice, fleet)

		require.ErrorIs(t, err, ErrShipOutOfBounds)
		assert.False(t, room.Ready[alice])
		assert.Nil(t, room.Boards[alice])
	})

	t.Run("Both players get the first turn over repeated starts", func(t *testing.T) {
		// Given: 200 fresh matches between the same two identities
		first := make(map[string]int)

		for i := 0; i < 200; i++ {
			engine := NewEngineWithSource(rand.NewSource(int64(i)))
			room := engine.CreateRoom("AB12C3", alice)
			require.NoError(t, engine.AdmitSecondPlayer(room, bob))
			require.NoError(t, engine.PlaceShips(room, alice, validFleet()))
			require.NoError(t, engine.PlaceShips(room, bob, validFleet()))

			require.Contains(t, []string{alice, bob}, room.Turn)
			first[room.Turn]++
		}

		// Then: neither player is always picked
		assert.Positive(t, first[alice])
		assert.Positive(t, first[bob])
	})
}

func TestEngine_FireShot(t *testing.T) {
	t.Run("Rejects shots outside the playing state", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)
		require.NoError(t, engine.AdmitSecondPlayer(room, bob))

		_, err := engine.FireShot(room, alice, entity.Coordinate{X: 0, Y: 0})

		require.ErrorIs(t, err, apperror.ErrGameNotPlaying)
	})

	t.Run("Rejects shots out of turn", func(t *testing.T) {
		engine := newTestEngine()
		room := newPlayingRoom(t, engine)

		notMyTurn := room.Opponent(room.Turn)

		_, err := engine.FireShot(room, notMyTurn, entity.Coordinate{X: 0, Y: 0})

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Rejects coordinates outside the grid without mutating anything", func(t *testing.T) {
		engine := newTestEngine()
		room := newPlayingRoom(t, engine)

		shooter := room.Turn
		defender := room.Opponent(shooter)

		for _, coord := range []entity.Coordinate{
			{X: 42, Y: -3},
			{X: -1, Y: 0},
			{X: 0, Y: 10},
			{X: 10, Y: 9},
		} {
			_, err := engine.FireShot(room, shooter, coord)

			require.ErrorIs(t, err, apperror.ErrInvalidCoordinate, "coordinate %v", coord)
		}

		assert.Equal(t, &entity.PlayerStats{}, room.Stats[shooter])
		assert.Empty(t, room.Boards[defender].Misses)
		assert.Equal(t, shooter, room.Turn)
	})

	t.Run("A miss is recorded and the turn flips", func(t *testing.T) {
		engine := newTestEngine()
		room := newPlayingRoom(t, engine)

		shooter := room.Turn
		defender := room.Opponent(shooter)
		water := entity.Coordinate{X: 0, Y: 9}

		outcome, err := engine.FireShot(room, shooter, water)

		require.NoError(t, err)
		assert.Equal(t, OutcomeMiss, outcome.Kind)
		assert.Contains(t, room.Boards[defender].Misses, water)
		assert.Equal(t, &entity.PlayerStats{Shots: 1, Misses: 1}, room.Stats[shooter])
		assert.Equal(t, defender, room.Turn)
	})

	t.Run("A hit is recorded against the struck ship", func(t *testing.T) {
		engine := newTestEngine()
		room := newPlayingRoom(t, engine)

		shooter := room.Turn
		defender := room.Opponent(shooter)
		carrierCell := entity.Coordinate{X: 0, Y: 0}

		outcome, err := engine.FireShot(room, shooter, carrierCell)

		require.NoError(t, err)
		assert.Equal(t, OutcomeHit, outcome.Kind)
		assert.Equal(t, "Carrier", outcome.ShipName)
		assert.Contains(t, room.Boards[defender].Hits, carrierCell)
		assert.Equal(t, &entity.PlayerStats{Shots: 1, Hits: 1}, room.Stats[shooter])
		assert.Equal(t, 1, room.Boards[defender].ShipAt(carrierCell).Hits)
		assert.Equal(t, defender, room.Turn)
	})

	t.Run("Finishing a ship reports sunk", func(t *testing.T) {
		engine := newTestEngine()
		room := newPlayingRoom(t, engine)

		shooter := room.Turn
		defender := room.Opponent(shooter)
		water := openWater(1)[0]

		// When: the shooter takes out both destroyer cells, with the
		// defender missing in between to hand the turn back
		outcome, err := engine.FireShot(room, shooter, entity.Coordinate{X: 0, Y: 8})
		require.NoError(t, err)
		require.Equal(t, OutcomeHit, outcome.Kind)

		_, err = engine.FireShot(room, defender, water)
		require.NoError(t, err)

		outcome, err = engine.FireShot(room, shooter, entity.Coordinate{X: 1, Y: 8})
		require.NoError(t, err)

		// Then: the second hit sinks the destroyer
		assert.Equal(t, OutcomeSunk, outcome.Kind)
		assert.Equal(t, "Destroyer", outcome.ShipName)
		assert.True(t, room.Boards[defender].ShipAt(entity.Coordinate{X: 0, Y: 8}).Sunk)
	})

	t.Run("A repeated coordinate is rejected without mutating anything", func(t *testing.T) {
		engine := newTestEngine()
		room := newPlayingRoom(t, engine)

		shooter := room.Turn
		defender := room.Opponent(shooter)
		water := entity.Coordinate{X: 0, Y: 9}

		_, err := engine.FireShot(room, shooter, water)
		require.NoError(t, err)

		_, err = engine.FireShot(room, defender, water)
		require.NoError(t, err)

		// When: the original shooter repeats their own miss
		_, err = engine.FireShot(room, shooter, water)

		// Then: the shot is rejected and no counter moved
		require.ErrorIs(t, err, apperror.ErrAlreadyAttacked)
		assert.Equal(t, &entity.PlayerStats{Shots: 1, Misses: 1}, room.Stats[shooter])
		assert.Len(t, room.Boards[defender].Misses, 1)
		assert.Equal(t, shooter, room.Turn)
	})

	t.Run("Turn strictly alternates across many shots", func(t *testing.T) {
		engine := newTestEngine()
		room := newPlayingRoom(t, engine)

		// Given: 25 clear cells on each board, fired at alternately
		targets := openWater(25)

		for i := 0; i < 50; i++ {
			shooter := room.Turn
			expectedNext := room.Opponent(shooter)

			_, err := engine.FireShot(room, shooter, targets[i/2])
			require.NoError(t, err)

			assert.Equal(t, expectedNext, room.Turn, "shot %d", i)
		}
	})

	t.Run("Seventeen hits sink the fleet and finish the match", func(t *testing.T) {
		engine := newTestEngine()
		room := newPlayingRoom(t, engine)

		shooter := room.Turn
		defender := room.Opponent(shooter)
		water := openWater(20)

		// When: the shooter hits every fleet cell, the defender missing
		// in between to return the turn
		for i, cell := range fleetCells() {
			outcome, err := engine.FireShot(room, shooter, cell)
			require.NoError(t, err)
			require.NotEqual(t, OutcomeMiss, outcome.Kind)

			if i < TotalFleetCells-1 {
				_, err = engine.FireShot(room, defender, water[i])
				require.NoError(t, err)
			}
		}

		// Then: the match is over with the defender wiped out
		assert.True(t, room.IsFinished())
		assert.Equal(t, shooter, room.Winner)
		assert.Equal(t, ReasonAllShipsSunk, room.Reason)
		assert.Equal(t, 0, room.Boards[defender].ShipsRemaining())

		summary := engine.SummaryStats(room)
		assert.Equal(t, 0, summary[defender].ShipsRemaining)
		assert.Equal(t, TotalFleetCells, summary[shooter].Hits)
		assert.Equal(t, 5, summary[shooter].ShipsRemaining)

		// And: an eighteenth shot is rejected
		_, err := engine.FireShot(room, room.Turn, water[19])
		require.ErrorIs(t, err, apperror.ErrGameNotPlaying)
	})
}

func TestEngine_Forfeit(t *testing.T) {
	t.Run("Ends the match from any state", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)
		require.NoError(t, engine.AdmitSecondPlayer(room, bob))

		engine.Forfeit(room, bob, ReasonOpponentLeft)

		assert.True(t, room.IsFinished())
		assert.Equal(t, bob, room.Winner)
		assert.Equal(t, ReasonOpponentLeft, room.Reason)
	})

	t.Run("Also applies mid-game", func(t *testing.T) {
		engine := newTestEngine()
		room := newPlayingRoom(t, engine)

		engine.Forfeit(room, alice, ReasonTimeout)

		assert.True(t, room.IsFinished())
		assert.Equal(t, alice, room.Winner)
	})
}

func TestEngine_SummaryStats(t *testing.T) {
	t.Run("Covers players without boards", func(t *testing.T) {
		engine := newTestEngine()
		room := engine.CreateRoom("AB12C3", alice)

		summary := engine.SummaryStats(room)

		require.Contains(t, summary, alice)
		assert.Equal(t, PlayerSummary{}, summary[alice])
	})
}
