package battleship

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/armadahq/battleship-backend/internal/apperror"
	"github.com/armadahq/battleship-backend/internal/entity"
)

const (
	OutcomeHit  = "hit"
	OutcomeMiss = "miss"
	OutcomeSunk = "sunk"
)

const (
	ReasonAllShipsSunk = "all_ships_sunk"
	ReasonOpponentLeft = "opponent_left"
	ReasonTimeout      = "timeout"
)

// ShotOutcome describes one resolved shot for broadcasting.
type ShotOutcome struct {
	Coordinate entity.Coordinate `json:"coordinate"`
	Kind       string            `json:"kind"`
	ShipID     string            `json:"ship_id,omitempty"`
	ShipName   string            `json:"ship_name,omitempty"`
	Shooter    string            `json:"shooter"`
	Defender   string            `json:"defender"`
	GameOver   bool              `json:"game_over"`
}

// PlayerSummary is the derived per-player view of a room's stats.
type PlayerSummary struct {
	Shots          int `json:"shots"`
	Hits           int `json:"hits"`
	Misses         int `json:"misses"`
	ShipsRemaining int `json:"ships_remaining"`
}

// Engine is the authoritative match state machine. Every operation takes a
// room snapshot and either mutates it fully or returns an error with the
// snapshot untouched. The randomness source is injectable so tests can pin
// the first-turn choice.
type Engine struct {
	rng *rand.Rand
}

func NewEngine() *Engine {
	return NewEngineWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewEngineWithSource(source rand.Source) *Engine {
	return &Engine{rng: rand.New(source)} //nolint:gosec // turn choice is not a secret
}

// CreateRoom builds a fresh waiting room. Code uniqueness is the directory's
// responsibility.
func (that *Engine) CreateRoom(code, player1 string) *entity.Room {
	return entity.NewRoom(code, player1)
}

// AdmitSecondPlayer seats the second player and moves the room to setup.
func (that *Engine) AdmitSecondPlayer(room *entity.Room, player2 string) error {
	if room.Player2 != "" {
		return apperror.ErrRoomFull
	}

	if player2 == room.Player1 {
		return apperror.ErrCannotJoinOwnRoom
	}

	if !room.IsWaiting() {
		return apperror.ErrRoomNotWaiting
	}

	room.Player2 = player2
	room.Status = entity.StatusSetup

	return nil
}

// PlaceShips validates and installs a player's fleet. When this completes the
// second placement, the match starts and the first turn is chosen uniformly
// at random between the two players.
func (that *Engine) PlaceShips(room *entity.Room, playerID string, placements []ShipPlacement) error {
	if !room.HasPlayer(playerID) {
		return apperror.ErrNotInRoom
	}

	if room.Ready[playerID] {
		return apperror.ErrShipsAlreadyPlaced
	}

	ships, err := ValidateFleet(placements)
	if err != nil {
		return err
	}

	room.Boards[playerID] = &entity.Board{Ships: ships}
	room.Ready[playerID] = true
	room.Stats[playerID] = &entity.PlayerStats{}

	if room.BothReady() {
		room.Status = entity.StatusPlaying
		room.StartedAt = time.Now()

		if that.rng.Intn(2) == 0 {
			room.Turn = room.Player1
		} else {
			room.Turn = room.Player2
		}
	}

	return nil
}

// FireShot arbitrates one shot. The turn flips to the defender after every
// resolved shot, winning or not; nothing reads it once the room is finished.
func (that *Engine) FireShot(room *entity.Room, shooterID string, coord entity.Coordinate) (*ShotOutcome, error) {
	if !room.IsPlaying() {
		return nil, apperror.ErrGameNotPlaying
	}

	if room.Turn != shooterID {
		return nil, apperror.ErrNotYourTurn
	}

	if !coord.IsValid() {
		return nil, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCoordinate, coord.X, coord.Y)
	}

	defenderID := room.Opponent(shooterID)

	board, ok := room.Boards[defenderID]
	if !ok {
		return nil, apperror.ErrBoardNotFound
	}

	if board.WasAttacked(coord) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrAlreadyAttacked, coord.Display())
	}

	outcome := &ShotOutcome{
		Coordinate: coord,
		Shooter:    shooterID,
		Defender:   defenderID,
	}

	stats := room.Stats[shooterID]
	stats.Shots++

	if ship := board.ShipAt(coord); ship != nil {
		board.Hits = append(board.Hits, coord)
		stats.Hits++

		wasSunk := ship.Sunk
		ship.RegisterHit()

		outcome.Kind = OutcomeHit
		if ship.Sunk && !wasSunk {
			outcome.Kind = OutcomeSunk
		}

		outcome.ShipID = ship.ID
		outcome.ShipName = ship.Name
	} else {
		board.Misses = append(board.Misses, coord)
		stats.Misses++
		outcome.Kind = OutcomeMiss
	}

	if board.AllSunk() {
		room.Status = entity.StatusFinished
		room.Winner = shooterID
		room.Reason = ReasonAllShipsSunk
		outcome.GameOver = true
	}

	room.Turn = defenderID

	return outcome, nil
}

// Forfeit ends the match unconditionally, whatever its current status. It
// models abnormal external termination (opponent left, per-turn timeout).
func (that *Engine) Forfeit(room *entity.Room, winnerID, reason string) {
	room.Status = entity.StatusFinished
	room.Winner = winnerID
	room.Reason = reason
}

// SummaryStats derives the per-player summary from the boards and counters;
// it is never stored separately.
func (that *Engine) SummaryStats(room *entity.Room) map[string]PlayerSummary {
	summary := make(map[string]PlayerSummary, entity.MaxPlayers)

	for _, playerID := range room.Players() {
		entry := PlayerSummary{}

		if stats, ok := room.Stats[playerID]; ok {
			entry.Shots = stats.Shots
			entry.Hits = stats.Hits
			entry.Misses = stats.Misses
		}

		if board, ok := room.Boards[playerID]; ok {
			entry.ShipsRemaining = board.ShipsRemaining()
		}

		summary[playerID] = entry
	}

	return summary
}
