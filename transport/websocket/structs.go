package websocket

import (
	"encoding/json"

	"github.com/armadahq/battleship-backend/internal/battleship"
	"github.com/armadahq/battleship-backend/internal/entity"
)

// Message is the wire envelope in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// inbound actions.
const (
	ActionRoomCreate = "room:create"
	ActionRoomJoin   = "room:join"
	ActionRoomLeave  = "room:leave"
	ActionGamePlace  = "game:place"
	ActionGameFire   = "game:fire"
	ActionGameState  = "game:state"
)

// outbound events.
const (
	EventRoomCreated  = "room:created"
	EventPlayerJoined = "room:player_joined"
	EventOpponentLeft = "room:opponent_left"
	EventGameStarted  = "game:started"
	EventShipsPlaced  = "game:ships_placed"
	EventPlayersReady = "game:ready"
	EventTurnChanged  = "game:turn"
	EventShotResult   = "game:shot"
	EventShipSunk     = "game:sunk"
	EventGameOver     = "game:over"
	EventError        = "error"
)

type JoinRequest struct {
	Code string `json:"code"`
}

type PlaceRequest struct {
	Fleet []battleship.ShipPlacement `json:"fleet"`
}

type FireRequest struct {
	Coordinate entity.Coordinate `json:"coordinate"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type RoomCreatedPayload struct {
	Code string `json:"code"`
}

type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
}

type GameStartedPayload struct {
	Code    string   `json:"code"`
	Status  string   `json:"status"`
	Players []string `json:"players"`
}

type ShipsPlacedPayload struct {
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

type PlayersReadyPayload struct {
	FirstPlayer string `json:"first_player"`
}

type TurnChangedPayload struct {
	Turn     string `json:"turn"`
	YourTurn bool   `json:"your_turn"`
}

type ShipSunkPayload struct {
	ShipName string `json:"ship_name"`
	Defender string `json:"defender"`
}

type GameOverPayload struct {
	Winner string                              `json:"winner"`
	Loser  string                              `json:"loser"`
	Reason string                              `json:"reason"`
	Stats  map[string]battleship.PlayerSummary `json:"stats"`
}

type OpponentLeftPayload struct {
	PlayerID string `json:"player_id"`
	Winner   string `json:"winner,omitempty"`
}

// PlayerInfo is the public slice of a player another player may see.
type PlayerInfo struct {
	ID    string `json:"id"`
	Ready bool   `json:"ready"`
}

// OwnBoardView is the caller's own board: full ship layout plus the
// opponent's recorded shots against it.
type OwnBoardView struct {
	Ships  []*entity.Ship      `json:"ships"`
	Hits   []entity.Coordinate `json:"hits"`
	Misses []entity.Coordinate `json:"misses"`
}

// OpponentBoardView is the opponent's board as the caller may see it: only
// the caller's own hits and misses, plus ships already sunk. Unsunk ship
// positions never leave the server.
type OpponentBoardView struct {
	Hits      []entity.Coordinate `json:"hits"`
	Misses    []entity.Coordinate `json:"misses"`
	SunkShips []*entity.Ship      `json:"sunk_ships"`
}

type GameStatePayload struct {
	Code     string             `json:"code"`
	Status   string             `json:"status"`
	Turn     string             `json:"turn,omitempty"`
	Players  []PlayerInfo       `json:"players"`
	Own      *OwnBoardView      `json:"own_board,omitempty"`
	Opponent *OpponentBoardView `json:"opponent_board,omitempty"`
}

// buildGameState assembles the masked per-caller snapshot of a room.
func buildGameState(room *entity.Room, callerID string) *GameStatePayload {
	state := &GameStatePayload{
		Code:   room.Code,
		Status: room.Status,
		Turn:   room.Turn,
	}

	for _, playerID := range room.Players() {
		state.Players = append(state.Players, PlayerInfo{
			ID:    playerID,
			Ready: room.Ready[playerID],
		})
	}

	if board, ok := room.Boards[callerID]; ok {
		state.Own = &OwnBoardView{
			Ships:  board.Ships,
			Hits:   board.Hits,
			Misses: board.Misses,
		}
	}

	opponentID := room.Opponent(callerID)
	if board, ok := room.Boards[opponentID]; ok {
		state.Opponent = &OpponentBoardView{
			Hits:      board.Hits,
			Misses:    board.Misses,
			SunkShips: board.SunkShips(),
		}
	}

	return state
}
