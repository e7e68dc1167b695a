package entity

import "time"

const (
	StatusWaiting  = "waiting"
	StatusSetup    = "setup"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

const (
	// RoomCodeLength is the length of the public room code, drawn from {A-Z,0-9}.
	RoomCodeLength = 6

	MaxPlayers = 2
)

// PlayerStats are the shooter-side counters kept per player for the lifetime
// of a room.
type PlayerStats struct {
	Shots  int `json:"shots"`
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Room is one match's complete authoritative state, identified by its code.
// Status only ever moves forward: waiting -> setup -> playing -> finished.
type Room struct {
	Code    string `json:"code"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2,omitempty"`

	Status string `json:"status"`
	Turn   string `json:"turn,omitempty"`
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`

	Boards map[string]*Board       `json:"boards"`
	Ready  map[string]bool         `json:"ready"`
	Stats  map[string]*PlayerStats `json:"stats"`

	MatchID string `json:"match_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	StartedAt time.Time `json:"started_at,omitempty"`
}

func NewRoom(code, player1 string) *Room {
	return &Room{
		Code:      code,
		Player1:   player1,
		Status:    StatusWaiting,
		Boards:    make(map[string]*Board),
		Ready:     make(map[string]bool),
		Stats:     make(map[string]*PlayerStats),
		CreatedAt: time.Now(),
	}
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsSetup() bool {
	return that.Status == StatusSetup
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

// HasPlayer reports whether the identity belongs to this room.
func (that *Room) HasPlayer(playerID string) bool {
	return playerID != "" && (playerID == that.Player1 || playerID == that.Player2)
}

// Opponent returns the other player's identity, or "" if the player is
// unknown to the room or no second player has joined yet.
func (that *Room) Opponent(playerID string) string {
	switch playerID {
	case that.Player1:
		return that.Player2
	case that.Player2:
		return that.Player1
	default:
		return ""
	}
}

func (that *Room) Players() []string {
	players := []string{that.Player1}
	if that.Player2 != "" {
		players = append(players, that.Player2)
	}

	return players
}

// BothReady is true once both players are present and both have confirmed
// their ship placement.
func (that *Room) BothReady() bool {
	return that.Player2 != "" && that.Ready[that.Player1] && that.Ready[that.Player2]
}
