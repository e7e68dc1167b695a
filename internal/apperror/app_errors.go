package apperror

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrRoomAlreadyExists  = errors.New("room already exists")
	ErrCannotJoinOwnRoom  = errors.New("cannot join your own room")
	ErrInvalidRoomCode    = errors.New("invalid room code")
	ErrNotInRoom          = errors.New("player is not in this room")
	ErrRoomNotWaiting     = errors.New("room is no longer waiting for players")
	ErrGameNotPlaying     = errors.New("game is not in playing state")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrShipsAlreadyPlaced = errors.New("ships already placed")
	ErrAlreadyAttacked    = errors.New("coordinate already attacked")
	ErrInvalidCoordinate  = errors.New("coordinate is outside the board")
	ErrBoardNotFound      = errors.New("defender board not found")
	ErrCodeExhausted      = errors.New("could not generate a unique room code")
)
