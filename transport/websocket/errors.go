package websocket

import (
	"errors"

	"github.com/armadahq/battleship-backend/internal/apperror"
	"github.com/armadahq/battleship-backend/internal/battleship"
)

// recoverable errors whose text is safe to hand straight to the caller.
var clientSafeErrors = []error{
	apperror.ErrRoomNotFound,
	apperror.ErrRoomFull,
	apperror.ErrCannotJoinOwnRoom,
	apperror.ErrInvalidRoomCode,
	apperror.ErrNotInRoom,
	apperror.ErrRoomNotWaiting,
	apperror.ErrGameNotPlaying,
	apperror.ErrNotYourTurn,
	apperror.ErrShipsAlreadyPlaced,
	apperror.ErrAlreadyAttacked,
	apperror.ErrInvalidCoordinate,
	apperror.ErrBoardNotFound,
	apperror.ErrCodeExhausted,
	battleship.ErrWrongShipCount,
	battleship.ErrFleetComposition,
	battleship.ErrInvalidShipType,
	battleship.ErrWrongShipSize,
	battleship.ErrInvalidOrientation,
	battleship.ErrShipOutOfBounds,
	battleship.ErrShipOverlap,
}

// reason maps an error to the message reported to the offending caller.
// Anything outside the known taxonomy stays opaque.
func reason(err error) string {
	for _, known := range clientSafeErrors {
		if errors.Is(err, known) {
			return err.Error()
		}
	}

	return "internal error"
}
