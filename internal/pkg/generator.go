package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"github.com/google/uuid"

	"github.com/armadahq/battleship-backend/internal/entity"
)

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var roomCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// GenerateRoomCode draws a 6-character code from {A-Z,0-9} using a
// crypto-grade source. Collisions are handled by the caller with a bounded
// retry.
func GenerateRoomCode() (string, error) {
	code := make([]byte, entity.RoomCodeLength)

	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to draw random index: %w", err)
		}

		code[i] = roomCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}

// IsRoomCode reports whether a client-supplied string has the exact room code
// shape.
func IsRoomCode(code string) bool {
	return roomCodePattern.MatchString(code)
}

// GenerateMatchID returns an opaque id for a persisted match record.
func GenerateMatchID() string {
	return uuid.NewString()
}
