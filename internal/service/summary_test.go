package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadahq/battleship-backend/internal/battleship"
	"github.com/armadahq/battleship-backend/internal/entity"
	"github.com/armadahq/battleship-backend/internal/repository"
)

// fakeMatchRepo delivers saved records on a channel so tests can wait for
// the emitter's goroutine.
type fakeMatchRepo struct {
	saved chan *repository.MatchRecord
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{saved: make(chan *repository.MatchRecord, 1)}
}

func (that *fakeMatchRepo) SaveCompleted(_ context.Context, record *repository.MatchRecord) error {
	that.saved <- record

	return nil
}

func (that *fakeMatchRepo) Leaderboard(_ context.Context, _ int) ([]repository.LeaderboardEntry, error) {
	return nil, nil
}

func (that *fakeMatchRepo) waitForRecord(t *testing.T) *repository.MatchRecord {
	t.Helper()

	select {
	case record := <-that.saved:
		return record
	case <-time.After(2 * time.Second):
		t.Fatal("no match record was saved")

		return nil
	}
}

func (that *fakeMatchRepo) assertNothingSaved(t *testing.T) {
	t.Helper()

	select {
	case record := <-that.saved:
		t.Fatalf("unexpected match record saved: %+v", record)
	case <-time.After(100 * time.Millisecond):
	}
}

// finishedRoom builds a played-out room won by alice sinking the fleet.
func finishedRoom() *entity.Room {
	room := entity.NewRoom("AB12C3", "alice")
	room.Player2 = "bob"
	room.Status = entity.StatusFinished
	room.Winner = "alice"
	room.Reason = battleship.ReasonAllShipsSunk
	room.MatchID = "match-1"
	room.Stats["alice"] = &entity.PlayerStats{Shots: 20, Hits: 17, Misses: 3}
	room.Stats["bob"] = &entity.PlayerStats{Shots: 19, Hits: 5, Misses: 14}

	return room
}

func TestSummaryEmitter_Emit(t *testing.T) {
	t.Run("Persists a completed match with both players' stats", func(t *testing.T) {
		matchRepo := newFakeMatchRepo()
		emitter := NewSummaryEmitter(discardLogger(), matchRepo, battleship.NewEngine())

		// When: a naturally-finished room is emitted
		emitter.Emit(finishedRoom())

		// Then: the stored record carries winner, status and stats
		record := matchRepo.waitForRecord(t)
		assert.Equal(t, "match-1", record.ID)
		assert.Equal(t, "alice", record.Winner)
		assert.Equal(t, repository.MatchStatusCompleted, record.Status)
		assert.Equal(t, battleship.ReasonAllShipsSunk, record.Reason)

		require.Contains(t, record.PlayerStats, "alice")
		assert.Equal(t, 17, record.PlayerStats["alice"].Hits)
		require.Contains(t, record.PlayerStats, "bob")
		assert.Equal(t, 19, record.PlayerStats["bob"].Shots)
	})

	t.Run("A forfeited match is recorded as abandoned", func(t *testing.T) {
		matchRepo := newFakeMatchRepo()
		emitter := NewSummaryEmitter(discardLogger(), matchRepo, battleship.NewEngine())

		room := finishedRoom()
		room.Winner = "bob"
		room.Reason = battleship.ReasonOpponentLeft

		emitter.Emit(room)

		record := matchRepo.waitForRecord(t)
		assert.Equal(t, repository.MatchStatusAbandoned, record.Status)
		assert.Equal(t, battleship.ReasonOpponentLeft, record.Reason)
	})

	t.Run("Skips rooms that are not finished", func(t *testing.T) {
		matchRepo := newFakeMatchRepo()
		emitter := NewSummaryEmitter(discardLogger(), matchRepo, battleship.NewEngine())

		room := finishedRoom()
		room.Status = entity.StatusPlaying

		emitter.Emit(room)

		matchRepo.assertNothingSaved(t)
	})

	t.Run("Skips matches that never started", func(t *testing.T) {
		matchRepo := newFakeMatchRepo()
		emitter := NewSummaryEmitter(discardLogger(), matchRepo, battleship.NewEngine())

		// Given: a forfeit during setup, before any match id was assigned
		room := finishedRoom()
		room.MatchID = ""

		emitter.Emit(room)

		matchRepo.assertNothingSaved(t)
	})
}
