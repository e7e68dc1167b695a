package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	MatchStatusInProgress = "in_progress"
	MatchStatusCompleted  = "completed"
	MatchStatusAbandoned  = "abandoned"
)

// MatchRecord is the persisted shape of one finished match.
type MatchRecord struct {
	ID        string
	Player1   string
	Player2   string
	Winner    string
	Status    string
	Reason    string
	CreatedAt time.Time
	EndedAt   time.Time

	PlayerStats map[string]MatchPlayerStats
}

type MatchPlayerStats struct {
	Shots  int
	Hits   int
	Misses int
}

// LeaderboardEntry is one row of the aggregated user stats view.
type LeaderboardEntry struct {
	PlayerID    string `json:"player_id"`
	GamesPlayed int    `json:"games_played"`
	GamesWon    int    `json:"games_won"`
	GamesLost   int    `json:"games_lost"`
	TotalShots  int    `json:"total_shots"`
	TotalHits   int    `json:"total_hits"`
}

type MatchRepository interface {
	SaveCompleted(ctx context.Context, record *MatchRecord) error
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type dbMatch struct {
	db *sql.DB
}

func NewMatchRepository(db *sql.DB) MatchRepository {
	return &dbMatch{db: db}
}

// SaveCompleted writes the match record and bumps both players' aggregate
// stats in one transaction.
func (that *dbMatch) SaveCompleted(ctx context.Context, record *MatchRecord) error {
	tx, err := that.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	winner := sql.NullString{String: record.Winner, Valid: record.Winner != ""}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (id, player1, player2, winner, status, reason, created_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET winner = $4, status = $5, reason = $6, ended_at = $8`,
		record.ID, record.Player1, record.Player2, winner, record.Status, record.Reason, record.CreatedAt, record.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	for playerID, stats := range record.PlayerStats {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO match_players (match_id, player_id, shots, hits, misses)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (match_id, player_id) DO UPDATE SET shots = $3, hits = $4, misses = $5`,
			record.ID, playerID, stats.Shots, stats.Hits, stats.Misses,
		)
		if err != nil {
			return fmt.Errorf("failed to save match player stats: %w", err)
		}

		won := 0
		lost := 0
		if playerID == record.Winner {
			won = 1
		} else {
			lost = 1
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_stats (player_id, games_played, games_won, games_lost, total_shots, total_hits)
			 VALUES ($1, 1, $2, $3, $4, $5)
			 ON CONFLICT (player_id) DO UPDATE SET
				games_played = user_stats.games_played + 1,
				games_won = user_stats.games_won + $2,
				games_lost = user_stats.games_lost + $3,
				total_shots = user_stats.total_shots + $4,
				total_hits = user_stats.total_hits + $5`,
			playerID, won, lost, stats.Shots, stats.Hits,
		)
		if err != nil {
			return fmt.Errorf("failed to update user stats: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (that *dbMatch) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := that.db.QueryContext(ctx,
		`SELECT player_id, games_played, games_won, games_lost, total_shots, total_hits
		 FROM user_stats
		 ORDER BY games_won DESC, games_played ASC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry

	for rows.Next() {
		var entry LeaderboardEntry
		if err = rows.Scan(&entry.PlayerID, &entry.GamesPlayed, &entry.GamesWon, &entry.GamesLost, &entry.TotalShots, &entry.TotalHits); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard rows: %w", err)
	}

	return entries, nil
}
