package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
)

func Start(logger *slog.Logger, port string, leaderboard LeaderboardHandler) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/leaderboard", leaderboard.Leaderboard)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      cors.AllowAll().Handler(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	logger.Info("REST server listening", "port", port)

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
