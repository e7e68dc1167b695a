package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/armadahq/battleship-backend/internal/battleship"
	"github.com/armadahq/battleship-backend/internal/config"
	"github.com/armadahq/battleship-backend/internal/repository"
	"github.com/armadahq/battleship-backend/internal/repository/storage"
	"github.com/armadahq/battleship-backend/internal/service"
	"github.com/armadahq/battleship-backend/internal/usecase"
	"github.com/armadahq/battleship-backend/transport/rest"
	"github.com/armadahq/battleship-backend/transport/websocket"
)

var (
	ErrRedisAddrNotFound = errors.New("redis address string is empty")
	ErrPostgresURLEmpty  = errors.New("postgres url is empty")
)

// RunApp - wires every component together and runs the application until a
// signal or a server failure.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddr := conf.Redis.Addr()
	if redisAddr == "" {
		return ErrRedisAddrNotFound
	}

	if conf.PostgresURL == "" {
		return ErrPostgresURLEmpty
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddr)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	postgresStorage, err := storage.NewPostgresStorage(conf.PostgresURL)
	if err != nil {
		return fmt.Errorf("could not connect to postgres storage: %w", err)
	}

	defer func() {
		if err = postgresStorage.Close(); err != nil {
			log.Error("could not close postgres storage", "error", err)
		}
	}()

	if err = postgresStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init postgres schema: %w", err)
	}

	roomRepo := repository.NewRoomRepository(redisStorage.Connection, conf.RoomTTL)
	matchRepo := repository.NewMatchRepository(postgresStorage.Connection)

	engine := battleship.NewEngine()
	locker := service.NewRoomLocker()

	summaryEmitter := service.NewSummaryEmitter(logger, matchRepo, engine)
	roomService := service.NewRoomService(logger, roomRepo, engine, locker, summaryEmitter)
	gamePlayService := service.NewGamePlayService(logger, roomRepo, engine, locker, summaryEmitter)
	leaderboardService := service.NewLeaderboardService(matchRepo)

	gameUseCase := usecase.NewGameUseCase(roomService, gamePlayService)

	leaderboardHandler := rest.NewLeaderboardHandler(logger, leaderboardService)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(logger, conf.HTTPPort, leaderboardHandler); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase, conf.JWTSecretKey, conf.RoomCleanupDelay)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
