package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/armadahq/battleship-backend/internal/battleship"
	"github.com/armadahq/battleship-backend/internal/entity"
)

type gameUseCase interface {
	CreateRoom(ctx context.Context, playerID string) (*entity.Room, error)
	JoinRoom(ctx context.Context, code, playerID string) (*entity.Room, error)
	LeaveRoom(ctx context.Context, playerID string) (*entity.Room, error)
	DeleteRoom(ctx context.Context, room *entity.Room) error

	PlaceShips(ctx context.Context, playerID string, placements []battleship.ShipPlacement) (*entity.Room, error)
	FireShot(ctx context.Context, playerID string, coord entity.Coordinate) (*entity.Room, *battleship.ShotOutcome, error)
	GameState(ctx context.Context, playerID string) (*entity.Room, error)

	SummaryStats(room *entity.Room) map[string]battleship.PlayerSummary
}

type Server struct {
	logger *slog.Logger
	uGame  gameUseCase

	jwtSecret    string
	cleanupDelay time.Duration

	upgrader websocket.Upgrader

	clientsMutex sync.RWMutex
	clients      map[string]*client

	handlers map[string]func(ctx context.Context, cl *client, message *Message) error
}

func New(logger *slog.Logger, uGame gameUseCase, jwtSecret string, cleanupDelay time.Duration) *Server {
	server := &Server{
		logger:       logger,
		uGame:        uGame,
		jwtSecret:    jwtSecret,
		cleanupDelay: cleanupDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:  make(map[string]*client),
		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[ActionRoomCreate] = server.handleRoomCreate
	server.handlers[ActionRoomJoin] = server.handleRoomJoin
	server.handlers[ActionRoomLeave] = server.handleRoomLeave
	server.handlers[ActionGamePlace] = server.handlePlaceShips
	server.handlers[ActionGameFire] = server.handleFireShot
	server.handlers[ActionGameState] = server.handleGameState

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     cors.AllowAll().Handler(mux),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS authenticates the request, upgrades it and runs the read loop.
func (that *Server) serveWS(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	playerID, err := identityFromRequest(req, that.jwtSecret)
	if err != nil {
		log.Info("rejected unauthenticated connection", "error", err)
		http.Error(writer, "unauthorized", http.StatusUnauthorized)

		return
	}

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := newClient(playerID, conn)

	that.clientsMutex.Lock()
	that.clients[playerID] = cl
	that.clientsMutex.Unlock()

	log.Info("player connected", "playerID", playerID)

	go cl.writePump(that.logger)
	that.readPump(ctx, cl)
}

func (that *Server) readPump(ctx context.Context, cl *client) {
	defer that.handleDisconnect(ctx, cl)

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			that.sendError(cl, "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(cl, fmt.Sprintf("unknown action %q", message.Action))
			continue
		}

		if err = handler(ctx, cl, &message); err != nil {
			that.logger.Error("failed to handle message", "action", message.Action, "playerID", cl.playerID, "error", err)
		}
	}
}

// handleDisconnect drops the connection and forfeits the player's active
// match, if any, in favor of the opponent.
func (that *Server) handleDisconnect(ctx context.Context, cl *client) {
	log := that.logger.With("method", "handleDisconnect", "playerID", cl.playerID)

	that.clientsMutex.Lock()
	if current, ok := that.clients[cl.playerID]; ok && current == cl {
		delete(that.clients, cl.playerID)
	}
	that.clientsMutex.Unlock()

	cl.shutdown()

	room, err := that.uGame.LeaveRoom(ctx, cl.playerID)
	if err != nil {
		log.Error("failed to leave room on disconnect", "error", err)
		return
	}

	if room != nil {
		that.notifyOpponentLeft(room, cl.playerID)

		if room.IsFinished() {
			that.scheduleRoomCleanup(room)
		}
	}

	log.Info("player disconnected")
}

func (that *Server) notifyOpponentLeft(room *entity.Room, leaverID string) {
	opponentID := room.Opponent(leaverID)
	if opponentID == "" {
		return
	}

	that.sendTo(opponentID, EventOpponentLeft, OpponentLeftPayload{
		PlayerID: leaverID,
		Winner:   room.Winner,
	})
}

// sendTo queues one event for one player, if connected.
func (that *Server) sendTo(playerID, action string, payload any) {
	that.clientsMutex.RLock()
	cl, ok := that.clients[playerID]
	that.clientsMutex.RUnlock()

	if !ok {
		return
	}

	cl.enqueue(that.logger, action, payload)
}

// broadcast queues one event for every player of the room.
func (that *Server) broadcast(room *entity.Room, action string, payload any) {
	for _, playerID := range room.Players() {
		that.sendTo(playerID, action, payload)
	}
}

func (that *Server) sendError(cl *client, message string) {
	cl.enqueue(that.logger, EventError, ErrorPayload{Message: message})
}

// scheduleRoomCleanup evicts a finished room after the configured delay; the
// directory TTL remains the safety net if the process dies first.
func (that *Server) scheduleRoomCleanup(room *entity.Room) {
	time.AfterFunc(that.cleanupDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := that.uGame.DeleteRoom(ctx, room); err != nil {
			that.logger.Error("failed to clean up finished room", "room", room.Code, "error", err)
		}
	})
}
