package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/armadahq/battleship-backend/internal/battleship"
	"github.com/armadahq/battleship-backend/internal/entity"
)

func (that *Server) handleRoomCreate(ctx context.Context, cl *client, _ *Message) error {
	log := that.logger.With("method", "handleRoomCreate", "playerID", cl.playerID)

	room, err := that.uGame.CreateRoom(ctx, cl.playerID)
	if err != nil {
		log.Error("failed to create room", "error", err)
		that.sendError(cl, "failed to create room")

		return nil
	}

	cl.enqueue(that.logger, EventRoomCreated, RoomCreatedPayload{Code: room.Code})

	log.Info("room created", "room", room.Code)

	return nil
}

func (that *Server) handleRoomJoin(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleRoomJoin", "playerID", cl.playerID)

	var request JoinRequest
	if err := json.Unmarshal(msg.Payload, &request); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.uGame.JoinRoom(ctx, request.Code, cl.playerID)
	if err != nil {
		log.Info("failed to join room", "room", request.Code, "error", err)
		that.sendError(cl, reason(err))

		return nil
	}

	that.broadcast(room, EventPlayerJoined, PlayerJoinedPayload{PlayerID: cl.playerID})

	that.broadcast(room, EventGameStarted, GameStartedPayload{
		Code:    room.Code,
		Status:  room.Status,
		Players: room.Players(),
	})

	log.Info("player joined room", "room", room.Code)

	return nil
}

func (that *Server) handleRoomLeave(ctx context.Context, cl *client, _ *Message) error {
	log := that.logger.With("method", "handleRoomLeave", "playerID", cl.playerID)

	room, err := that.uGame.LeaveRoom(ctx, cl.playerID)
	if err != nil {
		log.Error("failed to leave room", "error", err)
		that.sendError(cl, "failed to leave room")

		return nil
	}

	if room != nil {
		that.notifyOpponentLeft(room, cl.playerID)

		// forfeited rooms get the same delayed eviction as won ones
		if room.IsFinished() {
			that.scheduleRoomCleanup(room)
		}
	}

	log.Info("player left room")

	return nil
}

func (that *Server) handlePlaceShips(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handlePlaceShips", "playerID", cl.playerID)

	var request PlaceRequest
	if err := json.Unmarshal(msg.Payload, &request); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.uGame.PlaceShips(ctx, cl.playerID, request.Fleet)
	if err != nil {
		log.Info("placement rejected", "error", err)
		that.sendError(cl, reason(err))

		return nil
	}

	that.broadcast(room, EventShipsPlaced, ShipsPlacedPayload{
		PlayerID: cl.playerID,
		Ready:    true,
	})

	// second placement just landed: match is on, announce the first turn
	if room.IsPlaying() {
		that.broadcast(room, EventPlayersReady, PlayersReadyPayload{FirstPlayer: room.Turn})
		that.sendTurnChanged(room)
	}

	log.Info("ships placed", "room", room.Code)

	return nil
}

func (that *Server) handleFireShot(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleFireShot", "playerID", cl.playerID)

	var request FireRequest
	if err := json.Unmarshal(msg.Payload, &request); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, outcome, err := that.uGame.FireShot(ctx, cl.playerID, request.Coordinate)
	if err != nil {
		log.Info("shot rejected", "error", err)
		that.sendError(cl, reason(err))

		return nil
	}

	that.broadcast(room, EventShotResult, outcome)

	if outcome.Kind == battleship.OutcomeSunk {
		that.broadcast(room, EventShipSunk, ShipSunkPayload{
			ShipName: outcome.ShipName,
			Defender: outcome.Defender,
		})
	}

	if room.IsFinished() {
		that.broadcast(room, EventGameOver, GameOverPayload{
			Winner: room.Winner,
			Loser:  room.Opponent(room.Winner),
			Reason: room.Reason,
			Stats:  that.uGame.SummaryStats(room),
		})

		that.scheduleRoomCleanup(room)

		log.Info("game over", "room", room.Code, "winner", room.Winner)

		return nil
	}

	that.sendTurnChanged(room)

	return nil
}

func (that *Server) handleGameState(ctx context.Context, cl *client, _ *Message) error {
	room, err := that.uGame.GameState(ctx, cl.playerID)
	if err != nil {
		that.sendError(cl, reason(err))
		return nil
	}

	cl.enqueue(that.logger, ActionGameState, buildGameState(room, cl.playerID))

	return nil
}

// sendTurnChanged tells each player individually whether the turn is theirs.
func (that *Server) sendTurnChanged(room *entity.Room) {
	for _, playerID := range room.Players() {
		that.sendTo(playerID, EventTurnChanged, TurnChangedPayload{
			Turn:     room.Turn,
			YourTurn: room.Turn == playerID,
		})
	}
}
