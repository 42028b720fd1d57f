package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/ctxlogger"
	"github.com/watchparty/server/pkg/wsconn"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (c controller) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}
	defer ws.Close()

	conn := wsconn.New(ws)

	participantId := uuid.NewString()
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("participant_id", participantId))
	ctx = context.WithValue(ctx, participantIdCtxKey, participantId)

	if err := c.roomService.ConnectParticipant(ctx, &room.ConnectParticipantParams{
		Conn:          conn,
		ParticipantId: participantId,
	}); err != nil {
		c.logger.InfoContext(ctx, "failed to register connection", "error", err)
		return
	}

	c.logger.InfoContext(ctx, "participant connected")

	if err := c.wsRouter.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "read loop ended", "error", err)
	}

	c.handleDisconnect(ctx, participantId)
}

func (c controller) handleDisconnect(ctx context.Context, participantId string) {
	resp, err := c.roomService.DisconnectParticipant(ctx, &room.DisconnectParticipantParams{
		SenderId: participantId,
	})
	if err != nil {
		c.logger.InfoContext(ctx, "failed to disconnect participant", "error", err)
		return
	}

	for _, update := range resp.Updates {
		if update.IsRoomDeleted {
			continue
		}

		c.broadcast(ctx, update.Conns, &Output{
			Type:    "users-updated",
			Payload: update.Members,
		})
	}

	c.logger.InfoContext(ctx, "participant disconnected")
}

type JoinRoomInput struct {
	RoomId string `json:"room_id" validate:"required,max=64"`
}

func (c controller) handleJoinRoom(ctx context.Context, conn *wsconn.Conn, payload json.RawMessage) error {
	var input JoinRoomInput
	if err := c.unmarshalAndValidate(ctx, conn, payload, &input); err != nil {
		return err
	}

	ctx = ctxlogger.AppendCtx(ctx, slog.String("room_id", input.RoomId))

	resp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		RoomId:   input.RoomId,
		SenderId: c.getParticipantIdFromCtx(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	if err := conn.WriteJSON(&Output{
		Type: "room-joined",
		Payload: map[string]any{
			"room_id": input.RoomId,
			"members": resp.Members,
			"is_host": resp.IsHost,
			"media":   resp.Media,
		},
	}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	c.broadcast(ctx, resp.Conns, &Output{
		Type:    "users-updated",
		Payload: resp.Members,
	})

	return nil
}

type ShareMediaInput struct {
	RoomId string `json:"room_id" validate:"required,max=64"`
	URL    string `json:"url" validate:"required,max=2048"`
	Kind   string `json:"kind" validate:"omitempty,oneof=video image stream"`
}

func (c controller) handleShareMedia(ctx context.Context, conn *wsconn.Conn, payload json.RawMessage) error {
	var input ShareMediaInput
	if err := c.unmarshalAndValidate(ctx, conn, payload, &input); err != nil {
		return err
	}

	resp, err := c.roomService.ShareMedia(ctx, &room.ShareMediaParams{
		URL:      input.URL,
		Kind:     input.Kind,
		SenderId: c.getParticipantIdFromCtx(ctx),
		RoomId:   input.RoomId,
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.logger.DebugContext(ctx, "ignoring share media for unknown room")
			return nil
		}
		return fmt.Errorf("failed to share media: %w", err)
	}

	c.broadcast(ctx, resp.Conns, &Output{
		Type: "media-changed",
		Payload: map[string]any{
			"url":  resp.Media.URL,
			"kind": resp.Media.Kind,
		},
	})

	return nil
}

type PlayPauseInput struct {
	RoomId    string  `json:"room_id" validate:"required,max=64"`
	IsPlaying bool    `json:"is_playing"`
	Position  float64 `json:"position" validate:"gte=0"`
}

func (c controller) handlePlayPause(ctx context.Context, conn *wsconn.Conn, payload json.RawMessage) error {
	var input PlayPauseInput
	if err := c.unmarshalAndValidate(ctx, conn, payload, &input); err != nil {
		return err
	}

	resp, err := c.roomService.UpdatePlayback(ctx, &room.UpdatePlaybackParams{
		IsPlaying: input.IsPlaying,
		Position:  input.Position,
		SenderId:  c.getParticipantIdFromCtx(ctx),
		RoomId:    input.RoomId,
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) || errors.Is(err, room.ErrMediaNotSet) {
			c.logger.DebugContext(ctx, "ignoring stale play pause", "error", err)
			return nil
		}
		return fmt.Errorf("failed to update playback: %w", err)
	}

	c.broadcast(ctx, resp.Conns, &Output{
		Type: "play-pause",
		Payload: map[string]any{
			"is_playing": resp.IsPlaying,
			"position":   resp.Position,
		},
	})

	return nil
}

type SeekInput struct {
	RoomId   string  `json:"room_id" validate:"required,max=64"`
	Position float64 `json:"position" validate:"gte=0"`
}

func (c controller) handleSeek(ctx context.Context, conn *wsconn.Conn, payload json.RawMessage) error {
	var input SeekInput
	if err := c.unmarshalAndValidate(ctx, conn, payload, &input); err != nil {
		return err
	}

	resp, err := c.roomService.Seek(ctx, &room.SeekParams{
		Position: input.Position,
		SenderId: c.getParticipantIdFromCtx(ctx),
		RoomId:   input.RoomId,
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) || errors.Is(err, room.ErrMediaNotSet) {
			c.logger.DebugContext(ctx, "ignoring stale seek", "error", err)
			return nil
		}
		return fmt.Errorf("failed to seek: %w", err)
	}

	c.broadcast(ctx, resp.Conns, &Output{
		Type: "seek",
		Payload: map[string]any{
			"position": resp.Position,
		},
	})

	return nil
}
