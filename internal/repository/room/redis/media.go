package redis

import (
	"context"
	"strconv"

	"github.com/watchparty/server/internal/repository/room"
)

func (r repo) SetMedia(ctx context.Context, params *room.SetMediaParams) error {
	exists, err := r.RoomExists(ctx, params.RoomId)
	if err != nil {
		return err
	}
	if !exists {
		return room.ErrRoomNotFound
	}

	return r.rc.HSet(ctx, r.getMediaKey(params.RoomId), map[string]any{
		"url":        params.URL,
		"kind":       params.Kind,
		"is_playing": strconv.FormatBool(params.IsPlaying),
		"position":   params.Position,
	}).Err()
}

func (r repo) GetMedia(ctx context.Context, roomId string) (room.Media, error) {
	if err := r.checkMediaSet(ctx, roomId); err != nil {
		return room.Media{}, err
	}

	var media room.Media
	if err := r.rc.HGetAll(ctx, r.getMediaKey(roomId)).Scan(&media); err != nil {
		return room.Media{}, err
	}

	return media, nil
}

func (r repo) UpdatePlayback(ctx context.Context, params *room.UpdatePlaybackParams) error {
	if err := r.checkMediaSet(ctx, params.RoomId); err != nil {
		return err
	}

	return r.rc.HSet(ctx, r.getMediaKey(params.RoomId), map[string]any{
		"is_playing": strconv.FormatBool(params.IsPlaying),
		"position":   params.Position,
	}).Err()
}

func (r repo) UpdatePosition(ctx context.Context, params *room.UpdatePositionParams) error {
	if err := r.checkMediaSet(ctx, params.RoomId); err != nil {
		return err
	}

	return r.rc.HSet(ctx, r.getMediaKey(params.RoomId), "position", params.Position).Err()
}

func (r repo) checkMediaSet(ctx context.Context, roomId string) error {
	exists, err := r.rc.Exists(ctx, r.getMediaKey(roomId)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		roomExists, err := r.RoomExists(ctx, roomId)
		if err != nil {
			return err
		}
		if !roomExists {
			return room.ErrRoomNotFound
		}

		return room.ErrMediaNotSet
	}

	return nil
}
