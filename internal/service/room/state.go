package room

import (
	"context"
	"errors"
	"fmt"
)

// GetRoomSnapshot reports the room's member count and whether media has been
// shared, for the REST surface.
func (s service) GetRoomSnapshot(ctx context.Context, roomId string) (RoomSnapshot, error) {
	exists, err := s.roomRepo.RoomExists(ctx, roomId)
	if err != nil {
		return RoomSnapshot{}, fmt.Errorf("failed to check room exists: %w", err)
	}
	if !exists {
		return RoomSnapshot{}, ErrRoomNotFound
	}

	memberIds, err := s.roomRepo.GetMemberIds(ctx, roomId)
	if err != nil {
		return RoomSnapshot{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	hasMedia := true
	if _, err := s.roomRepo.GetMedia(ctx, roomId); err != nil {
		if !errors.Is(err, ErrMediaNotSet) && !errors.Is(err, ErrRoomNotFound) {
			return RoomSnapshot{}, fmt.Errorf("failed to get media: %w", err)
		}
		hasMedia = false
	}

	return RoomSnapshot{
		MemberCount: len(memberIds),
		HasMedia:    hasMedia,
	}, nil
}

func (s service) Stats(ctx context.Context) (Stats, error) {
	roomIds, err := s.roomRepo.GetRoomIds(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get room ids: %w", err)
	}

	return Stats{
		Rooms:       len(roomIds),
		Connections: s.connRepo.Count(),
	}, nil
}
