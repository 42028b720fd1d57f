package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/watchparty/server/internal/repository/room"
)

func (r repo) AddMember(ctx context.Context, params *room.AddMemberParams) error {
	// rejoin keeps the member's original score, otherwise the increment
	// script would move it to the end of the tenure order
	err := r.rc.ZScore(ctx, r.getMemberListKey(params.RoomId), params.MemberId).Err()
	if err == nil {
		return nil
	}
	if err != redis.Nil {
		return err
	}

	pipe := r.rc.TxPipeline()

	r.addWithIncrement(ctx, pipe, r.getMemberListKey(params.RoomId), params.MemberId)
	pipe.SAdd(ctx, roomsKey, params.RoomId)
	pipe.SAdd(ctx, r.getMemberRoomsKey(params.MemberId), params.RoomId)

	_, err = pipe.Exec(ctx)

	return err
}

func (r repo) RemoveMember(ctx context.Context, params *room.RemoveMemberParams) error {
	removed, err := r.rc.ZRem(ctx, r.getMemberListKey(params.RoomId), params.MemberId).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return room.ErrMemberNotFound
	}

	return r.rc.SRem(ctx, r.getMemberRoomsKey(params.MemberId), params.RoomId).Err()
}

func (r repo) GetMemberIds(ctx context.Context, roomId string) ([]string, error) {
	return r.rc.ZRange(ctx, r.getMemberListKey(roomId), 0, -1).Result()
}

func (r repo) GetMemberRoomIds(ctx context.Context, memberId string) ([]string, error) {
	return r.rc.SMembers(ctx, r.getMemberRoomsKey(memberId)).Result()
}

func (r repo) GetHostId(ctx context.Context, roomId string) (string, error) {
	hostId, err := r.rc.HGet(ctx, r.getRoomKey(roomId), "host_id").Result()
	if err == redis.Nil {
		return "", room.ErrRoomNotFound
	}
	if err != nil {
		return "", err
	}

	return hostId, nil
}

func (r repo) SetHostId(ctx context.Context, params *room.SetHostIdParams) error {
	exists, err := r.RoomExists(ctx, params.RoomId)
	if err != nil {
		return err
	}
	if !exists {
		return room.ErrRoomNotFound
	}

	return r.rc.HSet(ctx, r.getRoomKey(params.RoomId), "host_id", params.HostId).Err()
}
