// Package redis keeps room state in Redis using the same keying style the
// rest of the watchparty deployment uses: a ZSET member list scored by join
// order, hashes for room and media fields, and SET indexes for room ids and
// the rooms each participant has joined.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc             *redis.Client
	maxScoreScript string
}

func NewRepo(rc *redis.Client) *repo {
	return &repo{
		rc: rc,
		maxScoreScript: rc.ScriptLoad(context.Background(), `
			local maxScore = redis.call('ZREVRANGE', KEYS[1], 0, 0, 'WITHSCORES')
			local nextScore = 1
			if #maxScore > 0 then
				nextScore = tonumber(maxScore[2]) + 1
			end
			redis.call('ZADD', KEYS[1], nextScore, ARGV[1])
			return nextScore
		`).Val(),
	}
}

const roomsKey = "rooms"

func (r repo) getRoomKey(roomId string) string {
	return "room:" + roomId
}

func (r repo) getMemberListKey(roomId string) string {
	return "room:" + roomId + ":memberlist"
}

func (r repo) getMediaKey(roomId string) string {
	return "room:" + roomId + ":media"
}

func (r repo) getMemberRoomsKey(memberId string) string {
	return "member:" + memberId + ":rooms"
}

func (r repo) addWithIncrement(ctx context.Context, c redis.Scripter, key string, value any) {
	c.EvalSha(ctx, r.maxScoreScript, []string{key}, value)
}

func (r repo) RoomExists(ctx context.Context, roomId string) (bool, error) {
	return r.rc.SIsMember(ctx, roomsKey, roomId).Result()
}

func (r repo) RemoveRoom(ctx context.Context, roomId string) error {
	pipe := r.rc.TxPipeline()
	pipe.Del(ctx, r.getRoomKey(roomId), r.getMemberListKey(roomId), r.getMediaKey(roomId))
	pipe.SRem(ctx, roomsKey, roomId)
	_, err := pipe.Exec(ctx)

	return err
}

func (r repo) GetRoomIds(ctx context.Context) ([]string, error) {
	return r.rc.SMembers(ctx, roomsKey).Result()
}
