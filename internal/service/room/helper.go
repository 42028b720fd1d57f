package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchparty/server/pkg/wsconn"
)

func (s service) getMembers(ctx context.Context, roomId string) ([]Member, error) {
	memberIds, err := s.roomRepo.GetMemberIds(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}

	hostId, err := s.roomRepo.GetHostId(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get host id: %w", err)
	}

	members := make([]Member, 0, len(memberIds))
	for _, memberId := range memberIds {
		members = append(members, Member{
			Id:     memberId,
			IsHost: memberId == hostId,
		})
	}

	return members, nil
}

// getConns resolves member ids to live connections, skipping excludeId and
// members whose connection is already gone.
func (s service) getConns(ctx context.Context, memberIds []string, excludeId string) []*wsconn.Conn {
	conns := make([]*wsconn.Conn, 0, len(memberIds))
	for _, memberId := range memberIds {
		if memberId == excludeId {
			continue
		}

		conn, err := s.connRepo.GetConn(memberId)
		if err != nil {
			s.logger.DebugContext(ctx, "no connection for member", "member_id", memberId)
			continue
		}

		conns = append(conns, conn)
	}

	return conns
}

func (s service) getMedia(ctx context.Context, roomId string) (*Media, error) {
	media, err := s.roomRepo.GetMedia(ctx, roomId)
	if err != nil {
		if errors.Is(err, ErrMediaNotSet) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}

	return &Media{
		URL:       media.URL,
		Kind:      media.Kind,
		IsPlaying: media.IsPlaying,
		Position:  media.Position,
	}, nil
}
