package room

import (
	"context"
	"fmt"

	"github.com/watchparty/server/internal/repository/room"
	"github.com/watchparty/server/pkg/mediaurl"
	"github.com/watchparty/server/pkg/wsconn"
)

type ShareMediaParams struct {
	URL      string
	Kind     string
	SenderId string
	RoomId   string
}

type ShareMediaResponse struct {
	Media Media
	Conns []*wsconn.Conn
}

// ShareMedia replaces the room's media wholesale. The fresh media always
// starts paused at position zero, whatever was playing before. Kind is
// classified from the URL when the sender did not provide one.
func (s service) ShareMedia(ctx context.Context, params *ShareMediaParams) (ShareMediaResponse, error) {
	if !s.canShareMedia(params.SenderId) {
		return ShareMediaResponse{}, ErrPermissionDenied
	}

	unlock := s.roomLocks.Lock(params.RoomId)
	defer unlock()

	exists, err := s.roomRepo.RoomExists(ctx, params.RoomId)
	if err != nil {
		return ShareMediaResponse{}, fmt.Errorf("failed to check room exists: %w", err)
	}
	if !exists {
		return ShareMediaResponse{}, ErrRoomNotFound
	}

	kind := params.Kind
	if !mediaurl.IsValidKind(kind) {
		kind = mediaurl.Kind(params.URL)
	}

	if err := s.roomRepo.SetMedia(ctx, &room.SetMediaParams{
		URL:       params.URL,
		Kind:      kind,
		IsPlaying: false,
		Position:  0,
		RoomId:    params.RoomId,
	}); err != nil {
		return ShareMediaResponse{}, fmt.Errorf("failed to set media: %w", err)
	}

	memberIds, err := s.roomRepo.GetMemberIds(ctx, params.RoomId)
	if err != nil {
		return ShareMediaResponse{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	return ShareMediaResponse{
		Media: Media{URL: params.URL, Kind: kind},
		Conns: s.getConns(ctx, memberIds, params.SenderId),
	}, nil
}

type UpdatePlaybackParams struct {
	IsPlaying bool
	Position  float64
	SenderId  string
	RoomId    string
}

type UpdatePlaybackResponse struct {
	IsPlaying bool
	Position  float64
	Conns     []*wsconn.Conn
}

// UpdatePlayback applies a play/pause toggle with the sender's current
// position. Returns ErrRoomNotFound or ErrMediaNotSet on stale events; the
// caller treats both as a no-op.
func (s service) UpdatePlayback(ctx context.Context, params *UpdatePlaybackParams) (UpdatePlaybackResponse, error) {
	if !s.canControlPlayback(params.SenderId) {
		return UpdatePlaybackResponse{}, ErrPermissionDenied
	}

	unlock := s.roomLocks.Lock(params.RoomId)
	defer unlock()

	if err := s.roomRepo.UpdatePlayback(ctx, &room.UpdatePlaybackParams{
		IsPlaying: params.IsPlaying,
		Position:  params.Position,
		RoomId:    params.RoomId,
	}); err != nil {
		return UpdatePlaybackResponse{}, fmt.Errorf("failed to update playback: %w", err)
	}

	memberIds, err := s.roomRepo.GetMemberIds(ctx, params.RoomId)
	if err != nil {
		return UpdatePlaybackResponse{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	return UpdatePlaybackResponse{
		IsPlaying: params.IsPlaying,
		Position:  params.Position,
		Conns:     s.getConns(ctx, memberIds, params.SenderId),
	}, nil
}

type SeekParams struct {
	Position float64
	SenderId string
	RoomId   string
}

type SeekResponse struct {
	Position float64
	Conns    []*wsconn.Conn
}

func (s service) Seek(ctx context.Context, params *SeekParams) (SeekResponse, error) {
	if !s.canControlPlayback(params.SenderId) {
		return SeekResponse{}, ErrPermissionDenied
	}

	unlock := s.roomLocks.Lock(params.RoomId)
	defer unlock()

	if err := s.roomRepo.UpdatePosition(ctx, &room.UpdatePositionParams{
		Position: params.Position,
		RoomId:   params.RoomId,
	}); err != nil {
		return SeekResponse{}, fmt.Errorf("failed to update position: %w", err)
	}

	memberIds, err := s.roomRepo.GetMemberIds(ctx, params.RoomId)
	if err != nil {
		return SeekResponse{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	return SeekResponse{
		Position: params.Position,
		Conns:    s.getConns(ctx, memberIds, params.SenderId),
	}, nil
}
