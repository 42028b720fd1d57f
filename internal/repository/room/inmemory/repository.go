// Package inmemory is the default room registry backend: all room state
// lives in process memory, which matches the ephemeral room lifecycle.
package inmemory

import (
	"context"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/watchparty/server/internal/repository/room"
)

type roomState struct {
	hostId    string
	memberIds []string
	media     *room.Media
}

type repo struct {
	rooms       map[string]*roomState
	memberRooms map[string]map[string]struct{}
	mu          sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		rooms:       make(map[string]*roomState),
		memberRooms: make(map[string]map[string]struct{}),
	}
}

// AddMember appends the member to the room's list, creating the room if it
// does not exist yet. Join order is preserved; adding a member that is
// already in the room is a no-op, so a rejoin keeps its original tenure.
func (r *repo) AddMember(ctx context.Context, params *room.AddMemberParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		state = &roomState{}
		r.rooms[params.RoomId] = state
	}

	for _, memberId := range state.memberIds {
		if memberId == params.MemberId {
			return nil
		}
	}

	state.memberIds = append(state.memberIds, params.MemberId)

	rooms, ok := r.memberRooms[params.MemberId]
	if !ok {
		rooms = make(map[string]struct{})
		r.memberRooms[params.MemberId] = rooms
	}
	rooms[params.RoomId] = struct{}{}

	return nil
}

func (r *repo) RemoveMember(ctx context.Context, params *room.RemoveMemberParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	idx := -1
	for i, memberId := range state.memberIds {
		if memberId == params.MemberId {
			idx = i
			break
		}
	}
	if idx == -1 {
		return room.ErrMemberNotFound
	}

	state.memberIds = append(state.memberIds[:idx], state.memberIds[idx+1:]...)

	if rooms, ok := r.memberRooms[params.MemberId]; ok {
		delete(rooms, params.RoomId)
		if len(rooms) == 0 {
			delete(r.memberRooms, params.MemberId)
		}
	}

	return nil
}

func (r *repo) GetMemberIds(ctx context.Context, roomId string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return nil, nil
	}

	memberIds := make([]string, len(state.memberIds))
	copy(memberIds, state.memberIds)

	return memberIds, nil
}

func (r *repo) GetMemberRoomIds(ctx context.Context, memberId string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms, ok := r.memberRooms[memberId]
	if !ok {
		return nil, nil
	}

	return maps.Keys(rooms), nil
}

func (r *repo) GetHostId(ctx context.Context, roomId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return "", room.ErrRoomNotFound
	}

	return state.hostId, nil
}

func (r *repo) SetHostId(ctx context.Context, params *room.SetHostIdParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	state.hostId = params.HostId

	return nil
}

func (r *repo) SetMedia(ctx context.Context, params *room.SetMediaParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	state.media = &room.Media{
		URL:       params.URL,
		Kind:      params.Kind,
		IsPlaying: params.IsPlaying,
		Position:  params.Position,
	}

	return nil
}

func (r *repo) GetMedia(ctx context.Context, roomId string) (room.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return room.Media{}, room.ErrRoomNotFound
	}
	if state.media == nil {
		return room.Media{}, room.ErrMediaNotSet
	}

	return *state.media, nil
}

func (r *repo) UpdatePlayback(ctx context.Context, params *room.UpdatePlaybackParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}
	if state.media == nil {
		return room.ErrMediaNotSet
	}

	state.media.IsPlaying = params.IsPlaying
	state.media.Position = params.Position

	return nil
}

func (r *repo) UpdatePosition(ctx context.Context, params *room.UpdatePositionParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}
	if state.media == nil {
		return room.ErrMediaNotSet
	}

	state.media.Position = params.Position

	return nil
}

func (r *repo) RoomExists(ctx context.Context, roomId string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[roomId]

	return ok, nil
}

func (r *repo) RemoveRoom(ctx context.Context, roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomId]; !ok {
		return room.ErrRoomNotFound
	}

	delete(r.rooms, roomId)

	return nil
}

func (r *repo) GetRoomIds(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Keys(r.rooms), nil
}
