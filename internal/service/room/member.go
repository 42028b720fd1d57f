package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchparty/server/internal/repository/connection"
	"github.com/watchparty/server/internal/repository/room"
	"github.com/watchparty/server/pkg/wsconn"
)

type ConnectParticipantParams struct {
	Conn          *wsconn.Conn
	ParticipantId string
}

func (s service) ConnectParticipant(ctx context.Context, params *ConnectParticipantParams) error {
	if err := s.connRepo.Add(params.Conn, params.ParticipantId); err != nil {
		s.logger.InfoContext(ctx, "failed to connect participant", "error", err)
		return err
	}

	return nil
}

type JoinRoomParams struct {
	RoomId   string
	SenderId string
}

type JoinRoomResponse struct {
	Members []Member
	IsHost  bool
	Media   *Media
	Conns   []*wsconn.Conn
}

// JoinRoom adds the participant to the room, creating it if needed. The
// first member of a room becomes its host. Response carries the snapshot the
// joiner renders from and the connections of the members that were already
// present, which receive the updated member list.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	unlock := s.roomLocks.Lock(params.RoomId)
	defer unlock()

	others, err := s.roomRepo.GetMemberIds(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	if err := s.roomRepo.AddMember(ctx, &room.AddMemberParams{
		MemberId: params.SenderId,
		RoomId:   params.RoomId,
	}); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	if len(others) == 0 {
		if err := s.roomRepo.SetHostId(ctx, &room.SetHostIdParams{
			HostId: params.SenderId,
			RoomId: params.RoomId,
		}); err != nil {
			return JoinRoomResponse{}, fmt.Errorf("failed to set host id: %w", err)
		}
	}

	members, err := s.getMembers(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, err
	}

	media, err := s.getMedia(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, err
	}

	// a duplicate join leaves the member list untouched, so the sender may
	// already be in others; deriving is_host from the member list and
	// excluding the sender from the audience keeps the rejoin harmless
	isHost := false
	for _, member := range members {
		if member.Id == params.SenderId {
			isHost = member.IsHost
			break
		}
	}

	return JoinRoomResponse{
		Members: members,
		IsHost:  isHost,
		Media:   media,
		Conns:   s.getConns(ctx, others, params.SenderId),
	}, nil
}

type DisconnectParticipantParams struct {
	SenderId string
}

type RoomUpdate struct {
	RoomId        string
	Members       []Member
	Conns         []*wsconn.Conn
	IsRoomDeleted bool
}

type DisconnectParticipantResponse struct {
	Updates []RoomUpdate
}

// DisconnectParticipant removes the participant from every room it has
// joined. Idempotent: a second delivery finds no rooms and no connection and
// returns an empty response.
func (s service) DisconnectParticipant(ctx context.Context, params *DisconnectParticipantParams) (DisconnectParticipantResponse, error) {
	if _, err := s.connRepo.RemoveByParticipantId(params.SenderId); err != nil && !errors.Is(err, connection.ErrNotFound) {
		return DisconnectParticipantResponse{}, fmt.Errorf("failed to remove connection: %w", err)
	}

	roomIds, err := s.roomRepo.GetMemberRoomIds(ctx, params.SenderId)
	if err != nil {
		return DisconnectParticipantResponse{}, fmt.Errorf("failed to get member room ids: %w", err)
	}

	updates := make([]RoomUpdate, 0, len(roomIds))
	for _, roomId := range roomIds {
		update, err := s.leaveRoom(ctx, roomId, params.SenderId)
		if err != nil {
			// a stale index entry is benign: the room is gone or the
			// member already left
			if errors.Is(err, ErrRoomNotFound) || errors.Is(err, room.ErrMemberNotFound) {
				continue
			}
			return DisconnectParticipantResponse{}, err
		}

		updates = append(updates, update)
	}

	return DisconnectParticipantResponse{Updates: updates}, nil
}

func (s service) leaveRoom(ctx context.Context, roomId, memberId string) (RoomUpdate, error) {
	unlock := s.roomLocks.Lock(roomId)
	defer unlock()

	if err := s.roomRepo.RemoveMember(ctx, &room.RemoveMemberParams{
		MemberId: memberId,
		RoomId:   roomId,
	}); err != nil {
		return RoomUpdate{}, fmt.Errorf("failed to remove member: %w", err)
	}

	remaining, err := s.roomRepo.GetMemberIds(ctx, roomId)
	if err != nil {
		return RoomUpdate{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	if len(remaining) == 0 {
		if err := s.roomRepo.RemoveRoom(ctx, roomId); err != nil {
			return RoomUpdate{}, fmt.Errorf("failed to remove room: %w", err)
		}

		return RoomUpdate{RoomId: roomId, IsRoomDeleted: true}, nil
	}

	hostId, err := s.roomRepo.GetHostId(ctx, roomId)
	if err != nil {
		return RoomUpdate{}, fmt.Errorf("failed to get host id: %w", err)
	}

	if hostId == memberId {
		// the longest-tenured remaining member takes over
		if err := s.roomRepo.SetHostId(ctx, &room.SetHostIdParams{
			HostId: remaining[0],
			RoomId: roomId,
		}); err != nil {
			return RoomUpdate{}, fmt.Errorf("failed to set host id: %w", err)
		}
	}

	members, err := s.getMembers(ctx, roomId)
	if err != nil {
		return RoomUpdate{}, err
	}

	return RoomUpdate{
		RoomId:  roomId,
		Members: members,
		Conns:   s.getConns(ctx, remaining, ""),
	}, nil
}
