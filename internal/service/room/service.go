package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/watchparty/server/internal/repository/room"
	"github.com/watchparty/server/pkg/keylock"
	"github.com/watchparty/server/pkg/wsconn"
)

var (
	ErrRoomNotFound     = room.ErrRoomNotFound
	ErrMediaNotSet      = room.ErrMediaNotSet
	ErrPermissionDenied = errors.New("permission denied")
)

// RoomRepo is the room registry: it owns every room record and the
// participant -> room index. Implementations must be safe for concurrent use;
// the service additionally serializes all mutation per room.
type RoomRepo interface {
	// member
	AddMember(context.Context, *room.AddMemberParams) error
	RemoveMember(context.Context, *room.RemoveMemberParams) error
	GetMemberIds(ctx context.Context, roomId string) ([]string, error)
	GetMemberRoomIds(ctx context.Context, memberId string) ([]string, error)
	// host
	GetHostId(ctx context.Context, roomId string) (string, error)
	SetHostId(context.Context, *room.SetHostIdParams) error
	// media
	SetMedia(context.Context, *room.SetMediaParams) error
	GetMedia(ctx context.Context, roomId string) (room.Media, error)
	UpdatePlayback(context.Context, *room.UpdatePlaybackParams) error
	UpdatePosition(context.Context, *room.UpdatePositionParams) error
	// room
	RoomExists(ctx context.Context, roomId string) (bool, error)
	RemoveRoom(ctx context.Context, roomId string) error
	GetRoomIds(ctx context.Context) ([]string, error)
}

type ConnRepo interface {
	Add(conn *wsconn.Conn, participantId string) error
	RemoveByParticipantId(participantId string) (*wsconn.Conn, error)
	GetConn(participantId string) (*wsconn.Conn, error)
	Count() int
}

type service struct {
	roomRepo  RoomRepo
	connRepo  ConnRepo
	roomLocks *keylock.KeyLock
	logger    *slog.Logger
}

func NewService(roomRepo RoomRepo, connRepo ConnRepo, logger *slog.Logger) *service {
	return &service{
		roomRepo:  roomRepo,
		connRepo:  connRepo,
		roomLocks: keylock.New(),
		logger:    logger,
	}
}
