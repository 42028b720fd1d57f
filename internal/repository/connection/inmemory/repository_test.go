package inmemory

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchparty/server/internal/repository/connection"
	"github.com/watchparty/server/pkg/wsconn"
)

func TestAddAndLookup(t *testing.T) {
	r := NewRepo()
	conn := wsconn.New(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "p1"))
	assert.Equal(t, 1, r.Count())

	got, err := r.GetConn("p1")
	require.NoError(t, err)
	assert.Same(t, conn, got)

	participantId, err := r.GetParticipantId(conn)
	require.NoError(t, err)
	assert.Equal(t, "p1", participantId)
}

func TestAddDuplicate(t *testing.T) {
	r := NewRepo()
	conn := wsconn.New(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "p1"))
	assert.ErrorIs(t, r.Add(conn, "p2"), connection.ErrAlreadyExists)
	assert.ErrorIs(t, r.Add(wsconn.New(&websocket.Conn{}), "p1"), connection.ErrAlreadyExists)
}

func TestRemoveByParticipantId(t *testing.T) {
	r := NewRepo()
	conn := wsconn.New(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "p1"))

	got, err := r.RemoveByParticipantId("p1")
	require.NoError(t, err)
	assert.Same(t, conn, got)
	assert.Equal(t, 0, r.Count())

	_, err = r.RemoveByParticipantId("p1")
	assert.ErrorIs(t, err, connection.ErrNotFound)

	_, err = r.GetParticipantId(conn)
	assert.ErrorIs(t, err, connection.ErrNotFound)
}
