package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conninmemory "github.com/watchparty/server/internal/repository/connection/inmemory"
	roominmemory "github.com/watchparty/server/internal/repository/room/inmemory"
	"github.com/watchparty/server/internal/service/room"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roomService := room.NewService(roominmemory.NewRepo(), conninmemory.NewRepo(), logger)
	server := httptest.NewServer(NewController(roomService, logger).Mux())
	t.Cleanup(server.Close)

	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, messageType string, payload any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"type": messageType, "payload": payload}))
}

func recv(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))

	return msg
}

func TestWatchPartySession(t *testing.T) {
	server := newTestServer(t)

	c1 := dial(t, server)
	send(t, c1, "join-room", map[string]any{"room_id": "movie-night"})

	joined := recv(t, c1)
	require.Equal(t, "room-joined", joined.Type)
	var joinedPayload struct {
		RoomId  string        `json:"room_id"`
		Members []room.Member `json:"members"`
		IsHost  bool          `json:"is_host"`
		Media   *room.Media   `json:"media"`
	}
	require.NoError(t, json.Unmarshal(joined.Payload, &joinedPayload))
	assert.Equal(t, "movie-night", joinedPayload.RoomId)
	assert.True(t, joinedPayload.IsHost)
	assert.Nil(t, joinedPayload.Media)
	require.Len(t, joinedPayload.Members, 1)
	assert.True(t, joinedPayload.Members[0].IsHost)

	c2 := dial(t, server)
	send(t, c2, "join-room", map[string]any{"room_id": "movie-night"})

	joined2 := recv(t, c2)
	require.Equal(t, "room-joined", joined2.Type)
	require.NoError(t, json.Unmarshal(joined2.Payload, &joinedPayload))
	assert.False(t, joinedPayload.IsHost)
	require.Len(t, joinedPayload.Members, 2)

	usersUpdated := recv(t, c1)
	require.Equal(t, "users-updated", usersUpdated.Type)
	var members []room.Member
	require.NoError(t, json.Unmarshal(usersUpdated.Payload, &members))
	require.Len(t, members, 2)

	// any member may share media; the broadcast skips the sender
	send(t, c2, "share-media", map[string]any{
		"room_id": "movie-night",
		"url":     "https://example.com/trailer.mp4",
	})

	mediaChanged := recv(t, c1)
	require.Equal(t, "media-changed", mediaChanged.Type)
	dec := json.NewDecoder(bytes.NewReader(mediaChanged.Payload))
	dec.DisallowUnknownFields()
	var media struct {
		URL  string `json:"url"`
		Kind string `json:"kind"`
	}
	require.NoError(t, dec.Decode(&media), "payload carries url and kind only")
	assert.Equal(t, "https://example.com/trailer.mp4", media.URL)
	assert.Equal(t, "video", media.Kind)

	send(t, c1, "play-pause", map[string]any{
		"room_id":    "movie-night",
		"is_playing": true,
		"position":   12.5,
	})

	playPause := recv(t, c2)
	require.Equal(t, "play-pause", playPause.Type)
	var playback struct {
		IsPlaying bool    `json:"is_playing"`
		Position  float64 `json:"position"`
	}
	require.NoError(t, json.Unmarshal(playPause.Payload, &playback))
	assert.True(t, playback.IsPlaying)
	assert.Equal(t, 12.5, playback.Position)

	send(t, c2, "seek", map[string]any{"room_id": "movie-night", "position": 60.0})

	seek := recv(t, c1)
	require.Equal(t, "seek", seek.Type)
	require.NoError(t, json.Unmarshal(seek.Payload, &playback))
	assert.Equal(t, 60.0, playback.Position)

	c2.Close()

	usersUpdated = recv(t, c1)
	require.Equal(t, "users-updated", usersUpdated.Type)
	require.NoError(t, json.Unmarshal(usersUpdated.Payload, &members))
	require.Len(t, members, 1)
	assert.True(t, members[0].IsHost)
}

// Two members racing playback events both broadcast to every other member,
// so one member's connection is written from two handler goroutines at once.
// Every frame must still arrive intact (run with -race).
func TestConcurrentSendersSharedAudience(t *testing.T) {
	server := newTestServer(t)

	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conns[i] = dial(t, server)
		send(t, conns[i], "join-room", map[string]any{"room_id": "theater"})
		require.Equal(t, "room-joined", recv(t, conns[i]).Type)
		for j := 0; j < i; j++ {
			require.Equal(t, "users-updated", recv(t, conns[j]).Type)
		}
	}

	send(t, conns[0], "share-media", map[string]any{
		"room_id": "theater",
		"url":     "https://example.com/movie.mp4",
	})
	require.Equal(t, "media-changed", recv(t, conns[1]).Type)
	require.Equal(t, "media-changed", recv(t, conns[2]).Type)

	const n = 50
	readErrs := make(chan error, 3)
	read := func(conn *websocket.Conn, want int) {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for i := 0; i < want; i++ {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				readErrs <- err
				return
			}
			if msg.Type != "seek" && msg.Type != "play-pause" {
				readErrs <- fmt.Errorf("unexpected message type %q", msg.Type)
				return
			}
		}
		readErrs <- nil
	}
	// conns[0] hears both senders, each sender hears only the other
	go read(conns[0], 2*n)
	go read(conns[1], n)
	go read(conns[2], n)

	var wg sync.WaitGroup
	blast := func(conn *websocket.Conn) {
		defer wg.Done()
		for i := 0; i < n; i++ {
			var err error
			if i%2 == 0 {
				err = conn.WriteJSON(map[string]any{
					"type":    "seek",
					"payload": map[string]any{"room_id": "theater", "position": float64(i)},
				})
			} else {
				err = conn.WriteJSON(map[string]any{
					"type": "play-pause",
					"payload": map[string]any{
						"room_id":    "theater",
						"is_playing": true,
						"position":   float64(i),
					},
				})
			}
			assert.NoError(t, err)
		}
	}
	wg.Add(2)
	go blast(conns[1])
	go blast(conns[2])
	wg.Wait()

	for i := 0; i < 3; i++ {
		require.NoError(t, <-readErrs)
	}
}

func TestPlaybackBeforeMediaIsIgnored(t *testing.T) {
	server := newTestServer(t)

	c1 := dial(t, server)
	send(t, c1, "join-room", map[string]any{"room_id": "quiet-room"})
	require.Equal(t, "room-joined", recv(t, c1).Type)

	c2 := dial(t, server)
	send(t, c2, "join-room", map[string]any{"room_id": "quiet-room"})
	require.Equal(t, "room-joined", recv(t, c2).Type)
	require.Equal(t, "users-updated", recv(t, c1).Type)

	send(t, c2, "play-pause", map[string]any{
		"room_id":    "quiet-room",
		"is_playing": true,
		"position":   5.0,
	})
	send(t, c2, "share-media", map[string]any{
		"room_id": "quiet-room",
		"url":     "https://example.com/poster.png",
	})

	// the stale play-pause produced no broadcast, so the next message c1
	// sees is the media change
	mediaChanged := recv(t, c1)
	require.Equal(t, "media-changed", mediaChanged.Type)
	var media room.Media
	require.NoError(t, json.Unmarshal(mediaChanged.Payload, &media))
	assert.Equal(t, "image", media.Kind)
}

func TestInvalidPayloadGetsErrorOutput(t *testing.T) {
	server := newTestServer(t)

	conn := dial(t, server)
	send(t, conn, "join-room", map[string]any{"room_id": ""})

	msg := recv(t, conn)
	assert.Equal(t, "error", msg.Type)
}

func TestUnknownMessageType(t *testing.T) {
	server := newTestServer(t)

	conn := dial(t, server)
	send(t, conn, "dance", map[string]any{})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var errResp map[string]string
	require.NoError(t, conn.ReadJSON(&errResp))
	assert.Equal(t, "unknown message type", errResp["error"])
}

func TestRESTEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/rooms/nowhere")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	conn := dial(t, server)
	send(t, conn, "join-room", map[string]any{"room_id": "lobby"})
	require.Equal(t, "room-joined", recv(t, conn).Type)

	resp, err = http.Get(server.URL + "/api/rooms/lobby")
	require.NoError(t, err)
	var roomBody struct {
		Data room.RoomSnapshot `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&roomBody))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, roomBody.Data.MemberCount)
	assert.False(t, roomBody.Data.HasMedia)

	resp, err = http.Get(server.URL + "/api/stats")
	require.NoError(t, err)
	var statsBody struct {
		Data room.Stats `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statsBody))
	resp.Body.Close()
	assert.Equal(t, 1, statsBody.Data.Rooms)
	assert.Equal(t, 1, statsBody.Data.Connections)
}
