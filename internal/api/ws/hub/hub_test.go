package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quizroom-service/infra/memory"
	"quizroom-service/internal/api/game"
)

// fakeConn feeds frames from in and records text frames written to it.
type fakeConn struct {
	in      chan []byte
	written chan []byte

	closeIn   sync.Once
	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:      make(chan []byte, 16),
		written: make(chan []byte, 64),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case p, ok := <-c.in:
		if !ok {
			return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
		}
		return websocket.TextMessage, p, nil
	case <-c.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-c.closed:
		return errors.New("use of closed connection")
	default:
	}
	if messageType == websocket.TextMessage {
		c.written <- data
	}
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (c *fakeConn) SetReadLimit(int64)               {}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) send(t *testing.T, frame string) {
	t.Helper()
	c.in <- []byte(frame)
}

// hangUp simulates the client going away.
func (c *fakeConn) hangUp() {
	c.closeIn.Do(func() { close(c.in) })
}

// next waits for the next frame written to the client.
func (c *fakeConn) next(t *testing.T) map[string]any {
	t.Helper()
	select {
	case frame := <-c.written:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(frame, &msg))
		return msg
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no frame written")
		return nil
	}
}

// nextOf skips frames until one of the given type arrives.
func (c *fakeConn) nextOf(t *testing.T, kind string) map[string]any {
	t.Helper()
	for {
		if msg := c.next(t); msg["type"] == kind {
			return msg
		}
	}
}

// rest returns every frame still buffered.
func (c *fakeConn) rest(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for {
		select {
		case frame := <-c.written:
			var msg map[string]any
			require.NoError(t, json.Unmarshal(frame, &msg))
			out = append(out, msg)
		default:
			return out
		}
	}
}

type testHub struct {
	hub   *Hub
	rooms *game.RoomManager
}

func newTestHub(t *testing.T) *testHub {
	t.Helper()
	rooms := game.NewRoomManager(game.Options{Logger: zap.NewNop()})
	return &testHub{
		hub:   NewHub(rooms, memory.NewSaveStore(), Config{}, zap.NewNop()),
		rooms: rooms,
	}
}

// connect serves a new fake connection; the returned channel closes when
// the session has ended.
func (h *testHub) connect(t *testing.T) (*fakeConn, <-chan struct{}) {
	t.Helper()
	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.hub.Serve(context.Background(), conn)
	}()
	t.Cleanup(func() {
		conn.hangUp()
		<-done
	})
	return conn, done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "session did not end")
	}
}

// createRoom makes conn the host of a new room and returns its code.
func createRoom(t *testing.T, conn *fakeConn, username string) string {
	t.Helper()
	conn.send(t, `{"type":"create_room","username":"`+username+`","url":"url-`+username+`"}`)
	code := conn.next(t)
	require.Equal(t, "new_room_code", code["type"])
	require.Equal(t, "scores_update", conn.next(t)["type"])
	return code["room_code"].(string)
}

func TestSession_RejectsBadFrames(t *testing.T) {
	h := newTestHub(t)
	conn, _ := h.connect(t)

	conn.send(t, `{"type":"draw_line"}`)
	require.Equal(t, map[string]any{"type": "error", "error": "unknown message type"}, conn.next(t))

	conn.send(t, `not json`)
	require.Equal(t, map[string]any{"type": "error", "error": "invalid message"}, conn.next(t))

	conn.send(t, `{"type":"start_quiz"}`)
	require.Equal(t, map[string]any{"type": "error", "error": "not in a room"}, conn.next(t))

	// page_disconnect outside a room is ignored
	conn.send(t, `{"type":"page_disconnect"}`)
	conn.send(t, `{"type":"leave_room"}`)
	require.Equal(t, map[string]any{"type": "error", "error": "not in a room"}, conn.next(t))
}

func TestSession_CreateAndJoin(t *testing.T) {
	// Given
	h := newTestHub(t)
	alice, _ := h.connect(t)
	bob, _ := h.connect(t)
	code := createRoom(t, alice, "alice")
	require.Len(t, code, 8)

	// When
	bob.send(t, `{"type":"join_room","username":"bob","code":"`+code+`","url":"url-bob"}`)

	// Then
	require.Equal(t, map[string]any{"type": "join_room", "success": true, "hosts": []any{"alice"}}, bob.next(t))
	require.Equal(t, "scores_update", bob.next(t)["type"])

	require.Equal(t, map[string]any{
		"type":   "scores_update",
		"scores": map[string]any{"alice": map[string]any{"score": 0.0, "wins": 0.0}, "bob": map[string]any{"score": 0.0, "wins": 0.0}},
	}, alice.next(t))
	require.Equal(t, map[string]any{"type": "url_update", "username": "bob", "url": "url-bob"}, alice.next(t))

	rooms, users := h.rooms.Stats()
	require.Equal(t, 1, rooms)
	require.Equal(t, 2, users)

	// and a second create from the same connection is refused
	alice.send(t, `{"type":"create_room","username":"alice"}`)
	require.Equal(t, "already in a room", alice.next(t)["error"])
}

func TestSession_JoinFailures(t *testing.T) {
	h := newTestHub(t)
	alice, _ := h.connect(t)
	bob, _ := h.connect(t)
	code := createRoom(t, alice, "alice")

	bob.send(t, `{"type":"join_room","username":"bob","code":"nope"}`)
	require.Equal(t, map[string]any{"type": "join_room", "success": false, "fail_reason": "invalid code"}, bob.next(t))

	bob.send(t, `{"type":"join_room","username":"alice","code":"`+code+`"}`)
	require.Equal(t, map[string]any{"type": "join_room", "success": false, "fail_reason": "username taken"}, bob.next(t))
}

func TestSession_LeavesOnce(t *testing.T) {
	// Given
	h := newTestHub(t)
	alice, _ := h.connect(t)
	bob, bobDone := h.connect(t)
	code := createRoom(t, alice, "alice")
	bob.send(t, `{"type":"join_room","username":"bob","code":"`+code+`"}`)
	bob.nextOf(t, "scores_update")
	alice.nextOf(t, "url_update")

	// When bob leaves and then drops the connection
	bob.send(t, `{"type":"leave_room"}`)
	waitDone(t, bobDone)
	bob.hangUp()

	// Then
	require.Equal(t, map[string]any{"type": "removed_from_room", "username": "bob"}, alice.next(t))
	require.Equal(t, "scores_update", alice.next(t)["type"])
	require.Equal(t, "removed_from_room", bob.nextOf(t, "removed_from_room")["type"])

	alice.send(t, `{"type":"users_update"}`)
	require.Equal(t, map[string]any{
		"type":   "users_update",
		"scores": map[string]any{"alice": map[string]any{"score": 0.0, "wins": 0.0}},
	}, alice.next(t))
	_, users := h.rooms.Stats()
	require.Equal(t, 1, users)
}

func TestSession_DisconnectLeavesRoom(t *testing.T) {
	h := newTestHub(t)
	alice, aliceDone := h.connect(t)
	createRoom(t, alice, "alice")

	alice.hangUp()
	waitDone(t, aliceDone)

	rooms, users := h.rooms.Stats()
	require.Zero(t, rooms)
	require.Zero(t, users)
}

func TestSession_CloseRoomEndsEveryone(t *testing.T) {
	h := newTestHub(t)
	alice, aliceDone := h.connect(t)
	bob, _ := h.connect(t)
	code := createRoom(t, alice, "alice")
	bob.send(t, `{"type":"join_room","username":"bob","code":"`+code+`"}`)
	bob.nextOf(t, "scores_update")

	alice.send(t, `{"type":"close_room"}`)
	waitDone(t, aliceDone)

	require.Equal(t, map[string]any{"type": "room_closed", "room_code": code}, bob.nextOf(t, "room_closed"))
	rooms, _ := h.rooms.Stats()
	require.Zero(t, rooms)

	// the closed room no longer holds bob back
	bob.send(t, `{"type":"create_room","username":"bob"}`)
	require.Equal(t, "new_room_code", bob.next(t)["type"])
}

func TestSession_SaveAndRestore(t *testing.T) {
	// Given alice won a quiz and saved the room
	h := newTestHub(t)
	alice, _ := h.connect(t)
	createRoom(t, alice, "alice")
	alice.send(t, `{"type":"start_quiz"}`)
	alice.send(t, `{"type":"live_scores_update","current_score":3,"finished":true,"quiz_time":12.5}`)
	alice.nextOf(t, "quiz_finished")
	won := alice.next(t)["scores"].(map[string]any)["alice"].(map[string]any)
	require.Equal(t, 1.0, won["wins"])

	alice.send(t, `{"type":"save_room"}`)
	reply := alice.next(t)
	require.Equal(t, "save_room", reply["type"])
	saveData := reply["save_data"].(map[string]any)
	saveID := saveData["save_id"].(string)
	require.NotEmpty(t, saveID)
	require.Equal(t, map[string]any{"alice": won}, saveData["scores"])

	// When alice comes back on a new connection with the save id
	again, _ := h.connect(t)
	again.send(t, `{"type":"create_room","username":"alice","save_id":"`+saveID+`"}`)

	// Then her score is restored in the new room
	require.Equal(t, "new_room_code", again.next(t)["type"])
	require.Equal(t, map[string]any{"type": "scores_update", "scores": map[string]any{"alice": won}}, again.next(t))
	rooms, _ := h.rooms.Stats()
	require.Equal(t, 2, rooms)
}

func TestSession_UnknownSaveID(t *testing.T) {
	h := newTestHub(t)
	conn, _ := h.connect(t)

	conn.send(t, `{"type":"create_room","username":"alice","save_id":"missing"}`)

	require.Equal(t, map[string]any{"type": "error", "error": "save not found"}, conn.next(t))
	rooms, _ := h.rooms.Stats()
	require.Zero(t, rooms)
}

func TestHub_ServeEndsWithContext(t *testing.T) {
	h := newTestHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.hub.Serve(ctx, conn)
	}()

	cancel()

	waitDone(t, done)
	h.hub.Wait()
}
