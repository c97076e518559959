package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Board/internal/app"
	"github.com/dkeye/Board/internal/app/orch"
	"github.com/dkeye/Board/internal/config"
	"github.com/dkeye/Board/internal/domain"
	"github.com/dkeye/Board/internal/protocol"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	reg := app.NewRegistry(0)
	o := &orch.Orchestrator{
		Registry:         reg,
		Board:            app.NewWhiteboard(),
		Broadcaster:      app.NewBroadcaster(reg),
		Policy:           app.PolicyFor("drop"),
		EnforcePresenter: true,
	}
	cfg := &config.Config{
		Mode:         "test",
		Port:         5000,
		Secret:       "test-secret",
		ReadLimit:    1 << 20,
		PingPeriod:   30 * time.Second,
		WriteTimeout: time.Second,
		SendBuffer:   16,
		SlowConsumer: "drop",
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(SetupRouter(ctx, cfg, o))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv, o
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"type": typ, "payload": payload})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

// readUntil skips frames until one of the given type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", typ)
		var f frame
		require.NoError(t, json.Unmarshal(data, &f))
		if f.Type == typ {
			return f
		}
	}
}

func joinRoom(t *testing.T, conn *websocket.Conn, name, room string, presenter bool) protocol.JoinAck {
	t.Helper()
	send(t, conn, "join", map[string]any{"name": name, "roomId": room, "presenter": presenter})
	f := readUntil(t, conn, string(protocol.EventJoinAck))
	var ack protocol.JoinAck
	require.NoError(t, json.Unmarshal(f.Payload, &ack))
	if ack.Success {
		// the joiner always gets the current board right after the ack
		readUntil(t, conn, string(protocol.EventWhiteboardUpdate))
	}
	return ack
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestSessionCookieIssued(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var names []string
	for _, c := range resp.Cookies() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "BoardSessions")
}

func TestJoinDrawAndChatOverWebsocket(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := dial(t, srv)
	bob := dial(t, srv)

	ack := joinRoom(t, alice, "alice", "r1", true)
	require.True(t, ack.Success)
	require.Len(t, ack.Members, 1)
	assert.Equal(t, "alice", ack.Members[0].Name)
	assert.NotEmpty(t, ack.Members[0].UserID, "client token fills a missing userId")

	ack = joinRoom(t, bob, "bob", "r1", false)
	require.True(t, ack.Success)
	require.Len(t, ack.Members, 2)
	assert.Equal(t, "alice", ack.Members[0].Name)
	assert.Equal(t, "bob", ack.Members[1].Name)

	f := readUntil(t, alice, string(protocol.EventMemberJoined))
	assert.JSONEq(t, `{"name":"bob"}`, string(f.Payload))

	send(t, alice, "draw-update", map[string]any{"imageSnapshot": "data:image/png;base64,AAA"})
	f = readUntil(t, bob, string(protocol.EventWhiteboardUpdate))
	assert.JSONEq(t, `{"imageSnapshot":"data:image/png;base64,AAA"}`, string(f.Payload))

	send(t, bob, "chat", map[string]any{"text": "hi"})
	f = readUntil(t, alice, string(protocol.EventChatDelivered))
	assert.JSONEq(t, `{"text":"hi","senderName":"bob"}`, string(f.Payload))
}

func TestDisconnectNotifiesRoom(t *testing.T) {
	srv, o := newTestServer(t)
	alice := dial(t, srv)
	bob := dial(t, srv)

	joinRoom(t, alice, "alice", "r1", true)
	joinRoom(t, bob, "bob", "r1", false)

	require.NoError(t, bob.Close())

	f := readUntil(t, alice, string(protocol.EventMemberLeft))
	assert.JSONEq(t, `{"name":"bob"}`, string(f.Payload))
	assert.Eventually(t, func() bool {
		return len(o.Registry.ListByRoom("r1")) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBadFrameGetsErrorAndConnectionStays(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	readUntil(t, conn, string(protocol.EventError))

	send(t, conn, "ping", nil)
	readUntil(t, conn, string(protocol.EventPong))
}

func TestRoomsEndpoint(t *testing.T) {
	srv, o := newTestServer(t)
	conn := dial(t, srv)
	joinRoom(t, conn, "alice", "r1", true)
	o.Board.Set("r1", "snap")

	resp, err := http.Get(srv.URL + "/api/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rooms":[{"id":"r1","memberCount":1,"hasSnapshot":true}]}`, string(raw))
}

func TestMembersEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)
	joinRoom(t, conn, "alice", "r1", true)

	resp, err := http.Get(srv.URL + "/api/rooms/r1/members")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Members []domain.Participant `json:"members"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Members, 1)
	assert.Equal(t, "alice", body.Members[0].Name)

	resp2, err := http.Get(srv.URL + "/api/rooms/nope/members")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}
