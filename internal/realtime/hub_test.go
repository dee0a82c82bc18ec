package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = ServeWS(hub, w, r, r.URL.Query().Get("user"))
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var evt Event
	require.NoError(t, json.Unmarshal(data, &evt))
	return evt
}

func TestHubDeliversToConnectedUser(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "u2")

	ctx := context.Background()
	require.Eventually(t, func() bool { return hub.Online(ctx, "u2") }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, hub.Online(ctx, "u1"))

	notifier := NewHubNotifier(hub, zerolog.Nop())
	notifier.NotifyNewMessage(models.Message{ID: "m1", Sender: models.AnonymousIdentity(), ReceiverID: "u2", Content: "boo"})

	evt := readEvent(t, conn)
	assert.Equal(t, EventTypeMessageNew, evt.Type)
	var msg models.Message
	require.NoError(t, json.Unmarshal(evt.Payload, &msg))
	assert.Equal(t, "m1", msg.ID)
	assert.Empty(t, msg.Sender.UserID)

	notifier.NotifyEvent("u2", models.NotificationEvent{ID: "like-p1-u1", Type: models.NotificationLike, Actor: models.PublicUser{ID: "u1"}})
	evt = readEvent(t, conn)
	assert.Equal(t, EventTypeNotification, evt.Type)
}

func TestHubAnswersPing(t *testing.T) {
	_, srv := startHub(t)
	conn := dial(t, srv, "u1")

	require.NoError(t, conn.WriteJSON(Event{Type: EventTypePing}))
	assert.Equal(t, EventTypePong, readEvent(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	evt := readEvent(t, conn)
	assert.Equal(t, EventTypeError, evt.Type)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &payload))
	assert.Equal(t, "INVALID_PAYLOAD", payload.Code)
}

func TestHubForgetsClosedConnections(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "u1")

	ctx := context.Background()
	require.Eventually(t, func() bool { return hub.Online(ctx, "u1") }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return !hub.Online(ctx, "u1") }, 2*time.Second, 10*time.Millisecond)
}
