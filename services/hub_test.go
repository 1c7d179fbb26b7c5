package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"minicms/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hubServer registers every websocket connection for the article in the path.
func hubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articleID, err := strconv.ParseUint(strings.TrimPrefix(r.URL.Path, "/"), 10, 32)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.RegisterClient(conn, uint(articleID))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, articleID uint) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + strconv.FormatUint(uint64(articleID), 10)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, articleID uint, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ClientCount(articleID) == n
	}, 2*time.Second, 10*time.Millisecond)
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubBroadcastsCommentToArticleRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	srv := hubServer(t, hub)

	reader := dial(t, srv, 1)
	other := dial(t, srv, 2)
	waitForClients(t, hub, 1, 1)
	waitForClients(t, hub, 2, 1)

	delivered := hub.BroadcastComment(models.Comment{ID: 5, ArticleID: 1, Author: "Mia", Text: "Nice"})
	assert.Equal(t, 1, delivered)

	msg := readMessage(t, reader)
	assert.Equal(t, "comment_added", msg.Type)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Mia", payload["author"])
	assert.Equal(t, "Nice", payload["text"])

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestHubAnswersPing(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	srv := hubServer(t, hub)

	conn := dial(t, srv, 3)
	waitForClients(t, hub, 3, 1)

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	msg := readMessage(t, conn)
	assert.Equal(t, "pong", msg.Type)
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	srv := hubServer(t, hub)

	conn := dial(t, srv, 4)
	waitForClients(t, hub, 4, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 4, 0)
	assert.Zero(t, hub.BroadcastToArticle(4, "comment_added", nil))
}
