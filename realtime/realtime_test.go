package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"arena-api/services"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, hub *Hub, competitionID uint) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.RegisterClient(competitionID, conn)
		defer hub.UnregisterClient(competitionID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsToCompetitionClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := newHubServer(t, hub, 7)
	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	hub.RatingCommitted(services.RatingEvent{CompetitionID: 8, SubmissionID: 1, Value: 1, Aggregate: 1})
	hub.RatingCommitted(services.RatingEvent{CompetitionID: 7, SubmissionID: 3, RatingID: 9, Value: 2, Aggregate: 3})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var update RatingUpdate
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, uint(7), update.CompetitionID)
	assert.Equal(t, uint(3), update.SubmissionID)
	assert.Equal(t, uint(9), update.RatingID)
	assert.InDelta(t, 3.0, update.Rating, 1e-9)
	assert.Equal(t, "rating", update.UpdateType)
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	server := newHubServer(t, hub, 1)
	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.ClientCount(1) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount(1) == 0 }, time.Second, 10*time.Millisecond)
}

func TestRatingCommittedDropsWhenQueueIsFull(t *testing.T) {
	hub := NewHub()
	for i := 0; i < broadcastBuffer+5; i++ {
		hub.RatingCommitted(services.RatingEvent{CompetitionID: 1})
	}
	assert.Len(t, hub.broadcast, broadcastBuffer)
}
