package realtime

import (
	"context"
	"sync"
	"time"

	"arena-api/services"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	broadcastBuffer = 64
	writeTimeout    = 5 * time.Second
)

// RatingUpdate is pushed to every client watching the competition of a rated submission
type RatingUpdate struct {
	CompetitionID uint    `json:"competition_id"`
	SubmissionID  uint    `json:"submission_id"`
	RatingID      uint    `json:"rating_id"`
	Value         int     `json:"value"`
	Rating        float64 `json:"rating"`
	UpdateType    string  `json:"update_type"`
}

// Hub fans committed ratings out to the websocket clients of each competition
type Hub struct {
	mutex     sync.Mutex
	clients   map[uint]map[*websocket.Conn]bool // competition ID to connected clients
	broadcast chan RatingUpdate
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[uint]map[*websocket.Conn]bool),
		broadcast: make(chan RatingUpdate, broadcastBuffer),
	}
}

var _ services.RatingListener = (*Hub)(nil)

// RegisterClient adds a WebSocket client to a specific competition
func (h *Hub) RegisterClient(competitionID uint, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.clients[competitionID] == nil {
		h.clients[competitionID] = make(map[*websocket.Conn]bool)
	}
	h.clients[competitionID][conn] = true
}

// UnregisterClient removes a WebSocket client from a specific competition
func (h *Hub) UnregisterClient(competitionID uint, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if clients, exists := h.clients[competitionID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.clients, competitionID)
		}
	}
}

// ClientCount returns the number of clients watching a competition
func (h *Hub) ClientCount(competitionID uint) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[competitionID])
}

// RatingCommitted queues a rating for broadcast. Updates are dropped when the queue is full
func (h *Hub) RatingCommitted(event services.RatingEvent) {
	update := RatingUpdate{
		CompetitionID: event.CompetitionID,
		SubmissionID:  event.SubmissionID,
		RatingID:      event.RatingID,
		Value:         event.Value,
		Rating:        event.Aggregate,
		UpdateType:    "rating",
	}
	select {
	case h.broadcast <- update:
	default:
		log.WithField("competition_id", event.CompetitionID).Warn("Realtime queue full, rating update dropped")
	}
}

// Run delivers queued updates until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case update := <-h.broadcast:
			h.deliver(update)
		}
	}
}

func (h *Hub) deliver(update RatingUpdate) {
	h.mutex.Lock()
	clients := make([]*websocket.Conn, 0, len(h.clients[update.CompetitionID]))
	for client := range h.clients[update.CompetitionID] {
		clients = append(clients, client)
	}
	h.mutex.Unlock()

	for _, client := range clients {
		_ = client.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := client.WriteJSON(update); err != nil {
			log.Printf("WebSocket write error: %v", err)
			client.Close()
			h.UnregisterClient(update.CompetitionID, client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for competitionID, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
		delete(h.clients, competitionID)
	}
}
