package competitions

import (
	"context"
	"net/http"

	"arena-api/services"
	"arena-api/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CompetitionWebSocket streams the rating updates of a competition
// @Summary Watch the ratings of a competition
// @Description Upgrade to a websocket receiving a message for every committed rating
// @Tags Competitions
// @Param id path int true "Competition ID"
// @Failure 404 {object} response.ErrorBody
// @Router /competitions/{id}/ws [get]
func (h *Handler) CompetitionWebSocket(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	_, err = h.competitions.Get(ctx, id)
	cancel()
	if err != nil {
		response.Failure(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	h.hub.RegisterClient(id, conn)
	defer func() {
		h.hub.UnregisterClient(id, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}
	}
}
