package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"private_chat/internal/domain"
	"private_chat/internal/service"
	"private_chat/internal/ws"
	"private_chat/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно проверять origin
	},
}

type WebSocketHandler struct {
	router service.RouterService
	hub    *ws.Hub
	log    logger.Logger
}

func NewWebSocketHandler(router service.RouterService, hub *ws.Hub, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		router: router,
		hub:    hub,
		log:    log,
	}
}

// HandleChat поднимает websocket-соединение и гоняет цикл событий.
// Одна горутина чтения на соединение: события одного отправителя
// обрабатываются в порядке отправки.
func (h *WebSocketHandler) HandleChat(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := h.hub.Register(conn)
	go client.WritePump()

	h.reply(client, &domain.Outbound{
		Event: domain.EventConnected,
		Data:  domain.ConnectedPayload{ConnectionID: client.ID},
	})

	ctx := c.Request.Context()
	client.ReadPump(func(raw []byte) {
		if out := h.router.Dispatch(ctx, client.ID, raw); out != nil {
			h.reply(client, out)
		}
	})
}

func (h *WebSocketHandler) reply(client *ws.Client, out *domain.Outbound) {
	data, err := json.Marshal(out)
	if err != nil {
		h.log.Error("Failed to marshal reply", "error", err, "event", out.Event)
		return
	}
	select {
	case client.Send <- data:
	default:
		h.log.Warn("Send buffer full, dropping reply", "connection_id", client.ID, "event", out.Event)
	}
}
