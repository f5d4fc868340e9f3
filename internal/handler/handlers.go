package handler

import (
	"private_chat/internal/config"
	"private_chat/internal/service"
	"private_chat/internal/ws"
	"private_chat/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Messages  *MessagesHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, hub *ws.Hub, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(cfg),
		Messages:  NewMessagesHandler(services.Router, log),
		WebSocket: NewWebSocketHandler(services.Router, hub, log),
	}
}
