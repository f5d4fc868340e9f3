package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"private_chat/internal/domain"
	"private_chat/internal/service"
	"private_chat/pkg/logger"
)

type MessagesHandler struct {
	router service.RouterService
	log    logger.Logger
}

func NewMessagesHandler(router service.RouterService, log logger.Logger) *MessagesHandler {
	return &MessagesHandler{
		router: router,
		log:    log,
	}
}

// GetMessages отдает историю по возрастанию времени. Фильтрация по беседе —
// на стороне клиента, ядро сообщений по участникам не фильтрует.
func (h *MessagesHandler) GetMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	messages, err := h.router.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching messages"})
		return
	}

	if messages == nil {
		messages = []*domain.Message{}
	}
	c.JSON(http.StatusOK, messages)
}
