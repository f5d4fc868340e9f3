package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"private_chat/internal/config"
	"private_chat/pkg/logger"
)

// Hub хранит live-соединения и членство в группах доставки.
// Членство нигде не персистится: после рестарта оно восстанавливается
// из привязок при очередном attach.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client         // connection id -> client
	groups  map[string]map[string]bool // group id -> set(connection id)

	cfg config.ChatConfig
	log logger.Logger
}

func NewHub(cfg config.ChatConfig, log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]bool),
		cfg:     cfg,
		log:     log,
	}
}

// Register создает клиента с серверным connection id и регистрирует его в хабе.
func (h *Hub) Register(conn Conn) *Client {
	client := &Client{
		ID:        uuid.NewString(),
		Send:      make(chan []byte, h.cfg.SendBuffer),
		conn:      conn,
		hub:       h,
		done:      make(chan struct{}),
		writeWait: h.cfg.WriteWait,
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	h.log.Debug("Connection registered", "connection_id", client.ID)
	return client
}

// Unregister убирает соединение из хаба и из всех групп доставки.
// Привязка user -> connection при этом не трогается.
func (h *Hub) Unregister(connectionID string) {
	h.mu.Lock()
	client, ok := h.clients[connectionID]
	if ok {
		delete(h.clients, connectionID)
	}
	for group, members := range h.groups {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(h.groups, group)
		}
	}
	h.mu.Unlock()

	if ok {
		client.close()
		h.log.Debug("Connection unregistered", "connection_id", connectionID)
	}
}

// Add добавляет соединение в группу. Идемпотентна; для неизвестного
// (устаревшего) connection id — no-op.
func (h *Hub) Add(connectionID, groupID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, live := h.clients[connectionID]; !live {
		return
	}
	if h.groups[groupID] == nil {
		h.groups[groupID] = make(map[string]bool)
	}
	h.groups[groupID][connectionID] = true
}

// Broadcast шлет событие всем соединениям группы, включая отправителя.
// Отправка неблокирующая: медленное соединение не задерживает остальных.
func (h *Hub) Broadcast(groupID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("Failed to marshal broadcast payload", "error", err, "group", groupID)
		return
	}

	h.mu.RLock()
	members := h.groups[groupID]
	snapshot := make([]*Client, 0, len(members))
	for connectionID := range members {
		if c := h.clients[connectionID]; c != nil {
			snapshot = append(snapshot, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range snapshot {
		select {
		case c.Send <- data:
		default:
			h.log.Warn("Send buffer full, dropping frame", "connection_id", c.ID, "group", groupID)
		}
	}
}

// Members возвращает срез connection id группы (для тестов и отладки).
func (h *Hub) Members(groupID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.groups[groupID]))
	for connectionID := range h.groups[groupID] {
		out = append(out, connectionID)
	}
	return out
}
