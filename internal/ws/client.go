package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn — минимальный контракт websocket-соединения, чтобы в тестах
// подставлять фейк вместо *websocket.Conn.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client — одно live-соединение. Чтение и запись идут в отдельных
// горутинах; кадры одного отправителя обрабатываются строго по порядку,
// потому что ReadPump вызывает handle синхронно.
type Client struct {
	ID   string
	Send chan []byte

	conn      Conn
	hub       *Hub
	done      chan struct{}
	writeWait time.Duration
	closeOnce sync.Once
}

func (c *Client) ReadPump(handle func(raw []byte)) {
	defer c.hub.Unregister(c.ID)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		handle(raw)
	}
}

func (c *Client) WritePump() {
	defer func() { _ = c.conn.Close() }()
	for {
		select {
		case data := <-c.Send:
			if c.writeWait > 0 {
				_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Канал Send не закрывается: конкурирующий Broadcast может держать
// клиента в своем снапшоте. Остановка идет через done.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
