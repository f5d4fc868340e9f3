package domain

import (
	"time"
)

// Message — неизменяемая запись личного сообщения.
// Идентификатор и подтвержденный timestamp присваиваются при записи в БД.
type Message struct {
	ID        int64     `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to,omitempty"`
	Room      string    `json:"room,omitempty"`
	Content   string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
}
