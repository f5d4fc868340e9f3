package domain

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"private_chat/pkg/errors"
)

// Входящие события
const (
	EventRegister = "register"
	EventJoin     = "join"
	EventMessage  = "message"
)

// Исходящие события
const (
	EventConnected      = "connected"
	EventRegistered     = "registered"
	EventRoomJoined     = "room:joined"
	EventRoomError      = "room:error"
	EventPrivateMessage = "private:message"
	EventMessageError   = "message:error"
)

// Envelope — конверт входящего события: тег + полезная нагрузка с фиксированной схемой.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Outbound — конверт исходящего события.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type RegisterPayload struct {
	UserID string `json:"user_id" validate:"required"`
}

type JoinPayload struct {
	Users []string `json:"users" validate:"required,len=2,dive,required"`
}

type SendPayload struct {
	From    string `json:"from" validate:"required"`
	To      string `json:"to" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type ConnectedPayload struct {
	ConnectionID string `json:"connection_id"`
}

type RegisteredPayload struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type RoomJoinedPayload struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

var validate = validator.New()

// ParseEvent разбирает сырой кадр в конверт и валидирует полезную нагрузку
// по схеме тега. Неизвестный тег или невалидная схема — ошибка валидации,
// сообщаемая только инициатору.
func ParseEvent(raw []byte) (*Envelope, any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, fmt.Errorf("%w: malformed frame: %v", errors.ErrValidation, err)
	}

	var payload any
	switch env.Event {
	case EventRegister:
		payload = &RegisterPayload{}
	case EventJoin:
		payload = &JoinPayload{}
	case EventMessage:
		payload = &SendPayload{}
	default:
		return nil, nil, fmt.Errorf("%w: unknown event %q", errors.ErrValidation, env.Event)
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, payload); err != nil {
			return nil, nil, fmt.Errorf("%w: malformed %s payload: %v", errors.ErrValidation, env.Event, err)
		}
	}
	if err := validate.Struct(payload); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", errors.ErrValidation, env.Event, err)
	}

	return &env, payload, nil
}
