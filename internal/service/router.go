package service

import (
	"context"
	"time"

	"private_chat/internal/domain"
	"private_chat/internal/repository"
	pkgerrors "private_chat/pkg/errors"
	"private_chat/pkg/logger"
)

// RouterService — оркестратор: принимает входящие события, координирует
// реестр привязок, резолвер каналов и хранилище сообщений, и рассылает
// события доставки. Все сбои локальны для инициировавшего соединения.
type RouterService interface {
	// Dispatch обрабатывает один кадр события. Возвращаемое событие
	// адресовано только инициатору; рассылка в канал идет через GroupMembership.
	Dispatch(ctx context.Context, connectionID string, frame []byte) *domain.Outbound

	// History возвращает сообщения по возрастанию времени, без фильтрации
	// по участникам: беседу отбирает вызывающая сторона.
	History(ctx context.Context, limit int) ([]*domain.Message, error)
}

type routerService struct {
	registry     RegistryService
	rooms        RoomService
	messageRepo  repository.MessageRepository
	groups       GroupMembership
	historyLimit int
	log          logger.Logger
}

func NewRouterService(
	registry RegistryService,
	rooms RoomService,
	messageRepo repository.MessageRepository,
	groups GroupMembership,
	historyLimit int,
	log logger.Logger,
) RouterService {
	return &routerService{
		registry:     registry,
		rooms:        rooms,
		messageRepo:  messageRepo,
		groups:       groups,
		historyLimit: historyLimit,
		log:          log,
	}
}

func (s *routerService) Dispatch(ctx context.Context, connectionID string, frame []byte) *domain.Outbound {
	env, payload, err := domain.ParseEvent(frame)
	if err != nil {
		s.log.Debug("Rejected event", "connection_id", connectionID, "error", err)
		return &domain.Outbound{
			Event: domain.EventMessageError,
			Data:  domain.ErrorPayload{Error: err.Error()},
		}
	}

	switch p := payload.(type) {
	case *domain.RegisterPayload:
		return s.handleRegister(ctx, connectionID, p)
	case *domain.JoinPayload:
		return s.handleJoin(ctx, p)
	case *domain.SendPayload:
		return s.handleSend(ctx, p)
	default:
		// ParseEvent не пропускает неизвестные теги
		s.log.Error("Unhandled event", "event", env.Event)
		return nil
	}
}

func (s *routerService) handleRegister(ctx context.Context, connectionID string, p *domain.RegisterPayload) *domain.Outbound {
	if err := s.registry.Register(ctx, p.UserID, connectionID); err != nil {
		s.log.Error("Failed to register user", "error", err, "user_id", p.UserID)
		return &domain.Outbound{
			Event: domain.EventRegistered,
			Data:  domain.RegisteredPayload{Success: false, Error: "registration failed"},
		}
	}
	return &domain.Outbound{
		Event: domain.EventRegistered,
		Data:  domain.RegisteredPayload{Success: true, UserID: p.UserID},
	}
}

func (s *routerService) handleJoin(ctx context.Context, p *domain.JoinPayload) *domain.Outbound {
	userA, userB := p.Users[0], p.Users[1]
	if userA == userB {
		return &domain.Outbound{
			Event: domain.EventRoomError,
			Data:  domain.ErrorPayload{Error: pkgerrors.ErrSelfChannel.Error()},
		}
	}

	room, err := s.rooms.Attach(ctx, userA, userB)
	if err != nil {
		s.log.Error("Failed to attach users to room", "error", err, "room", room)
		return &domain.Outbound{
			Event: domain.EventRoomError,
			Data:  domain.ErrorPayload{Error: "failed to join room"},
		}
	}

	return &domain.Outbound{
		Event: domain.EventRoomJoined,
		Data:  domain.RoomJoinedPayload{Room: room, Users: []string{userA, userB}},
	}
}

// handleSend — конвейер отправки: attach (send подразумевает join),
// запись в хранилище, и только после подтвержденной записи — рассылка.
func (s *routerService) handleSend(ctx context.Context, p *domain.SendPayload) *domain.Outbound {
	if p.From == p.To {
		return &domain.Outbound{
			Event: domain.EventMessageError,
			Data:  domain.ErrorPayload{Error: pkgerrors.ErrSelfChannel.Error()},
		}
	}

	room, err := s.rooms.Attach(ctx, p.From, p.To)
	if err != nil {
		// Членство восстановимо на следующем attach, сообщение важнее:
		// продолжаем конвейер с возможно неполной группой.
		s.log.Warn("Attach failed before send", "error", err, "room", room)
	}

	message := &domain.Message{
		From:      p.From,
		To:        p.To,
		Room:      room,
		Content:   p.Message,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Append(ctx, message); err != nil {
		s.log.Error("Failed to persist message", "error", err, "room", room)
		return &domain.Outbound{
			Event: domain.EventMessageError,
			Data:  domain.ErrorPayload{Error: "message could not be saved"},
		}
	}

	// Отправитель, если его соединение в группе, тоже получает событие —
	// дедупликация на стороне клиента.
	s.groups.Broadcast(room, domain.Outbound{
		Event: domain.EventPrivateMessage,
		Data:  message,
	})

	return nil
}

func (s *routerService) History(ctx context.Context, limit int) ([]*domain.Message, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	return s.messageRepo.Recent(ctx, limit)
}
