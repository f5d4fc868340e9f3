package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	pkgerrors "private_chat/pkg/errors"
	"private_chat/pkg/logger"
)

// GroupMembership — живое членство в группах доставки на стороне транспорта.
// Сервисы зависят только от этого интерфейса, не от конкретного хаба.
type GroupMembership interface {
	Add(connectionID, groupID string)
	Broadcast(groupID string, payload any)
}

type RoomService interface {
	// ChannelID — чистая коммутативная функция: ChannelID(a, b) == ChannelID(b, a).
	ChannelID(userA, userB string) string

	// Attach подключает live-соединения обоих пользователей к группе канала.
	// Отсутствие привязки — молчаливый пропуск (пользователь оффлайн, доставка
	// ему отложена до чтения истории). Имя канала возвращается всегда.
	Attach(ctx context.Context, userA, userB string) (string, error)
}

type roomService struct {
	registry  RegistryService
	groups    GroupMembership
	separator string
	log       logger.Logger
}

func NewRoomService(registry RegistryService, groups GroupMembership, separator string, log logger.Logger) RoomService {
	return &roomService{
		registry:  registry,
		groups:    groups,
		separator: separator,
		log:       log,
	}
}

func (s *roomService) ChannelID(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, s.separator)
}

func (s *roomService) Attach(ctx context.Context, userA, userB string) (string, error) {
	channelID := s.ChannelID(userA, userB)

	for _, userID := range []string{userA, userB} {
		connectionID, err := s.registry.Lookup(ctx, userID)
		if errors.Is(err, pkgerrors.ErrBindingNotFound) {
			continue
		}
		if err != nil {
			return channelID, err
		}
		s.groups.Add(connectionID, channelID)
	}

	return channelID, nil
}
