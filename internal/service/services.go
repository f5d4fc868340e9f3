package service

import (
	"private_chat/internal/config"
	"private_chat/internal/repository"
	"private_chat/pkg/logger"
)

type Services struct {
	Registry  RegistryService
	Room      RoomService
	Router    RouterService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, groups GroupMembership, cfg *config.Config, log logger.Logger) *Services {
	registry := NewRegistryService(repos.Binding, log)
	rooms := NewRoomService(registry, groups, cfg.Chat.RoomSeparator, log)

	return &Services{
		Registry:  registry,
		Room:      rooms,
		Router:    NewRouterService(registry, rooms, repos.Message, groups, cfg.Chat.HistoryLimit, log),
		RateLimit: NewRateLimitService(repos.RateLimit, log),
	}
}
