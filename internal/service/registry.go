package service

import (
	"context"

	"private_chat/internal/repository"
	"private_chat/pkg/logger"
)

type RegistryService interface {
	// Register выполняет upsert привязки user -> connection.
	// Повторная регистрация той же пары — no-op по эффекту, регистрация
	// нового соединения заменяет старую привязку (переподключение).
	Register(ctx context.Context, userID, connectionID string) error

	// Lookup мягко возвращает ErrBindingNotFound для незарегистрированного
	// пользователя: это ожидаемое состояние, не сбой.
	Lookup(ctx context.Context, userID string) (string, error)
}

type registryService struct {
	bindingRepo repository.BindingRepository
	log         logger.Logger
}

func NewRegistryService(bindingRepo repository.BindingRepository, log logger.Logger) RegistryService {
	return &registryService{
		bindingRepo: bindingRepo,
		log:         log,
	}
}

func (s *registryService) Register(ctx context.Context, userID, connectionID string) error {
	if err := s.bindingRepo.Register(ctx, userID, connectionID); err != nil {
		return err
	}
	s.log.Debug("User registered", "user_id", userID, "connection_id", connectionID)
	return nil
}

func (s *registryService) Lookup(ctx context.Context, userID string) (string, error) {
	binding, err := s.bindingRepo.Lookup(ctx, userID)
	if err != nil {
		return "", err
	}
	return binding.ConnectionID, nil
}
