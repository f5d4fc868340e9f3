package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"private_chat/internal/domain"
	"private_chat/pkg/errors"
	"private_chat/pkg/logger"
)

const (
	// Префикс ключей привязок user -> connection
	BindingKeyPrefix = "binding:user:%s"
)

type BindingRepository interface {
	// Register выполняет upsert привязки. SET атомарен на уровне ключа,
	// поэтому поздняя регистрация не может быть перезаписана более ранней.
	Register(ctx context.Context, userID, connectionID string) error

	// Lookup возвращает текущую привязку пользователя.
	// Отсутствие привязки — ожидаемое состояние (ErrBindingNotFound), не сбой.
	Lookup(ctx context.Context, userID string) (*domain.UserConnectionBinding, error)
}

type bindingRepository struct {
	rdb *redis.Client
	log logger.Logger
}

func NewBindingRepository(rdb *redis.Client, log logger.Logger) BindingRepository {
	return &bindingRepository{rdb: rdb, log: log}
}

func (r *bindingRepository) key(userID string) string {
	return fmt.Sprintf(BindingKeyPrefix, userID)
}

func (r *bindingRepository) Register(ctx context.Context, userID, connectionID string) error {
	// Привязка живет до следующей регистрации, TTL не ставим:
	// отключение соединения привязку не удаляет.
	if err := r.rdb.Set(ctx, r.key(userID), connectionID, 0).Err(); err != nil {
		r.log.Error("Failed to register binding", "error", err, "user_id", userID)
		return fmt.Errorf("failed to register binding: %w", err)
	}
	return nil
}

func (r *bindingRepository) Lookup(ctx context.Context, userID string) (*domain.UserConnectionBinding, error) {
	connectionID, err := r.rdb.Get(ctx, r.key(userID)).Result()
	if err == redis.Nil {
		return nil, errors.ErrBindingNotFound
	}
	if err != nil {
		r.log.Error("Failed to lookup binding", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to lookup binding: %w", err)
	}
	return &domain.UserConnectionBinding{UserID: userID, ConnectionID: connectionID}, nil
}
