package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"private_chat/pkg/logger"
)

type Repositories struct {
	Message   MessageRepository
	Binding   BindingRepository
	RateLimit RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		Message:   NewMessageRepository(db, log),
		Binding:   NewBindingRepository(redis, log),
		RateLimit: NewRateLimitRepository(redis, log),
	}
}
