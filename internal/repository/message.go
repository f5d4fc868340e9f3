package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"private_chat/internal/domain"
	"private_chat/pkg/errors"
	"private_chat/pkg/logger"
)

type MessageRepository interface {
	// Append записывает сообщение и проставляет в нем id и подтвержденный timestamp.
	Append(ctx context.Context, message *domain.Message) error

	// Recent возвращает первые limit сообщений по возрастанию времени.
	// Фильтрация по беседе выполняется вызывающей стороной.
	Recent(ctx context.Context, limit int) ([]*domain.Message, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Append(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (from_user, to_user, room, content, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5::timestamptz, now()))
		RETURNING id, created_at
	`

	var createdAt any
	if !message.CreatedAt.IsZero() {
		createdAt = message.CreatedAt
	}

	err := r.db.QueryRow(ctx, query,
		message.From, message.To, message.Room, message.Content, createdAt,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		r.log.Error("Failed to append message", "error", err)
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	return nil
}

func (r *messageRepository) Recent(ctx context.Context, limit int) ([]*domain.Message, error) {
	query := `
		SELECT id, from_user, to_user, room, content, created_at
		FROM messages
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to get recent messages", "error", err)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID, &message.From, &message.To, &message.Room,
			&message.Content, &message.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}
