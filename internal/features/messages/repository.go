// Package messages, repository.go хранит индекс в таблице message_index.
package messages

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Save добавляет сообщение. Повторная запись того же сообщения ничего не меняет:
// автор и время создания у сообщения не меняются.
func (r *Repository) Save(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO message_index (community_id, channel_id, message_id, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (channel_id, message_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, m.CommunityID, m.ChannelID, m.MessageID, m.AuthorID, m.CreatedAt); err != nil {
		return fmt.Errorf("ошибка записи сообщения в индекс: %w", err)
	}
	return nil
}

// Get возвращает ErrNotFound, если сообщения нет.
func (r *Repository) Get(ctx context.Context, channelID, messageID int64) (*Message, error) {
	query := `
		SELECT community_id, channel_id, message_id, author_id, created_at
		FROM message_index
		WHERE channel_id = $1 AND message_id = $2
	`
	var m Message
	err := r.db.QueryRow(ctx, query, channelID, messageID).Scan(
		&m.CommunityID, &m.ChannelID, &m.MessageID, &m.AuthorID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения сообщения (chat=%d, msg=%d): %w", channelID, messageID, err)
	}
	return &m, nil
}
