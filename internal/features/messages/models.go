// Package messages ведёт индекс сообщений отслеживаемых чатов.
// Апдейты о реакциях в Telegram не содержат автора сообщения,
// поэтому автора и время создания берём из этого индекса.
package messages

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound: сообщение не попадало в индекс (написано до запуска бота или удалено).
var ErrNotFound = errors.New("сообщение не найдено")

// Message: запись индекса.
type Message struct {
	CommunityID int64     `json:"community_id"`
	ChannelID   int64     `json:"channel_id"`
	MessageID   int64     `json:"message_id"`
	AuthorID    int64     `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store: хранилище индекса. Реализации: Repository и BoltRepository.
type Store interface {
	Save(ctx context.Context, m *Message) error
	Get(ctx context.Context, channelID, messageID int64) (*Message, error)
}
