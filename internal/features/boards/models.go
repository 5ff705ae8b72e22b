// Package boards хранит «доски»: последнее сообщение с рейтингом в каждом сообществе.
// Планировщик редактирует это сообщение, а сброс сообщества его забывает.
// Состояние лежит в БД, а не в памяти процесса, и переживает рестарт.
package boards

import (
	"context"
	"time"
)

// Board: ссылка на сообщение с рейтингом.
type Board struct {
	CommunityID int64     `json:"community_id"`
	ChatID      int64     `json:"chat_id"`
	MessageID   int64     `json:"message_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store: хранилище досок. Реализации: Repository и BoltRepository.
type Store interface {
	// Save заменяет доску сообщества.
	Save(ctx context.Context, b *Board) error
	// Get возвращает доску или nil, если её нет.
	Get(ctx context.Context, communityID int64) (*Board, error)
	Delete(ctx context.Context, communityID int64) error
}
