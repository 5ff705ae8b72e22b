// Package members ведёт справочник участников: кто есть кто по Telegram user ID.
// models.go описывает запись справочника.
package members

import (
	"context"
	"time"
)

// UnknownName: подпись для пользователя, которого нет в справочнике
// (не писал при боте или покинул чат).
const UnknownName = "покинувший участник"

// Member: участник, которого бот видел в отслеживаемых чатах.
type Member struct {
	UserID    int64     `json:"user_id"`    // Telegram user ID
	Username  string    `json:"username"`   // @username (может быть пустым)
	FirstName string    `json:"first_name"` // Имя пользователя
	LastName  string    `json:"last_name"`  // Фамилия (может быть пустой)
	UpdatedAt time.Time `json:"updated_at"` // Последнее обновление записи
}

// DisplayName возвращает отображаемое имя пользователя.
// Если есть @username, возвращает его, иначе имя + фамилию.
func (m *Member) DisplayName() string {
	if m.Username != "" {
		return "@" + m.Username
	}
	name := m.FirstName
	if m.LastName != "" {
		name += " " + m.LastName
	}
	if name == "" {
		return UnknownName
	}
	return name
}

// Store: хранилище справочника. Реализации: Repository и BoltRepository.
type Store interface {
	// Upsert создаёт или обновляет участника по user_id.
	Upsert(ctx context.Context, m *Member) error
	// GetMany возвращает найденных участников; отсутствующие просто пропускаются.
	GetMany(ctx context.Context, userIDs []int64) ([]*Member, error)
}
