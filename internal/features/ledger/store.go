// Package ledger, store.go описывает контракт хранилища журнала.
package ledger

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTransaction: запись нарушила бы инвариант дедупликации:
	// активное начисление уже есть или начисление уже отменено.
	// Для вызывающего это успешный no-op: событие уже учтено.
	ErrDuplicateTransaction = errors.New("транзакция уже учтена")
	// ErrStoreUnavailable: сбой хранилища. Запись могла и пройти,
	// поэтому повторять можно только после FindActiveAward.
	ErrStoreUnavailable = errors.New("хранилище недоступно")
	// ErrInvalidTransaction: транзакция некорректной формы.
	ErrInvalidTransaction = errors.New("некорректная транзакция")
)

// Store: журнал транзакций, разделённый по сообществам.
// Реализации: Repository (PostgreSQL) и BoltStore.
type Store interface {
	// Insert атомарно проверяет инвариант дедупликации и записывает транзакцию.
	// Заполняет ID и RecordedTime.
	Insert(ctx context.Context, t *Transaction) (int64, error)
	// Query возвращает все строки сообщества под фильтр, включая сторно.
	Query(ctx context.Context, communityID int64, f Filter) ([]Entry, error)
	// DeleteCommunity необратимо удаляет журнал одного сообщества.
	DeleteCommunity(ctx context.Context, communityID int64) (int64, error)
	// FindActiveAward возвращает начисление без сторно или nil.
	FindActiveAward(ctx context.Context, key AwardKey) (*Transaction, error)
}

// unavailable оборачивает ошибку драйвера в ErrStoreUnavailable,
// сохраняя исходную причину для errors.Is/As.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
