// Package members, service.go: регистрация участников и разрешение имён для рейтингов.
package members

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Service управляет справочником участников.
type Service struct {
	repo Store
}

// NewService создаёт новый сервис участников.
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Remember сохраняет (или обновляет) имя пользователя.
// Вызывается на каждое сообщение в отслеживаемом чате и при вступлении.
func (s *Service) Remember(ctx context.Context, userID int64, username, firstName, lastName string) error {
	m := &Member{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return fmt.Errorf("ошибка регистрации участника: %w", err)
	}
	return nil
}

// DisplayNames возвращает имена для списка ID.
// Кого нет в справочнике, получает UnknownName.
// При сбое хранилища тоже возвращается карта с UnknownName: рейтинг важнее имён.
func (s *Service) DisplayNames(ctx context.Context, userIDs []int64) map[int64]string {
	names := make(map[int64]string, len(userIDs))
	for _, id := range userIDs {
		names[id] = UnknownName
	}

	found, err := s.repo.GetMany(ctx, userIDs)
	if err != nil {
		log.WithError(err).WithField("count", len(userIDs)).Warn("Не удалось получить имена участников")
		return names
	}
	for _, m := range found {
		names[m.UserID] = m.DisplayName()
	}
	return names
}
