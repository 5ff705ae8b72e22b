// Package messages, service.go: запись в индекс и поиск сообщения для реакций.
package messages

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Record запоминает автора и время сообщения.
func (s *Service) Record(ctx context.Context, communityID, channelID, messageID, authorID int64, createdAt time.Time) error {
	m := &Message{
		CommunityID: communityID,
		ChannelID:   channelID,
		MessageID:   messageID,
		AuthorID:    authorID,
		CreatedAt:   createdAt.UTC(),
	}
	if err := s.store.Save(ctx, m); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"chat_id":    channelID,
		"message_id": messageID,
		"author_id":  authorID,
	}).Debug("Сообщение добавлено в индекс")
	return nil
}

// FetchMessage возвращает автора и время создания сообщения.
// Ожидание ограничено дедлайном ctx: вызывающий сам задаёт таймаут.
func (s *Service) FetchMessage(ctx context.Context, channelID, messageID int64) (*Message, error) {
	type result struct {
		m   *Message
		err error
	}
	done := make(chan result, 1)
	go func() {
		m, err := s.store.Get(ctx, channelID, messageID)
		done <- result{m, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("поиск сообщения прерван: %w", ctx.Err())
	case r := <-done:
		return r.m, r.err
	}
}
