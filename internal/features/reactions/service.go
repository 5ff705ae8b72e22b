// Package reactions, service.go связывает нормализатор с журналом.
package reactions

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/points-bot/internal/features/ledger"
	"serotonyl.ru/points-bot/internal/metrics"
)

// Исходы обработки события, кроме причин отказа.
const (
	OutcomeRecorded        = "recorded"
	OutcomeAlreadyRecorded = "already_recorded"
	OutcomeStoreError      = "store_error"
)

type Service struct {
	normalizer *Normalizer
	store      ledger.Store
}

func NewService(normalizer *Normalizer, store ledger.Store) *Service {
	return &Service{normalizer: normalizer, store: store}
}

// HandleEvent нормализует событие и записывает транзакцию.
//
// Возвращает исход (для метрик и логов). Ошибка возвращается только при
// сбое хранилища; отказы и DuplicateTransaction: штатные исходы.
// Запись не повторяется: повтор мог бы задвоить награду.
func (s *Service) HandleEvent(ctx context.Context, ev Event) (string, error) {
	logger := log.WithFields(log.Fields{
		"community_id": ev.CommunityID,
		"message_id":   ev.MessageID,
		"actor_id":     ev.ActorID,
		"emoji":        ev.EmojiKey,
		"remove":       ev.IsRemove,
	})

	t, err := s.normalizer.Normalize(ctx, ev)
	if err != nil {
		if reason, ok := ReasonOf(err); ok {
			logger.WithField("reason", reason).Info("Реакция не учтена")
			return s.done(string(reason)), nil
		}
		logger.WithError(err).Error("Ошибка проверки реакции")
		return s.done(OutcomeStoreError), err
	}

	if _, err := s.store.Insert(ctx, t); err != nil {
		if errors.Is(err, ledger.ErrDuplicateTransaction) {
			logger.Debug("Транзакция уже записана параллельным событием")
			return s.done(OutcomeAlreadyRecorded), nil
		}
		logger.WithError(err).Error("Ошибка записи транзакции")
		return s.done(OutcomeStoreError), err
	}

	metrics.LedgerInserts.WithLabelValues(string(t.SourceKind)).Inc()
	logger.WithFields(log.Fields{
		"tx_id":        t.ID,
		"recipient_id": t.RecipientID,
		"amount":       t.Amount,
	}).Info("Транзакция записана")
	return s.done(OutcomeRecorded), nil
}

func (s *Service) done(outcome string) string {
	metrics.ReactionEvents.WithLabelValues(outcome).Inc()
	return outcome
}
