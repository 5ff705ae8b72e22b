// Package ranking, service.go: административные операции над рейтингом.
// Проверка allow-list выполняется до вызова (в роутере бота).
package ranking

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/points-bot/internal/common"
	"serotonyl.ru/points-bot/internal/config"
	"serotonyl.ru/points-bot/internal/features/boards"
	"serotonyl.ru/points-bot/internal/features/ledger"
	"serotonyl.ru/points-bot/internal/metrics"
)

// NameResolver отдаёт отображаемые имена по user ID.
type NameResolver interface {
	DisplayNames(ctx context.Context, userIDs []int64) map[int64]string
}

// Options: параметры отображения.
type Options struct {
	TopN             int
	StatusTopN       int
	StatusMaxLength  int
	StatusNameBudget int
	// Предельный модуль одной ручной корректировки
	MaxAdjustment    int64
}

const defaultMaxAdjustment = 10000

type Service struct {
	aggregator  *Aggregator
	store       ledger.Store
	boards      boards.Store
	names       NameResolver
	communities config.Communities
	opts        Options
	now         func() time.Time
}

func NewService(store ledger.Store, boardStore boards.Store, names NameResolver, communities config.Communities, opts Options) *Service {
	if opts.MaxAdjustment <= 0 {
		opts.MaxAdjustment = defaultMaxAdjustment
	}
	return &Service{
		aggregator:  NewAggregator(store),
		store:       store,
		boards:      boardStore,
		names:       names,
		communities: communities,
		opts:        opts,
		now:         time.Now,
	}
}

// Communities: ID отслеживаемых сообществ по порядку.
func (s *Service) Communities() []int64 {
	return s.communities.IDs()
}

// Compute: итоги сообщества за период.
func (s *Service) Compute(ctx context.Context, communityID int64, w Window) (*Result, error) {
	return s.aggregator.Compute(ctx, communityID, w)
}

// GetRanking возвращает текст рейтинга сообщества за период.
func (s *Service) GetRanking(ctx context.Context, communityID int64, w Window) (string, error) {
	if _, ok := s.communities[communityID]; !ok {
		return "", common.ErrUnknownCommunity
	}
	metrics.RankingQueries.WithLabelValues(string(w.Kind)).Inc()

	res, err := s.aggregator.Compute(ctx, communityID, w)
	if err != nil {
		return "", err
	}
	return s.RankingText(ctx, res), nil
}

// RankingText форматирует готовый результат сообщества.
func (s *Service) RankingText(ctx context.Context, res *Result) string {
	title := "Рейтинг"
	if c, ok := s.communities[res.CommunityID]; ok && c.Name != "" {
		title = "Рейтинг «" + c.Name + "»"
	}
	return FormatRanking(title, res, s.opts.TopN, s.namesFor(ctx, res.Leaders(s.opts.TopN)))
}

// StatusText форматирует строку статуса из (обычно объединённого) результата.
func (s *Service) StatusText(ctx context.Context, res *Result) string {
	leaders := res.Leaders(s.opts.StatusTopN)
	return FormatStatus(res, s.opts.StatusTopN, s.opts.StatusMaxLength, s.opts.StatusNameBudget, s.namesFor(ctx, leaders))
}

// GetUserTotal: итог пользователя за всё время.
func (s *Service) GetUserTotal(ctx context.Context, communityID, userID int64) (int64, error) {
	if _, ok := s.communities[communityID]; !ok {
		return 0, common.ErrUnknownCommunity
	}
	return s.aggregator.UserTotal(ctx, communityID, userID, AllTime())
}

// ResetCommunity необратимо стирает журнал сообщества и забывает его доску.
func (s *Service) ResetCommunity(ctx context.Context, communityID int64) (int64, error) {
	if _, ok := s.communities[communityID]; !ok {
		return 0, common.ErrUnknownCommunity
	}
	deleted, err := s.store.DeleteCommunity(ctx, communityID)
	if err != nil {
		return 0, fmt.Errorf("ошибка сброса сообщества %d: %w", communityID, err)
	}
	if err := s.boards.Delete(ctx, communityID); err != nil {
		log.WithError(err).WithField("community_id", communityID).Warn("Не удалось удалить доску после сброса")
	}

	log.WithFields(log.Fields{
		"community_id": communityID,
		"deleted":      deleted,
	}).Warn("Рейтинг сообщества сброшен")
	return deleted, nil
}

// Adjust записывает ручную корректировку. effective_time: момент корректировки.
func (s *Service) Adjust(ctx context.Context, communityID, adminID, targetID, amount int64) (*ledger.Transaction, error) {
	if _, ok := s.communities[communityID]; !ok {
		return nil, common.ErrUnknownCommunity
	}
	// сравнение с обеих сторон: -math.MinInt64 не помещается в int64
	if amount == 0 || amount > s.opts.MaxAdjustment || amount < -s.opts.MaxAdjustment {
		return nil, common.ErrInvalidAmount
	}
	t := &ledger.Transaction{
		CommunityID:   communityID,
		RecipientID:   targetID,
		ActorID:       adminID,
		Amount:        amount,
		SourceKind:    ledger.SourceManualAdjustment,
		EffectiveTime: s.now().UTC(),
	}
	if _, err := s.store.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("ошибка записи корректировки: %w", err)
	}
	metrics.LedgerInserts.WithLabelValues(string(t.SourceKind)).Inc()

	log.WithFields(log.Fields{
		"community_id": communityID,
		"admin_id":     adminID,
		"target_id":    targetID,
		"amount":       amount,
	}).Info("Ручная корректировка")
	return t, nil
}

// Board: доска сообщества или nil.
func (s *Service) Board(ctx context.Context, communityID int64) (*boards.Board, error) {
	return s.boards.Get(ctx, communityID)
}

// SaveBoard запоминает сообщение с рейтингом, которое будет обновлять планировщик.
func (s *Service) SaveBoard(ctx context.Context, communityID, chatID, messageID int64) error {
	return s.boards.Save(ctx, &boards.Board{CommunityID: communityID, ChatID: chatID, MessageID: messageID})
}

func (s *Service) namesFor(ctx context.Context, leaders []Standing) map[int64]string {
	if len(leaders) == 0 {
		return nil
	}
	ids := make([]int64, len(leaders))
	for i, l := range leaders {
		ids[i] = l.UserID
	}
	return s.names.DisplayNames(ctx, ids)
}
