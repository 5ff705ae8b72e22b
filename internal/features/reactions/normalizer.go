// Package reactions, normalizer.go: правила, по которым реакция становится транзакцией.
//
// Правила проверяются по порядку, срабатывает первое:
//  1. чат не отслеживается            → unmonitored_community
//  2. реакцию поставил сам бот         → self_action
//  3. эмодзи не приносит очков         → not_point_emoji
//  4. автор сообщения = автор реакции  → self_reaction
//  5. add: активная награда уже есть   → duplicate
//  6. remove: активной награды нет     → no_matching_award
//
// Если сообщение не удалось найти за FetchTimeout: source_unavailable,
// событие выбрасывается без повторов.
package reactions

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/points-bot/internal/config"
	"serotonyl.ru/points-bot/internal/features/ledger"
	"serotonyl.ru/points-bot/internal/features/messages"
)

// AwardFinder: часть ledger.Store, нужная нормализатору.
type AwardFinder interface {
	FindActiveAward(ctx context.Context, key ledger.AwardKey) (*ledger.Transaction, error)
}

// Options: настройки нормализатора.
type Options struct {
	BotID              int64
	AllowSelfReactions bool
	FetchTimeout       time.Duration
}

// Normalizer не хранит состояния: всё состояние лежит в журнале.
type Normalizer struct {
	communities config.Communities
	awards      AwardFinder
	fetcher     MessageFetcher
	opts        Options
}

func NewNormalizer(communities config.Communities, awards AwardFinder, fetcher MessageFetcher, opts Options) *Normalizer {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 3 * time.Second
	}
	return &Normalizer{
		communities: communities,
		awards:      awards,
		fetcher:     fetcher,
		opts:        opts,
	}
}

// Normalize возвращает транзакцию-кандидата, *Rejected или ошибку хранилища.
func (n *Normalizer) Normalize(ctx context.Context, ev Event) (*ledger.Transaction, error) {
	community, ok := n.communities[ev.CommunityID]
	if !ok {
		return nil, reject(ReasonUnmonitoredCommunity)
	}
	if ev.ActorID == n.opts.BotID {
		return nil, reject(ReasonSelfAction)
	}
	points, ok := community.Points(ev.EmojiKey)
	if !ok {
		return nil, reject(ReasonNotPointEmoji)
	}

	key := ledger.AwardKey{
		CommunityID: ev.CommunityID,
		Ref:         ledger.MessageRef{ChannelID: ev.ChannelID, MessageID: ev.MessageID},
		ActorID:     ev.ActorID,
		EmojiKey:    ev.EmojiKey,
	}
	if ev.IsRemove {
		return n.reversal(ctx, ev, key)
	}
	return n.award(ctx, ev, key, points)
}

func (n *Normalizer) award(ctx context.Context, ev Event, key ledger.AwardKey, points int64) (*ledger.Transaction, error) {
	msg, err := n.fetch(ctx, ev)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"chat_id":    ev.ChannelID,
			"message_id": ev.MessageID,
		}).Debug("Сообщение для реакции не найдено")
		return nil, reject(ReasonSourceUnavailable)
	}
	if !n.opts.AllowSelfReactions && msg.AuthorID == ev.ActorID {
		return nil, reject(ReasonSelfReaction)
	}

	active, err := n.awards.FindActiveAward(ctx, key)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, reject(ReasonDuplicate)
	}

	emoji := ev.EmojiKey
	ref := key.Ref
	return &ledger.Transaction{
		CommunityID:   ev.CommunityID,
		RecipientID:   msg.AuthorID,
		ActorID:       ev.ActorID,
		Amount:        points,
		SourceKind:    ledger.SourceReactionAdd,
		EmojiKey:      &emoji,
		MessageRef:    &ref,
		EffectiveTime: msg.CreatedAt,
	}, nil
}

// reversal отменяет активную награду. Получатель, сумма и effective_time
// берутся из самой награды, поэтому сторно попадает в тот же период.
func (n *Normalizer) reversal(ctx context.Context, ev Event, key ledger.AwardKey) (*ledger.Transaction, error) {
	active, err := n.awards.FindActiveAward(ctx, key)
	if err != nil {
		return nil, err
	}

	if active == nil {
		// Отменять нечего. Сообщение ищем только чтобы отличить самореакцию.
		if !n.opts.AllowSelfReactions {
			if msg, err := n.fetch(ctx, ev); err == nil && msg.AuthorID == ev.ActorID {
				return nil, reject(ReasonSelfReaction)
			}
		}
		return nil, reject(ReasonNoMatchingAward)
	}
	if !n.opts.AllowSelfReactions && active.RecipientID == ev.ActorID {
		return nil, reject(ReasonSelfReaction)
	}

	emoji := ev.EmojiKey
	ref := key.Ref
	reverses := active.ID
	return &ledger.Transaction{
		CommunityID:   ev.CommunityID,
		RecipientID:   active.RecipientID,
		ActorID:       ev.ActorID,
		Amount:        -active.Amount,
		SourceKind:    ledger.SourceReactionRemove,
		EmojiKey:      &emoji,
		MessageRef:    &ref,
		ReversesID:    &reverses,
		EffectiveTime: active.EffectiveTime,
	}, nil
}

func (n *Normalizer) fetch(ctx context.Context, ev Event) (*messages.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, n.opts.FetchTimeout)
	defer cancel()

	msg, err := n.fetcher.FetchMessage(ctx, ev.ChannelID, ev.MessageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, messages.ErrNotFound
	}
	return msg, nil
}

// ReasonOf достаёт причину отказа из ошибки нормализации.
func ReasonOf(err error) (Reason, bool) {
	var rejected *Rejected
	if errors.As(err, &rejected) {
		return rejected.Reason, true
	}
	return "", false
}
