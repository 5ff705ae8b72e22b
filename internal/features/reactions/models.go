// Package reactions превращает реакции на сообщения в транзакции журнала.
// models.go описывает входное событие и причины отказа.
package reactions

import (
	"context"
	"fmt"

	"serotonyl.ru/points-bot/internal/features/messages"
)

// Event: реакция, поставленная или снятая пользователем.
type Event struct {
	CommunityID int64
	ChannelID   int64
	MessageID   int64
	ActorID     int64
	EmojiKey    string
	IsRemove    bool
}

// Reason: причина, по которой событие не приводит к транзакции.
type Reason string

const (
	ReasonUnmonitoredCommunity Reason = "unmonitored_community"
	ReasonSelfAction           Reason = "self_action"
	ReasonNotPointEmoji        Reason = "not_point_emoji"
	ReasonSelfReaction         Reason = "self_reaction"
	ReasonDuplicate            Reason = "duplicate"
	ReasonNoMatchingAward      Reason = "no_matching_award"
	ReasonSourceUnavailable    Reason = "source_unavailable"
)

// Rejected: штатный отказ нормализации. Не ошибка инфраструктуры:
// логируется на Info и пользователю не показывается.
type Rejected struct {
	Reason Reason
}

func (r *Rejected) Error() string {
	return fmt.Sprintf("реакция отклонена: %s", r.Reason)
}

func reject(reason Reason) error {
	return &Rejected{Reason: reason}
}

//go:generate mockgen -source=models.go -destination=fetcher_mock.go -package=reactions

// MessageFetcher находит автора и время создания сообщения.
// Должен уважать дедлайн ctx.
type MessageFetcher interface {
	FetchMessage(ctx context.Context, channelID, messageID int64) (*messages.Message, error)
}
