// Package ledger хранит журнал транзакций очков.
// models.go описывает транзакцию и ключ дедупликации начислений.
package ledger

import (
	"fmt"
	"time"
)

// SourceKind: происхождение транзакции.
type SourceKind string

const (
	SourceReactionAdd      SourceKind = "reaction_add"      // Начисление за поставленную реакцию
	SourceReactionRemove   SourceKind = "reaction_remove"   // Сторно при снятии реакции
	SourceManualAdjustment SourceKind = "manual_adjustment" // Ручная корректировка админом
)

// MessageRef указывает на сообщение, к которому относится реакция.
type MessageRef struct {
	ChannelID int64 `json:"channel_id"`
	MessageID int64 `json:"message_id"`
}

// Transaction: неизменяемый факт журнала.
// После записи не меняется: исправления делаются новыми транзакциями.
type Transaction struct {
	ID          int64       `json:"id"`           // Монотонный ID, выдаётся хранилищем
	CommunityID int64       `json:"community_id"` // Экономика, к которой относится транзакция
	RecipientID int64       `json:"recipient_id"` // Чей баланс меняется (автор сообщения)
	ActorID     int64       `json:"actor_id"`     // Кто поставил/снял реакцию
	Amount      int64       `json:"amount"`       // >0 начисление, <0 сторно
	SourceKind  SourceKind  `json:"source_kind"`
	EmojiKey    *string     `json:"emoji_key,omitempty"`   // nil для ручных корректировок
	MessageRef  *MessageRef `json:"message_ref,omitempty"` // nil для ручных корректировок
	// ReversesID: ID начисления, которое отменяет эта транзакция (только для сторно)
	ReversesID *int64 `json:"reverses_id,omitempty"`
	// EffectiveTime: время создания исходного сообщения. По нему считаются периоды.
	EffectiveTime time.Time `json:"effective_time"`
	// RecordedTime: время записи в журнал, только для аудита.
	RecordedTime time.Time `json:"recorded_time"`
}

// AwardKey задаёт ключ дедупликации: одна активная награда на
// (сообщество, сообщение, кто поставил, эмодзи).
type AwardKey struct {
	CommunityID int64
	Ref         MessageRef
	ActorID     int64
	EmojiKey    string
}

func (k AwardKey) String() string {
	return fmt.Sprintf("%d:%d:%d:%d:%s", k.CommunityID, k.Ref.ChannelID, k.Ref.MessageID, k.ActorID, k.EmojiKey)
}

// AwardKey возвращает ключ дедупликации для транзакций из реакций.
func (t *Transaction) AwardKey() (AwardKey, bool) {
	if t.EmojiKey == nil || t.MessageRef == nil {
		return AwardKey{}, false
	}
	return AwardKey{
		CommunityID: t.CommunityID,
		Ref:         *t.MessageRef,
		ActorID:     t.ActorID,
		EmojiKey:    *t.EmojiKey,
	}, true
}

// Validate проверяет форму транзакции до записи.
func (t *Transaction) Validate() error {
	if t.Amount == 0 {
		return fmt.Errorf("%w: нулевая сумма", ErrInvalidTransaction)
	}
	if t.EffectiveTime.IsZero() {
		return fmt.Errorf("%w: не задано effective_time", ErrInvalidTransaction)
	}
	switch t.SourceKind {
	case SourceReactionAdd:
		if _, ok := t.AwardKey(); !ok || t.Amount < 0 || t.ReversesID != nil {
			return fmt.Errorf("%w: некорректное начисление", ErrInvalidTransaction)
		}
	case SourceReactionRemove:
		if _, ok := t.AwardKey(); !ok || t.Amount > 0 || t.ReversesID == nil {
			return fmt.Errorf("%w: некорректное сторно", ErrInvalidTransaction)
		}
	case SourceManualAdjustment:
		if t.EmojiKey != nil || t.MessageRef != nil || t.ReversesID != nil {
			return fmt.Errorf("%w: корректировка не ссылается на реакцию", ErrInvalidTransaction)
		}
	default:
		return fmt.Errorf("%w: неизвестный source_kind %q", ErrInvalidTransaction, t.SourceKind)
	}
	return nil
}

// Entry: строка выборки для агрегации.
type Entry struct {
	RecipientID int64
	Amount      int64
}

// Filter сужает выборку. Интервал полуоткрытый: [From, To).
type Filter struct {
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// Match проверяет транзакцию против фильтра.
func (f Filter) Match(t *Transaction) bool {
	if f.UserID != nil && t.RecipientID != *f.UserID {
		return false
	}
	if f.From != nil && t.EffectiveTime.Before(*f.From) {
		return false
	}
	if f.To != nil && !t.EffectiveTime.Before(*f.To) {
		return false
	}
	return true
}
