// Package reactions, handlers.go разбирает апдейты message_reaction от Telegram.
package reactions

import (
	"context"
	"slices"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// Handler обрабатывает изменения реакций.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleReaction превращает апдейт в события и обрабатывает их по очереди.
func (h *Handler) HandleReaction(ctx context.Context, upd *telego.MessageReactionUpdated) {
	for _, ev := range EventsFromUpdate(upd) {
		if _, err := h.service.HandleEvent(ctx, ev); err != nil {
			log.WithError(err).WithField("chat_id", ev.ChannelID).Warn("Событие реакции потеряно")
		}
	}
}

// EventsFromUpdate сравнивает старый и новый наборы реакций пользователя.
// Сначала идут снятые реакции, затем поставленные.
// Анонимные реакции (от имени чата) не учитываются: нет пользователя.
func EventsFromUpdate(upd *telego.MessageReactionUpdated) []Event {
	if upd == nil || upd.User == nil {
		return nil
	}

	oldKeys := emojiKeys(upd.OldReaction)
	newKeys := emojiKeys(upd.NewReaction)

	base := Event{
		CommunityID: upd.Chat.ID,
		ChannelID:   upd.Chat.ID,
		MessageID:   int64(upd.MessageID),
		ActorID:     upd.User.ID,
	}

	var events []Event
	for _, k := range oldKeys {
		if !slices.Contains(newKeys, k) {
			ev := base
			ev.EmojiKey, ev.IsRemove = k, true
			events = append(events, ev)
		}
	}
	for _, k := range newKeys {
		if !slices.Contains(oldKeys, k) {
			ev := base
			ev.EmojiKey = k
			events = append(events, ev)
		}
	}
	return events
}

// EmojiKey возвращает стабильный ключ реакции: сам эмодзи или "custom:<id>".
// Платные реакции ключа не имеют.
func EmojiKey(r telego.ReactionType) (string, bool) {
	switch v := r.(type) {
	case *telego.ReactionTypeEmoji:
		return v.Emoji, true
	case *telego.ReactionTypeCustomEmoji:
		return "custom:" + v.CustomEmojiID, true
	default:
		return "", false
	}
}

func emojiKeys(list []telego.ReactionType) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		if k, ok := EmojiKey(r); ok && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}
