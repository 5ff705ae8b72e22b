// Package ranking, handlers.go обрабатывает команды рейтинга.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/points-bot/internal/common"
)

const genericFailure = "⚠️ Не получилось, попробуйте позже"

// Messenger отправляет текст в чат и возвращает ID отправленного сообщения.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) (int64, error)
}

// Limiter: неблокирующая проверка кулдауна по ключу.
type Limiter interface {
	Allow(key int64) bool
}

type HandlerOptions struct {
	Location     *time.Location
	LegacyCutoff *time.Time
}

// Handler обрабатывает команды /ranking, /points, /reset, /adjust.
type Handler struct {
	service   *Service
	messenger Messenger
	cooldown  Limiter
	opts      HandlerOptions
	now       func() time.Time
}

func NewHandler(service *Service, messenger Messenger, cooldown Limiter, opts HandlerOptions) *Handler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Handler{
		service:   service,
		messenger: messenger,
		cooldown:  cooldown,
		opts:      opts,
		now:       time.Now,
	}
}

// HandleRanking: /ranking [период]. Повтор в том же чате раньше кулдауна молча игнорируется.
// Рейтинг за всё время становится доской, которую потом обновляет планировщик.
// Кулдаун расходуется только на разобранный период: опечатка не блокирует исправленный повтор.
func (h *Handler) HandleRanking(ctx context.Context, chatID int64, args []string) {
	w, err := ParseWindow(strings.Join(args, " "), h.now(), h.opts.Location, h.opts.LegacyCutoff)
	if err != nil {
		h.reply(ctx, chatID, "❌ "+err.Error())
		return
	}

	if !h.cooldown.Allow(chatID) {
		log.WithField("chat_id", chatID).Debug("ranking: cooldown")
		return
	}

	text, err := h.service.GetRanking(ctx, chatID, w)
	if err != nil {
		h.fail(ctx, chatID, "ranking", err)
		return
	}

	msgID, err := h.messenger.SendText(ctx, chatID, text)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки рейтинга")
		return
	}
	if w.Kind == KindAllTime {
		if err := h.service.SaveBoard(ctx, chatID, chatID, msgID); err != nil {
			log.WithError(err).WithField("chat_id", chatID).Warn("Не удалось сохранить доску")
		}
	}
}

// HandlePoints обрабатывает /points: очки пользователя за всё время.
func (h *Handler) HandlePoints(ctx context.Context, chatID, userID int64, name string) {
	total, err := h.service.GetUserTotal(ctx, chatID, userID)
	if err != nil {
		h.fail(ctx, chatID, "points", err)
		return
	}
	h.reply(ctx, chatID, fmt.Sprintf("💎 %s: %s", name, common.FormatPoints(total)))
}

// HandleReset обрабатывает /reset и стирает журнал текущего сообщества.
func (h *Handler) HandleReset(ctx context.Context, chatID int64) {
	deleted, err := h.service.ResetCommunity(ctx, chatID)
	if err != nil {
		h.fail(ctx, chatID, "reset", err)
		return
	}
	h.reply(ctx, chatID, fmt.Sprintf("🧹 Рейтинг сброшен, удалено записей: %d", deleted))
}

// HandleAdjust: /adjust <сумма> ответом на сообщение участника.
func (h *Handler) HandleAdjust(ctx context.Context, chatID, adminID, targetID int64, targetName string, args []string) {
	if targetID == 0 {
		h.reply(ctx, chatID, "❌ "+common.ErrNoTarget.Error())
		return
	}
	if len(args) != 1 {
		h.reply(ctx, chatID, "❌ "+common.ErrInvalidAmount.Error())
		return
	}
	amount, err := strconv.ParseInt(strings.TrimPrefix(args[0], "+"), 10, 64)
	if err != nil || amount == 0 {
		h.reply(ctx, chatID, "❌ "+common.ErrInvalidAmount.Error())
		return
	}

	if _, err := h.service.Adjust(ctx, chatID, adminID, targetID, amount); err != nil {
		h.fail(ctx, chatID, "adjust", err)
		return
	}
	h.reply(ctx, chatID, fmt.Sprintf("✍️ %s: %s", targetName, common.FormatSignedPoints(amount)))
}

// fail показывает пользователю понятные ошибки, остальное общим сообщением.
func (h *Handler) fail(ctx context.Context, chatID int64, op string, err error) {
	for _, known := range []error{common.ErrUnknownCommunity, common.ErrInvalidAmount} {
		if errors.Is(err, known) {
			h.reply(ctx, chatID, "❌ "+known.Error())
			return
		}
	}
	log.WithError(err).WithFields(log.Fields{"chat_id": chatID, "op": op}).Error("Ошибка команды рейтинга")
	h.reply(ctx, chatID, genericFailure)
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if _, err := h.messenger.SendText(ctx, chatID, text); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
