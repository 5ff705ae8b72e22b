// Package bot содержит главный модуль бота: приём апдейтов и маршрутизацию.
// bot.go читает long polling и раздаёт апдейты обработчикам.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/points-bot/internal/bot/filters"
	"serotonyl.ru/points-bot/internal/bot/middleware"
	"serotonyl.ru/points-bot/internal/config"
	"serotonyl.ru/points-bot/internal/features/members"
	"serotonyl.ru/points-bot/internal/features/messages"
	"serotonyl.ru/points-bot/internal/features/ranking"
	"serotonyl.ru/points-bot/internal/features/reactions"
)

const failureReply = "⚠️ Не получилось, попробуйте позже"

const helpText = `💎 Очки за реакции

Ставьте реакции на сообщения: автор получает очки, снятая реакция их забирает.

/ranking — рейтинг за всё время
/ranking month | year | 2024-03 | 2024 | legacy — рейтинг за период
/points — ваши очки (ответом на сообщение — очки автора)
/reset — сбросить рейтинг сообщества (админ)
/adjust <±сумма> — ответом на сообщение, ручная корректировка (админ)`

// Updater: источник апдейтов. *telego.Bot её реализует.
type Updater interface {
	UpdatesViaLongPolling(ctx context.Context, params *telego.GetUpdatesParams, options ...telego.LongPollingOption) (<-chan telego.Update, error)
}

// Bot: главная структура бота, объединяющая все компоненты.
type Bot struct {
	updater Updater
	gateway *Gateway
	cfg     *config.Config

	chatFilter *filters.ChatFilter

	memberHandler   *members.Handler
	reactionHandler *reactions.Handler
	rankingHandler  *ranking.Handler

	messageService *messages.Service

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
	// обработчики, которые ещё работают; Start дожидается их перед выходом
	handlers sync.WaitGroup
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	updater Updater,
	gateway *Gateway,
	cfg *config.Config,
	botUsername string,
	chatFilter *filters.ChatFilter,
	messageService *messages.Service,
	memberHandler *members.Handler,
	reactionHandler *reactions.Handler,
	rankingHandler *ranking.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		updater:         updater,
		gateway:         gateway,
		cfg:             cfg,
		chatFilter:      chatFilter,
		memberHandler:   memberHandler,
		reactionHandler: reactionHandler,
		rankingHandler:  rankingHandler,
		messageService:  messageService,
		parser:          NewCommandParser(botUsername),
		inflight:        make(chan struct{}, maxInFlight),
	}
}

// Start читает апдейты до отмены ctx. Реакции приходят только если
// бот является администратором группы и message_reaction указан в allowed_updates.
// Возвращается после завершения всех запущенных обработчиков, так что хранилище
// можно закрывать сразу после Start.
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.updater.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout:        b.cfg.BotUpdateTimeoutSeconds,
		AllowedUpdates: []string{"message", "message_reaction"},
	})
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает апдейты...")

	defer b.handlers.Wait()

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done), ждём обработчики...")
			return nil

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return nil
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			b.handlers.Add(1)
			go func(upd telego.Update) {
				defer b.handlers.Done()
				defer func() { <-b.inflight }()
				b.HandleUpdate(ctx, upd)
			}(update)
		}
	}
}

// HandleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) HandleUpdate(ctx context.Context, update telego.Update) {
	switch {
	case update.MessageReaction != nil:
		b.handleReaction(ctx, update.MessageReaction)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleReaction(ctx context.Context, upd *telego.MessageReactionUpdated) {
	defer middleware.RecoverFromPanic(nil)

	middleware.LogReaction(upd)
	if !b.chatFilter.IsMonitored(upd.Chat.ID) {
		return
	}
	b.reactionHandler.HandleReaction(ctx, upd)
}

func (b *Bot) handleMessage(ctx context.Context, message *telego.Message) {
	chatID := message.Chat.ID
	defer middleware.RecoverFromPanic(func() {
		b.reply(ctx, chatID, failureReply)
	})

	// Вступление новых участников
	if len(message.NewChatMembers) > 0 {
		if b.chatFilter.IsMonitored(chatID) {
			b.memberHandler.HandleNewChatMembers(ctx, message.NewChatMembers)
		}
		return
	}

	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}

	b.memberHandler.HandleUser(ctx, message.From)
	b.indexMessage(ctx, message)

	if message.Text == "" {
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}
	log.WithFields(log.Fields{
		"cmd":     cmd,
		"args":    args,
		"chat_id": chatID,
	}).Debug("parsed command")

	b.routeCommand(ctx, message, cmd, args)
}

// indexMessage записывает автора сообщения, а заодно и автора сообщения,
// на которое ответили: оно могло быть отправлено до запуска бота.
func (b *Bot) indexMessage(ctx context.Context, message *telego.Message) {
	chatID := message.Chat.ID
	record := func(m *telego.Message) {
		if m.From == nil || m.From.IsBot {
			return
		}
		err := b.messageService.Record(ctx, chatID, chatID, int64(m.MessageID), m.From.ID, time.Unix(m.Date, 0))
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"chat_id":    chatID,
				"message_id": m.MessageID,
			}).Warn("Не удалось проиндексировать сообщение")
		}
	}

	record(message)
	if message.ReplyToMessage != nil {
		record(message.ReplyToMessage)
	}
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, message *telego.Message, cmd string, args []string) {
	chatID := message.Chat.ID
	userID := message.From.ID

	switch cmd {
	case "start", "help", "помощь":
		b.reply(ctx, chatID, helpText)

	case "ranking", "рейтинг", "top", "топ":
		b.rankingHandler.HandleRanking(ctx, chatID, args)

	case "points", "очки":
		target := message.From
		if reply := replyAuthor(message); reply != nil {
			target = reply
		}
		b.rankingHandler.HandlePoints(ctx, chatID, target.ID, displayName(target))

	case "reset", "сброс":
		if err := b.chatFilter.RequireAdmin(userID); err != nil {
			b.reply(ctx, chatID, "⛔ "+err.Error())
			return
		}
		b.rankingHandler.HandleReset(ctx, chatID)

	case "adjust", "начислить":
		if err := b.chatFilter.RequireAdmin(userID); err != nil {
			b.reply(ctx, chatID, "⛔ "+err.Error())
			return
		}
		var targetID int64
		var targetName string
		if target := replyAuthor(message); target != nil {
			targetID, targetName = target.ID, displayName(target)
		}
		b.rankingHandler.HandleAdjust(ctx, chatID, userID, targetID, targetName, args)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	// ошибка уже залогирована в Gateway
	_, _ = b.gateway.SendText(ctx, chatID, text)
}

// replyAuthor: автор сообщения, на которое ответили, если это человек.
func replyAuthor(message *telego.Message) *telego.User {
	reply := message.ReplyToMessage
	if reply == nil || reply.From == nil || reply.From.IsBot {
		return nil
	}
	return reply.From
}

func displayName(u *telego.User) string {
	m := members.Member{UserID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
	return m.DisplayName()
}
