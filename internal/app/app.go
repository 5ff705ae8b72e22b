// Package app инициализирует все компоненты приложения.
// app.go собирает хранилище, Telegram API, сервисы, обработчики,
// планировщик и служебный HTTP.
package app

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/points-bot/internal/bot"
	"serotonyl.ru/points-bot/internal/bot/filters"
	"serotonyl.ru/points-bot/internal/bot/middleware"
	"serotonyl.ru/points-bot/internal/config"
	"serotonyl.ru/points-bot/internal/features/members"
	"serotonyl.ru/points-bot/internal/features/messages"
	"serotonyl.ru/points-bot/internal/features/ranking"
	"serotonyl.ru/points-bot/internal/features/reactions"
	"serotonyl.ru/points-bot/internal/jobs"
	"serotonyl.ru/points-bot/internal/ops"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	Ops       *ops.Server // nil, если OPS_ADDR пуст

	cooldown *middleware.Cooldown
	storage  *storage
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен: компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище ===
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Telegram Bot API ===
	api, err := telego.NewBot(cfg.TelegramBotToken, telego.WithDefaultLogger(cfg.AppEnv == "development", true))
	if err != nil {
		store.close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	me, err := api.GetMe(ctx)
	if err != nil {
		store.close()
		return nil, fmt.Errorf("ошибка авторизации в Telegram: %w", err)
	}
	log.Infof("Авторизован как @%s", me.Username)

	loc := cfg.Location()
	gateway := bot.NewGateway(api)

	// === 3. Сервисы ===
	messageService := messages.NewService(store.messages)
	memberService := members.NewService(store.members)

	normalizer := reactions.NewNormalizer(cfg.Communities, store.ledger, messageService, reactions.Options{
		BotID:              me.ID,
		AllowSelfReactions: cfg.AllowSelfReactions,
		FetchTimeout:       cfg.FetchTimeout,
	})
	reactionService := reactions.NewService(normalizer, store.ledger)

	rankingService := ranking.NewService(store.ledger, store.boards, memberService, cfg.Communities, ranking.Options{
		TopN:             cfg.RankingTopN,
		StatusTopN:       cfg.StatusTopN,
		StatusMaxLength:  cfg.StatusMaxLength,
		StatusNameBudget: cfg.StatusNameBudget,
		MaxAdjustment:    cfg.AdjustMaxAmount,
	})

	// === 4. Обработчики ===
	cooldown := middleware.NewCooldown(cfg.RankingCooldown)
	rankingHandler := ranking.NewHandler(rankingService, gateway, cooldown, ranking.HandlerOptions{
		Location:     loc,
		LegacyCutoff: cfg.LegacyCutoff,
	})

	// === 5. Собираем бота ===
	b := bot.New(
		api, gateway, cfg, me.Username,
		filters.NewChatFilter(cfg.Communities, cfg.AdminIDs),
		messageService,
		members.NewHandler(memberService),
		reactions.NewHandler(reactionService),
		rankingHandler,
	)

	// === 6. Планировщик задач ===
	scheduler := jobs.NewScheduler(rankingService, gateway, gateway, cfg.StatusRefreshInterval, loc)

	// === 7. Служебный HTTP ===
	var opsServer *ops.Server
	if cfg.OpsAddr != "" {
		opsServer = ops.NewServer(cfg.OpsAddr, store.ping)
	}

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		Ops:       opsServer,
		cooldown:  cooldown,
		storage:   store,
	}, nil
}

// Close освобождает ресурсы. Вызывать после остановки бота и планировщика.
func (a *App) Close() {
	a.cooldown.Close()
	a.storage.close()
}
