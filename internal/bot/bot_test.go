package bot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/points-bot/internal/bot/filters"
	"serotonyl.ru/points-bot/internal/bot/middleware"
	"serotonyl.ru/points-bot/internal/config"
	boltdb "serotonyl.ru/points-bot/internal/db/bolt"
	"serotonyl.ru/points-bot/internal/features/boards"
	"serotonyl.ru/points-bot/internal/features/ledger"
	"serotonyl.ru/points-bot/internal/features/members"
	"serotonyl.ru/points-bot/internal/features/messages"
	"serotonyl.ru/points-bot/internal/features/ranking"
	"serotonyl.ru/points-bot/internal/features/reactions"
)

const (
	chat    int64 = -100
	adminID int64 = 7
	botID   int64 = 999
)

type harness struct {
	bot     *Bot
	api     *fakeAPI
	store   *ledger.BoltStore
	boards  *boards.BoltRepository
	members *members.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "points.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	communities := config.Communities{chat: {Name: "Клуб", Emoji: map[string]int64{"⭐": 2}}}
	cfg := &config.Config{BotMaxInflight: 4, AdminIDs: []int64{adminID}}

	store := ledger.NewBoltStore(db)
	boardStore := boards.NewBoltRepository(db)
	memberService := members.NewService(members.NewBoltRepository(db))
	messageService := messages.NewService(messages.NewBoltRepository(db))

	normalizer := reactions.NewNormalizer(communities, store, messageService, reactions.Options{BotID: botID, FetchTimeout: time.Second})
	rankingService := ranking.NewService(store, boardStore, memberService, communities, ranking.Options{
		TopN: 3, StatusTopN: 6, StatusMaxLength: 120, StatusNameBudget: 8,
	})

	api := &fakeAPI{}
	gateway := NewGateway(api)
	cooldown := middleware.NewCooldown(time.Minute)
	t.Cleanup(cooldown.Close)

	b := New(
		nil,
		gateway,
		cfg,
		"pointsbot",
		filters.NewChatFilter(communities, cfg.AdminIDs),
		messageService,
		members.NewHandler(memberService),
		reactions.NewHandler(reactions.NewService(normalizer, store)),
		ranking.NewHandler(rankingService, gateway, cooldown, ranking.HandlerOptions{Location: time.UTC}),
	)
	return &harness{bot: b, api: api, store: store, boards: boardStore, members: memberService}
}

func (h *harness) total(t *testing.T, userID int64) int64 {
	t.Helper()
	res, err := ranking.NewAggregator(h.store).Compute(context.Background(), chat, ranking.AllTime())
	require.NoError(t, err)
	return res.Totals[userID]
}

func (h *harness) lastReply(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, h.api.sent)
	return h.api.sent[len(h.api.sent)-1].Text
}

var alice = &telego.User{ID: 1, Username: "alice", FirstName: "Алиса"}
var bob = &telego.User{ID: 2, FirstName: "Боб"}
var admin = &telego.User{ID: adminID, FirstName: "Админ"}

func message(id int, from *telego.User, text string) *telego.Message {
	return &telego.Message{
		MessageID: id,
		Date:      time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC).Unix(),
		Chat:      telego.Chat{ID: chat, Type: "supergroup"},
		From:      from,
		Text:      text,
	}
}

func star(msgID int, from *telego.User, added bool) telego.Update {
	upd := &telego.MessageReactionUpdated{
		Chat:      telego.Chat{ID: chat, Type: "supergroup"},
		MessageID: msgID,
		User:      from,
		Date:      time.Date(2024, 5, 10, 12, 5, 0, 0, time.UTC).Unix(),
	}
	r := []telego.ReactionType{&telego.ReactionTypeEmoji{Type: "emoji", Emoji: "⭐"}}
	if added {
		upd.NewReaction = r
	} else {
		upd.OldReaction = r
	}
	return telego.Update{MessageReaction: upd}
}

func TestBot_ReactionLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.HandleUpdate(ctx, telego.Update{Message: message(10, alice, "всем привет")})
	h.bot.HandleUpdate(ctx, star(10, bob, true))
	assert.Equal(t, int64(2), h.total(t, alice.ID))

	// повторный апдейт с той же реакцией ничего не меняет
	h.bot.HandleUpdate(ctx, star(10, bob, true))
	assert.Equal(t, int64(2), h.total(t, alice.ID))

	h.bot.HandleUpdate(ctx, star(10, bob, false))
	assert.Equal(t, int64(0), h.total(t, alice.ID))

	// реакция на своё сообщение
	h.bot.HandleUpdate(ctx, star(10, alice, true))
	assert.Equal(t, int64(0), h.total(t, alice.ID))

	assert.Empty(t, h.api.sent)
}

func TestBot_ReplyIndexesOriginalMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	reply := message(20, bob, "согласен")
	reply.ReplyToMessage = message(5, alice, "старое сообщение")
	h.bot.HandleUpdate(ctx, telego.Update{Message: reply})

	h.bot.HandleUpdate(ctx, star(5, bob, true))
	assert.Equal(t, int64(2), h.total(t, alice.ID))
}

func TestBot_IgnoresOtherChats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	msg := message(1, alice, "/help")
	msg.Chat.ID = -555
	h.bot.HandleUpdate(ctx, telego.Update{Message: msg})

	upd := star(1, bob, true)
	upd.MessageReaction.Chat.ID = -555
	h.bot.HandleUpdate(ctx, upd)

	assert.Empty(t, h.api.sent)
}

func TestBot_Commands(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.HandleUpdate(ctx, telego.Update{Message: message(10, alice, "привет")})
	h.bot.HandleUpdate(ctx, star(10, bob, true))

	h.bot.HandleUpdate(ctx, telego.Update{Message: message(11, bob, "/help@pointsbot")})
	assert.Equal(t, helpText, h.lastReply(t))

	h.bot.HandleUpdate(ctx, telego.Update{Message: message(12, alice, "!points")})
	assert.Contains(t, h.lastReply(t), "💎 @alice")

	ask := message(13, bob, ".очки")
	ask.ReplyToMessage = message(10, alice, "привет")
	h.bot.HandleUpdate(ctx, telego.Update{Message: ask})
	assert.Contains(t, h.lastReply(t), "💎 @alice")

	h.bot.HandleUpdate(ctx, telego.Update{Message: message(14, bob, "/reset")})
	assert.Contains(t, h.lastReply(t), "⛔")
	assert.Equal(t, int64(2), h.total(t, alice.ID))

	adjust := message(15, admin, "/adjust +5")
	adjust.ReplyToMessage = message(10, alice, "привет")
	h.bot.HandleUpdate(ctx, telego.Update{Message: adjust})
	assert.Contains(t, h.lastReply(t), "✍️ @alice")
	assert.Equal(t, int64(7), h.total(t, alice.ID))

	h.bot.HandleUpdate(ctx, telego.Update{Message: message(16, admin, "/ranking")})
	assert.Contains(t, h.lastReply(t), "@alice")
	board, err := h.boards.Get(ctx, chat)
	require.NoError(t, err)
	require.NotNil(t, board)
	assert.Equal(t, int64(100+len(h.api.sent)), board.MessageID)

	h.bot.HandleUpdate(ctx, telego.Update{Message: message(17, admin, "/reset")})
	assert.Equal(t, int64(0), h.total(t, alice.ID))
}

func TestBot_RecoversFromHandlerPanic(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// без обработчика участников роутер падает на первом же сообщении
	memberHandler := h.bot.memberHandler
	h.bot.memberHandler = nil

	assert.NotPanics(t, func() {
		h.bot.HandleUpdate(ctx, telego.Update{Message: message(40, alice, "/help")})
	})
	require.Len(t, h.api.sent, 1)
	assert.Equal(t, "⚠️ Не получилось, попробуйте позже", h.lastReply(t))

	// после восстановления бот работает как обычно
	h.bot.memberHandler = memberHandler
	h.bot.HandleUpdate(ctx, telego.Update{Message: message(41, alice, "привет")})
	h.bot.HandleUpdate(ctx, star(41, bob, true))
	assert.Equal(t, int64(2), h.total(t, alice.ID))
}

func TestBot_AdjustRejectsHugeAmounts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for i, amount := range []string{"-9223372036854775808", "9223372036854775807"} {
		adjust := message(50+i, admin, "/adjust "+amount)
		adjust.ReplyToMessage = message(10, alice, "привет")
		assert.NotPanics(t, func() {
			h.bot.HandleUpdate(ctx, telego.Update{Message: adjust})
		})
		assert.True(t, strings.HasPrefix(h.lastReply(t), "❌ "), h.lastReply(t))
	}
	assert.Zero(t, h.total(t, alice.ID))
}

type fakeUpdater struct {
	updates chan telego.Update
}

func (u *fakeUpdater) UpdatesViaLongPolling(context.Context, *telego.GetUpdatesParams, ...telego.LongPollingOption) (<-chan telego.Update, error) {
	return u.updates, nil
}

func TestBot_StartWaitsForHandlers(t *testing.T) {
	h := newHarness(t)
	updater := &fakeUpdater{updates: make(chan telego.Update, 3)}
	h.bot.updater = updater

	updater.updates <- telego.Update{Message: message(60, alice, "привет")}
	updater.updates <- telego.Update{Message: message(61, bob, "/help")}
	updater.updates <- telego.Update{Message: message(62, alice, "/help")}
	close(updater.updates)

	require.NoError(t, h.bot.Start(context.Background()))

	// всё обработано к моменту возврата из Start
	require.Len(t, h.api.sent, 2)
	for _, sent := range h.api.sent {
		assert.Equal(t, helpText, sent.Text)
	}
}

func TestBot_StartWaitsForHandlersOnCancel(t *testing.T) {
	h := newHarness(t)
	updater := &fakeUpdater{updates: make(chan telego.Update)}
	h.bot.updater = updater

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.bot.Start(ctx) }()

	// небуферизованный канал: после отправки апдейт уже принят ботом
	updater.updates <- telego.Update{Message: message(70, bob, "/help")}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start не вернулся после отмены контекста")
	}
	require.Len(t, h.api.sent, 1)
	assert.Equal(t, helpText, h.lastReply(t))
}

func TestBot_NewMembersRemembered(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	joined := message(30, bob, "")
	joined.NewChatMembers = []telego.User{{ID: 3, Username: "carol"}}
	h.bot.HandleUpdate(ctx, telego.Update{Message: joined})

	assert.Empty(t, h.api.sent)
	assert.Equal(t, "@carol", h.members.DisplayNames(ctx, []int64{3})[3])
}
