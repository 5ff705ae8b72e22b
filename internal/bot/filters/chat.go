// Package filters решает, какие апдейты бот вообще обрабатывает.
package filters

import (
	"slices"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/points-bot/internal/common"
	"serotonyl.ru/points-bot/internal/config"
)

// ChatFilter пропускает только отслеживаемые сообщества и проверяет allow-list админов.
type ChatFilter struct {
	communities config.Communities
	adminIDs    []int64
}

func NewChatFilter(communities config.Communities, adminIDs []int64) *ChatFilter {
	return &ChatFilter{communities: communities, adminIDs: adminIDs}
}

// IsMonitored: чат является одним из сообществ.
func (f *ChatFilter) IsMonitored(chatID int64) bool {
	_, ok := f.communities[chatID]
	return ok
}

// CheckAccess пропускает сообщения от людей в отслеживаемых чатах.
func (f *ChatFilter) CheckAccess(message *telego.Message) bool {
	if message == nil {
		return false
	}

	logger := log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
	})

	if message.From == nil {
		logger.Debug("deny: nil message.From (service/channel message?)")
		return false
	}
	if message.From.IsBot {
		logger.WithField("user_id", message.From.ID).Debug("deny: bot author")
		return false
	}
	if !f.IsMonitored(message.Chat.ID) {
		logger.Debug("deny: not a monitored community")
		return false
	}
	return true
}

// IsAdmin проверяет пользователя по статическому allow-list.
func (f *ChatFilter) IsAdmin(userID int64) bool {
	return slices.Contains(f.adminIDs, userID)
}

// RequireAdmin: то же, но с ошибкой для ответа пользователю.
func (f *ChatFilter) RequireAdmin(userID int64) error {
	if !f.IsAdmin(userID) {
		log.WithField("user_id", userID).Info("deny: not in admin allow-list")
		return common.ErrNotAdmin
	}
	return nil
}
