// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и кулдауна команд.
package middleware

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/points-bot/internal/common"
)

// LogMessage логирует входящее сообщение.
// Записывает: user_id, chat_id, username, текст (первые 50 символов).
func LogMessage(message *telego.Message) {
	if message == nil || message.From == nil {
		return
	}

	log.WithFields(log.Fields{
		"user_id":    message.From.ID,
		"chat_id":    message.Chat.ID,
		"message_id": message.MessageID,
		"username":   message.From.Username,
		"text":       common.TruncateRunes(message.Text, 50),
	}).Debug("Входящее сообщение")
}

// LogReaction логирует изменение реакций.
func LogReaction(upd *telego.MessageReactionUpdated) {
	if upd == nil {
		return
	}
	fields := log.Fields{
		"chat_id":    upd.Chat.ID,
		"message_id": upd.MessageID,
		"old":        len(upd.OldReaction),
		"new":        len(upd.NewReaction),
	}
	if upd.User != nil {
		fields["user_id"] = upd.User.ID
	}
	log.WithFields(fields).Debug("Изменение реакций")
}
