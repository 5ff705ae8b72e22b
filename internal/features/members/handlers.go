// Package members, handlers.go обрабатывает Telegram-события, связанные с участниками.
package members

import (
	"context"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// Handler обрабатывает события участников.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик событий участников.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleUser запоминает автора сообщения. Ботов не запоминаем.
func (h *Handler) HandleUser(ctx context.Context, user *telego.User) {
	if user == nil || user.IsBot {
		return
	}
	if err := h.service.Remember(ctx, user.ID, user.Username, user.FirstName, user.LastName); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Remember failed")
	}
}

// HandleNewChatMembers обрабатывает вступление новых пользователей в чат.
func (h *Handler) HandleNewChatMembers(ctx context.Context, newMembers []telego.User) {
	for i := range newMembers {
		h.HandleUser(ctx, &newMembers[i])
	}
}
