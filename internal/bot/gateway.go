package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"
)

// API: методы Telegram Bot API, которыми пользуется бот. *telego.Bot её реализует.
type API interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	EditMessageText(ctx context.Context, params *telego.EditMessageTextParams) (*telego.Message, error)
	SetMyShortDescription(ctx context.Context, params *telego.SetMyShortDescriptionParams) error
}

// Gateway отвечает за исходящую сторону: ответы в чат, правка досок, статус бота.
type Gateway struct {
	api API
}

func NewGateway(api API) *Gateway {
	return &Gateway{api: api}
}

// SendText отправляет сообщение и возвращает его ID.
func (g *Gateway) SendText(ctx context.Context, chatID int64, text string) (int64, error) {
	msg, err := g.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
		return 0, fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return int64(msg.MessageID), nil
}

// EditText заменяет текст ранее отправленного сообщения.
// Telegram отвечает ошибкой, если текст не изменился; это не ошибка для нас.
func (g *Gateway) EditText(ctx context.Context, chatID, messageID int64, text string) error {
	_, err := g.api.EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:    tu.ID(chatID),
		MessageID: int(messageID),
		Text:      text,
	})
	if err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return fmt.Errorf("edit message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

// PublishStatus выставляет короткое описание бота (видно в профиле).
func (g *Gateway) PublishStatus(ctx context.Context, text string) error {
	if err := g.api.SetMyShortDescription(ctx, &telego.SetMyShortDescriptionParams{
		ShortDescription: text,
	}); err != nil {
		return fmt.Errorf("set short description: %w", err)
	}
	return nil
}
