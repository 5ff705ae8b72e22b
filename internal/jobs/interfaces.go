package jobs

import (
	"context"

	"serotonyl.ru/points-bot/internal/features/boards"
	"serotonyl.ru/points-bot/internal/features/ranking"
)

//go:generate mockgen -source=interfaces.go -destination=interfaces_mock.go -package=jobs

// Ranker: то, что планировщик берёт у ranking.Service.
type Ranker interface {
	Communities() []int64
	Compute(ctx context.Context, communityID int64, w ranking.Window) (*ranking.Result, error)
	RankingText(ctx context.Context, res *ranking.Result) string
	StatusText(ctx context.Context, res *ranking.Result) string
	Board(ctx context.Context, communityID int64) (*boards.Board, error)
}

// StatusPublisher выставляет строку статуса бота.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, text string) error
}

// BoardEditor редактирует ранее отправленное сообщение с рейтингом.
type BoardEditor interface {
	EditText(ctx context.Context, chatID, messageID int64, text string) error
}
