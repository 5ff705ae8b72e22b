// Package jobs управляет фоновыми задачами (cron).
// scheduler.go периодически пересчитывает рейтинг, обновляет статус бота
// и редактирует доски рейтинга в сообществах.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/points-bot/internal/features/ranking"
	"serotonyl.ru/points-bot/internal/metrics"
)

// Результаты прогона для метрик.
const (
	RunOK      = "ok"
	RunPartial = "partial"
	RunFailed  = "failed"
	RunSkipped = "skipped"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron      *cron.Cron
	ranker    Ranker
	publisher StatusPublisher
	editor    BoardEditor
	interval  time.Duration

	// running не даёт двум прогонам идти одновременно:
	// cron-цепочка защищает только свои запуски, а RefreshStatus зовут и напрямую.
	running atomic.Bool

	mu         sync.Mutex
	lastStatus string
}

// NewScheduler создаёт планировщик задач в часовом поясе приложения.
func NewScheduler(ranker Ranker, publisher StatusPublisher, editor BoardEditor, interval time.Duration, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log.StandardLogger()))),
	)

	return &Scheduler{
		cron:      c,
		ranker:    ranker,
		publisher: publisher,
		editor:    editor,
		interval:  interval,
	}
}

// Start запускает обновление статуса: сразу и затем каждые interval.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.RefreshStatus(ctx) }); err != nil {
		return fmt.Errorf("ошибка регистрации задачи %q: %w", spec, err)
	}

	go s.RefreshStatus(ctx)

	s.cron.Start()
	log.WithField("interval", s.interval).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт текущий прогон.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// RefreshStatus выполняет один прогон. Возвращает false, если прогон
// пропущен, потому что предыдущий ещё идёт.
//
// Ошибка одного сообщества не мешает остальным: она логируется,
// а статус собирается из тех, что посчитались.
func (s *Scheduler) RefreshStatus(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		log.Debug("[CRON] Обновление статуса уже идёт, пропускаем")
		metrics.SchedulerRuns.WithLabelValues(RunSkipped).Inc()
		return false
	}
	defer s.running.Store(false)

	logger := log.WithField("run_id", uuid.NewString())
	logger.Debug("[CRON] Обновление статуса")

	var (
		results []*ranking.Result
		failed  int
	)
	for _, id := range s.ranker.Communities() {
		res, err := s.ranker.Compute(ctx, id, ranking.AllTime())
		if err != nil {
			failed++
			logger.WithError(err).WithField("community_id", id).Error("[CRON] Ошибка подсчёта рейтинга")
			continue
		}
		results = append(results, res)
		s.refreshBoard(ctx, logger, res)
	}

	result := s.publish(ctx, logger, results, failed)
	metrics.SchedulerRuns.WithLabelValues(result).Inc()
	logger.WithFields(log.Fields{
		"result":      result,
		"communities": len(results),
		"failed":      failed,
	}).Info("[CRON] Статус обновлён")
	return true
}

func (s *Scheduler) publish(ctx context.Context, logger *log.Entry, results []*ranking.Result, failed int) string {
	if len(results) == 0 {
		return RunFailed
	}

	text := s.ranker.StatusText(ctx, ranking.Merge(ranking.AllTime(), results...))

	s.mu.Lock()
	unchanged := text == s.lastStatus
	s.mu.Unlock()

	if !unchanged {
		if err := s.publisher.PublishStatus(ctx, text); err != nil {
			logger.WithError(err).Error("[CRON] Ошибка обновления статуса")
			return RunFailed
		}
		s.mu.Lock()
		s.lastStatus = text
		s.mu.Unlock()
	}

	if failed > 0 {
		return RunPartial
	}
	return RunOK
}

// refreshBoard редактирует доску сообщества, если она есть.
func (s *Scheduler) refreshBoard(ctx context.Context, logger *log.Entry, res *ranking.Result) {
	board, err := s.ranker.Board(ctx, res.CommunityID)
	if err != nil {
		logger.WithError(err).WithField("community_id", res.CommunityID).Warn("[CRON] Не удалось прочитать доску")
		return
	}
	if board == nil {
		return
	}
	text := s.ranker.RankingText(ctx, res)
	if err := s.editor.EditText(ctx, board.ChatID, board.MessageID, text); err != nil {
		logger.WithError(err).WithFields(log.Fields{
			"community_id": res.CommunityID,
			"message_id":   board.MessageID,
		}).Warn("[CRON] Не удалось обновить доску")
	}
}
