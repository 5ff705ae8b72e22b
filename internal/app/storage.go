package app

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/points-bot/internal/config"
	boltdb "serotonyl.ru/points-bot/internal/db/bolt"
	"serotonyl.ru/points-bot/internal/db/postgres"
	"serotonyl.ru/points-bot/internal/features/boards"
	"serotonyl.ru/points-bot/internal/features/ledger"
	"serotonyl.ru/points-bot/internal/features/members"
	"serotonyl.ru/points-bot/internal/features/messages"
	"serotonyl.ru/points-bot/internal/ops"
)

// storage: хранилища всех фич поверх выбранного драйвера.
type storage struct {
	ledger   ledger.Store
	messages messages.Store
	members  members.Store
	boards   boards.Store

	ping  ops.Pinger
	close func()
}

// openStorage подключает STORAGE_DRIVER: postgres (с миграциями) или bolt.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StorageDriver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.RunMigrations(ctx, pool, postgres.Migrations); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return &storage{
			ledger:   ledger.NewRepository(pool),
			messages: messages.NewRepository(pool),
			members:  members.NewRepository(pool),
			boards:   boards.NewRepository(pool),
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil

	case "bolt":
		db, err := boltdb.Open(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		return &storage{
			ledger:   ledger.NewBoltStore(db),
			messages: messages.NewBoltRepository(db),
			members:  members.NewBoltRepository(db),
			boards:   boards.NewBoltRepository(db),
			ping: func(context.Context) error {
				return db.View(func(*bolt.Tx) error { return nil })
			},
			close: func() {
				if err := db.Close(); err != nil {
					log.WithError(err).Warn("Ошибка закрытия BoltDB")
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("неизвестный STORAGE_DRIVER %q", cfg.StorageDriver)
}
