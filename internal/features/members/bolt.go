package members

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"

	boltdb "serotonyl.ru/points-bot/internal/db/bolt"
)

// BoltRepository хранит справочник в бакете members, ключ: user_id.
type BoltRepository struct {
	db *bolt.DB
}

func NewBoltRepository(db *bolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

func (r *BoltRepository) Upsert(_ context.Context, m *Member) error {
	rec := *m
	rec.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("ошибка кодирования участника: %w", err)
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltdb.BucketMembers)).Put(boltdb.Key(m.UserID), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка создания/обновления участника: %w", err)
	}
	return nil
}

func (r *BoltRepository) GetMany(_ context.Context, userIDs []int64) ([]*Member, error) {
	var out []*Member
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltdb.BucketMembers))
		for _, id := range userIDs {
			v := b.Get(boltdb.Key(id))
			if v == nil {
				continue
			}
			var m Member
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			out = append(out, &m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса участников: %w", err)
	}
	return out, nil
}
