package messages

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "github.com/boltdb/bolt"

	boltdb "serotonyl.ru/points-bot/internal/db/bolt"
)

// BoltRepository хранит индекс в бакете messages, ключ: (channel_id, message_id).
type BoltRepository struct {
	db *bolt.DB
}

func NewBoltRepository(db *bolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

func (r *BoltRepository) Save(_ context.Context, m *Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("ошибка кодирования сообщения: %w", err)
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltdb.BucketMessages))
		key := boltdb.Key2(m.ChannelID, m.MessageID)
		if b.Get(key) != nil {
			return nil
		}
		return b.Put(key, data)
	})
	if err != nil {
		return fmt.Errorf("ошибка записи сообщения в индекс: %w", err)
	}
	return nil
}

func (r *BoltRepository) Get(_ context.Context, channelID, messageID int64) (*Message, error) {
	var m *Message
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(boltdb.BucketMessages)).Get(boltdb.Key2(channelID, messageID))
		if v == nil {
			return nil
		}
		m = &Message{}
		return json.Unmarshal(v, m)
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения сообщения (chat=%d, msg=%d): %w", channelID, messageID, err)
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}
