package boards

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"

	boltdb "serotonyl.ru/points-bot/internal/db/bolt"
)

// BoltRepository хранит доски в бакете boards, ключ: community_id.
type BoltRepository struct {
	db *bolt.DB
}

func NewBoltRepository(db *bolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

func (r *BoltRepository) Save(_ context.Context, b *Board) error {
	rec := *b
	rec.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("ошибка кодирования доски: %w", err)
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltdb.BucketBoards)).Put(boltdb.Key(b.CommunityID), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения доски (community=%d): %w", b.CommunityID, err)
	}
	return nil
}

func (r *BoltRepository) Get(_ context.Context, communityID int64) (*Board, error) {
	var out *Board
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(boltdb.BucketBoards)).Get(boltdb.Key(communityID))
		if v == nil {
			return nil
		}
		out = &Board{}
		return json.Unmarshal(v, out)
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения доски (community=%d): %w", communityID, err)
	}
	return out, nil
}

func (r *BoltRepository) Delete(_ context.Context, communityID int64) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltdb.BucketBoards)).Delete(boltdb.Key(communityID))
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления доски (community=%d): %w", communityID, err)
	}
	return nil
}
