// Package ledger, bolt.go хранит журнал во встраиваемой BoltDB.
//
// Раскладка внутри бакета ledger:
//
//	ledger/<community_id>/tx/<id>          -> JSON транзакции
//	ledger/<community_id>/active/<awardKey> -> ID активного начисления
//
// Bolt допускает одного писателя, поэтому проверка и вставка внутри
// db.Update атомарны без дополнительных локов.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	bolt "github.com/boltdb/bolt"

	boltdb "serotonyl.ru/points-bot/internal/db/bolt"
)

var (
	bucketTx     = []byte("tx")
	bucketActive = []byte("active")
)

// BoltStore: реализация Store поверх BoltDB.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltStore создаёт хранилище журнала. Бакет ledger должен существовать.
func NewBoltStore(db *bolt.DB) *BoltStore {
	return &BoltStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *BoltStore) Insert(_ context.Context, t *Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(boltdb.BucketLedger))
		community, err := root.CreateBucketIfNotExists(boltdb.Key(t.CommunityID))
		if err != nil {
			return err
		}
		txs, err := community.CreateBucketIfNotExists(bucketTx)
		if err != nil {
			return err
		}
		active, err := community.CreateBucketIfNotExists(bucketActive)
		if err != nil {
			return err
		}

		key, isReaction := t.AwardKey()
		if isReaction {
			current, err := activeAward(txs, active, key)
			if err != nil {
				return err
			}
			if err := checkAgainstActive(t, current); err != nil {
				return err
			}
		}

		// Последовательность корневого бакета: ID уникальны во всём хранилище
		seq, err := root.NextSequence()
		if err != nil {
			return err
		}
		t.ID = int64(seq)
		t.RecordedTime = s.now()

		data, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if err := txs.Put(boltdb.Key(t.ID), data); err != nil {
			return err
		}

		if isReaction {
			switch t.SourceKind {
			case SourceReactionAdd:
				return active.Put([]byte(key.String()), boltdb.Key(t.ID))
			case SourceReactionRemove:
				return active.Delete([]byte(key.String()))
			}
		}
		return nil
	})
	if err != nil {
		t.ID = 0
		return 0, s.wrap("insert", err)
	}
	return t.ID, nil
}

func (s *BoltStore) Query(_ context.Context, communityID int64, f Filter) ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		community := tx.Bucket([]byte(boltdb.BucketLedger)).Bucket(boltdb.Key(communityID))
		if community == nil {
			return nil
		}
		return community.Bucket(bucketTx).ForEach(func(_, v []byte) error {
			var t Transaction
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			if f.Match(&t) {
				out = append(out, Entry{RecipientID: t.RecipientID, Amount: t.Amount})
			}
			return nil
		})
	})
	if err != nil {
		return nil, s.wrap("query", err)
	}
	return out, nil
}

func (s *BoltStore) DeleteCommunity(_ context.Context, communityID int64) (int64, error) {
	var deleted int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(boltdb.BucketLedger))
		community := root.Bucket(boltdb.Key(communityID))
		if community == nil {
			return nil
		}
		deleted = int64(community.Bucket(bucketTx).Stats().KeyN)
		return root.DeleteBucket(boltdb.Key(communityID))
	})
	if err != nil {
		return 0, s.wrap("delete community", err)
	}
	return deleted, nil
}

func (s *BoltStore) FindActiveAward(_ context.Context, key AwardKey) (*Transaction, error) {
	var found *Transaction
	err := s.db.View(func(tx *bolt.Tx) error {
		community := tx.Bucket([]byte(boltdb.BucketLedger)).Bucket(boltdb.Key(key.CommunityID))
		if community == nil {
			return nil
		}
		var err error
		found, err = activeAward(community.Bucket(bucketTx), community.Bucket(bucketActive), key)
		return err
	})
	if err != nil {
		return nil, s.wrap("find active award", err)
	}
	return found, nil
}

func activeAward(txs, active *bolt.Bucket, key AwardKey) (*Transaction, error) {
	id := active.Get([]byte(key.String()))
	if id == nil {
		return nil, nil
	}
	v := txs.Get(id)
	if v == nil {
		return nil, nil
	}
	var t Transaction
	if err := json.Unmarshal(v, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// wrap оставляет доменные ошибки как есть, остальное считается сбоем хранилища.
func (s *BoltStore) wrap(op string, err error) error {
	if errors.Is(err, ErrDuplicateTransaction) || errors.Is(err, ErrInvalidTransaction) {
		return err
	}
	return unavailable(op, err)
}
