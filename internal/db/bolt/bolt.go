// Package bolt открывает встраиваемую базу BoltDB.
//
// Все данные лежат в одном файле, внешний процесс БД не нужен.
// Используется при STORAGE_DRIVER=bolt и в тестах.
package bolt

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
	log "github.com/sirupsen/logrus"
)

// Корневые бакеты. Каждая фича хранит данные в своём.
const (
	BucketLedger   = "ledger"
	BucketMessages = "messages"
	BucketMembers  = "members"
	BucketBoards   = "boards"
)

// Open открывает (или создаёт) файл базы и создаёт корневые бакеты.
func Open(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BucketLedger, BucketMessages, BucketMembers, BucketBoards} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания бакетов: %w", err)
	}

	log.WithField("path", path).Info("BoltDB открыта")
	return db, nil
}

// Key кодирует int64 в 8 байт big-endian, чтобы ключи шли по порядку.
func Key(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// Key2: составной ключ из двух int64.
func Key2(a, b int64) []byte {
	return append(Key(a), Key(b)...)
}
