package db

import (
	"context"
	"fmt"
	"os"
	"sync"

	"multicaster/internal/discovery"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const (
	AnnouncementsBucket = "announcements"
)

// Record запись журнала с ключом
type Record struct {
	ID           string                 `json:"id"`
	Announcement discovery.Announcement `json:"announcement"`
}

// AnnounceDB журнал анонсов поверх bbolt. Записи только добавляются,
// дубликаты не схлопываются.
type AnnounceDB struct {
	db         *bbolt.DB
	mu         sync.RWMutex
	serializer Serializer
}

// Config содержит конфигурацию для AnnounceDB
type Config struct {
	Path       string
	FileMode   os.FileMode
	Options    *bbolt.Options
	Serializer Serializer
}

// NewAnnounceDB открывает или создает файл журнала
func NewAnnounceDB(cfg Config) (*AnnounceDB, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}
	if cfg.Serializer == nil {
		cfg.Serializer = &JSONSerializer{}
	}

	if cfg.FileMode == 0 {
		cfg.FileMode = 0666
	}

	db, err := bbolt.Open(cfg.Path, cfg.FileMode, cfg.Options)
	if err != nil {
		return nil, err
	}

	// Создаем bucket при инициализации
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(AnnouncementsBucket))
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close() // Закрываем БД в случае ошибки
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &AnnounceDB{
		db:         db,
		serializer: cfg.Serializer,
	}, nil
}

func (adb *AnnounceDB) Close() error {
	if adb.db == nil {
		return ErrNilDB
	}
	return adb.db.Close()
}

// Save добавляет анонс под ключом UUIDv7, ключи упорядочены по времени
func (adb *AnnounceDB) Save(ctx context.Context, a discovery.Announcement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	data, err := adb.serializer.Serialize(a)
	if err != nil {
		return err
	}

	adb.mu.Lock()
	defer adb.mu.Unlock()

	return adb.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(AnnouncementsBucket))
		if bucket == nil {
			return ErrBucketNotFound
		}
		return bucket.Put(id[:], data)
	})
}

// List возвращает последние limit записей, новые первыми. limit <= 0 - все.
func (adb *AnnounceDB) List(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []Record

	adb.mu.RLock()
	defer adb.mu.RUnlock()

	err := adb.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(AnnouncementsBucket))
		if bucket == nil {
			return ErrBucketNotFound
		}

		c := bucket.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(records) >= limit {
				break
			}
			id, err := uuid.FromBytes(k)
			if err != nil {
				return fmt.Errorf("corrupt key %x: %w", k, err)
			}
			var a discovery.Announcement
			if err := adb.serializer.Deserialize(v, &a); err != nil {
				return err
			}
			records = append(records, Record{ID: id.String(), Announcement: a})
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return records, nil
}

// Count количество записей в журнале
func (adb *AnnounceDB) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int

	adb.mu.RLock()
	defer adb.mu.RUnlock()

	err := adb.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(AnnouncementsBucket))
		if bucket == nil {
			return ErrBucketNotFound
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}
