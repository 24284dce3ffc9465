package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/freshkart/storefront-go/pkg/api"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type sessionRecord struct {
	Slot      string `gorm:"primaryKey"`
	Token     string
	Identity  []byte
	UpdatedAt time.Time
}

func (sessionRecord) TableName() string {
	return "session_slots"
}

// SQLiteStore persists the session slot in a local SQLite file.
type SQLiteStore struct {
	conn *gorm.DB
}

// NewSQLiteStore opens (or creates) the SQLite file and migrates the slot table.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if err := conn.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("migrating state db: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Save writes the session slot, replacing any previous writer's value.
func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	var identity []byte
	if sess.User != nil {
		encoded, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("encoding identity: %w", err)
		}
		identity = encoded
	}

	record := sessionRecord{
		Slot:     slotKey,
		Token:    sess.Token,
		Identity: identity,
	}
	return s.conn.WithContext(ctx).Save(&record).Error
}

// Load restores the persisted slot; absent slots return (nil, nil).
func (s *SQLiteStore) Load(ctx context.Context) (*Session, error) {
	var record sessionRecord
	err := s.conn.WithContext(ctx).First(&record, "slot = ?", slotKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess := &Session{Token: record.Token}
	if len(record.Identity) > 0 {
		var user api.Identity
		if err := json.Unmarshal(record.Identity, &user); err != nil {
			return nil, fmt.Errorf("decoding identity: %w", err)
		}
		sess.User = &user
	}
	return sess, nil
}

// Clear drops the persisted slot.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.conn.WithContext(ctx).Delete(&sessionRecord{}, "slot = ?", slotKey).Error
}

// Close shuts down the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
