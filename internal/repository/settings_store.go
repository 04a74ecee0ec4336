package repository

import (
	"context"
	"errors"
	"time"

	"console/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by a SettingsStore when no row exists for a key
var ErrNotFound = errors.New("record not found")

// SettingsStore reads and writes raw JSON blobs keyed by collection type
type SettingsStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Ping(ctx context.Context) error
}

// Notifier receives a message after every successful collection write
type Notifier interface {
	Publish(event string, data map[string]interface{})
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, map[string]interface{}) {}

type settingsStore struct {
	db *gorm.DB
}

// NewSettingsStore returns a SettingsStore over the settings table
func NewSettingsStore(db *gorm.DB) SettingsStore {
	return &settingsStore{db: db}
}

func (s *settingsStore) Read(ctx context.Context, key string) ([]byte, error) {
	var row model.Setting
	if err := GetDB(ctx, s.db).First(&row, "type = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(row.Data), nil
}

func (s *settingsStore) Write(ctx context.Context, key string, data []byte) error {
	row := model.Setting{Type: key, Data: string(data), UpdatedAt: time.Now()}
	return GetDB(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
}

// Ping backs the connectivity probe
func (s *settingsStore) Ping(ctx context.Context) error {
	var count int64
	return GetDB(ctx, s.db).Model(&model.Setting{}).Limit(1).Count(&count).Error
}
