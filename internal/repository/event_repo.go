package repository

import (
	"context"
	"errors"

	"console/internal/model"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository persists concert event rows. Overlay fields are not stored here.
type EventRepository interface {
	List(ctx context.Context) []model.ConcertEvent
	FindByID(ctx context.Context, id string) (*model.ConcertEvent, error)
	Upsert(ctx context.Context, event *model.ConcertEvent) error
	Delete(ctx context.Context, id string) error
}

type eventRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewEventRepository(db *gorm.DB, log zerolog.Logger) EventRepository {
	return &eventRepository{db: db, log: log.With().Str("component", "event_repo").Logger()}
}

// List returns all rows ordered by date; a read failure yields an empty list
func (r *eventRepository) List(ctx context.Context) []model.ConcertEvent {
	var events []model.ConcertEvent
	if err := GetDB(ctx, r.db).Order("date asc, start_time asc").Find(&events).Error; err != nil {
		r.log.Warn().Err(err).Msg("failed to list events")
		return []model.ConcertEvent{}
	}
	return events
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (*model.ConcertEvent, error) {
	var event model.ConcertEvent
	if err := GetDB(ctx, r.db).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Upsert(ctx context.Context, event *model.ConcertEvent) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "date", "arrival_time", "soundcheck_time", "doors_time", "start_time",
			"venue", "staff", "notes", "rider", "is_paid", "updated_at",
		}),
	}).Create(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ConcertEvent{}).Error
}
