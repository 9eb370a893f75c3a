package repository

import (
	"context"
	"database/sql"
	"time"

	"sauna_automation/internal/logger"
	"sauna_automation/internal/models"
)

type MarkerRepo interface {
	Record(automatic bool) error
	Clear(quiet bool) error
	Read() *models.AutomationMarker
}

type EventRepo interface {
	Append(ctx context.Context, e models.AutomationEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AutomationEvent, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}

type Repository struct {
	Marker MarkerRepo
	Events EventRepo
}

func NewRepository(db *sql.DB, markerPath string, now func() time.Time, log *logger.Logger) *Repository {
	return &Repository{
		Marker: NewMarkerFile(markerPath, now, log),
		Events: NewEventSQLite(db),
	}
}
