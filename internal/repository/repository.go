package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"amc_simulator/internal/models"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("already exists")
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type RunRepo interface {
	Create(ctx context.Context, run models.Run, recs []models.SensorRecord) error
	Get(ctx context.Context, id string) (models.Run, error)
	List(ctx context.Context, limit, offset int) ([]models.Run, error)
	Records(ctx context.Context, id string, offset, limit int) ([]models.SensorRecord, error)
	Delete(ctx context.Context, id string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Purge(ctx context.Context) (int64, error)
}

type SettingsRepo interface {
	Save(ctx context.Context, s models.Settings) error
	Load(ctx context.Context) (models.Settings, bool, error)
}

// EventFilter narrows an event listing; zero fields match everything.
type EventFilter struct {
	From, To time.Time
	Type     string
	RunID    string
}

type EventRepo interface {
	Append(ctx context.Context, e models.RunEvent) error
	List(ctx context.Context, f EventFilter) ([]models.RunEvent, error)
}

type SummaryCache interface {
	Get(ctx context.Context, runID string, preset models.PresetMode) (models.RunSummary, bool, error)
	Set(ctx context.Context, s models.RunSummary) error
	Invalidate(ctx context.Context, runID string) error
}

type Repository struct {
	RunRepo      RunRepo
	SettingsRepo SettingsRepo
	EventRepo    EventRepo
	Auth         Authorization
	Summaries    SummaryCache
}

// NewRepository wires the SQLite repositories. cache may be nil, in which
// case summaries are cached in process memory.
func NewRepository(db *sql.DB, cache SummaryCache) *Repository {
	if cache == nil {
		cache = NewMemorySummaryCache()
	}
	return &Repository{
		RunRepo:      NewRunSQLite(db),
		SettingsRepo: NewSettingsSQLite(db),
		EventRepo:    NewEventSQLite(db),
		Auth:         NewUserRepository(db),
		Summaries:    cache,
	}
}
