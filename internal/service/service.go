package service

import (
	"context"
	"errors"
	"time"

	"amc_simulator/internal/config"
	"amc_simulator/internal/export"
	"amc_simulator/internal/logger"
	"amc_simulator/internal/models"
	"amc_simulator/internal/repository"
)

var (
	// ErrInvalidInput marks caller mistakes; handlers answer 400.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is the repository sentinel, re-exported for handlers.
	ErrNotFound = repository.ErrNotFound
	// ErrFeatureDisabled is returned by optional integrations that are not configured.
	ErrFeatureDisabled = errors.New("feature not configured")
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Generation creates and serves stored runs.
type Generation interface {
	Generate(ctx context.Context, userID int, req GenerateRequest) (models.Run, error)
	Get(ctx context.Context, id string) (models.Run, error)
	List(ctx context.Context, limit, offset int) ([]models.Run, error)
	Records(ctx context.Context, id string, page, pageSize int) (models.RecordPage, error)
	AllRecords(ctx context.Context, id string) (models.Run, []models.SensorRecord, error)
	Delete(ctx context.Context, id string) error
}

// Settings is the configuration panel: preset, parameters and the last
// generation config.
type Settings interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, u SettingsUpdate) (models.Settings, error)
	Presets() []PresetView
}

type Analysis interface {
	Summarize(ctx context.Context, runID string, preset models.PresetMode) (models.RunSummary, error)
}

// Distribution moves a run out of the service: file export, object storage
// archive and MQTT publishing.
type Distribution interface {
	Export(ctx context.Context, runID string, f export.Format) (ExportFile, error)
	Archive(ctx context.Context, runID string, f export.Format) (ArchiveResult, error)
	Publish(ctx context.Context, runID string) (PublishResult, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.RunEvent, error)
}

// Janitor enforces the session lifetime of runs. Stop Run via context
// cancellation.
type Janitor interface {
	Purge(ctx context.Context) (int64, error)
	Sweep(ctx context.Context, now time.Time) (int64, error)
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Generation
	Settings
	Analysis
	Distribution
	EventLog
	Janitor
	Authorization
}

// Deps are the optional integrations; nil fields disable the feature.
type Deps struct {
	Archive   Archiver
	Publisher RecordPublisher
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg *config.Config, deps Deps, log *logger.Logger) *Service {
	return &Service{
		Generation:    NewGenerationService(repos.RunRepo, repos.SettingsRepo, repos.EventRepo, repos.Summaries, cfg.Generator, log),
		Settings:      NewSettingsService(repos.SettingsRepo),
		Analysis:      NewAnalysisService(repos.RunRepo, repos.SettingsRepo, repos.Summaries, log),
		Distribution:  NewDistributionService(repos.RunRepo, repos.EventRepo, deps.Archive, deps.Publisher, log),
		EventLog:      NewEventLogService(repos.EventRepo),
		Janitor:       NewJanitorService(repos.RunRepo, repos.EventRepo, cfg.Retention.TTL, log),
		Authorization: NewAuthService(repos.Auth, []byte(cfg.Auth.SigningKey), cfg.Auth.TokenTTL),
	}
}
