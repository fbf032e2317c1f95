package service

import (
	"context"
	"fmt"
	"time"

	"amc_simulator/internal/config"
	"amc_simulator/internal/generator"
	"amc_simulator/internal/logger"
	"amc_simulator/internal/models"
	"amc_simulator/internal/repository"

	"github.com/google/uuid"
)

const maxPageSize = 1000

type GenerationService struct {
	runRepo      repository.RunRepo
	settingsRepo repository.SettingsRepo
	eventRepo    repository.EventRepo
	cache        repository.SummaryCache
	limits       config.GeneratorConfig
	log          *logger.Logger

	now     func() time.Time
	newSeed func() int64
	newID   func() string
}

func NewGenerationService(
	runRepo repository.RunRepo,
	settingsRepo repository.SettingsRepo,
	eventRepo repository.EventRepo,
	cache repository.SummaryCache,
	limits config.GeneratorConfig,
	log *logger.Logger,
) *GenerationService {
	return &GenerationService{
		runRepo:      runRepo,
		settingsRepo: settingsRepo,
		eventRepo:    eventRepo,
		cache:        cache,
		limits:       limits,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
		newSeed:      func() int64 { return time.Now().UnixNano() },
		newID:        uuid.NewString,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// resolve fills the defaults of req and validates the result.
func (s *GenerationService) resolve(req GenerateRequest) (models.GenerationConfig, error) {
	cfg := models.GenerationConfig{
		DayCount:        req.DayCount,
		StartDate:       req.StartDate,
		IntervalMinutes: req.IntervalMinutes,
		QualityMode:     req.QualityMode,
		AnomalyRatio:    req.AnomalyRatio,
	}
	if cfg.StartDate.IsZero() {
		cfg.StartDate = startOfDay(s.now())
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	} else {
		cfg.Seed = s.newSeed()
	}

	if err := generator.Validate(cfg); err != nil {
		return models.GenerationConfig{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if total := generator.TotalRecords(cfg); total > s.limits.MaxRecords {
		return models.GenerationConfig{}, fmt.Errorf("%w: %d records requested, limit is %d",
			ErrInvalidInput, total, s.limits.MaxRecords)
	}
	return cfg, nil
}

// Generate synthesizes a run and stores it atomically with its records.
func (s *GenerationService) Generate(ctx context.Context, userID int, req GenerateRequest) (models.Run, error) {
	cfg, err := s.resolve(req)
	if err != nil {
		return models.Run{}, err
	}

	started := time.Now()
	recs, err := generator.Generate(ctx, cfg, nil)
	if err != nil {
		return models.Run{}, fmt.Errorf("generate: %w", err)
	}

	run := models.Run{
		ID:        s.newID(),
		CreatedAt: s.now(),
		CreatedBy: userID,
		Config:    cfg,
		Total:     len(recs),
	}
	for _, r := range recs {
		if r.Result == models.ResultPass {
			run.PassCount++
		}
		if r.IsAnomaly {
			run.AnomalyCount++
		}
	}
	run.FailCount = run.Total - run.PassCount

	if err := s.runRepo.Create(ctx, run, recs); err != nil {
		s.appendEvent(ctx, models.RunEvent{
			Type:        models.EventError,
			RunID:       run.ID,
			Description: "storing generated run failed",
			Metadata:    map[string]any{"err": err.Error()},
		})
		return models.Run{}, fmt.Errorf("store run: %w", err)
	}

	s.appendEvent(ctx, models.RunEvent{
		Type:        models.EventGenerate,
		RunID:       run.ID,
		Description: fmt.Sprintf("generated %d records", run.Total),
		Metadata: map[string]any{
			"days":          cfg.DayCount,
			"interval":      cfg.IntervalMinutes,
			"quality_mode":  cfg.QualityMode,
			"anomaly_ratio": cfg.AnomalyRatio,
			"seed":          cfg.Seed,
			"pass_rate":     run.PassRate(),
		},
	})
	s.rememberConfig(ctx, cfg)

	s.log.Infow("run_generated",
		"run_id", run.ID,
		"records", run.Total,
		"seed", cfg.Seed,
		"elapsed", time.Since(started).String(),
	)
	return run, nil
}

// rememberConfig stores cfg as the panel's last generation config.
func (s *GenerationService) rememberConfig(ctx context.Context, cfg models.GenerationConfig) {
	st, found, err := s.settingsRepo.Load(ctx)
	if err != nil {
		s.log.Warnw("settings_load_failed", "err", err)
		return
	}
	if !found {
		st = defaultSettings(s.now())
	}
	st.Generation = cfg
	st.UpdatedAt = s.now()
	if err := s.settingsRepo.Save(ctx, st); err != nil {
		s.log.Warnw("settings_save_failed", "err", err)
	}
}

func (s *GenerationService) appendEvent(ctx context.Context, e models.RunEvent) {
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Errorw("event_append_failed", "type", e.Type, "run_id", e.RunID, "err", err)
	}
}

func (s *GenerationService) Get(ctx context.Context, id string) (models.Run, error) {
	return s.runRepo.Get(ctx, id)
}

func (s *GenerationService) List(ctx context.Context, limit, offset int) ([]models.Run, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	return s.runRepo.List(ctx, limit, offset)
}

// Records returns one page of a run. page is 1-based; a zero pageSize
// uses the configured default.
func (s *GenerationService) Records(ctx context.Context, id string, page, pageSize int) (models.RecordPage, error) {
	if page < 1 {
		return models.RecordPage{}, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	if pageSize == 0 {
		pageSize = s.limits.PageSize
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return models.RecordPage{}, fmt.Errorf("%w: page_size must be in [1,%d]", ErrInvalidInput, maxPageSize)
	}

	run, err := s.runRepo.Get(ctx, id)
	if err != nil {
		return models.RecordPage{}, err
	}
	recs, err := s.runRepo.Records(ctx, id, (page-1)*pageSize, pageSize)
	if err != nil {
		return models.RecordPage{}, err
	}
	return models.RecordPage{RunID: id, Page: page, PageSize: pageSize, Total: run.Total, Records: recs}, nil
}

func (s *GenerationService) AllRecords(ctx context.Context, id string) (models.Run, []models.SensorRecord, error) {
	run, err := s.runRepo.Get(ctx, id)
	if err != nil {
		return models.Run{}, nil, err
	}
	recs, err := s.runRepo.Records(ctx, id, 0, 0)
	if err != nil {
		return models.Run{}, nil, err
	}
	return run, recs, nil
}

func (s *GenerationService) Delete(ctx context.Context, id string) error {
	if err := s.runRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warnw("summary_invalidate_failed", "run_id", id, "err", err)
	}
	s.appendEvent(ctx, models.RunEvent{
		Type:        models.EventDelete,
		RunID:       id,
		Description: "run deleted",
	})
	return nil
}
