package service

import (
	"context"
	"fmt"

	"amc_simulator/internal/analysis"
	"amc_simulator/internal/logger"
	"amc_simulator/internal/models"
	"amc_simulator/internal/repository"
)

type AnalysisService struct {
	runRepo      repository.RunRepo
	settingsRepo repository.SettingsRepo
	cache        repository.SummaryCache
	log          *logger.Logger
}

func NewAnalysisService(
	runRepo repository.RunRepo,
	settingsRepo repository.SettingsRepo,
	cache repository.SummaryCache,
	log *logger.Logger,
) *AnalysisService {
	return &AnalysisService{runRepo: runRepo, settingsRepo: settingsRepo, cache: cache, log: log}
}

// parameters resolves the thresholds a summary is scored against. An empty
// preset means the one currently selected in settings; custom means the
// stored parameters as they are.
func (s *AnalysisService) parameters(ctx context.Context, preset models.PresetMode) (models.PresetMode, models.SystemParameters, error) {
	st, found, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return "", models.SystemParameters{}, err
	}
	if !found {
		st.Preset = models.PresetStandard
		st.Parameters = models.DefaultParameters
	}
	if preset == "" {
		return st.Preset, st.Parameters, nil
	}
	p, ok := models.ApplyPreset(st.Parameters, preset)
	if !ok {
		return "", models.SystemParameters{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidInput, preset)
	}
	return preset, p, nil
}

// Summarize returns the analysis of a run scored against preset.
func (s *AnalysisService) Summarize(ctx context.Context, runID string, preset models.PresetMode) (models.RunSummary, error) {
	// The run must still exist; retention may have removed it while a
	// summary was cached.
	if _, err := s.runRepo.Get(ctx, runID); err != nil {
		return models.RunSummary{}, err
	}

	preset, params, err := s.parameters(ctx, preset)
	if err != nil {
		return models.RunSummary{}, err
	}

	// Custom parameters can change between calls, so only bundles are cached.
	cacheable := preset != models.PresetCustom
	if cacheable {
		sum, ok, err := s.cache.Get(ctx, runID, preset)
		if err != nil {
			s.log.Warnw("summary_cache_get_failed", "run_id", runID, "err", err)
		} else if ok {
			return sum, nil
		}
	}

	recs, err := s.runRepo.Records(ctx, runID, 0, 0)
	if err != nil {
		return models.RunSummary{}, err
	}
	sum := analysis.Summarize(runID, recs, preset, params)

	if cacheable {
		if err := s.cache.Set(ctx, sum); err != nil {
			s.log.Warnw("summary_cache_set_failed", "run_id", runID, "err", err)
		}
	}
	return sum, nil
}
