package service

import (
	"context"
	"fmt"
	"time"

	"amc_simulator/internal/generator"
	"amc_simulator/internal/models"
	"amc_simulator/internal/repository"
)

// Defaults of the configuration panel before anything was saved.
const (
	defaultDayCount     = 7
	defaultInterval     = 30
	defaultAnomalyRatio = 10
)

func defaultSettings(now time.Time) models.Settings {
	return models.Settings{
		ID:         1,
		Preset:     models.PresetStandard,
		Parameters: models.DefaultParameters,
		Generation: models.GenerationConfig{
			DayCount:        defaultDayCount,
			StartDate:       startOfDay(now),
			IntervalMinutes: defaultInterval,
			QualityMode:     models.QualityNormal,
			AnomalyRatio:    defaultAnomalyRatio,
		},
		UpdatedAt: now,
	}
}

type SettingsService struct {
	repo repository.SettingsRepo
	now  func() time.Time
}

func NewSettingsService(repo repository.SettingsRepo) *SettingsService {
	return &SettingsService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// GetSettings returns the stored settings, or the defaults if none were saved.
func (s *SettingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	st, found, err := s.repo.Load(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if !found {
		return defaultSettings(s.now()), nil
	}
	return st, nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, u SettingsUpdate) (models.Settings, error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return models.Settings{}, err
	}

	if u.Parameters != nil {
		st.Parameters = *u.Parameters
	}
	if u.Preset != "" {
		params, ok := models.ApplyPreset(st.Parameters, u.Preset)
		if !ok {
			return models.Settings{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidInput, u.Preset)
		}
		st.Preset = u.Preset
		st.Parameters = params
	} else if u.Parameters != nil {
		// Hand-edited thresholds no longer match any bundle.
		st.Preset = models.PresetCustom
	}
	if err := validateParameters(st.Parameters); err != nil {
		return models.Settings{}, err
	}

	if u.Generation != nil {
		if err := generator.Validate(*u.Generation); err != nil {
			return models.Settings{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		st.Generation = *u.Generation
	}

	st.ID = 1
	st.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, st); err != nil {
		return models.Settings{}, err
	}
	return st, nil
}

func validateParameters(p models.SystemParameters) error {
	switch {
	case p.InletTOCThreshold <= 0 || p.OutletTOCThreshold <= 0:
		return fmt.Errorf("%w: TOC thresholds must be positive", ErrInvalidInput)
	case p.PressureInitial <= 0 || p.PressureMax <= p.PressureInitial:
		return fmt.Errorf("%w: pressure_max must exceed a positive pressure_initial", ErrInvalidInput)
	case p.TempMin >= p.TempMax:
		return fmt.Errorf("%w: temp_min must be below temp_max", ErrInvalidInput)
	case p.HumidityMin >= p.HumidityMax:
		return fmt.Errorf("%w: humidity_min must be below humidity_max", ErrInvalidInput)
	case p.FlowRateTarget <= 0 || p.FlowRateTolerance < 0:
		return fmt.Errorf("%w: invalid flow rate target or tolerance", ErrInvalidInput)
	case p.LifetimeDays <= 0:
		return fmt.Errorf("%w: lifetime_days must be positive", ErrInvalidInput)
	case p.ReplacementThreshold <= 0 || p.ReplacementThreshold > 100:
		return fmt.Errorf("%w: replacement_threshold must be in (0,100]", ErrInvalidInput)
	}
	return nil
}

// Presets lists every bundle applied to the default parameters.
func (s *SettingsService) Presets() []PresetView {
	modes := models.PresetModes()
	out := make([]PresetView, 0, len(modes))
	for _, m := range modes {
		p, _ := models.ApplyPreset(models.DefaultParameters, m)
		out = append(out, PresetView{Mode: m, Parameters: p})
	}
	return out
}
