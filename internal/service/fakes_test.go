package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"amc_simulator/internal/config"
	"amc_simulator/internal/logger"
	"amc_simulator/internal/models"
	"amc_simulator/internal/repository"
)

// fakeEventRepo records appended events and answers List with a canned slice.
type fakeEventRepo struct {
	mu       sync.Mutex
	appended []models.RunEvent
	appendFn func(models.RunEvent) error

	gotFilter repository.EventFilter
	events    []models.RunEvent
	err       error
	calls     int
}

func (f *fakeEventRepo) Append(_ context.Context, e models.RunEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendFn != nil {
		if err := f.appendFn(e); err != nil {
			return err
		}
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) List(_ context.Context, rf repository.EventFilter) ([]models.RunEvent, error) {
	f.calls++
	f.gotFilter = rf
	return f.events, f.err
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.appended))
	for i, e := range f.appended {
		out[i] = e.Type
	}
	return out
}

// fakeRunRepo keeps runs in memory.
type fakeRunRepo struct {
	mu        sync.Mutex
	runs      map[string]models.Run
	records   map[string][]models.SensorRecord
	createErr error
	getCalls  int
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: map[string]models.Run{}, records: map[string][]models.SensorRecord{}}
}

func (f *fakeRunRepo) Create(_ context.Context, run models.Run, recs []models.SensorRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.runs[run.ID] = run
	f.records[run.ID] = append([]models.SensorRecord(nil), recs...)
	return nil
}

func (f *fakeRunRepo) Get(_ context.Context, id string) (models.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	run, ok := f.runs[id]
	if !ok {
		return models.Run{}, fmt.Errorf("run %s: %w", id, repository.ErrNotFound)
	}
	return run, nil
}

func (f *fakeRunRepo) List(_ context.Context, limit, offset int) ([]models.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Run, 0, len(f.runs))
	for _, r := range f.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRunRepo) Records(_ context.Context, id string, offset, limit int) ([]models.SensorRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	recs := f.records[id]
	if offset > len(recs) {
		return nil, nil
	}
	recs = recs[offset:]
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}
	return recs, nil
}

func (f *fakeRunRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.runs[id]; !ok {
		return fmt.Errorf("run %s: %w", id, repository.ErrNotFound)
	}
	delete(f.runs, id)
	delete(f.records, id)
	return nil
}

func (f *fakeRunRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, r := range f.runs {
		if r.CreatedAt.Before(cutoff) {
			delete(f.runs, id)
			delete(f.records, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeRunRepo) Purge(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.runs))
	f.runs = map[string]models.Run{}
	f.records = map[string][]models.SensorRecord{}
	return n, nil
}

// fakeSettingsRepo holds at most one settings row.
type fakeSettingsRepo struct {
	saved   *models.Settings
	loadErr error
	saves   int
}

func (f *fakeSettingsRepo) Save(_ context.Context, s models.Settings) error {
	f.saves++
	f.saved = &s
	return nil
}

func (f *fakeSettingsRepo) Load(context.Context) (models.Settings, bool, error) {
	if f.loadErr != nil {
		return models.Settings{}, false, f.loadErr
	}
	if f.saved == nil {
		return models.Settings{}, false, nil
	}
	return *f.saved, true, nil
}

// countingCache wraps the in-memory cache and counts hits.
type countingCache struct {
	*repository.MemorySummaryCache
	hits, sets, invalidations int
}

func newCountingCache() *countingCache {
	return &countingCache{MemorySummaryCache: repository.NewMemorySummaryCache()}
}

func (c *countingCache) Get(ctx context.Context, runID string, preset models.PresetMode) (models.RunSummary, bool, error) {
	s, ok, err := c.MemorySummaryCache.Get(ctx, runID, preset)
	if ok {
		c.hits++
	}
	return s, ok, err
}

func (c *countingCache) Set(ctx context.Context, s models.RunSummary) error {
	c.sets++
	return c.MemorySummaryCache.Set(ctx, s)
}

func (c *countingCache) Invalidate(ctx context.Context, runID string) error {
	c.invalidations++
	return c.MemorySummaryCache.Invalidate(ctx, runID)
}

var testLimits = config.GeneratorConfig{MaxRecords: 10_000, PageSize: 100}

func int64Ptr(v int64) *int64 { return &v }

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type genFixture struct {
	svc      *GenerationService
	runs     *fakeRunRepo
	settings *fakeSettingsRepo
	events   *fakeEventRepo
	cache    *countingCache
}

func newGenFixture() *genFixture {
	f := &genFixture{
		runs:     newFakeRunRepo(),
		settings: &fakeSettingsRepo{},
		events:   &fakeEventRepo{},
		cache:    newCountingCache(),
	}
	f.svc = NewGenerationService(f.runs, f.settings, f.events, f.cache, testLimits, logger.Nop())
	ids := 0
	f.svc.newID = func() string { ids++; return fmt.Sprintf("run-%d", ids) }
	f.svc.now = func() time.Time { return time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC) }
	return f
}
