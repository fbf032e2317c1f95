package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"amc_simulator/internal/generator"
	"amc_simulator/internal/models"
	"amc_simulator/internal/repository"
)

func validRequest() GenerateRequest {
	return GenerateRequest{
		DayCount:        2,
		StartDate:       jan1,
		IntervalMinutes: 60,
		QualityMode:     models.QualityMixed,
		AnomalyRatio:    25,
		Seed:            int64Ptr(42),
	}
}

func TestGenerationService_Generate_StoresRunAndRecords(t *testing.T) {
	f := newGenFixture()

	run, err := f.svc.Generate(context.Background(), 7, validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if run.ID != "run-1" || run.CreatedBy != 7 || run.Total != 48 {
		t.Fatalf("unexpected run %+v", run)
	}
	if run.PassCount+run.FailCount != run.Total {
		t.Fatalf("pass %d + fail %d != total %d", run.PassCount, run.FailCount, run.Total)
	}

	stored := f.runs.records[run.ID]
	if len(stored) != 48 {
		t.Fatalf("stored %d records", len(stored))
	}
	want, err := generator.Generate(context.Background(), run.Config, nil)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	if !reflect.DeepEqual(stored, want) {
		t.Fatalf("stored records differ from a direct generation with the same seed")
	}

	var pass, anomalies int
	for _, r := range stored {
		if r.Result == models.ResultPass {
			pass++
		}
		if r.IsAnomaly {
			anomalies++
		}
	}
	if pass != run.PassCount || anomalies != run.AnomalyCount {
		t.Fatalf("counters mismatch: pass %d/%d anomalies %d/%d", pass, run.PassCount, anomalies, run.AnomalyCount)
	}

	if got := f.events.types(); !reflect.DeepEqual(got, []string{models.EventGenerate}) {
		t.Fatalf("events=%v", got)
	}
	if f.settings.saved == nil || f.settings.saved.Generation.Seed != 42 {
		t.Fatalf("generation config not remembered: %+v", f.settings.saved)
	}
	if f.settings.saved.Preset != models.PresetStandard {
		t.Fatalf("first save should start from defaults, preset=%q", f.settings.saved.Preset)
	}
}

func TestGenerationService_Generate_Defaults(t *testing.T) {
	f := newGenFixture()
	f.svc.newSeed = func() int64 { return 99 }

	req := validRequest()
	req.StartDate = time.Time{}
	req.Seed = nil

	run, err := f.svc.Generate(context.Background(), 0, req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if run.Config.Seed != 99 {
		t.Fatalf("seed=%d", run.Config.Seed)
	}
	if want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC); !run.Config.StartDate.Equal(want) {
		t.Fatalf("start=%v want %v", run.Config.StartDate, want)
	}
}

func TestGenerationService_Generate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GenerateRequest)
	}{
		{"zero days", func(r *GenerateRequest) { r.DayCount = 0 }},
		{"negative interval", func(r *GenerateRequest) { r.IntervalMinutes = -5 }},
		{"interval beyond a day", func(r *GenerateRequest) { r.IntervalMinutes = 1441 }},
		{"ratio above 100", func(r *GenerateRequest) { r.AnomalyRatio = 101 }},
		{"unknown mode", func(r *GenerateRequest) { r.QualityMode = "chaotic" }},
		{"over record limit", func(r *GenerateRequest) { r.DayCount = 1000; r.IntervalMinutes = 1 }},
		{"record count would wrap", func(r *GenerateRequest) { r.DayCount = 1 << 62; r.IntervalMinutes = 1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newGenFixture()
			req := validRequest()
			tc.mutate(&req)

			_, err := f.svc.Generate(context.Background(), 1, req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if len(f.runs.runs) != 0 || len(f.events.appended) != 0 {
				t.Fatalf("nothing should be stored on invalid input")
			}
		})
	}
}

func TestGenerationService_Generate_StoreFailure(t *testing.T) {
	f := newGenFixture()
	f.runs.createErr = errors.New("disk full")

	_, err := f.svc.Generate(context.Background(), 1, validRequest())
	if !errors.Is(err, f.runs.createErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if got := f.events.types(); !reflect.DeepEqual(got, []string{models.EventError}) {
		t.Fatalf("events=%v", got)
	}
	if f.settings.saves != 0 {
		t.Fatalf("settings must not change on failure")
	}
}

func TestGenerationService_Records_Paging(t *testing.T) {
	f := newGenFixture()
	ctx := context.Background()
	run, err := f.svc.Generate(ctx, 1, validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	page, err := f.svc.Records(ctx, run.ID, 3, 20)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if page.Total != 48 || page.Page != 3 || page.PageSize != 20 || len(page.Records) != 8 {
		t.Fatalf("unexpected page %+v (len %d)", page, len(page.Records))
	}
	if page.Records[0].No != 41 {
		t.Fatalf("first record of page 3 is No %d", page.Records[0].No)
	}

	def, err := f.svc.Records(ctx, run.ID, 1, 0)
	if err != nil {
		t.Fatalf("Records default size: %v", err)
	}
	if def.PageSize != testLimits.PageSize || len(def.Records) != 48 {
		t.Fatalf("default page %+v", def.PageSize)
	}

	for _, bad := range []struct{ page, size int }{{0, 10}, {1, -1}, {1, maxPageSize + 1}} {
		if _, err := f.svc.Records(ctx, run.ID, bad.page, bad.size); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("page=%d size=%d: expected ErrInvalidInput, got %v", bad.page, bad.size, err)
		}
	}

	if _, err := f.svc.Records(ctx, "missing", 1, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerationService_List(t *testing.T) {
	f := newGenFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := f.svc.Generate(ctx, 1, validRequest()); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	}
	runs, err := f.svc.List(ctx, 2, 0)
	if err != nil || len(runs) != 2 {
		t.Fatalf("List: %v, %d runs", err, len(runs))
	}
	if _, err := f.svc.List(ctx, -1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGenerationService_Delete(t *testing.T) {
	f := newGenFixture()
	ctx := context.Background()
	run, err := f.svc.Generate(ctx, 1, validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := f.cache.Set(ctx, models.RunSummary{RunID: run.ID, Preset: models.PresetStandard}); err != nil {
		t.Fatalf("cache set: %v", err)
	}

	if err := f.svc.Delete(ctx, run.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, run.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("run still present: %v", err)
	}
	if _, ok, _ := f.cache.Get(ctx, run.ID, models.PresetStandard); ok {
		t.Fatalf("cached summary survived delete")
	}
	if got := f.events.types(); !reflect.DeepEqual(got, []string{models.EventGenerate, models.EventDelete}) {
		t.Fatalf("events=%v", got)
	}

	if err := f.svc.Delete(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestGenerationService_AllRecords(t *testing.T) {
	f := newGenFixture()
	ctx := context.Background()
	run, err := f.svc.Generate(ctx, 1, validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got, recs, err := f.svc.AllRecords(ctx, run.ID)
	if err != nil {
		t.Fatalf("AllRecords: %v", err)
	}
	if got.ID != run.ID || len(recs) != run.Total {
		t.Fatalf("run %s with %d records", got.ID, len(recs))
	}
}
