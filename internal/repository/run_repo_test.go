package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"amc_simulator/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRunRepo(t *testing.T) (*RunSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewRunSQLite(db), mock
}

func sampleRun() (models.Run, []models.SensorRecord) {
	run := models.Run{
		ID:        "run-1",
		CreatedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		CreatedBy: 3,
		Config: models.GenerationConfig{
			DayCount: 1, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			IntervalMinutes: 720, QualityMode: models.QualityWithAnomaly, AnomalyRatio: 50, Seed: 7,
		},
		Total: 2, PassCount: 1, FailCount: 1, AnomalyCount: 1,
	}
	recs := []models.SensorRecord{
		{
			No: 1, Date: "2024/1/1", Time: "00:00:00", DateTime: "2024-01-01 00:00:00", SN: "AMC1000",
			Shift: "A", Feature1: 1, Feature2: "off", InletTOC: 10.1, OutletTOC: 2.1, PressureDiff: 60.2,
			FlowRate: 0.5, Temperature: 23, Humidity: 43, Result: models.ResultPass,
		},
		{
			No: 2, Date: "2024/1/1", Time: "12:00:00", DateTime: "2024-01-01 12:00:00", SN: "AMC1001",
			Shift: "D", Feature1: 3, Feature2: "on", InletTOC: 9.9, OutletTOC: 4.5, PressureDiff: 61,
			FlowRate: 0.49, Temperature: 23.4, Humidity: 44, Result: models.ResultFail,
			IsAnomaly: true, AnomalyKind: models.AnomalyTOCSpike,
		},
	}
	return run, recs
}

func recordArgs(runID string, r models.SensorRecord) []driver.Value {
	return []driver.Value{
		runID, r.No, r.Date, r.Time, r.DateTime, r.SN, r.Shift, r.Feature1, r.Feature2,
		r.InletTOC, r.OutletTOC, r.PressureDiff, r.FlowRate, r.Temperature, r.Humidity,
		string(r.Result), r.AgingFactor, r.IsAnomaly, r.AnomalyKind,
	}
}

func TestRunCreate_CommitsRunAndRecords(t *testing.T) {
	repo, mock := newRunRepo(t)
	run, recs := sampleRun()
	cfgJSON, _ := json.Marshal(run.Config)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertRunSQL)).
		WithArgs(run.ID, run.CreatedAt, 3, string(cfgJSON), 2, 1, 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertRecordSQL))
	for _, r := range recs {
		prep.ExpectExec().WithArgs(recordArgs(run.ID, r)...).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), run, recs); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestRunCreate_RecordFailureRollsBack(t *testing.T) {
	repo, mock := newRunRepo(t)
	run, recs := sampleRun()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertRunSQL)).WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertRecordSQL))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), run, recs)
	if err == nil || !regexp.MustCompile(`insert record 2 of run run-1`).MatchString(err.Error()) {
		t.Fatalf("Create err=%v", err)
	}
}

func TestRunCreate_RunInsertFailureRollsBack(t *testing.T) {
	repo, mock := newRunRepo(t)
	run, recs := sampleRun()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertRunSQL)).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	if err := repo.Create(context.Background(), run, recs); err == nil {
		t.Fatal("expected error")
	}
}

var runColumns = []string{"id", "created_at", "created_by", "config", "total", "pass_count", "fail_count", "anomaly_count"}

func TestRunGet(t *testing.T) {
	repo, mock := newRunRepo(t)
	run, _ := sampleRun()
	cfgJSON, _ := json.Marshal(run.Config)

	mock.ExpectQuery(regexp.QuoteMeta(selectRunSQL)).
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows(runColumns).AddRow("run-1", run.CreatedAt, 3, string(cfgJSON), 2, 1, 1, 1))

	got, err := repo.Get(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, run) {
		t.Fatalf("Get mismatch\n got %+v\nwant %+v", got, run)
	}
}

func TestRunGet_NotFound(t *testing.T) {
	repo, mock := newRunRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectRunSQL)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(runColumns))

	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestRunList_UnlimitedUsesMinusOne(t *testing.T) {
	repo, mock := newRunRepo(t)
	run, _ := sampleRun()
	cfgJSON, _ := json.Marshal(run.Config)

	mock.ExpectQuery(regexp.QuoteMeta(selectRunsSQL)).
		WithArgs(-1, 0).
		WillReturnRows(sqlmock.NewRows(runColumns).
			AddRow("run-2", run.CreatedAt.Add(time.Hour), 0, string(cfgJSON), 2, 2, 0, 0).
			AddRow("run-1", run.CreatedAt, 3, string(cfgJSON), 2, 1, 1, 1))

	got, err := repo.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "run-2" || got[1].Config.Seed != 7 {
		t.Fatalf("List=%+v", got)
	}
}

var recordColumns = []string{
	"no", "date", "time", "date_time", "sn", "shift", "feature1", "feature2",
	"inlet_toc", "outlet_toc", "pressure_diff", "flow_rate", "temperature", "humidity",
	"result", "aging_factor", "is_anomaly", "anomaly_kind",
}

func TestRunRecords_Page(t *testing.T) {
	repo, mock := newRunRepo(t)
	_, recs := sampleRun()

	rows := sqlmock.NewRows(recordColumns)
	for _, r := range recs {
		rows.AddRow(recordArgs("", r)[1:]...)
	}
	mock.ExpectQuery(regexp.QuoteMeta(selectPageSQL)).
		WithArgs("run-1", 100, 0).
		WillReturnRows(rows)

	got, err := repo.Records(context.Background(), "run-1", 0, 100)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	want := recs
	want[0].Timestamp = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	want[1].Timestamp = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Records mismatch\n got %+v\nwant %+v", got, want)
	}
}

func TestRunDelete(t *testing.T) {
	repo, mock := newRunRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(deleteRunSQL)).WithArgs("run-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteRunSQL)).WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "run-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete missing err=%v", err)
	}
}

func TestRunDeleteOlderThanAndPurge(t *testing.T) {
	repo, mock := newRunRepo(t)
	cutoff := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(deleteRunsOlderSQL)).WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(deleteAllRunsSQL)).WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteOlderThan(context.Background(), cutoff)
	if err != nil || n != 4 {
		t.Fatalf("DeleteOlderThan=%d,%v", n, err)
	}
	n, err = repo.Purge(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("Purge=%d,%v", n, err)
	}
}
