package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"amc_simulator/internal/models"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

var _ RunRepo = (*RunSQLite)(nil)

const (
	insertRunSQL = `
		INSERT INTO runs (id, created_at, created_by, config, total, pass_count, fail_count, anomaly_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	insertRecordSQL = `
		INSERT INTO run_records (run_id, no, date, time, date_time, sn, shift, feature1, feature2,
			inlet_toc, outlet_toc, pressure_diff, flow_rate, temperature, humidity,
			result, aging_factor, is_anomaly, anomaly_kind)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRunColumns = `SELECT id, created_at, created_by, config, total, pass_count, fail_count, anomaly_count FROM runs`

	selectRunSQL  = selectRunColumns + ` WHERE id = ?`
	selectRunsSQL = selectRunColumns + ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	selectPageSQL = `
		SELECT no, date, time, date_time, sn, shift, feature1, feature2,
			inlet_toc, outlet_toc, pressure_diff, flow_rate, temperature, humidity,
			result, aging_factor, is_anomaly, anomaly_kind
		FROM run_records WHERE run_id = ? ORDER BY no LIMIT ? OFFSET ?
	`
	deleteRunSQL       = `DELETE FROM runs WHERE id = ?`
	deleteRunsOlderSQL = `DELETE FROM runs WHERE created_at < ?`
	deleteAllRunsSQL   = `DELETE FROM runs`
)

// Create stores run and its records in one transaction; either all rows
// land or none do.
func (r *RunSQLite) Create(ctx context.Context, run models.Run, recs []models.SensorRecord) (err error) {
	cfgJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("marshal run config: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.CreatedAt.UTC(),
		run.CreatedBy,
		string(cfgJSON),
		run.Total,
		run.PassCount,
		run.FailCount,
		run.AnomalyCount,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRecordSQL)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range recs {
		if _, err = stmt.ExecContext(ctx,
			run.ID, rec.No, rec.Date, rec.Time, rec.DateTime, rec.SN, rec.Shift,
			rec.Feature1, rec.Feature2,
			rec.InletTOC, rec.OutletTOC, rec.PressureDiff, rec.FlowRate,
			rec.Temperature, rec.Humidity,
			string(rec.Result), rec.AgingFactor, rec.IsAnomaly, rec.AnomalyKind,
		); err != nil {
			return fmt.Errorf("insert record %d of run %s: %w", rec.No, run.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (models.Run, error) {
	var (
		run     models.Run
		cfgJSON string
	)
	if err := s.Scan(&run.ID, &run.CreatedAt, &run.CreatedBy, &cfgJSON,
		&run.Total, &run.PassCount, &run.FailCount, &run.AnomalyCount); err != nil {
		return models.Run{}, err
	}
	if err := json.Unmarshal([]byte(cfgJSON), &run.Config); err != nil {
		return models.Run{}, fmt.Errorf("decode config of run %s: %w", run.ID, err)
	}
	run.CreatedAt = run.CreatedAt.UTC()
	return run, nil
}

// Get returns ErrNotFound when no run has the id.
func (r *RunSQLite) Get(ctx context.Context, id string) (models.Run, error) {
	run, err := scanRun(r.db.QueryRowContext(ctx, selectRunSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
		}
		return models.Run{}, fmt.Errorf("select run %s: %w", id, err)
	}
	return run, nil
}

// List returns runs newest first.
func (r *RunSQLite) List(ctx context.Context, limit, offset int) ([]models.Run, error) {
	rows, err := r.db.QueryContext(ctx, selectRunsSQL, sqlLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.Run, 0, 16)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Records returns up to limit records of run id starting at offset, in
// sample order. A non-positive limit returns everything from offset on.
func (r *RunSQLite) Records(ctx context.Context, id string, offset, limit int) ([]models.SensorRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectPageSQL, id, sqlLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("select records of run %s: %w", id, err)
	}
	defer rows.Close()

	capHint := limit
	if capHint <= 0 || capHint > 4096 {
		capHint = 4096
	}
	out := make([]models.SensorRecord, 0, capHint)
	for rows.Next() {
		var (
			rec    models.SensorRecord
			result string
		)
		if err := rows.Scan(&rec.No, &rec.Date, &rec.Time, &rec.DateTime, &rec.SN, &rec.Shift,
			&rec.Feature1, &rec.Feature2,
			&rec.InletTOC, &rec.OutletTOC, &rec.PressureDiff, &rec.FlowRate,
			&rec.Temperature, &rec.Humidity,
			&result, &rec.AgingFactor, &rec.IsAnomaly, &rec.AnomalyKind,
		); err != nil {
			return nil, fmt.Errorf("scan record of run %s: %w", id, err)
		}
		rec.Result = models.Result(result)
		if ts, err := time.ParseInLocation(dateTimeLayout, rec.DateTime, time.UTC); err == nil {
			rec.Timestamp = ts
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const dateTimeLayout = "2006-01-02 15:04:05"

// Delete removes a run and, through the foreign key, its records.
func (r *RunSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteRunSQL, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteOlderThan removes runs created before cutoff and reports how many.
func (r *RunSQLite) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.deleteWhere(ctx, deleteRunsOlderSQL, cutoff.UTC())
}

// Purge removes every run.
func (r *RunSQLite) Purge(ctx context.Context) (int64, error) {
	return r.deleteWhere(ctx, deleteAllRunsSQL)
}

func (r *RunSQLite) deleteWhere(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete runs rows affected: %w", err)
	}
	return n, nil
}

// sqlLimit maps "no limit" to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
