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

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite {
	return &SettingsSQLite{db: db}
}

var _ SettingsRepo = (*SettingsSQLite)(nil)

const (
	settingsRowID = 1

	upsertSettingsSQL = `
		INSERT INTO settings (id, preset, parameters, generation, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			preset=excluded.preset,
			parameters=excluded.parameters,
			generation=excluded.generation,
			updated_at=excluded.updated_at
	`

	selectSettingsSQL = `
		SELECT id, preset, parameters, generation, updated_at
		FROM settings WHERE id=?
	`
)

// Save upserts the settings row (id always 1).
func (r *SettingsSQLite) Save(ctx context.Context, s models.Settings) error {
	params, err := json.Marshal(s.Parameters)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}
	gen, err := json.Marshal(s.Generation)
	if err != nil {
		return fmt.Errorf("marshal generation config: %w", err)
	}

	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	if _, err := r.db.ExecContext(ctx, upsertSettingsSQL,
		settingsRowID,
		string(s.Preset),
		string(params),
		string(gen),
		ts,
	); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// Load fetches the settings row. found is false until the first Save.
func (r *SettingsSQLite) Load(ctx context.Context) (s models.Settings, found bool, err error) {
	var (
		preset, params, gen string
	)
	if err := r.db.QueryRowContext(ctx, selectSettingsSQL, settingsRowID).Scan(
		&s.ID,
		&preset,
		&params,
		&gen,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Settings{}, false, nil
		}
		return models.Settings{}, false, fmt.Errorf("select settings: %w", err)
	}

	s.Preset = models.PresetMode(preset)
	if err := json.Unmarshal([]byte(params), &s.Parameters); err != nil {
		return models.Settings{}, false, fmt.Errorf("decode parameters: %w", err)
	}
	if err := json.Unmarshal([]byte(gen), &s.Generation); err != nil {
		return models.Settings{}, false, fmt.Errorf("decode generation config: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, true, nil
}
