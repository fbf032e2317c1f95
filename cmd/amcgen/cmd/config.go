package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"amc_simulator/internal/models"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk form of a generation request. JSON files are
// accepted too since they parse as YAML.
type fileConfig struct {
	DayCount        int    `yaml:"day_count"`
	StartDate       string `yaml:"start_date"`
	IntervalMinutes int    `yaml:"interval_minutes"`
	QualityMode     string `yaml:"quality_mode"`
	AnomalyRatio    *int   `yaml:"anomaly_ratio"`
	Seed            *int64 `yaml:"seed"`
	Format          string `yaml:"format"`
	Output          string `yaml:"output"`
	Preset          string `yaml:"preset"`
	MaxRecords      int    `yaml:"max_records"`
}

func loadFileConfig(path string) (fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseStartDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start date %q: use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}

func parseQualityMode(s string) models.QualityMode {
	return models.QualityMode(strings.ToLower(strings.TrimSpace(s)))
}
