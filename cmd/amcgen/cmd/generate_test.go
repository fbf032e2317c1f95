package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"amc_simulator/internal/generator"
	"amc_simulator/internal/models"

	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestGenerate_CSVToStdout(t *testing.T) {
	out, errOut, err := execute(t, "generate", "--days", "1", "--interval", "60", "--start", "2024-01-01", "--seed", "7")
	if err != nil {
		t.Fatalf("generate: %v (stderr=%s)", err, errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 25 {
		t.Fatalf("got %d lines, want header + 24", len(lines))
	}
	if !strings.HasPrefix(lines[0], "\uFEFFNo,Date,Time") {
		t.Fatalf("header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], `1,"2024/1/1","00:00:00"`) {
		t.Fatalf("first row %q", lines[1])
	}
	if !strings.Contains(errOut, "seed=7 records=24") {
		t.Fatalf("stderr %q", errOut)
	}
}

func TestGenerate_SameSeedSameOutput(t *testing.T) {
	args := []string{"generate", "--days", "2", "--interval", "15", "--mode", "mixed", "--ratio", "30", "--start", "2024-03-01", "--seed", "123", "--format", "jsonl"}
	first, _, err := execute(t, args...)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, _, err := execute(t, args...)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != second {
		t.Fatalf("same seed produced different output")
	}
	var rec models.SensorRecord
	if err := json.Unmarshal([]byte(strings.SplitN(first, "\n", 2)[0]), &rec); err != nil || rec.No != 1 {
		t.Fatalf("first jsonl line: %+v (%v)", rec, err)
	}
}

func TestGenerate_ConfigFileWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "run.xlsx")
	cfgPath := filepath.Join(dir, "run.yml")
	cfg := `day_count: 3
start_date: "2024-05-01"
interval_minutes: 120
quality_mode: with_anomaly
anomaly_ratio: 0
seed: 11
output: ` + out + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// --days overrides the file; the format follows the output extension.
	_, errOut, err := execute(t, "generate", "--config", cfgPath, "--days", "1")
	if err != nil {
		t.Fatalf("generate: %v (stderr=%s)", err, errOut)
	}
	if !strings.Contains(errOut, "seed=11 records=12") {
		t.Fatalf("stderr %q", errOut)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Records")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 13 || rows[1][1] != "2024/5/1" {
		t.Fatalf("unexpected records sheet: %d rows, first %v", len(rows), rows[1])
	}
}

func TestGenerate_JSONConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "run.json")
	if err := os.WriteFile(cfgPath, []byte(`{"day_count":1,"interval_minutes":720,"quality_mode":"normal","seed":5,"format":"jsonl"}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, _, err := execute(t, "generate", "--config", cfgPath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if n := strings.Count(out, "\n"); n != 2 {
		t.Fatalf("got %d jsonl lines", n)
	}
}

func TestGenerate_Summary(t *testing.T) {
	_, errOut, err := execute(t, "generate", "--days", "1", "--interval", "30", "--seed", "3", "--summary", "--preset", "strict", "-o", "-")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	i := strings.Index(errOut, "{")
	if i < 0 {
		t.Fatalf("no summary in %q", errOut)
	}
	var sum models.RunSummary
	if err := json.Unmarshal([]byte(errOut[i:]), &sum); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 48 || sum.Preset != models.PresetStrict || len(sum.Correlation) != len(sum.CorrelationFields) {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestGenerate_Invalid(t *testing.T) {
	if _, _, err := execute(t, "generate", "--interval", "0", "--seed", "1"); !errors.Is(err, generator.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, _, err := execute(t, "generate", "--seed", "1", "--format", "pdf"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if _, _, err := execute(t, "generate", "--seed", "1", "--start", "someday"); err == nil {
		t.Fatalf("expected start date error")
	}
	if _, _, err := execute(t, "generate", "--config", filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected missing config error")
	}
}

func TestGenerate_RecordCeiling(t *testing.T) {
	_, _, err := execute(t, "generate", "--days", "100000", "--interval", "1", "--seed", "1")
	if !errors.Is(err, errTooManyRecords) {
		t.Fatalf("expected errTooManyRecords, got %v", err)
	}

	// 2 days hourly is 48 records.
	if _, _, err := execute(t, "generate", "--days", "2", "--interval", "60", "--seed", "1", "--max-records", "47"); !errors.Is(err, errTooManyRecords) {
		t.Fatalf("expected errTooManyRecords at 48 > 47, got %v", err)
	}
	out, _, err := execute(t, "generate", "--days", "2", "--interval", "60", "--seed", "1", "--max-records", "48")
	if err != nil {
		t.Fatalf("48 records at limit 48: %v", err)
	}
	if n := strings.Count(out, "\n"); n != 49 {
		t.Fatalf("lines=%d, want 49", n)
	}

	path := filepath.Join(t.TempDir(), "run.yml")
	if err := os.WriteFile(path, []byte("day_count: 1\ninterval_minutes: 60\nmax_records: 10\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "generate", "--config", path, "--seed", "1"); !errors.Is(err, errTooManyRecords) {
		t.Fatalf("expected file limit to apply, got %v", err)
	}
	if _, _, err := execute(t, "generate", "--config", path, "--seed", "1", "--max-records", "24"); err != nil {
		t.Fatalf("flag should override file limit: %v", err)
	}

	if _, _, err := execute(t, "generate", "--seed", "1", "--max-records", "0"); err == nil {
		t.Fatalf("expected non-positive limit error")
	}
}

func TestPresets(t *testing.T) {
	out, _, err := execute(t, "presets", "-o", "json")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	var entries []presetEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != len(models.PresetModes()) || entries[2].Mode != models.PresetStrict || entries[2].Parameters.OutletTOCThreshold != 1.5 {
		t.Fatalf("unexpected presets %+v", entries)
	}

	out, _, err = execute(t, "presets")
	if err != nil || !strings.Contains(out, "mode: loose") {
		t.Fatalf("yaml output %q (%v)", out, err)
	}

	if _, _, err := execute(t, "presets", "-o", "xml"); err == nil {
		t.Fatalf("expected unsupported output error")
	}
}
