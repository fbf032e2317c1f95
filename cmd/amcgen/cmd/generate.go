package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"amc_simulator/internal/analysis"
	"amc_simulator/internal/config"
	"amc_simulator/internal/export"
	"amc_simulator/internal/generator"
	"amc_simulator/internal/logger"
	"amc_simulator/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// errTooManyRecords is returned before generation when a run would exceed
// the record ceiling.
var errTooManyRecords = errors.New("too many records requested")

type generateOptions struct {
	config   string
	days     int
	start    string
	interval int
	mode     string
	ratio    int
	seed     int64
	format   string
	output   string
	summary  bool
	preset   string
	verbose  bool
	maxRecs  int
}

// NewGenerateCmd builds `amcgen generate`.
func NewGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate a run and write it to a file",
		Long: `Generates one run of synthetic filtration line records.

Settings come from --config (YAML or JSON) and are overridden by any flag set
explicitly. Without --seed a fresh seed is drawn and printed so the run can be
reproduced. The output format follows --format, then the output file
extension, then defaults to csv.`,
		Example: `  amcgen generate --days 7 --interval 30 --mode mixed --seed 42 -o run.csv
  amcgen generate --config run.yml --summary`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runGenerate(c, opts)
		},
	}
	f := c.Flags()
	f.StringVar(&opts.config, "config", "", "Path to a YAML or JSON generation config")
	f.IntVar(&opts.days, "days", 7, "Number of simulated days")
	f.StringVar(&opts.start, "start", "", "First timestamp (RFC3339 or YYYY-MM-DD); defaults to today 00:00 UTC")
	f.IntVar(&opts.interval, "interval", 30, "Minutes between samples")
	f.StringVar(&opts.mode, "mode", string(models.QualityNormal), "Quality mode: normal, with_anomaly, severe_anomaly, mixed")
	f.IntVar(&opts.ratio, "ratio", 10, "Anomaly probability in percent")
	f.Int64Var(&opts.seed, "seed", 0, "Random seed; omitted draws a fresh one")
	f.StringVar(&opts.format, "format", "", "Output format: csv, xlsx, jsonl")
	f.StringVarP(&opts.output, "output", "o", "", "Output file; '-' or empty writes to stdout")
	f.BoolVar(&opts.summary, "summary", false, "Print an analysis summary to stderr")
	f.StringVar(&opts.preset, "preset", string(models.PresetStandard), "Preset the summary is scored against")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")
	f.IntVar(&opts.maxRecs, "max-records", config.DefaultMaxRecords, "Refuse runs larger than this many records")
	return c
}

// resolved is a fully merged generate invocation.
type resolved struct {
	cfg    models.GenerationConfig
	format export.Format
	output string
	preset models.PresetMode
}

// resolve merges file settings and explicitly set flags; flags win.
func resolve(c *cobra.Command, opts *generateOptions, now time.Time) (resolved, error) {
	var fc fileConfig
	if opts.config != "" {
		var err error
		if fc, err = loadFileConfig(opts.config); err != nil {
			return resolved{}, err
		}
	}
	flags := c.Flags()
	pick := func(name string, fromFile bool) bool { return flags.Changed(name) || !fromFile }

	out := resolved{}
	cfg := &out.cfg

	if pick("days", fc.DayCount != 0) {
		cfg.DayCount = opts.days
	} else {
		cfg.DayCount = fc.DayCount
	}
	if pick("interval", fc.IntervalMinutes != 0) {
		cfg.IntervalMinutes = opts.interval
	} else {
		cfg.IntervalMinutes = fc.IntervalMinutes
	}
	if pick("mode", fc.QualityMode != "") {
		cfg.QualityMode = parseQualityMode(opts.mode)
	} else {
		cfg.QualityMode = parseQualityMode(fc.QualityMode)
	}
	if pick("ratio", fc.AnomalyRatio != nil) {
		cfg.AnomalyRatio = opts.ratio
	} else {
		cfg.AnomalyRatio = *fc.AnomalyRatio
	}

	start := fc.StartDate
	if flags.Changed("start") {
		start = opts.start
	}
	if start == "" {
		y, m, d := now.UTC().Date()
		cfg.StartDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	} else {
		t, err := parseStartDate(start)
		if err != nil {
			return resolved{}, err
		}
		cfg.StartDate = t
	}

	switch {
	case flags.Changed("seed"):
		cfg.Seed = opts.seed
	case fc.Seed != nil:
		cfg.Seed = *fc.Seed
	default:
		cfg.Seed = now.UnixNano()
	}

	out.output = fc.Output
	if flags.Changed("output") {
		out.output = opts.output
	}

	format := fc.Format
	if flags.Changed("format") {
		format = opts.format
	}
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(out.output), ".")
	}
	if format == "" {
		format = string(export.FormatCSV)
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return resolved{}, err
	}
	out.format = f

	preset := fc.Preset
	if preset == "" || flags.Changed("preset") {
		preset = opts.preset
	}
	out.preset = models.PresetMode(strings.ToLower(strings.TrimSpace(preset)))

	if err := generator.Validate(out.cfg); err != nil {
		return resolved{}, err
	}

	limit := opts.maxRecs
	if fc.MaxRecords != 0 && !flags.Changed("max-records") {
		limit = fc.MaxRecords
	}
	if limit <= 0 {
		return resolved{}, fmt.Errorf("max-records must be positive, got %d", limit)
	}
	if total := generator.TotalRecords(out.cfg); total > limit {
		return resolved{}, fmt.Errorf("%w: %d days at %d min is %d records, limit is %d (raise --max-records)",
			errTooManyRecords, out.cfg.DayCount, out.cfg.IntervalMinutes, total, limit)
	}
	return out, nil
}

func runGenerate(c *cobra.Command, opts *generateOptions) error {
	level := logger.WarnLevel
	if opts.verbose {
		level = logger.DebugLevel
	}
	log := logger.NewWithWriter(level, logger.ConsoleEncoding, c.ErrOrStderr())

	now := time.Now()
	r, err := resolve(c, opts, now)
	if err != nil {
		return err
	}
	params, ok := models.ApplyPreset(models.DefaultParameters, r.preset)
	if !ok {
		return fmt.Errorf("unknown preset %q", r.preset)
	}

	started := time.Now()
	recs, err := generator.Generate(c.Context(), r.cfg, nil)
	if err != nil {
		return err
	}
	log.Infow("run_generated", "records", len(recs), "seed", r.cfg.Seed, "elapsed", time.Since(started).String())

	run := models.Run{ID: uuid.NewString(), CreatedAt: now.UTC(), Config: r.cfg, Total: len(recs)}
	for _, rec := range recs {
		if rec.Result == models.ResultPass {
			run.PassCount++
		}
		if rec.IsAnomaly {
			run.AnomalyCount++
		}
	}
	run.FailCount = run.Total - run.PassCount

	if err := writeOutput(c.OutOrStdout(), r, run, recs); err != nil {
		return err
	}
	if r.output != "" && r.output != "-" {
		log.Infow("run_written", "path", r.output, "format", r.format)
	}

	fmt.Fprintf(c.ErrOrStderr(), "seed=%d records=%d pass=%d fail=%d anomalies=%d\n",
		r.cfg.Seed, run.Total, run.PassCount, run.FailCount, run.AnomalyCount)

	if opts.summary {
		sum := analysis.Summarize(run.ID, recs, r.preset, params)
		enc := json.NewEncoder(c.ErrOrStderr())
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}

func writeOutput(stdout io.Writer, r resolved, run models.Run, recs []models.SensorRecord) error {
	if r.output == "" || r.output == "-" {
		return export.Write(stdout, r.format, run, recs)
	}
	f, err := os.Create(r.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := export.Write(bw, r.format, run, recs); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", r.output, err)
	}
	return f.Close()
}
