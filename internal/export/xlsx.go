package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"amc_simulator/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	recordsSheet = "Records"

	dateTimeNumFmt = "yyyy-mm-dd hh:mm:ss"
)

// ErrTooManyRows is returned when a run does not fit in one worksheet.
var ErrTooManyRows = errors.New("run exceeds the worksheet row limit")

// BuildWorkbook renders a run into a workbook with a summary sheet and a
// records sheet. The caller owns the returned file and must Close it.
func BuildWorkbook(run models.Run, recs []models.SensorRecord) (*excelize.File, error) {
	if len(recs)+1 > excelize.TotalRows {
		return nil, fmt.Errorf("%w: %d records", ErrTooManyRows, len(recs))
	}

	f := excelize.NewFile()
	f.SetDocProps(&excelize.DocProperties{
		Category:    "AMC filtration simulation",
		Created:     run.CreatedAt.Format(time.RFC3339),
		Creator:     "amc_simulator",
		Description: "Synthetic filtration line sensor records",
		Title:       "AMC test data " + run.ID,
	})

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeSummarySheet(f, run); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeRecordsSheet(f, recs); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("records sheet: %w", err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteXLSX streams the workbook for run to w.
func WriteXLSX(w io.Writer, run models.Run, recs []models.SensorRecord) error {
	f, err := BuildWorkbook(run, recs)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}

func headerStyle(f *excelize.File, fill string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}

func writeSummarySheet(f *excelize.File, run models.Run) error {
	style, err := headerStyle(f, "4472C4")
	if err != nil {
		return err
	}
	cfg := run.Config
	rows := [][]any{
		{"AMC filtration test data", ""},
		{"Run ID", run.ID},
		{"Generated At", run.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Start Date", cfg.StartDate.Format("2006-01-02 15:04:05")},
		{"Days", cfg.DayCount},
		{"Interval (min)", cfg.IntervalMinutes},
		{"Quality Mode", string(cfg.QualityMode)},
		{"Anomaly Ratio (%)", cfg.AnomalyRatio},
		{"Seed", cfg.Seed},
		{"Total Records", run.Total},
		{"Pass", run.PassCount},
		{"Fail", run.FailCount},
		{"Pass Rate (%)", fmt.Sprintf("%.1f", run.PassRate())},
		{"Anomalies", run.AnomalyCount},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", style); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "B", 24)
}

func writeRecordsSheet(f *excelize.File, recs []models.SensorRecord) error {
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return err
	}
	style, err := headerStyle(f, "70AD47")
	if err != nil {
		return err
	}
	numFmt := dateTimeNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(recordsSheet)
	if err != nil {
		return err
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: style}); err != nil {
		return err
	}
	for i, rec := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		// DateTime is a real date cell when the record carries its timestamp.
		var dateTime any = rec.DateTime
		if !rec.Timestamp.IsZero() {
			dateTime = excelize.Cell{StyleID: dateStyle, Value: rec.Timestamp}
		}
		values := []any{
			rec.No, rec.Date, rec.Time, dateTime, rec.SN, rec.Shift,
			rec.Feature1, rec.Feature2,
			rec.InletTOC, rec.OutletTOC, rec.PressureDiff, rec.FlowRate,
			rec.Temperature, rec.Humidity,
			string(rec.Result), rec.AgingFactor, rec.IsAnomaly,
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	return sw.Flush()
}
