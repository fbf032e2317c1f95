// Package export serializes generated records for download.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"amc_simulator/internal/models"
)

// utf8BOM lets spreadsheet tools detect the encoding.
const utf8BOM = "\uFEFF"

// Columns is the header row shared by the CSV and XLSX exports.
var Columns = []string{
	"No", "Date", "Time", "DateTime", "SN", "Shift", "Feature1", "Feature2",
	"Inlet_TOC", "Outlet_TOC", "Pressure_Diff", "Flow_Rate", "Temperature", "Humidity",
	"Result", "Aging_Factor", "Is_Anomaly",
}

// Format is an export file type.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
	FormatJSONL Format = "jsonl"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSONL:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSONL:
		return "application/x-ndjson"
	default:
		return "text/csv; charset=utf-8"
	}
}

// FileName builds the download name, e.g. AMC_data_2024-01-01.csv.
func FileName(f Format, at time.Time) string {
	return fmt.Sprintf("AMC_data_%s.%s", at.Format("2006-01-02"), f)
}

// row renders rec in column order; quoted marks the string-typed cells.
func row(rec models.SensorRecord) (cells []string, quoted []bool) {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	cells = []string{
		strconv.Itoa(rec.No), rec.Date, rec.Time, rec.DateTime, rec.SN, rec.Shift,
		strconv.Itoa(rec.Feature1), rec.Feature2,
		f(rec.InletTOC), f(rec.OutletTOC), f(rec.PressureDiff), f(rec.FlowRate),
		f(rec.Temperature), f(rec.Humidity),
		string(rec.Result), f(rec.AgingFactor), strconv.FormatBool(rec.IsAnomaly),
	}
	quoted = []bool{
		false, true, true, true, true, true, false, true,
		false, false, false, false, false, false,
		true, false, false,
	}
	return cells, quoted
}

// WriteCSV writes a BOM, the header row and one line per record. String
// fields are always quoted, numbers and booleans never.
func WriteCSV(w io.Writer, recs []models.SensorRecord) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM + strings.Join(Columns, ",") + "\n"); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range recs {
		cells, quoted := row(rec)
		for i, c := range cells {
			if quoted[i] {
				cells[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
			}
		}
		if _, err := bw.WriteString(strings.Join(cells, ",") + "\n"); err != nil {
			return fmt.Errorf("write csv record %d: %w", rec.No, err)
		}
	}
	return bw.Flush()
}

// WriteJSONLines writes one JSON object per record.
func WriteJSONLines(w io.Writer, recs []models.SensorRecord) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, rec := range recs {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %d: %w", rec.No, err)
		}
	}
	return bw.Flush()
}

// Write dispatches on f.
func Write(w io.Writer, f Format, run models.Run, recs []models.SensorRecord) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, recs)
	case FormatXLSX:
		return WriteXLSX(w, run, recs)
	case FormatJSONL:
		return WriteJSONLines(w, recs)
	}
	return fmt.Errorf("unsupported export format %q", f)
}
