// Package export writes stored results as CSV, XLSX or JSON.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/filelock"
	"github.com/mindcheck/mindcheck/internal/store"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat accepts csv, xlsx or json in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q: format must be csv, xlsx or json", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	return f, err == nil
}

// Record is one exported result.
type Record struct {
	AttemptID         string      `json:"attempt_id"`
	AssessmentID      string      `json:"assessment_id"`
	AssessmentTitle   string      `json:"assessment_title"`
	AssessmentVersion string      `json:"assessment_version"`
	TakenAt           time.Time   `json:"taken_at"`
	TotalScore        int         `json:"total_score"`
	MaxScore          int         `json:"max_score"`
	Level             string      `json:"level"`
	LevelLabel        string      `json:"level_label"`
	LevelRank         int         `json:"level_rank"`
	Alerts            []string    `json:"alerts"`
	Note              string      `json:"note,omitempty"`
	Answers           map[int]int `json:"answers"`
}

// Records converts stored results, filling titles from the catalog. Results
// for assessments the catalog no longer knows keep their id as title.
func Records(results []store.Result, cat *assessment.Catalog) []Record {
	out := make([]Record, 0, len(results))
	for _, r := range results {
		title := r.AssessmentID
		if cat != nil && cat.Has(r.AssessmentID) {
			title = cat.Get(r.AssessmentID).Title
		}
		alerts := r.Alerts
		if alerts == nil {
			alerts = []string{}
		}
		out = append(out, Record{
			AttemptID:         r.AttemptID,
			AssessmentID:      r.AssessmentID,
			AssessmentTitle:   title,
			AssessmentVersion: r.AssessmentVersion,
			TakenAt:           r.TakenAt.UTC(),
			TotalScore:        r.TotalScore,
			MaxScore:          r.MaxScore,
			Level:             r.Level,
			LevelLabel:        r.LevelLabel,
			LevelRank:         r.LevelRank,
			Alerts:            alerts,
			Note:              r.Note,
			Answers:           r.Answers,
		})
	}
	return out
}

var header = []string{
	"attempt_id",
	"assessment_id",
	"assessment_title",
	"assessment_version",
	"taken_at",
	"total_score",
	"max_score",
	"level",
	"level_label",
	"alerts",
	"note",
	"answers",
}

func (r Record) row() []string {
	return []string{
		r.AttemptID,
		r.AssessmentID,
		r.AssessmentTitle,
		r.AssessmentVersion,
		r.TakenAt.Format(time.RFC3339),
		strconv.Itoa(r.TotalScore),
		strconv.Itoa(r.MaxScore),
		r.Level,
		r.LevelLabel,
		strings.Join(r.Alerts, " | "),
		r.Note,
		FormatAnswers(r.Answers),
	}
}

// FormatAnswers renders answers as "1=2;2=0;..." in question order.
func FormatAnswers(answers map[int]int) string {
	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d=%d", id, answers[id])
	}
	return strings.Join(parts, ";")
}

// Write encodes records to w in the given format.
func Write(w io.Writer, f Format, recs []Record) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, recs)
	case FormatJSON:
		return WriteJSON(w, recs)
	case FormatXLSX:
		return WriteXLSX(w, recs)
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
}

// WriteFile encodes records and atomically replaces path.
func WriteFile(path string, f Format, recs []Record) error {
	var buf bytes.Buffer
	if err := Write(&buf, f, recs); err != nil {
		return err
	}
	return filelock.AtomicWrite(path, buf.Bytes())
}

func WriteJSON(w io.Writer, recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, r := range recs {
		if err := cw.Write(r.row()); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SheetName is the worksheet holding exported results.
const SheetName = "Results"

// WriteXLSX writes a workbook with one header row and one row per record.
// Scores are numeric cells; the header is bold and frozen.
func WriteXLSX(w io.Writer, recs []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.AttemptID,
			r.AssessmentID,
			r.AssessmentTitle,
			r.AssessmentVersion,
			r.TakenAt.Format(time.RFC3339),
			r.TotalScore,
			r.MaxScore,
			r.Level,
			r.LevelLabel,
			strings.Join(r.Alerts, " | "),
			r.Note,
			FormatAnswers(r.Answers),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode XLSX: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}
